// Package main is the entry point for the buildexport CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/buildexport/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
