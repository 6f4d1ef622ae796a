// Package interpreter models the language runtimes available to the export
// and selects one for each node that needs a runtime.
package interpreter

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/buildexport/internal/version"
)

// Identity names an interpreter implementation and version.
type Identity struct {
	Implementation string
	Version        string
}

// ParseIdentity parses the "Implementation-Version" form, e.g. "CPython-2.7.13".
func ParseIdentity(s string) (Identity, error) {
	impl, ver, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok || impl == "" || !version.Valid(ver) {
		return Identity{}, fmt.Errorf("invalid interpreter identity %q: want Implementation-Version", s)
	}
	return Identity{Implementation: impl, Version: ver}, nil
}

// String returns the identity in "Implementation-Version" form.
func (id Identity) String() string {
	return id.Implementation + "-" + id.Version
}

// Interpreter is an installed runtime.
type Interpreter struct {
	Identity Identity
	Binary   string
}

// Compare orders interpreters by version, then implementation, then binary.
func Compare(a, b *Interpreter) int {
	if c := version.Compare(a.Identity.Version, b.Identity.Version); c != 0 {
		return c
	}
	if c := strings.Compare(a.Identity.Implementation, b.Identity.Implementation); c != 0 {
		return c
	}
	return strings.Compare(a.Binary, b.Binary)
}

// Min returns the smallest interpreter under Compare, or nil for an empty list.
func Min(interpreters []*Interpreter) *Interpreter {
	var lowest *Interpreter
	for _, interp := range interpreters {
		if lowest == nil || Compare(interp, lowest) < 0 {
			lowest = interp
		}
	}
	return lowest
}
