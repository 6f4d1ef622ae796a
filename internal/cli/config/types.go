// Package config loads the buildexport CLI configuration.
//
// Settings come from defaults, a buildexport.yaml found in the project
// root, BUILDEXPORT_ environment variables and command-line flags, in
// increasing order of precedence. The python and jvm sections reuse the
// shared types from internal/config.
package config

import intconfig "github.com/leapstack-labs/buildexport/internal/config"

// PythonConfig is an alias for the shared python configuration.
type PythonConfig = intconfig.PythonConfig

// JVMConfig is an alias for the shared JVM configuration.
type JVMConfig = intconfig.JVMConfig

// Config holds all CLI configuration options.
type Config struct {
	// ProjectRoot is where the config file was found, or the working directory
	ProjectRoot string `koanf:"-"`

	BuildRoot         string        `koanf:"build_root"`
	WorkDir           string        `koanf:"work_dir"`
	Graph             string        `koanf:"graph"`
	Classpath         string        `koanf:"classpath"`
	Libraries         bool          `koanf:"libraries"`
	LibrariesSources  bool          `koanf:"libraries_sources"`
	LibrariesJavadocs bool          `koanf:"libraries_javadocs"`
	Sources           bool          `koanf:"sources"`
	Formatted         bool          `koanf:"formatted"`
	OutputFile        string        `koanf:"output_file"`
	Verbose           bool          `koanf:"verbose"`
	Python            *PythonConfig `koanf:"python"`
	JVM               *JVMConfig    `koanf:"jvm"`
}

// Default configuration values.
const (
	DefaultWorkDir   = intconfig.DefaultWorkDir
	DefaultLibraries = true
	DefaultFormatted = true
)
