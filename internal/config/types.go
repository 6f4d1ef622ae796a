// Package config provides shared configuration types for buildexport.
// This package is decoupled from CLI concerns so the exporter's
// collaborators (interpreter pool, JVM locator, chroot cache) can be built
// from it directly.
package config

// PythonConfig holds interpreter selection and chroot cache settings.
type PythonConfig struct {
	// InterpreterConstraints apply to nodes without their own compatibility
	InterpreterConstraints []string `koanf:"interpreter_constraints"`
	// Interpreters are the runtimes available for selection
	Interpreters []InterpreterConfig `koanf:"interpreters"`
	// ChrootDir is where per-interpreter chroots are created
	ChrootDir string `koanf:"chroot_dir"`
	// CacheDB is the SQLite index of materialized chroots
	CacheDB string `koanf:"cache_db"`
}

// InterpreterConfig describes one installed interpreter.
type InterpreterConfig struct {
	Binary   string `koanf:"binary"`
	Identity string `koanf:"identity"` // e.g. CPython-2.7.13
}

// JVMConfig holds platform and distribution settings.
type JVMConfig struct {
	DefaultPlatform string                    `koanf:"default_platform"`
	Platforms       map[string]PlatformConfig `koanf:"platforms"`
	Distributions   []DistributionConfig      `koanf:"distributions"`
}

// PlatformConfig holds the compiler settings of a named JVM platform.
type PlatformConfig struct {
	Source string   `koanf:"source"`
	Target string   `koanf:"target"`
	Args   []string `koanf:"args"`
}

// DistributionConfig describes an installed JDK.
type DistributionConfig struct {
	Home    string `koanf:"home"`
	Version string `koanf:"version"`
}
