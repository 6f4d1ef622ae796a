package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	intconfig "github.com/leapstack-labs/buildexport/internal/config"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// envPrefix prefixes every environment variable read by the loader.
// BUILDEXPORT_PYTHON__CHROOT_DIR sets python.chroot_dir.
const envPrefix = "BUILDEXPORT_"

// pathFlags are the flags holding paths, resolved against the working
// directory rather than the project root.
var pathFlags = []string{"build-root", "work-dir", "graph", "classpath", "output-file"}

var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config
)

// inferProjectRoot determines the project root.
// Priority:
//  1. Directory of an explicit --config file
//  2. Search upward from CWD for buildexport.yaml
//  3. Current working directory
func inferProjectRoot(cfgFile string) string {
	if cfgFile != "" {
		if abs, err := filepath.Abs(cfgFile); err == nil {
			return filepath.Dir(abs)
		}
	}
	cwd, err := os.Getwd()
	if err != nil || cwd == "" {
		return "."
	}
	if root := intconfig.FindProjectRoot(cwd, maxUpwardSearchLevels); root != "" {
		return root
	}
	return cwd
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k = koanf.New(".")
	projectRoot := inferProjectRoot(cfgFile)

	// Paths given as flags are relative to where the command was run.
	flagPaths := make(map[string]string)
	if flags != nil {
		for _, name := range pathFlags {
			if f := flags.Lookup(name); f != nil && f.Changed && f.Value.String() != "" {
				abs, err := filepath.Abs(f.Value.String())
				if err != nil {
					return nil, fmt.Errorf("invalid --%s: %w", name, err)
				}
				flagPaths[strings.ReplaceAll(name, "-", "_")] = abs
			}
		}
	}

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"work_dir":   DefaultWorkDir,
		"libraries":  DefaultLibraries,
		"formatted":  DefaultFormatted,
		"verbose":    false,
		"sources":    false,
		"build_root": "",
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	if cfgFile == "" {
		cfgFile = intconfig.FindConfigFile(projectRoot)
	}
	configFileUsed = cfgFile
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Load environment variables (BUILDEXPORT_ prefix)
	// Transform: BUILDEXPORT_OUTPUT_FILE -> output_file, BUILDEXPORT_JVM__DEFAULT_PLATFORM -> jvm.default_platform
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			// Transform kebab-case to snake_case for config keys
			key := strings.ReplaceAll(f.Name, "-", "_")
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// 6. Resolve paths: flags against CWD, everything else against the project root
	cfg.ProjectRoot = projectRoot
	resolve := func(key string, p *string) {
		if abs, ok := flagPaths[key]; ok {
			*p = abs
			return
		}
		*p = resolvePathRelativeTo(*p, projectRoot)
	}
	resolve("build_root", &cfg.BuildRoot)
	resolve("work_dir", &cfg.WorkDir)
	resolve("graph", &cfg.Graph)
	resolve("classpath", &cfg.Classpath)
	resolve("output_file", &cfg.OutputFile)
	if cfg.BuildRoot == "" {
		cfg.BuildRoot = projectRoot
	}

	if cfg.Python == nil {
		cfg.Python = &PythonConfig{}
	}
	intconfig.ApplyPythonDefaults(cfg.Python, cfg.WorkDir)
	cfg.Python.ChrootDir = resolvePathRelativeTo(cfg.Python.ChrootDir, projectRoot)
	cfg.Python.CacheDB = resolvePathRelativeTo(cfg.Python.CacheDB, projectRoot)

	if cfg.JVM == nil {
		cfg.JVM = &JVMConfig{}
	}
	intconfig.ApplyJVMDefaults(cfg.JVM)

	currentConfig = &cfg
	return &cfg, nil
}

// Validate checks that the settings an export needs are present.
func (c *Config) Validate() error {
	if c.Graph == "" {
		return fmt.Errorf("no graph file configured\nHint: pass --graph or set graph in %s", intconfig.ConfigFileName)
	}
	if _, err := os.Stat(c.Graph); err != nil {
		return fmt.Errorf("graph file %s: %w", c.Graph, err)
	}
	if c.Libraries && c.Classpath != "" {
		if _, err := os.Stat(c.Classpath); err != nil {
			return fmt.Errorf("classpath file %s: %w", c.Classpath, err)
		}
	}
	return nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}
