package config

import "path/filepath"

// Default configuration values.
const (
	DefaultWorkDir         = ".buildexport"
	DefaultChrootDirName   = "chroots"
	DefaultCacheDBName     = "chroots.db"
	DefaultPlatformName    = "java8"
	DefaultPlatformVersion = "1.8"
)

// DefaultInterpreterConstraints accept any CPython 2.7 or 3.x interpreter.
var DefaultInterpreterConstraints = []string{"CPython>=2.7,<3", "CPython>=3.6,<4"}

// ApplyPythonDefaults fills unset python settings. Relative cache paths are
// placed under workDir.
func ApplyPythonDefaults(c *PythonConfig, workDir string) {
	if c == nil {
		return
	}
	if len(c.InterpreterConstraints) == 0 {
		c.InterpreterConstraints = append([]string(nil), DefaultInterpreterConstraints...)
	}
	if c.ChrootDir == "" {
		c.ChrootDir = filepath.Join(workDir, DefaultChrootDirName)
	}
	if c.CacheDB == "" {
		c.CacheDB = filepath.Join(workDir, DefaultCacheDBName)
	}
}

// ApplyJVMDefaults fills unset JVM settings. Without any configured
// platform a single java8 platform is assumed and made the default.
func ApplyJVMDefaults(c *JVMConfig) {
	if c == nil {
		return
	}
	if len(c.Platforms) == 0 {
		c.Platforms = map[string]PlatformConfig{
			DefaultPlatformName: {Source: DefaultPlatformVersion, Target: DefaultPlatformVersion},
		}
	}
	if c.DefaultPlatform == "" {
		if _, ok := c.Platforms[DefaultPlatformName]; ok || len(c.Platforms) != 1 {
			c.DefaultPlatform = DefaultPlatformName
		} else {
			for name := range c.Platforms {
				c.DefaultPlatform = name
			}
		}
	}
}
