// Package jvm reads the JVM platform settings and picks the preferred JDK
// distribution for each platform.
package jvm

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/leapstack-labs/buildexport/internal/config"
)

// Platform is a named set of compiler settings.
type Platform struct {
	Name        string
	SourceLevel string
	TargetLevel string
	Args        []string
}

// Settings is the global platform configuration.
type Settings struct {
	DefaultPlatform string
	// Platforms are sorted by name
	Platforms []Platform
}

// Platform returns the platform with the given name.
func (s Settings) Platform(name string) (Platform, bool) {
	for _, p := range s.Platforms {
		if p.Name == name {
			return p, true
		}
	}
	return Platform{}, false
}

// SettingsFromConfig normalizes the jvm section of the config.
func SettingsFromConfig(cfg *config.JVMConfig) (Settings, error) {
	if cfg == nil {
		cfg = &config.JVMConfig{}
	}
	config.ApplyJVMDefaults(cfg)

	names := make([]string, 0, len(cfg.Platforms))
	for name := range cfg.Platforms {
		names = append(names, name)
	}
	sort.Strings(names)

	settings := Settings{DefaultPlatform: cfg.DefaultPlatform}
	for _, name := range names {
		pc := cfg.Platforms[name]
		source, target := NormalizeLevel(pc.Source), NormalizeLevel(pc.Target)
		if source == "" {
			source = target
		}
		if target == "" {
			target = source
		}
		if target == "" {
			return Settings{}, fmt.Errorf("jvm platform %q: source or target level is required", name)
		}
		args := pc.Args
		if args == nil {
			args = []string{}
		}
		settings.Platforms = append(settings.Platforms, Platform{
			Name:        name,
			SourceLevel: source,
			TargetLevel: target,
			Args:        args,
		})
	}

	if _, ok := settings.Platform(settings.DefaultPlatform); !ok {
		return Settings{}, fmt.Errorf("default jvm platform %q is not defined", settings.DefaultPlatform)
	}
	return settings, nil
}

// NormalizeLevel maps short java release numbers before 9 onto their
// "1.N" form ("8" -> "1.8"). Other values are returned trimmed.
func NormalizeLevel(level string) string {
	level = strings.TrimSpace(level)
	if n, err := strconv.Atoi(level); err == nil && n > 0 && n < 9 {
		return "1." + level
	}
	return level
}
