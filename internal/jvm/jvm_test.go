package jvm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/buildexport/internal/config"
)

func TestNormalizeLevel(t *testing.T) {
	assert.Equal(t, "1.8", NormalizeLevel("8"))
	assert.Equal(t, "1.7", NormalizeLevel(" 7 "))
	assert.Equal(t, "1.8", NormalizeLevel("1.8"))
	assert.Equal(t, "11", NormalizeLevel("11"))
	assert.Equal(t, "", NormalizeLevel(""))
}

func TestSettingsFromConfig(t *testing.T) {
	cfg := &config.JVMConfig{
		DefaultPlatform: "java8",
		Platforms: map[string]config.PlatformConfig{
			"java8":  {Source: "8", Target: "8", Args: []string{"-Xlint"}},
			"java11": {Target: "11"},
		},
	}

	settings, err := SettingsFromConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, "java8", settings.DefaultPlatform)
	require.Len(t, settings.Platforms, 2)
	assert.Equal(t, "java11", settings.Platforms[0].Name)
	assert.Equal(t, "11", settings.Platforms[0].SourceLevel)
	assert.Equal(t, []string{}, settings.Platforms[0].Args)
	assert.Equal(t, Platform{Name: "java8", SourceLevel: "1.8", TargetLevel: "1.8", Args: []string{"-Xlint"}}, settings.Platforms[1])
}

func TestSettingsFromConfig_Errors(t *testing.T) {
	_, err := SettingsFromConfig(&config.JVMConfig{
		DefaultPlatform: "missing",
		Platforms:       map[string]config.PlatformConfig{"java8": {Target: "8"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not defined")

	_, err = SettingsFromConfig(&config.JVMConfig{
		Platforms: map[string]config.PlatformConfig{"java8": {}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "level is required")
}

func TestSettingsFromConfig_Defaults(t *testing.T) {
	settings, err := SettingsFromConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "java8", settings.DefaultPlatform)
	p, ok := settings.Platform("java8")
	require.True(t, ok)
	assert.Equal(t, "1.8", p.TargetLevel)
}

func TestLocator_Preferred(t *testing.T) {
	locator := NewLocator([]Distribution{
		{Home: "/jdk7", Version: "1.7.0_80"},
		{Home: "/jdk11", Version: "11.0.2"},
		{Home: "/jdk8", Version: "1.8.0_181"},
	}, nil)

	java8 := Platform{Name: "java8", TargetLevel: "1.8"}

	d, err := locator.Preferred(java8, false)
	require.NoError(t, err)
	assert.Equal(t, "/jdk11", d.Home, "non-strict takes the first distribution new enough")

	d, err = locator.Preferred(java8, true)
	require.NoError(t, err)
	assert.Equal(t, "/jdk8", d.Home, "strict requires the same release line")

	_, err = locator.Preferred(Platform{Name: "java17", TargetLevel: "17"}, false)
	assert.ErrorIs(t, err, ErrDistributionNotFound)
}

func TestNewLocatorFromConfig(t *testing.T) {
	_, err := NewLocatorFromConfig(&config.JVMConfig{
		Distributions: []config.DistributionConfig{{Home: "/jdk", Version: "unknown"}},
	}, nil)
	require.Error(t, err)

	l, err := NewLocatorFromConfig(nil, nil)
	require.NoError(t, err)
	_, err = l.Preferred(Platform{Name: "java8", TargetLevel: "1.8"}, true)
	assert.ErrorIs(t, err, ErrDistributionNotFound)
}
