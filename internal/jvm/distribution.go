package jvm

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/buildexport/internal/config"
	"github.com/leapstack-labs/buildexport/internal/version"
)

// ErrDistributionNotFound is returned when no configured JDK satisfies a
// platform under the requested policy.
var ErrDistributionNotFound = errors.New("no preferred jvm distribution")

// Distribution is an installed JDK.
type Distribution struct {
	Home    string
	Version string
}

// Locator picks the preferred distribution for a platform from the
// distributions known to the configuration, in configured order.
type Locator struct {
	distributions []Distribution
	logger        *slog.Logger
}

// NewLocator creates a locator over the given distributions.
func NewLocator(distributions []Distribution, logger *slog.Logger) *Locator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Locator{distributions: distributions, logger: logger}
}

// NewLocatorFromConfig creates a locator from the jvm section of the config.
func NewLocatorFromConfig(cfg *config.JVMConfig, logger *slog.Logger) (*Locator, error) {
	var dists []Distribution
	if cfg != nil {
		for _, dc := range cfg.Distributions {
			if dc.Home == "" {
				return nil, fmt.Errorf("jvm distribution: home is required")
			}
			if !version.Valid(dc.Version) {
				return nil, fmt.Errorf("jvm distribution %s: invalid version %q", dc.Home, dc.Version)
			}
			dists = append(dists, Distribution{Home: dc.Home, Version: dc.Version})
		}
	}
	return NewLocator(dists, logger), nil
}

// Preferred returns the first distribution able to run code compiled for
// the platform's target level. Under the strict policy the distribution
// must also be of exactly that release line.
func (l *Locator) Preferred(p Platform, strict bool) (Distribution, error) {
	minimum := p.TargetLevel
	for _, d := range l.distributions {
		if version.Compare(d.Version, minimum) < 0 {
			continue
		}
		if strict && version.MajorMinor(d.Version) != version.MajorMinor(minimum) {
			continue
		}
		l.logger.Debug("preferred jvm distribution", "platform", p.Name, "strict", strict, "home", d.Home)
		return d, nil
	}
	return Distribution{}, fmt.Errorf("%w for platform %s (target %s, strict=%t)", ErrDistributionNotFound, p.Name, p.TargetLevel, strict)
}
