package export

import (
	"errors"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/leapstack-labs/buildexport/internal/jvm"
	"github.com/leapstack-labs/buildexport/pkg/core"
)

func summarizePlatforms(settings jvm.Settings) core.JvmPlatformsInfo {
	platforms := orderedmap.New[string, core.PlatformInfo]()
	for _, p := range settings.Platforms {
		args := p.Args
		if args == nil {
			args = []string{}
		}
		platforms.Set(p.Name, core.PlatformInfo{
			TargetLevel: p.TargetLevel,
			SourceLevel: p.SourceLevel,
			Args:        args,
		})
	}
	return core.JvmPlatformsInfo{
		DefaultPlatform: settings.DefaultPlatform,
		Platforms:       platforms,
	}
}

// preferredDistributions looks up the strict and non-strict distribution of
// every platform. Lookup failures are logged and leave the entry blank; a
// platform with neither is left out.
func (e *Exporter) preferredDistributions() *orderedmap.OrderedMap[string, core.DistributionInfo] {
	out := orderedmap.New[string, core.DistributionInfo]()
	if e.opts.Distributions == nil {
		return out
	}
	for _, p := range e.opts.Platforms.Platforms {
		var info core.DistributionInfo
		if d, ok := e.lookupDistribution(p, true); ok {
			info.Strict = d.Home
		}
		if d, ok := e.lookupDistribution(p, false); ok {
			info.NonStrict = d.Home
		}
		if info.IsZero() {
			continue
		}
		out.Set(p.Name, info)
	}
	return out
}

func (e *Exporter) lookupDistribution(p jvm.Platform, strict bool) (jvm.Distribution, bool) {
	d, err := e.opts.Distributions.Preferred(p, strict)
	if err == nil {
		return d, true
	}
	if errors.Is(err, jvm.ErrDistributionNotFound) {
		e.opts.Logger.Debug("no preferred distribution", "platform", p.Name, "strict", strict)
	} else {
		e.opts.Logger.Warn("distribution lookup failed", "platform", p.Name, "strict", strict, "error", err)
	}
	return jvm.Distribution{}, false
}
