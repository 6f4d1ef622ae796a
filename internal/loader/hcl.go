package loader

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/leapstack-labs/buildexport/pkg/core"
)

// hclRoot is the top level of an HCL graph file.
type hclRoot struct {
	Roots   []string     `hcl:"roots,optional"`
	Targets []*hclTarget `hcl:"target,block"`
}

type hclTarget struct {
	Address       string          `hcl:"address,label"`
	Type          string          `hcl:"type,optional"`
	Synthetic     bool            `hcl:"synthetic,optional"`
	DerivedFrom   string          `hcl:"derived_from,optional"`
	Dependencies  []string        `hcl:"dependencies,optional"`
	Transitive    *bool           `hcl:"transitive,optional"`
	Scope         string          `hcl:"scope,optional"`
	TargetBase    string          `hcl:"target_base,optional"`
	Sources       []string        `hcl:"sources,optional"`
	Globs         []string        `hcl:"globs,optional"`
	Roots         []hclSourceRoot `hcl:"root,block"`
	Platform      string          `hcl:"platform,optional"`
	TestPlatform  string          `hcl:"test_platform,optional"`
	Excludes      []string        `hcl:"excludes,optional"`
	Jars          []string        `hcl:"jars,optional"`
	Requirements  []string        `hcl:"requirements,optional"`
	Compatibility []string        `hcl:"compatibility,optional"`
	JavaSources   []string        `hcl:"java_sources,optional"`
}

type hclSourceRoot struct {
	Path          string `hcl:"path"`
	PackagePrefix string `hcl:"package_prefix,optional"`
}

func decodeHCL(filename string) (*GraphSpec, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %w", diags)
	}

	var root hclRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %w", diags)
	}

	spec := &GraphSpec{Roots: root.Roots}
	for _, t := range root.Targets {
		ts := TargetSpec{
			Address:       t.Address,
			Type:          t.Type,
			Synthetic:     t.Synthetic,
			DerivedFrom:   t.DerivedFrom,
			Dependencies:  t.Dependencies,
			Transitive:    t.Transitive,
			Scope:         t.Scope,
			TargetBase:    t.TargetBase,
			Sources:       t.Sources,
			Globs:         t.Globs,
			Platform:      t.Platform,
			TestPlatform:  t.TestPlatform,
			Excludes:      t.Excludes,
			Jars:          t.Jars,
			Requirements:  t.Requirements,
			Compatibility: t.Compatibility,
			JavaSources:   t.JavaSources,
		}
		for _, r := range t.Roots {
			ts.Roots = append(ts.Roots, core.SourceRoot{SourceRoot: r.Path, PackagePrefix: r.PackagePrefix})
		}
		spec.Targets = append(spec.Targets, ts)
	}
	return spec, nil
}
