package core

import orderedmap "github.com/wk8/go-ordered-map/v2"

// ExportVersion is the schema version tag of GraphInfo.
const ExportVersion = "1.0.10"

// TargetType classifies what a node's sources are for.
type TargetType string

// Target types.
const (
	TargetTypeSource       TargetType = "SOURCE"
	TargetTypeTest         TargetType = "TEST"
	TargetTypeResource     TargetType = "RESOURCE"
	TargetTypeTestResource TargetType = "TEST_RESOURCE"
)

// LibraryTable maps a library id to its artifact paths keyed by classifier.
type LibraryTable = orderedmap.OrderedMap[string, *orderedmap.OrderedMap[string, string]]

// GraphInfo is the complete export record.
// Field order and map insertion order are part of the output contract.
type GraphInfo struct {
	Version                   string                                           `json:"version"`
	Targets                   *orderedmap.OrderedMap[string, *TargetInfo]      `json:"targets"`
	JvmPlatforms              JvmPlatformsInfo                                 `json:"jvm_platforms"`
	PreferredJvmDistributions *orderedmap.OrderedMap[string, DistributionInfo] `json:"preferred_jvm_distributions"`
	Libraries                 *LibraryTable                                    `json:"libraries,omitempty"`
	PythonSetup               *PythonSetup                                     `json:"python_setup,omitempty"`
}

// TargetInfo is the export record of one node.
type TargetInfo struct {
	Targets           []string     `json:"targets"`
	Libraries         []string     `json:"libraries"`
	Roots             []SourceRoot `json:"roots"`
	ID                string       `json:"id"`
	TargetType        TargetType   `json:"target_type"`
	IsCodeGen         bool         `json:"is_code_gen"` // legacy mirror of IsSynthetic
	IsSynthetic       bool         `json:"is_synthetic"`
	PantsTargetType   string       `json:"pants_target_type"`
	Globs             *GlobSpec    `json:"globs,omitzero"`
	Sources           []string     `json:"sources,omitzero"`
	Transitive        bool         `json:"transitive"`
	Scope             string       `json:"scope"`
	IsTargetRoot      bool         `json:"is_target_root"`
	Requirements      []string     `json:"requirements,omitzero"`
	PythonInterpreter string       `json:"python_interpreter,omitzero"`
	Excludes          []string     `json:"excludes,omitzero"`
	Platform          string       `json:"platform,omitzero"`
	TestPlatform      string       `json:"test_platform,omitzero"`
}

// JvmPlatformsInfo summarizes the configured JVM platforms.
type JvmPlatformsInfo struct {
	DefaultPlatform string                                       `json:"default_platform"`
	Platforms       *orderedmap.OrderedMap[string, PlatformInfo] `json:"platforms"`
}

// PlatformInfo holds the compiler settings of one JVM platform.
type PlatformInfo struct {
	TargetLevel string   `json:"target_level"`
	SourceLevel string   `json:"source_level"`
	Args        []string `json:"args"`
}

// DistributionInfo holds the preferred JDK homes of a platform.
type DistributionInfo struct {
	Strict    string `json:"strict,omitzero"`
	NonStrict string `json:"non_strict,omitzero"`
}

// IsZero reports whether no distribution was found under either policy.
func (d DistributionInfo) IsZero() bool {
	return d.Strict == "" && d.NonStrict == ""
}

// PythonSetup describes the interpreters selected for runtime-bearing nodes.
type PythonSetup struct {
	DefaultInterpreter string                                          `json:"default_interpreter"`
	Interpreters       *orderedmap.OrderedMap[string, InterpreterInfo] `json:"interpreters"`
}

// InterpreterInfo locates an interpreter and the chroot built for its nodes.
type InterpreterInfo struct {
	Binary string `json:"binary"`
	Chroot string `json:"chroot"`
}
