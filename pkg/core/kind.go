package core

// Kind is the build alias of a node (the BUILD file symbol that declared it).
// The set is closed: unknown aliases behave like KindTarget.
type Kind string

// Known node kinds.
const (
	KindTarget                   Kind = "target"
	KindJavaLibrary              Kind = "java_library"
	KindScalaLibrary             Kind = "scala_library"
	KindJUnitTests               Kind = "junit_tests"
	KindJarLibrary               Kind = "jar_library"
	KindResources                Kind = "resources"
	KindPythonLibrary            Kind = "python_library"
	KindPythonBinary             Kind = "python_binary"
	KindPythonTests              Kind = "python_tests"
	KindPythonRequirementLibrary Kind = "python_requirement_library"
	KindSpindleThriftLibrary     Kind = "spindle_thrift_library"
	KindJavaThriftLibrary        Kind = "java_thrift_library"
)

type capability uint16

const (
	capTest capability = 1 << iota
	capResources
	capLibraryAggregate
	capRequirementBundle
	capJVM
	capTestPlatform
	capRuntime
	capStubSource
	capSecondarySources
)

var kindCapabilities = map[Kind]capability{
	KindTarget:                   0,
	KindJavaLibrary:              capJVM,
	KindScalaLibrary:             capJVM | capSecondarySources,
	KindJUnitTests:               capJVM | capTest | capTestPlatform,
	KindJarLibrary:               capLibraryAggregate,
	KindResources:                capResources,
	KindPythonLibrary:            capRuntime,
	KindPythonBinary:             capRuntime,
	KindPythonTests:              capRuntime | capTest,
	KindPythonRequirementLibrary: capRequirementBundle,
	KindSpindleThriftLibrary:     capStubSource,
	KindJavaThriftLibrary:        capJVM,
}

// Known reports whether k is one of the declared kinds.
func (k Kind) Known() bool {
	_, ok := kindCapabilities[k]
	return ok
}

// Alias returns the human-readable build alias, falling back to "target".
func (k Kind) Alias() string {
	if !k.Known() {
		return string(KindTarget)
	}
	return string(k)
}

func (k Kind) has(c capability) bool {
	return kindCapabilities[k]&c != 0
}

// IsTest reports whether nodes of this kind hold test code.
func (k Kind) IsTest() bool { return k.has(capTest) }

// IsResources reports whether nodes of this kind are resource bundles.
func (k Kind) IsResources() bool { return k.has(capResources) }

// IsLibraryAggregate reports whether nodes of this kind name a collection
// of external libraries.
func (k Kind) IsLibraryAggregate() bool { return k.has(capLibraryAggregate) }

// IsRequirementBundle reports whether nodes of this kind declare language
// package requirements.
func (k Kind) IsRequirementBundle() bool { return k.has(capRequirementBundle) }

// IsJVM reports whether nodes of this kind carry excludes and a platform.
func (k Kind) IsJVM() bool { return k.has(capJVM) }

// HasTestPlatform reports whether nodes of this kind carry a test platform.
func (k Kind) HasTestPlatform() bool { return k.has(capTestPlatform) }

// NeedsRuntime reports whether nodes of this kind must be assigned an
// interpreter.
func (k Kind) NeedsRuntime() bool { return k.has(capRuntime) }

// IsStubSource reports whether this kind is the code generation stage whose
// synthetic outputs are replaced by stubs and left out of the export.
func (k Kind) IsStubSource() bool { return k.has(capStubSource) }

// HasSecondarySources reports whether nodes of this kind aggregate
// auxiliary per-language source nodes.
func (k Kind) HasSecondarySources() bool { return k.has(capSecondarySources) }
