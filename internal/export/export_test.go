package export

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/buildexport/internal/dag"
	"github.com/leapstack-labs/buildexport/internal/interpreter"
	"github.com/leapstack-labs/buildexport/internal/jvm"
	"github.com/leapstack-labs/buildexport/internal/loader"
	"github.com/leapstack-labs/buildexport/internal/testutil"
	"github.com/leapstack-labs/buildexport/pkg/core"
)

// fakeClasspath returns the entries registered for each node, in call order.
type fakeClasspath map[string][]core.ClasspathEntry

func (f fakeClasspath) EntriesFor(_ context.Context, nodes ...*core.GraphNode) ([]core.ClasspathEntry, error) {
	var out []core.ClasspathEntry
	for _, n := range nodes {
		out = append(out, f[n.Address]...)
	}
	return out, nil
}

func entries(t *testing.T, pairs ...string) []core.ClasspathEntry {
	t.Helper()
	require.Zero(t, len(pairs)%2)
	var out []core.ClasspathEntry
	for i := 0; i < len(pairs); i += 2 {
		c := testutil.Coordinates(t, pairs[i])[0]
		out = append(out, core.ClasspathEntry{Coordinate: c, Path: pairs[i+1]})
	}
	return out
}

// fakeEnvironments records the groups it was asked to build.
type fakeEnvironments struct {
	groups map[string][]string
}

func (f *fakeEnvironments) Materialize(_ context.Context, interp *interpreter.Interpreter, nodes []*core.GraphNode) (string, error) {
	if f.groups == nil {
		f.groups = make(map[string][]string)
	}
	id := interp.Identity.String()
	for _, n := range nodes {
		f.groups[id] = append(f.groups[id], n.Address)
	}
	return "/chroots/" + id, nil
}

type failingLocator struct{}

func (failingLocator) Preferred(jvm.Platform, bool) (jvm.Distribution, error) {
	return jvm.Distribution{}, errors.New("jdk probe crashed")
}

func testSettings() jvm.Settings {
	return jvm.Settings{
		DefaultPlatform: "java8",
		Platforms: []jvm.Platform{
			{Name: "java11", SourceLevel: "11", TargetLevel: "11", Args: []string{"-Xlint"}},
			{Name: "java17", SourceLevel: "17", TargetLevel: "17", Args: []string{}},
			{Name: "java8", SourceLevel: "1.8", TargetLevel: "1.8", Args: []string{}},
		},
	}
}

func testPool(t *testing.T) *interpreter.Pool {
	t.Helper()
	var interps []*interpreter.Interpreter
	for identity, binary := range map[string]string{
		"CPython-3.6.8":  "/usr/bin/python3.6",
		"CPython-2.7.13": "/usr/bin/python2.7",
	} {
		id, err := interpreter.ParseIdentity(identity)
		require.NoError(t, err)
		interps = append(interps, &interpreter.Interpreter{Identity: id, Binary: binary})
	}
	pool, err := interpreter.NewPool(interps, nil, testutil.NewTestLogger(t))
	require.NoError(t, err)
	return pool
}

func newExporter(t *testing.T, cp ClasspathLookup) *Exporter {
	t.Helper()
	return New(Options{
		Classpath:    cp,
		Runtimes:     testPool(t),
		Environments: &fakeEnvironments{},
		Platforms:    testSettings(),
		Logger:       testutil.NewTestLogger(t),
	})
}

func target(t *testing.T, info *core.GraphInfo, address string) *core.TargetInfo {
	t.Helper()
	ti, ok := info.Targets.Get(address)
	require.True(t, ok, "missing target %s", address)
	return ti
}

func targetKeys(info *core.GraphInfo) []string {
	var keys []string
	for p := info.Targets.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}

func TestExport_FiltersStubOutputs(t *testing.T) {
	g := testutil.NewGraph(t)
	g.Add("src/thrift:idl", core.KindSpindleThriftLibrary)
	gen := g.Add("src/thrift:idl-gen", core.KindScalaLibrary)
	gen.Synthetic = true
	gen.DerivedFrom = g.Get("src/thrift:idl")
	other := g.Add("src/gen:other", core.KindJavaLibrary)
	other.Synthetic = true
	app := g.Add("src/app:app", core.KindJavaLibrary, "src/thrift:idl-gen", "src/thrift:idl", "src/gen:other")
	app.JavaSources = []*core.GraphNode{gen}

	info, err := newExporter(t, nil).Export(context.Background(), g.Nodes("src/app:app", "src/thrift:idl-gen"))
	require.NoError(t, err)

	assert.Equal(t, []string{"src/app:app", "src/thrift:idl", "src/gen:other"}, targetKeys(info))
	assert.Equal(t, []string{"src/thrift:idl", "src/gen:other"}, target(t, info, "src/app:app").Targets)
	assert.True(t, target(t, info, "src/gen:other").IsSynthetic)
	assert.True(t, target(t, info, "src/gen:other").IsCodeGen)
}

func TestExport_LibrariesSkipStubOutputs(t *testing.T) {
	g := testutil.NewGraph(t)
	finagle := g.Add("3rdparty:finagle", core.KindJarLibrary)
	finagle.Jars = testutil.Coordinates(t, "com.twitter:finagle:1.0")
	guava := g.Add("3rdparty:guava", core.KindJarLibrary)
	guava.Jars = testutil.Coordinates(t, "com.google.guava:guava:20.0")
	g.Add("src/thrift:idl", core.KindSpindleThriftLibrary)
	gen := g.Add("src/thrift:idl-gen", core.KindScalaLibrary, "3rdparty:finagle")
	gen.Synthetic = true
	gen.DerivedFrom = g.Get("src/thrift:idl")
	g.Add("src/thrift:all", core.KindJarLibrary, "src/thrift:idl-gen")
	g.Add("src:app", core.KindJavaLibrary, "src/thrift:idl-gen", "3rdparty:guava", "src/thrift:all")

	cp := loader.NewClasspath(map[string][]core.ClasspathEntry{
		"3rdparty:finagle": entries(t, "com.twitter:finagle:1.0", "/ivy/finagle.jar"),
		"3rdparty:guava":   entries(t, "com.google.guava:guava:20.0", "/ivy/guava.jar"),
	}, loader.ClasspathOptions{})

	info, err := newExporter(t, cp).Export(context.Background(), g.Nodes("src:app"))
	require.NoError(t, err)

	assert.Equal(t, []string{"src:app", "3rdparty:guava", "src/thrift:all"}, targetKeys(info))
	assert.Equal(t, []string{"com.google.guava:guava:20.0"}, target(t, info, "src:app").Libraries)
	assert.Equal(t, []string{}, target(t, info, "src/thrift:all").Libraries)

	require.NotNil(t, info.Libraries)
	var ids []string
	for p := info.Libraries.Oldest(); p != nil; p = p.Next() {
		ids = append(ids, p.Key)
	}
	assert.Equal(t, []string{"com.google.guava:guava:20.0"}, ids)
}

func TestExport_LibraryAggregateUnion(t *testing.T) {
	g := testutil.NewGraph(t)
	dep := g.Add("3rdparty:guava", core.KindJarLibrary)
	dep.Jars = testutil.Coordinates(t, "com.google:guava:20.0")
	g.Add("3rdparty:plain", core.KindJavaLibrary)
	lib := g.Add("3rdparty:all", core.KindJarLibrary, "3rdparty:guava", "3rdparty:plain")
	lib.Jars = testutil.Coordinates(t, "org.slf4j:slf4j-api:1.7")

	cp := fakeClasspath{
		"3rdparty:all": entries(t,
			"org.slf4j:slf4j-api:1.7", "/ivy/slf4j.jar",
			"foo:bar:1.0", "/ivy/bar.jar",
		),
		"3rdparty:guava": entries(t,
			"com.google:guava:20.0", "/ivy/guava.jar",
			"com.google:jsr305:3.0", "/ivy/jsr305.jar",
			"foo:bar:1.0:sources", "/ivy/bar-sources.jar",
		),
		"3rdparty:plain": entries(t, "never:listed:1", "/ivy/never.jar"),
	}

	info, err := newExporter(t, cp).Export(context.Background(), g.Nodes("3rdparty:all"))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"org.slf4j:slf4j-api:1.7",
		"foo:bar:1.0",
		"com.google:guava:20.0",
		"com.google:jsr305:3.0",
	}, target(t, info, "3rdparty:all").Libraries)
	assert.Equal(t, []string{"3rdparty:guava", "3rdparty:plain"}, target(t, info, "3rdparty:all").Targets)
}

func TestExport_LibrariesFollowLookup(t *testing.T) {
	g := testutil.NewGraph(t)
	b := g.Add("3rdparty:b", core.KindJarLibrary)
	b.Jars = testutil.Coordinates(t, "foo:bar:1.0")
	g.Add("src:a", core.KindJavaLibrary, "3rdparty:b")
	cp := fakeClasspath{"3rdparty:b": entries(t, "foo:bar:1.0", "/ivy/bar.jar")}

	t.Run("with lookup", func(t *testing.T) {
		info, err := newExporter(t, cp).Export(context.Background(), g.Nodes("src:a"))
		require.NoError(t, err)
		assert.Equal(t, []string{"foo:bar:1.0"}, target(t, info, "src:a").Libraries)
		require.NotNil(t, info.Libraries)
		confs, ok := info.Libraries.Get("foo:bar:1.0")
		require.True(t, ok)
		path, _ := confs.Get(core.DefaultConf)
		assert.Equal(t, "/ivy/bar.jar", path)
	})

	t.Run("without lookup", func(t *testing.T) {
		info, err := newExporter(t, nil).Export(context.Background(), g.Nodes("src:a"))
		require.NoError(t, err)
		assert.Equal(t, []string{}, target(t, info, "src:a").Libraries)
		assert.Equal(t, []string{}, target(t, info, "3rdparty:b").Libraries)
		assert.Nil(t, info.Libraries)

		out, err := json.Marshal(info)
		require.NoError(t, err)
		assert.NotContains(t, string(out), `"libraries":{`)
		assert.Contains(t, string(out), `"libraries":[]`)
	})
}

func TestExport_ClassifierVariantsDedupe(t *testing.T) {
	g := testutil.NewGraph(t)
	g.Add("3rdparty:bar", core.KindJarLibrary)
	g.Add("src:a", core.KindJavaLibrary, "3rdparty:bar")
	cp := fakeClasspath{"3rdparty:bar": entries(t,
		"foo:bar:1.0", "/ivy/bar.jar",
		"foo:bar:1.0:sources", "/ivy/bar-sources.jar",
		"foo:bar:1.0:javadoc:jar", "/ivy/bar-javadoc.jar",
	)}

	info, err := newExporter(t, cp).Export(context.Background(), g.Nodes("src:a"))
	require.NoError(t, err)

	assert.Equal(t, []string{"foo:bar:1.0"}, target(t, info, "src:a").Libraries)
	assert.Equal(t, 1, info.Libraries.Len())
	confs, _ := info.Libraries.Get("foo:bar:1.0")
	var keys []string
	for p := confs.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	assert.Equal(t, []string{"default", "sources", "javadoc"}, keys)
}

func TestDedupeCoordinates(t *testing.T) {
	got := DedupeCoordinates(testutil.Coordinates(t,
		"a:b:1", "a:b:1:sources", "a:b:2", "a:b:1::pom", "c:d",
	))
	assert.Equal(t, []core.CoordinateKey{
		{Org: "a", Name: "b", Rev: "1"},
		{Org: "a", Name: "b", Rev: "2"},
		{Org: "c", Name: "d"},
	}, got)
}

func TestExport_Requirements(t *testing.T) {
	g := testutil.NewGraph(t)
	req := g.Add("3rdparty/python:reqs", core.KindPythonRequirementLibrary)
	req.Requirements = []string{"pkg==1.0", "other", "Pkg>=0.9", "some_thing[extra]; python_version<'3'"}

	info, err := newExporter(t, nil).Export(context.Background(), g.Nodes("3rdparty/python:reqs"))
	require.NoError(t, err)

	assert.Equal(t, []string{"pkg", "other", "some-thing"}, target(t, info, "3rdparty/python:reqs").Requirements)
	assert.Nil(t, info.PythonSetup)
}

func TestExport_ResourceClassificationIsOrderSensitive(t *testing.T) {
	build := func(t *testing.T) *testutil.Graph {
		g := testutil.NewGraph(t)
		g.Add("src/resources:r", core.KindResources)
		g.Add("tests:t1", core.KindJUnitTests, "src/resources:r")
		g.Add("src:t2", core.KindJavaLibrary, "src/resources:r")
		return g
	}

	tests := []struct {
		name  string
		roots []string
		want  core.TargetType
	}{
		{"test owner first", []string{"tests:t1", "src:t2"}, core.TargetTypeTestResource},
		{"production owner first", []string{"src:t2", "tests:t1"}, core.TargetTypeResource},
		{"bundle before owners", []string{"src/resources:r", "tests:t1", "src:t2"}, core.TargetTypeResource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build(t)
			info, err := newExporter(t, nil).Export(context.Background(), g.Nodes(tt.roots...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, target(t, info, "src/resources:r").TargetType)
			assert.Equal(t, core.TargetTypeTest, target(t, info, "tests:t1").TargetType)
			assert.Equal(t, core.TargetTypeSource, target(t, info, "src:t2").TargetType)
		})
	}
}

func TestExport_Runtimes(t *testing.T) {
	g := testutil.NewGraph(t)
	p3 := g.Add("src/py:three", core.KindPythonLibrary)
	p3.Compatibility = []string{"CPython>=3"}
	p2 := g.Add("src/py:two", core.KindPythonTests, "src/py:three")
	p2.Compatibility = []string{"CPython<3"}
	bin := g.Add("src/py:bin", core.KindPythonBinary, "src/py:two")
	bin.Compatibility = []string{"CPython>=3.6"}

	envs := &fakeEnvironments{}
	e := New(Options{
		Runtimes:     testPool(t),
		Environments: envs,
		Platforms:    testSettings(),
	})
	info, err := e.Export(context.Background(), g.Nodes("src/py:bin"))
	require.NoError(t, err)

	assert.Equal(t, "CPython-3.6.8", target(t, info, "src/py:bin").PythonInterpreter)
	assert.Equal(t, "CPython-2.7.13", target(t, info, "src/py:two").PythonInterpreter)
	assert.Equal(t, core.TargetTypeTest, target(t, info, "src/py:two").TargetType)

	require.NotNil(t, info.PythonSetup)
	assert.Equal(t, "CPython-2.7.13", info.PythonSetup.DefaultInterpreter)

	var ids []string
	for p := info.PythonSetup.Interpreters.Oldest(); p != nil; p = p.Next() {
		ids = append(ids, p.Key)
	}
	assert.Equal(t, []string{"CPython-3.6.8", "CPython-2.7.13"}, ids)

	py27, _ := info.PythonSetup.Interpreters.Get("CPython-2.7.13")
	assert.Equal(t, core.InterpreterInfo{Binary: "/usr/bin/python2.7", Chroot: "/chroots/CPython-2.7.13"}, py27)
	assert.Equal(t, []string{"src/py:bin", "src/py:three"}, envs.groups["CPython-3.6.8"])
	assert.Equal(t, []string{"src/py:two"}, envs.groups["CPython-2.7.13"])
}

func TestExport_NoCompatibleRuntime(t *testing.T) {
	g := testutil.NewGraph(t)
	py := g.Add("src/py:future", core.KindPythonLibrary)
	py.Compatibility = []string{"CPython>=4"}
	g.Add("src:app", core.KindJavaLibrary, "src/py:future")

	info, err := newExporter(t, nil).Export(context.Background(), g.Nodes("src:app"))
	require.Error(t, err)
	assert.Nil(t, info)

	assert.ErrorIs(t, err, ErrNoCompatibleRuntime)
	assert.ErrorIs(t, err, interpreter.ErrNoCompatible)
	var nce *NoCompatibleRuntimeError
	require.ErrorAs(t, err, &nce)
	assert.Equal(t, "src/py:future", nce.Address)
	assert.Contains(t, err.Error(), "src/py:future")
}

func TestExport_NoRuntimesConfigured(t *testing.T) {
	g := testutil.NewGraph(t)
	g.Add("src/py:lib", core.KindPythonLibrary)

	_, err := New(Options{Platforms: testSettings()}).Export(context.Background(), g.Nodes("src/py:lib"))
	assert.ErrorIs(t, err, ErrNoCompatibleRuntime)
}

func TestExport_PreferredDistributions(t *testing.T) {
	locator := jvm.NewLocator([]jvm.Distribution{
		{Home: "/jdk11", Version: "11.0.2"},
		{Home: "/jdk8", Version: "1.8.0_181"},
	}, testutil.NewTestLogger(t))

	e := New(Options{Platforms: testSettings(), Distributions: locator, Logger: testutil.NewTestLogger(t)})
	info, err := e.Export(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, "java8", info.JvmPlatforms.DefaultPlatform)
	java11, ok := info.JvmPlatforms.Platforms.Get("java11")
	require.True(t, ok)
	assert.Equal(t, core.PlatformInfo{TargetLevel: "11", SourceLevel: "11", Args: []string{"-Xlint"}}, java11)

	java8, ok := info.PreferredJvmDistributions.Get("java8")
	require.True(t, ok)
	assert.Equal(t, core.DistributionInfo{Strict: "/jdk8", NonStrict: "/jdk11"}, java8)

	java11d, ok := info.PreferredJvmDistributions.Get("java11")
	require.True(t, ok)
	assert.Equal(t, core.DistributionInfo{Strict: "/jdk11", NonStrict: "/jdk11"}, java11d)

	_, ok = info.PreferredJvmDistributions.Get("java17")
	assert.False(t, ok, "platform without any distribution must be omitted")
	assert.Equal(t, 2, info.PreferredJvmDistributions.Len())
}

func TestExport_DistributionLookupErrorsAreAbsorbed(t *testing.T) {
	e := New(Options{Platforms: testSettings(), Distributions: failingLocator{}})
	info, err := e.Export(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, info.PreferredJvmDistributions.Len())
}

func TestExport_JVMAttributes(t *testing.T) {
	g := testutil.NewGraph(t)
	lib := g.Add("src/java:lib", core.KindJavaLibrary)
	lib.Excludes = []core.Exclude{{Org: "log4j"}, {Org: "commons-logging", Name: "commons-logging"}}
	lib.Roots = []core.SourceRoot{{SourceRoot: "src/java", PackagePrefix: ""}}
	tests := g.Add("tests/java:tests", core.KindJUnitTests, "src/java:lib")
	tests.Platform = "java11"
	g.Add("src/py:lib", core.KindTarget)

	info, err := newExporter(t, nil).Export(context.Background(), g.Nodes("tests/java:tests", "src/py:lib"))
	require.NoError(t, err)

	libInfo := target(t, info, "src/java:lib")
	assert.Equal(t, []string{"log4j", "commons-logging:commons-logging"}, libInfo.Excludes)
	assert.Equal(t, "java8", libInfo.Platform)
	assert.Empty(t, libInfo.TestPlatform)
	assert.Equal(t, []core.SourceRoot{{SourceRoot: "src/java"}}, libInfo.Roots)
	assert.False(t, libInfo.IsTargetRoot)

	testInfo := target(t, info, "tests/java:tests")
	assert.Equal(t, "java11", testInfo.Platform)
	assert.Equal(t, "java8", testInfo.TestPlatform)
	assert.Equal(t, []string{}, testInfo.Excludes)
	assert.True(t, testInfo.IsTargetRoot)
	assert.Equal(t, "tests.java.tests", testInfo.ID)
	assert.Equal(t, "junit_tests", testInfo.PantsTargetType)

	plain := target(t, info, "src/py:lib")
	assert.Nil(t, plain.Excludes)
	assert.Empty(t, plain.Platform)
	assert.Equal(t, []core.SourceRoot{}, plain.Roots)
}

func TestExport_SecondarySources(t *testing.T) {
	g := testutil.NewGraph(t)
	g.Add("src/java:util", core.KindJavaLibrary)
	java := g.Add("src/scala:lib-java", core.KindJavaLibrary, "src/java:util")
	scala := g.Add("src/scala:lib", core.KindScalaLibrary)
	scala.JavaSources = []*core.GraphNode{java}

	info, err := newExporter(t, nil).Export(context.Background(), g.Nodes("src/scala:lib"))
	require.NoError(t, err)

	assert.Equal(t, []string{"src/scala:lib-java", "src/scala:lib", "src/java:util"}, targetKeys(info))
	assert.Equal(t, []string{"src/scala:lib-java"}, target(t, info, "src/scala:lib").Targets)
	assert.Equal(t, []string{"src/java:util"}, target(t, info, "src/scala:lib-java").Targets)
}

func TestExport_SecondarySourceCycle(t *testing.T) {
	g := testutil.NewGraph(t)
	scala := g.Add("src/scala:lib", core.KindScalaLibrary)
	scala.JavaSources = []*core.GraphNode{scala}

	_, err := newExporter(t, nil).Export(context.Background(), g.Nodes("src/scala:lib"))
	assert.ErrorIs(t, err, dag.ErrCycle)
}

func TestExport_SourcesAndGlobs(t *testing.T) {
	g := testutil.NewGraph(t)
	lib := g.Add("src/java/com/foo:lib", core.KindJavaLibrary)
	lib.TargetBase = "src/java"
	lib.Sources = []string{"com/foo/A.java", "com/foo/B.java"}
	lib.Globs = &core.GlobSpec{Globs: []string{"src/java/com/foo/*.java"}}
	gen := g.Add("src/java/com/foo:gen", core.KindJavaLibrary)
	gen.Synthetic = true
	gen.Sources = []string{"Gen.java"}
	g.Add("src/java/com/foo:bare", core.KindJavaLibrary)
	roots := g.Nodes("src/java/com/foo:lib", "src/java/com/foo:gen", "src/java/com/foo:bare")

	info, err := newExporter(t, nil).Export(context.Background(), roots)
	require.NoError(t, err)
	assert.Nil(t, target(t, info, "src/java/com/foo:lib").Sources)
	assert.Equal(t, lib.Globs, target(t, info, "src/java/com/foo:lib").Globs)

	e := New(Options{IncludeSources: true, Platforms: testSettings()})
	info, err = e.Export(context.Background(), roots)
	require.NoError(t, err)

	assert.Equal(t, []string{"src/java/com/foo/A.java", "src/java/com/foo/B.java"}, target(t, info, "src/java/com/foo:lib").Sources)
	assert.Nil(t, target(t, info, "src/java/com/foo:gen").Sources)
	assert.Nil(t, target(t, info, "src/java/com/foo:gen").Globs)
	assert.Equal(t, &core.GlobSpec{Globs: []string{}}, target(t, info, "src/java/com/foo:bare").Globs)
	assert.Equal(t, []string{}, target(t, info, "src/java/com/foo:bare").Sources)
}

func TestExport_Deterministic(t *testing.T) {
	g := testutil.NewGraph(t)
	jar := g.Add("3rdparty:jars", core.KindJarLibrary)
	jar.Jars = testutil.Coordinates(t, "z:z:1", "a:a:1")
	g.Add("src/resources:r", core.KindResources)
	g.Add("src/java:lib", core.KindJavaLibrary, "3rdparty:jars", "src/resources:r")
	py := g.Add("src/py:lib", core.KindPythonLibrary)
	py.Compatibility = []string{"CPython>=3"}
	g.Add("tests:all", core.KindJUnitTests, "src/java:lib", "src/resources:r", "src/py:lib")
	cp := fakeClasspath{"3rdparty:jars": entries(t, "z:z:1", "/z.jar", "a:a:1", "/a.jar", "m:m:1:sources", "/m.jar")}

	run := func() []byte {
		info, err := newExporter(t, cp).Export(context.Background(), g.Nodes("tests:all"))
		require.NoError(t, err)
		out, err := json.MarshalIndent(info, "", "    ")
		require.NoError(t, err)
		return out
	}

	first := run()
	for range 5 {
		assert.Equal(t, string(first), string(run()))
	}
	assert.Contains(t, string(first), `"version": "1.0.10"`)
}

func TestExport_ContextCanceled(t *testing.T) {
	g := testutil.NewGraph(t)
	g.Add("src:a", core.KindJavaLibrary)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newExporter(t, nil).Export(ctx, g.Nodes("src:a"))
	assert.ErrorIs(t, err, context.Canceled)
}
