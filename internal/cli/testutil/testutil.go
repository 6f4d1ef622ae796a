// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// ProjectGraph is the build graph written by SetupTestProject.
const ProjectGraph = `roots:
  - "src/java/app:app"
targets:
  - address: "3rdparty:guava"
    type: jar_library
    jars: ["com.google.guava:guava:20.0"]
  - address: "src/resources:res"
    type: resources
    target_base: src/resources
    sources: [app.conf]
  - address: "src/java/app:app"
    type: java_library
    dependencies: ["3rdparty:guava", "src/resources:res"]
    target_base: src/java
    sources: [app/Main.java]
    platform: java11
  - address: "3rdparty/python:requests"
    type: python_requirement_library
    requirements: ["requests==2.20.0"]
  - address: "src/python/tool:tool"
    type: python_binary
    dependencies: ["3rdparty/python:requests"]
    target_base: src/python
    sources: [tool/main.py]
    compatibility: ["CPython>=3.6"]
`

// ProjectClasspath is the resolved classpath written by SetupTestProject.
const ProjectClasspath = `"3rdparty:guava":
  - coordinate: "com.google.guava:guava:20.0"
    path: /cache/guava-20.0.jar
`

// ProjectConfig is the buildexport.yaml written by SetupTestProject.
const ProjectConfig = `graph: graph.yaml
classpath: classpath.yaml
python:
  interpreters:
    - identity: CPython-2.7.13
      binary: /usr/bin/python2.7
    - identity: CPython-3.6.8
      binary: /usr/bin/python3.6
jvm:
  default_platform: java8
  platforms:
    java8:
      source: "1.8"
      target: "1.8"
    java11:
      source: "11"
      target: "11"
  distributions:
    - home: /jdk8
      version: 1.8.0_181
    - home: /jdk11
      version: "11.0.2"
`

// SetupTestProject creates a temporary project with a config file, a graph
// and a classpath, and returns its root.
func SetupTestProject(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	files := map[string]string{
		"buildexport.yaml": ProjectConfig,
		"graph.yaml":       ProjectGraph,
		"classpath.yaml":   ProjectClasspath,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
	}
	return tmpDir
}
