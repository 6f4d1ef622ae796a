package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/buildexport/internal/dag"
	"github.com/leapstack-labs/buildexport/pkg/core"
)

// Classifiers that are only exported on request.
const (
	ClassifierSources = "sources"
	ClassifierJavadoc = "javadoc"
)

// ClasspathOptions selects which artifact classifiers are exported.
type ClasspathOptions struct {
	Sources  bool
	Javadocs bool
}

type classpathEntrySpec struct {
	Coordinate string `yaml:"coordinate"`
	Path       string `yaml:"path"`
}

// Classpath is a resolved classpath per target address.
type Classpath struct {
	entries map[string][]core.ClasspathEntry
}

// NewClasspath returns a classpath over already parsed entries, keeping
// only the classifiers opts asks for.
func NewClasspath(entries map[string][]core.ClasspathEntry, opts ClasspathOptions) *Classpath {
	kept := make(map[string][]core.ClasspathEntry, len(entries))
	for addr, list := range entries {
		for _, e := range list {
			switch e.Coordinate.Classifier {
			case ClassifierSources:
				if !opts.Sources {
					continue
				}
			case ClassifierJavadoc:
				if !opts.Javadocs {
					continue
				}
			}
			kept[addr] = append(kept[addr], e)
		}
	}
	return &Classpath{entries: kept}
}

// LoadClasspath reads a YAML or JSON classpath file mapping target
// addresses to lists of {coordinate, path}.
func LoadClasspath(path string, opts ClasspathOptions) (*Classpath, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read classpath file: %w", err)
	}
	entries, err := decodeClasspath(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewClasspath(entries, opts), nil
}

func decodeClasspath(data []byte) (map[string][]core.ClasspathEntry, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var raw map[string][]classpathEntrySpec
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid classpath file: %w", err)
	}

	entries := make(map[string][]core.ClasspathEntry, len(raw))
	for addr, list := range raw {
		for _, spec := range list {
			c, err := core.ParseCoordinate(spec.Coordinate)
			if err != nil {
				return nil, fmt.Errorf("classpath of %s: %w", addr, err)
			}
			if spec.Path == "" {
				return nil, fmt.Errorf("classpath of %s: %s has no path", addr, c)
			}
			entries[addr] = append(entries[addr], core.ClasspathEntry{Coordinate: c, Path: spec.Path})
		}
	}
	return entries, nil
}

// EntriesFor returns the classpath entries of the closure of nodes, in
// closure order, each (coordinate, path) once. Stub outputs and whatever is
// reachable only through them are left out.
func (c *Classpath) EntriesFor(ctx context.Context, nodes ...*core.GraphNode) ([]core.ClasspathEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	type entryKey struct {
		coordinate core.Coordinate
		path       string
	}
	seen := make(map[entryKey]bool)

	var out []core.ClasspathEntry
	for _, n := range dag.Closure(nodes, (*core.GraphNode).IsStubOutput) {
		for _, e := range c.entries[n.Address] {
			key := entryKey{e.Coordinate, e.Path}
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, e)
		}
	}
	return out, nil
}
