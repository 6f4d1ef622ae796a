package core

import (
	"fmt"
	"strings"
)

// DefaultConf is the library table key for artifacts without a classifier.
const DefaultConf = "default"

// Coordinate is a resolved external library artifact.
// Classifier and Ext are resolution details; identity is the Key triple.
type Coordinate struct {
	Org        string
	Name       string
	Rev        string
	Classifier string
	Ext        string
}

// CoordinateKey is the (organization, name, revision) identity of a library.
type CoordinateKey struct {
	Org  string
	Name string
	Rev  string
}

// Key projects the coordinate onto its identity, dropping classifier and ext.
func (c Coordinate) Key() CoordinateKey {
	return CoordinateKey{Org: c.Org, Name: c.Name, Rev: c.Rev}
}

// Conf returns the library table key the artifact is filed under.
func (c Coordinate) Conf() string {
	if c.Classifier == "" {
		return DefaultConf
	}
	return c.Classifier
}

// String renders the coordinate in the form accepted by ParseCoordinate.
func (c Coordinate) String() string {
	parts := []string{c.Org, c.Name, c.Rev, c.Classifier, c.Ext}
	end := len(parts)
	for end > 2 && parts[end-1] == "" {
		end--
	}
	return strings.Join(parts[:end], ":")
}

// JarID returns the stable library identifier: "org:name:rev", or
// "org:name" when the revision is unknown.
func (k CoordinateKey) JarID() string {
	if k.Rev == "" {
		return k.Org + ":" + k.Name
	}
	return k.Org + ":" + k.Name + ":" + k.Rev
}

// ParseCoordinate parses "org:name[:rev[:classifier[:ext]]]".
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 5 {
		return Coordinate{}, fmt.Errorf("invalid coordinate %q: want org:name[:rev[:classifier[:ext]]]", s)
	}
	if parts[0] == "" || parts[1] == "" {
		return Coordinate{}, fmt.Errorf("invalid coordinate %q: org and name are required", s)
	}
	for len(parts) < 5 {
		parts = append(parts, "")
	}
	return Coordinate{
		Org:        parts[0],
		Name:       parts[1],
		Rev:        parts[2],
		Classifier: parts[3],
		Ext:        parts[4],
	}, nil
}

// ParseExclude parses "org" or "org:name".
func ParseExclude(s string) (Exclude, error) {
	org, name, _ := strings.Cut(strings.TrimSpace(s), ":")
	if org == "" || strings.Contains(name, ":") {
		return Exclude{}, fmt.Errorf("invalid exclude %q: want org[:name]", s)
	}
	return Exclude{Org: org, Name: name}, nil
}

// ClasspathEntry is one resolved artifact on a node's classpath.
type ClasspathEntry struct {
	Coordinate Coordinate
	Path       string
}
