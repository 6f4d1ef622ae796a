package interpreter

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/leapstack-labs/buildexport/internal/version"
)

// operators in match order; two-character operators must come first.
var operators = []string{"~=", "==", "!=", ">=", "<=", ">", "<"}

// Constraint restricts the interpreters a node may run on, e.g.
// "CPython>=2.7,<3". An empty implementation matches any implementation.
type Constraint struct {
	raw            string
	implementation string
	specifiers     []specifier
}

type specifier struct {
	op       string
	version  string
	wildcard bool
}

// ParseConstraint parses an interpreter constraint string.
func ParseConstraint(s string) (Constraint, error) {
	raw := strings.TrimSpace(s)
	c := Constraint{raw: raw}

	rest := raw
	if i := strings.IndexAny(rest, "~=!<>"); i >= 0 {
		c.implementation = strings.TrimSpace(rest[:i])
		rest = rest[i:]
	} else {
		c.implementation = rest
		rest = ""
	}

	for _, field := range strings.Split(rest, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		spec, err := parseSpecifier(field)
		if err != nil {
			return Constraint{}, fmt.Errorf("invalid constraint %q: %w", s, err)
		}
		c.specifiers = append(c.specifiers, spec)
	}

	if c.implementation == "" && len(c.specifiers) == 0 {
		return Constraint{}, fmt.Errorf("invalid constraint %q: empty", s)
	}
	return c, nil
}

func parseSpecifier(field string) (specifier, error) {
	for _, op := range operators {
		if !strings.HasPrefix(field, op) {
			continue
		}
		ver := strings.TrimSpace(strings.TrimPrefix(field, op))
		spec := specifier{op: op}
		if strings.HasSuffix(ver, ".*") {
			if op != "==" && op != "!=" {
				return specifier{}, fmt.Errorf("wildcard only allowed with == and !=: %q", field)
			}
			spec.wildcard = true
			ver = strings.TrimSuffix(ver, ".*")
		}
		if !version.Valid(ver) {
			return specifier{}, fmt.Errorf("bad version in %q", field)
		}
		spec.version = ver
		return spec, nil
	}
	return specifier{}, fmt.Errorf("unknown operator in %q", field)
}

// String returns the constraint as written.
func (c Constraint) String() string {
	return c.raw
}

// Matches reports whether an interpreter with the given identity satisfies
// the constraint.
func (c Constraint) Matches(id Identity) bool {
	if c.implementation != "" && !strings.EqualFold(c.implementation, id.Implementation) {
		return false
	}
	for _, spec := range c.specifiers {
		if !spec.matches(id.Version) {
			return false
		}
	}
	return true
}

func (s specifier) matches(v string) bool {
	cmp := version.Compare(v, s.version)
	switch s.op {
	case "==":
		if s.wildcard {
			return hasPrefix(v, s.version)
		}
		return cmp == 0
	case "!=":
		if s.wildcard {
			return !hasPrefix(v, s.version)
		}
		return cmp != 0
	case ">=":
		return cmp >= 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case "<":
		return cmp < 0
	case "~=":
		// ~=2.7 means >=2.7,==2.*; ~=2.7.1 means >=2.7.1,==2.7.*
		if cmp < 0 {
			return false
		}
		if strings.Count(s.version, ".") >= 2 {
			return semver.MajorMinor(version.Canonical(v)) == semver.MajorMinor(version.Canonical(s.version))
		}
		return semver.Major(version.Canonical(v)) == semver.Major(version.Canonical(s.version))
	}
	return false
}

// hasPrefix reports whether version v lies under the release prefix p
// ("2.7" covers 2.7.x).
func hasPrefix(v, p string) bool {
	cv, cp := version.Canonical(v), version.Canonical(p)
	switch strings.Count(p, ".") {
	case 0:
		return semver.Major(cv) == semver.Major(cp)
	case 1:
		return semver.MajorMinor(cv) == semver.MajorMinor(cp)
	default:
		return cv == cp
	}
}

// ParseConstraints parses every constraint in list.
func ParseConstraints(list []string) ([]Constraint, error) {
	constraints := make([]Constraint, 0, len(list))
	for _, s := range list {
		c, err := ParseConstraint(s)
		if err != nil {
			return nil, err
		}
		constraints = append(constraints, c)
	}
	return constraints, nil
}

// MatchesAny reports whether id satisfies at least one constraint.
func MatchesAny(constraints []Constraint, id Identity) bool {
	for _, c := range constraints {
		if c.Matches(id) {
			return true
		}
	}
	return false
}
