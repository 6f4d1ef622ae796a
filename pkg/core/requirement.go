package core

import "strings"

// RequirementKey returns the normalized project name of a requirement
// specifier, e.g. "Pkg[extra]>=1.0; python_version<'3'" -> "pkg".
func RequirementKey(spec string) string {
	spec = strings.TrimSpace(spec)
	if i := strings.IndexAny(spec, "<>=!~;[ @("); i >= 0 {
		spec = spec[:i]
	}
	return strings.ToLower(strings.ReplaceAll(spec, "_", "-"))
}
