// Package version orders the loosely formatted version strings reported by
// interpreters and JDKs ("2.7.13", "1.8.0_181", "11") by mapping them onto
// semantic versions.
package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Canonical returns the "vMAJOR.MINOR.PATCH" form of v, or "" if v does not
// start with a number. Components past the third and any non-numeric
// suffix ("_181", "rc1") are dropped.
func Canonical(v string) string {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	var parts []string
	for _, field := range strings.Split(v, ".") {
		digits := leadingDigits(field)
		if digits == "" {
			break
		}
		parts = append(parts, strings.TrimLeft(digits, "0"))
		if parts[len(parts)-1] == "" {
			parts[len(parts)-1] = "0"
		}
		if len(parts) == 3 || len(digits) != len(field) {
			break
		}
	}
	if len(parts) == 0 {
		return ""
	}
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	return "v" + strings.Join(parts, ".")
}

// Valid reports whether v has a canonical form.
func Valid(v string) bool {
	return Canonical(v) != ""
}

// Compare returns -1, 0 or +1 as a is older than, equal to or newer than b.
// Unparseable versions sort before all parseable ones.
func Compare(a, b string) int {
	return semver.Compare(Canonical(a), Canonical(b))
}

// MajorMinor returns the "vMAJOR.MINOR" prefix of v, or "" if v is invalid.
func MajorMinor(v string) string {
	return semver.MajorMinor(Canonical(v))
}

func leadingDigits(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i]
}
