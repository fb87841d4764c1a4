// Package version canonicalizes and orders toolchain version strings.
//
// Every version that enters govm (CLI argument, marker file, catalog entry,
// install directory name) is reduced to its canonical form before it is
// compared or stored, so "go1.22.0", "v1.22.0" and "1.22.0" are the same key.
package version

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// RuntimeName is the runtime token stripped from the front of version strings.
const RuntimeName = "go"

const vMarker = "v"

var keyPattern = regexp.MustCompile(`^(\d+)\.(\d+)(?:\.(\d+))?(.*)$`)

// Canonical strips one leading runtime-name token and one leading "v" marker,
// in either order, and returns the remainder untouched.
// Surrounding whitespace is trimmed first. Canonical never fails.
func Canonical(input string) string {
	s := strings.TrimSpace(input)
	switch {
	case strings.HasPrefix(s, vMarker):
		s = strings.TrimPrefix(s, vMarker)
		s = strings.TrimPrefix(s, RuntimeName)
	case strings.HasPrefix(s, RuntimeName):
		s = strings.TrimPrefix(s, RuntimeName)
		s = strings.TrimPrefix(s, vMarker)
	}
	return s
}

// Valid reports whether name can be used as a canonical version identifier,
// which is also the name of its install directory.
func Valid(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.HasPrefix(name, ".") {
		return false
	}
	if strings.ContainsAny(name, "/\\ \t\r\n") {
		return false
	}
	return Canonical(name) == name
}

// Key is the comparable form of a version.
// An empty Prerelease sorts above any non-empty one with equal numbers.
type Key struct {
	Major      uint64
	Minor      uint64
	Patch      uint64
	Prerelease string
}

// Parse converts a canonical version into a Key. Input that does not look like
// MAJOR.MINOR[.PATCH][suffix] maps to (0,0,0,input) and never fails.
func Parse(canonical string) Key {
	m := keyPattern.FindStringSubmatch(canonical)
	if m == nil {
		return Key{Prerelease: canonical}
	}
	major, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return Key{Prerelease: canonical}
	}
	minor, err := strconv.ParseUint(m[2], 10, 64)
	if err != nil {
		return Key{Prerelease: canonical}
	}
	var patch uint64
	if m[3] != "" {
		patch, err = strconv.ParseUint(m[3], 10, 64)
		if err != nil {
			return Key{Prerelease: canonical}
		}
	}
	return Key{Major: major, Minor: minor, Patch: patch, Prerelease: m[4]}
}

// Compare returns -1, 0 or 1 as a orders before, equal to, or after b.
func Compare(a Key, b Key) int {
	if c := compareUint(a.Major, b.Major); c != 0 {
		return c
	}
	if c := compareUint(a.Minor, b.Minor); c != 0 {
		return c
	}
	if c := compareUint(a.Patch, b.Patch); c != 0 {
		return c
	}
	switch {
	case a.Prerelease == b.Prerelease:
		return 0
	case a.Prerelease == "":
		return 1
	case b.Prerelease == "":
		return -1
	case a.Prerelease < b.Prerelease:
		return -1
	default:
		return 1
	}
}

// CompareStrings canonicalizes and compares two version strings. Versions whose
// keys are equal fall back to comparing their canonical text so the result is a
// total order over distinct strings.
func CompareStrings(a string, b string) int {
	ca, cb := Canonical(a), Canonical(b)
	if c := Compare(Parse(ca), Parse(cb)); c != 0 {
		return c
	}
	return strings.Compare(ca, cb)
}

// SortDescending sorts versions newest first in place.
func SortDescending(versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		ki, kj := Parse(versions[i]), Parse(versions[j])
		if c := Compare(ki, kj); c != 0 {
			return c > 0
		}
		return versions[i] < versions[j]
	})
}

func compareUint(a uint64, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
