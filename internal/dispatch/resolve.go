// Package dispatch decides which installed toolchain version applies to an
// invocation and hands execution off to that version's binary.
package dispatch

import (
	"fmt"
	"path/filepath"

	"github.com/conn-castle/govm/internal/version"
)

// EnvVersionOverride and PinFileName define the override variable and the
// scoped pin marker looked up during resolution.
const (
	EnvVersionOverride = "GOVM_VERSION"
	PinFileName        = "." + version.RuntimeName + "-version"
)

// Source identifies which rule produced a resolved version.
type Source int

// Resolution sources in precedence order.
const (
	SourceUnset Source = iota
	SourceOverride
	SourceScopedPin
	SourceGlobal
)

func (s Source) String() string {
	switch s {
	case SourceOverride:
		return "override"
	case SourceScopedPin:
		return "local"
	case SourceGlobal:
		return "global"
	default:
		return "unset"
	}
}

// String implements fmt.Stringer for log fields.
func (r Resolution) String() string {
	return fmt.Sprintf("%s (%s)", r.Version, r.Describe())
}

// Context carries everything resolution reads. It is built once per
// invocation so resolution itself never consults ambient process state.
type Context struct {
	// Override is the raw override value, usually from GOVM_VERSION.
	Override string
	// WorkingDir is where the scoped pin search starts.
	WorkingDir string
	// GlobalFile is the path of the global default marker.
	GlobalFile string
}

// NewContext builds a Context with the override read from sys.
func NewContext(sys System, workingDir string, globalFile string) Context {
	return Context{
		Override:   sys.Getenv(EnvVersionOverride),
		WorkingDir: workingDir,
		GlobalFile: globalFile,
	}
}

// Resolution is a resolved version together with its provenance. It says
// nothing about whether the version is installed.
type Resolution struct {
	Version string
	Source  Source
	// Path is the marker file that supplied Version; empty for overrides.
	Path string
}

// Describe returns a short human-readable provenance string.
func (r Resolution) Describe() string {
	switch r.Source {
	case SourceOverride:
		return "set by " + EnvVersionOverride
	case SourceScopedPin, SourceGlobal:
		return "set by " + r.Path
	default:
		return "unset"
	}
}

// Resolve applies the precedence chain: override, nearest scoped pin, global
// default. The first rule that yields a non-empty canonical version wins.
func Resolve(sys System, ctx Context) (Resolution, bool) {
	if v := version.Canonical(ctx.Override); v != "" {
		return Resolution{Version: v, Source: SourceOverride}, true
	}
	if path, v, ok := findScopedPin(sys, ctx.WorkingDir); ok {
		return Resolution{Version: v, Source: SourceScopedPin, Path: path}, true
	}
	if v, ok := ReadGlobal(sys, ctx.GlobalFile); ok {
		return Resolution{Version: v, Source: SourceGlobal, Path: ctx.GlobalFile}, true
	}
	return Resolution{Source: SourceUnset}, false
}

// LocateScopedPin returns the scoped pin file that resolution would use,
// ignoring the override. It walks the same candidates as Resolve.
func LocateScopedPin(sys System, ctx Context) (string, bool) {
	path, _, ok := findScopedPin(sys, ctx.WorkingDir)
	return path, ok
}

// findScopedPin walks from start toward the filesystem root and returns the
// first pin file with non-blank content.
func findScopedPin(sys System, start string) (string, string, bool) {
	if start == "" {
		return "", "", false
	}
	dir := filepath.Clean(start)
	for {
		candidate := filepath.Join(dir, PinFileName)
		if v, ok := readMarker(sys, candidate); ok {
			return candidate, v, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", false
		}
		dir = parent
	}
}

// ScopedPinPath returns the pin file path for dir.
func ScopedPinPath(dir string) string {
	return filepath.Join(dir, PinFileName)
}
