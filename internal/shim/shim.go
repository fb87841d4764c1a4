// Package shim writes the redirect scripts that route toolchain binary
// invocations back through govm exec.
//
// A shim is bound to the absolute path of the govm executable that wrote it and
// is rewritten only when that path no longer appears in its content.
package shim

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aymanbagabas/go-udiff"

	"github.com/conn-castle/govm/internal/fsutil"
	"github.com/conn-castle/govm/internal/logging"
	"github.com/conn-castle/govm/internal/messages"
)

// System is the minimal interface needed for shim operations.
type System interface {
	MkdirAll(path string, perm os.FileMode) error
	ReadFile(name string) ([]byte, error)
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error
	Chmod(name string, mode os.FileMode) error
}

// RealSystem implements System using actual system calls.
type RealSystem struct{}

// MkdirAll creates a directory and all parent directories.
func (RealSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// ReadFile reads the named file and returns the contents.
func (RealSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// WriteFileAtomic writes data to path atomically.
func (RealSystem) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	return fsutil.WriteFileAtomic(path, data, perm)
}

// Chmod changes the mode of the named file.
func (RealSystem) Chmod(name string, mode os.FileMode) error {
	return os.Chmod(name, mode)
}

const shimPerm os.FileMode = 0o755

// Action describes what happened to a single shim.
type Action string

// Shim actions.
const (
	ActionCreated   Action = "created"
	ActionUpdated   Action = "updated"
	ActionUnchanged Action = "unchanged"
)

// Result reports the outcome for one managed binary.
type Result struct {
	Name   string
	Path   string
	Action Action
	// Diff is a unified diff of the previous content for updated shims.
	Diff string
}

// Written reports whether the shim file was written.
func (r Result) Written() bool {
	return r.Action != ActionUnchanged
}

// Content returns the shim script for name bound to exe.
func Content(exe string, name string) []byte {
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	b.WriteString(messages.ShimHeader + "\n")
	fmt.Fprintf(&b, messages.ShimBoundToFmt+"\n", exe)
	fmt.Fprintf(&b, "exec %s exec %s \"$@\"\n", shellQuote(exe), shellQuote(name))
	return []byte(b.String())
}

// IsStale reports whether content is not bound to exe.
func IsStale(content []byte, exe string) bool {
	return !strings.Contains(string(content), exe)
}

// EnsureCurrent writes missing shims and rewrites stale ones. Shims already
// bound to exe are left untouched.
func EnsureCurrent(sys System, dir string, exe string, names []string) ([]Result, error) {
	return writeShims(sys, dir, exe, names, false)
}

// ForceRegenerate rewrites every shim regardless of its current content.
func ForceRegenerate(sys System, dir string, exe string, names []string) ([]Result, error) {
	return writeShims(sys, dir, exe, names, true)
}

func writeShims(sys System, dir string, exe string, names []string, force bool) ([]Result, error) {
	if strings.TrimSpace(exe) == "" {
		return nil, errors.New(messages.ShimExecutableRequired)
	}
	for _, name := range names {
		if !validName(name) {
			return nil, fmt.Errorf(messages.ShimInvalidBinaryFmt, name)
		}
	}
	if err := sys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf(messages.ShimCreateDirFmt, dir, err)
	}

	logger := logging.For("shim")
	results := make([]Result, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		result := Result{Name: name, Path: path, Action: ActionUnchanged}

		existing, err := sys.ReadFile(path)
		exists := err == nil
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return results, fmt.Errorf(messages.ShimReadFmt, path, err)
		}
		if exists && !force && !IsStale(existing, exe) {
			results = append(results, result)
			continue
		}

		content := Content(exe, name)
		if err := sys.WriteFileAtomic(path, content, shimPerm); err != nil {
			return results, fmt.Errorf(messages.ShimWriteFmt, path, err)
		}
		if err := sys.Chmod(path, shimPerm); err != nil {
			return results, fmt.Errorf(messages.ShimChmodFmt, path, err)
		}

		if exists {
			result.Action = ActionUpdated
			if string(existing) != string(content) {
				result.Diff = udiff.Unified(path+" (old)", path, string(existing), string(content))
			}
			logger.Debug().Str("shim", path).Bool("forced", force).Msg(messages.ShimRewritten)
		} else {
			result.Action = ActionCreated
			logger.Debug().Str("shim", path).Msg(messages.ShimCreated)
		}
		results = append(results, result)
	}
	return results, nil
}

func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/\\ \t\r\n")
}

// shellQuote wraps s in single quotes for POSIX sh.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
