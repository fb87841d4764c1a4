// Package registry derives the installed version set from the versions
// directory. The directory tree is the only source of truth; there is no index.
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/conn-castle/govm/internal/messages"
	"github.com/conn-castle/govm/internal/version"
)

// ErrNotInstalled reports that a version has no install directory.
var ErrNotInstalled = errors.New(messages.RegistryNotInstalled)

// BinDir is the subdirectory of an install tree holding toolchain binaries.
const BinDir = "bin"

var (
	osRename    = os.Rename
	osRemoveAll = os.RemoveAll
)

// Registry reads and mutates the set of installed versions under Dir.
type Registry struct {
	Dir    string
	Logger zerolog.Logger
}

// New returns a Registry rooted at dir.
func New(dir string, logger zerolog.Logger) *Registry {
	return &Registry{Dir: dir, Logger: logger}
}

// NotInstalledError wraps ErrNotInstalled with install guidance for v.
func NotInstalledError(v string) error {
	return fmt.Errorf(messages.RegistryNotInstalledFmt, ErrNotInstalled, v, v)
}

// List returns installed canonical versions, newest first. Entries that are
// not directories or whose names are not canonical versions are skipped.
func (r *Registry) List() ([]string, error) {
	entries, err := os.ReadDir(r.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf(messages.RegistryReadVersionsDirFmt, r.Dir, err)
	}
	versions := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !version.Valid(name) {
			continue
		}
		if !r.isDir(entry) {
			continue
		}
		versions = append(versions, name)
	}
	version.SortDescending(versions)
	return versions, nil
}

func (r *Registry) isDir(entry os.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(r.Dir, entry.Name()))
	return err == nil && info.IsDir()
}

// IsInstalled reports whether v has an install directory.
func (r *Registry) IsInstalled(v string) bool {
	v = version.Canonical(v)
	if !version.Valid(v) {
		return false
	}
	info, err := os.Stat(r.InstallDir(v))
	return err == nil && info.IsDir()
}

// InstallDir returns the install directory for v, whether or not it exists.
func (r *Registry) InstallDir(v string) string {
	return filepath.Join(r.Dir, version.Canonical(v))
}

// BinaryPath returns the path of binary inside the install tree of v.
func (r *Registry) BinaryPath(v string, binary string) string {
	return filepath.Join(r.InstallDir(v), BinDir, binary)
}

// Remove deletes the install directory of v. Removing a version that is not
// installed succeeds without doing anything.
//
// The directory is first renamed to a hidden name so concurrent readers see
// the version disappear at once rather than a partially deleted tree.
func (r *Registry) Remove(v string) error {
	v = version.Canonical(v)
	if !version.Valid(v) {
		return nil
	}
	dir := r.InstallDir(v)
	if _, err := os.Lstat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf(messages.RegistryStatFmt, dir, err)
	}
	trash, err := os.MkdirTemp(r.Dir, ".remove-"+v+"-")
	if err != nil {
		return fmt.Errorf(messages.RegistryRenameForRemoveFmt, dir, err)
	}
	target := filepath.Join(trash, v)
	if err := osRename(dir, target); err != nil {
		_ = os.Remove(trash)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf(messages.RegistryRenameForRemoveFmt, dir, err)
	}
	r.Logger.Debug().Str("version", v).Str("trash", trash).Msg("install dir moved aside")
	if err := osRemoveAll(trash); err != nil {
		return fmt.Errorf(messages.RegistryRemoveFmt, trash, err)
	}
	return nil
}
