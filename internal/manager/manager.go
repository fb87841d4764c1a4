// Package manager composes resolution, the installation registry, shims, and
// the installer into the govm lifecycle operations.
package manager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/conn-castle/govm/internal/catalog"
	"github.com/conn-castle/govm/internal/dispatch"
	"github.com/conn-castle/govm/internal/fsutil"
	"github.com/conn-castle/govm/internal/messages"
	"github.com/conn-castle/govm/internal/registry"
	"github.com/conn-castle/govm/internal/shim"
	"github.com/conn-castle/govm/internal/version"
)

// ErrInvalidVersion and ErrInstallerContract are the orchestration conditions.
var (
	ErrInvalidVersion    = errors.New(messages.ManagerInvalidVersion)
	ErrInstallerContract = errors.New(messages.ManagerInstallerContract)
)

var (
	osExecutable    = os.Executable
	evalSymlinks    = filepath.EvalSymlinks
	writeFileAtomic = fsutil.WriteFileAtomic
)

// Installer fetches the catalog and places release files on disk. FetchAndPlace
// must either fully populate dest or leave it absent.
type Installer interface {
	ListCatalog(ctx context.Context) ([]catalog.Release, error)
	FetchAndPlace(ctx context.Context, file catalog.File, dest string) error
}

// Scope selects which marker Use writes.
type Scope int

// Marker scopes.
const (
	ScopeGlobal Scope = iota
	ScopeLocal
)

func (s Scope) String() string {
	if s == ScopeLocal {
		return "local"
	}
	return "global"
}

// Manager runs lifecycle operations for one invocation.
type Manager struct {
	Registry  *registry.Registry
	Installer Installer
	System    dispatch.System
	Shims     shim.System

	ShimsDir   string
	GlobalFile string
	// Binaries are the managed binary names that get shims.
	Binaries []string
	// Executable is the absolute path of the running govm binary.
	Executable string
	WorkingDir string
	Platform   catalog.Platform
	Logger     zerolog.Logger
}

// ResolveExecutable returns the absolute, symlink-free path of the running binary.
func ResolveExecutable() (string, error) {
	exe, err := osExecutable()
	if err != nil {
		return "", fmt.Errorf(messages.ManagerResolveExecutableFmt, err)
	}
	resolved, err := evalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf(messages.ManagerResolveExecutableFmt, err)
	}
	return filepath.Abs(resolved)
}

// Context returns the resolution context for this invocation.
func (m *Manager) Context() dispatch.Context {
	return dispatch.NewContext(m.System, m.WorkingDir, m.GlobalFile)
}

// canonical canonicalizes v and rejects values that cannot name an install directory.
func canonical(v string) (string, error) {
	c := version.Canonical(v)
	if !version.Valid(c) {
		return "", fmt.Errorf(messages.ManagerInvalidVersionFmt, ErrInvalidVersion, v)
	}
	return c, nil
}

// writeMarker overwrites a version marker file as a whole.
func writeMarker(path string, v string) error {
	if err := writeFileAtomic(path, []byte(v+"\n"), 0o644); err != nil {
		return fmt.Errorf(messages.ManagerWriteMarkerFmt, path, err)
	}
	return nil
}
