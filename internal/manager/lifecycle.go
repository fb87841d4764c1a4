package manager

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/conn-castle/govm/internal/catalog"
	"github.com/conn-castle/govm/internal/dispatch"
	"github.com/conn-castle/govm/internal/messages"
	"github.com/conn-castle/govm/internal/registry"
	"github.com/conn-castle/govm/internal/shim"
)

// InstallResult reports what Install did.
type InstallResult struct {
	Version          string
	AlreadyInstalled bool
	Shims            []shim.Result
	// GlobalSet is true when the version became the global default because
	// it is the only installed version.
	GlobalSet bool
}

// Install installs v unless it is already present. After a fresh install the
// shims are created if missing, and a sole installed version becomes the
// global default.
func (m *Manager) Install(ctx context.Context, v string) (InstallResult, error) {
	c, err := canonical(v)
	if err != nil {
		return InstallResult{}, err
	}
	result := InstallResult{Version: c}
	if m.Registry.IsInstalled(c) {
		result.AlreadyInstalled = true
		return result, nil
	}
	if m.Installer == nil {
		return result, errors.New(messages.ManagerInstallerRequired)
	}

	releases, err := m.Installer.ListCatalog(ctx)
	if err != nil {
		return result, err
	}
	rel, err := catalog.FindRelease(releases, c)
	if err != nil {
		return result, err
	}
	file, err := catalog.SelectFile(rel, m.Platform)
	if err != nil {
		return result, err
	}
	dest := m.Registry.InstallDir(c)
	if err := m.Installer.FetchAndPlace(ctx, file, dest); err != nil {
		return result, err
	}
	if !m.Registry.IsInstalled(c) {
		return result, fmt.Errorf(messages.ManagerInstallerContractFmt, ErrInstallerContract, dest)
	}
	m.Logger.Info().Str("version", c).Msg("installed")

	result.Shims, err = m.EnsureShims()
	if err != nil {
		return result, err
	}

	installed, err := m.Registry.List()
	if err != nil {
		return result, err
	}
	if len(installed) == 1 && installed[0] == c {
		if err := writeMarker(m.GlobalFile, c); err != nil {
			return result, err
		}
		result.GlobalSet = true
	}
	return result, nil
}

// UseResult reports what Use did.
type UseResult struct {
	Install InstallResult
	Scope   Scope
	Path    string
}

// Use installs v if needed and then pins it in scope.
func (m *Manager) Use(ctx context.Context, v string, scope Scope) (UseResult, error) {
	install, err := m.Install(ctx, v)
	if err != nil {
		return UseResult{Install: install, Scope: scope}, err
	}
	result := UseResult{Install: install, Scope: scope}
	if scope == ScopeLocal {
		result.Path, err = m.SetScopedPin(install.Version)
	} else {
		result.Path, err = m.SetGlobal(install.Version)
	}
	return result, err
}

// SetGlobal writes v to the global default marker. v must be installed.
func (m *Manager) SetGlobal(v string) (string, error) {
	return m.setMarker(v, m.GlobalFile)
}

// SetScopedPin writes v to the pin file in the working directory. v must be installed.
func (m *Manager) SetScopedPin(v string) (string, error) {
	if m.WorkingDir == "" {
		return "", errors.New(messages.DispatchWorkingDirRequired)
	}
	return m.setMarker(v, dispatch.ScopedPinPath(m.WorkingDir))
}

func (m *Manager) setMarker(v string, path string) (string, error) {
	c, err := canonical(v)
	if err != nil {
		return "", err
	}
	if !m.Registry.IsInstalled(c) {
		return "", registry.NotInstalledError(c)
	}
	if err := writeMarker(path, c); err != nil {
		return "", err
	}
	m.Logger.Debug().Str("version", c).Str("path", path).Msg("marker written")
	return path, nil
}

// Global returns the global default version, if one is set.
func (m *Manager) Global() (string, bool) {
	return dispatch.ReadGlobal(m.System, m.GlobalFile)
}

// UninstallResult reports what Uninstall did.
type UninstallResult struct {
	Version       string
	Removed       bool
	ClearedGlobal bool
}

// Uninstall removes v. A version that is not installed is reported, not
// treated as an error. When v is the global default the marker is cleared
// before the install directory is removed.
func (m *Manager) Uninstall(v string) (UninstallResult, error) {
	c, err := canonical(v)
	if err != nil {
		return UninstallResult{}, err
	}
	result := UninstallResult{Version: c}
	if !m.Registry.IsInstalled(c) {
		return result, nil
	}
	if global, ok := m.Global(); ok && global == c {
		if err := os.Remove(m.GlobalFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return result, fmt.Errorf(messages.ManagerClearGlobalFmt, m.GlobalFile, err)
		}
		result.ClearedGlobal = true
	}
	if err := m.Registry.Remove(c); err != nil {
		return result, err
	}
	result.Removed = true
	m.Logger.Info().Str("version", c).Bool("cleared_global", result.ClearedGlobal).Msg("uninstalled")
	return result, nil
}
