package manager

import (
	"context"
	"errors"

	"github.com/conn-castle/govm/internal/catalog"
	"github.com/conn-castle/govm/internal/dispatch"
	"github.com/conn-castle/govm/internal/messages"
)

// Status is the resolved version for the current invocation.
type Status struct {
	Resolution dispatch.Resolution
	Configured bool
	Installed  bool
}

// Current resolves the active version and reports whether it is installed.
func (m *Manager) Current() Status {
	res, ok := dispatch.Resolve(m.System, m.Context())
	if !ok {
		return Status{Resolution: res}
	}
	return Status{
		Resolution: res,
		Configured: true,
		Installed:  m.Registry.IsInstalled(res.Version),
	}
}

// Which locates binary for the active version without running it.
func (m *Manager) Which(binary string) (dispatch.Target, error) {
	return dispatch.Locate(m.System, m.Registry, m.Context(), binary)
}

// Exec hands the process off to binary of the active version.
func (m *Manager) Exec(binary string, args []string) error {
	return dispatch.Exec(m.System, m.Registry, m.Context(), binary, args)
}

// InstalledVersion is one entry of List.
type InstalledVersion struct {
	Version string
	Current bool
	Global  bool
}

// List returns installed versions, newest first, labeled with the current
// and global selections.
func (m *Manager) List() ([]InstalledVersion, error) {
	versions, err := m.Registry.List()
	if err != nil {
		return nil, err
	}
	current := m.Current()
	global, _ := m.Global()
	out := make([]InstalledVersion, 0, len(versions))
	for _, v := range versions {
		out = append(out, InstalledVersion{
			Version: v,
			Current: current.Configured && current.Resolution.Version == v,
			Global:  global == v,
		})
	}
	return out, nil
}

// RemoteVersion is one entry of ListRemote.
type RemoteVersion struct {
	Version   string
	Stable    bool
	Installed bool
	Current   bool
}

// ListRemote returns catalog releases, newest first. Unstable releases are
// included only when all is set; limit <= 0 means no limit.
func (m *Manager) ListRemote(ctx context.Context, all bool, limit int) ([]RemoteVersion, error) {
	if m.Installer == nil {
		return nil, errors.New(messages.ManagerInstallerRequired)
	}
	releases, err := m.Installer.ListCatalog(ctx)
	if err != nil {
		return nil, err
	}
	installed, err := m.Registry.List()
	if err != nil {
		return nil, err
	}
	isInstalled := make(map[string]bool, len(installed))
	for _, v := range installed {
		isInstalled[v] = true
	}
	current := m.Current()

	filtered := catalog.Filter(releases, all, limit)
	out := make([]RemoteVersion, 0, len(filtered))
	for _, rel := range filtered {
		v := rel.Canonical()
		out = append(out, RemoteVersion{
			Version:   v,
			Stable:    rel.Stable,
			Installed: isInstalled[v],
			Current:   current.Configured && current.Resolution.Version == v,
		})
	}
	return out, nil
}
