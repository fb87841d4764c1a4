package manager

import (
	"github.com/conn-castle/govm/internal/shim"
)

// EnsureShims creates missing shims and rewrites stale ones.
func (m *Manager) EnsureShims() ([]shim.Result, error) {
	return shim.EnsureCurrent(m.shimSystem(), m.ShimsDir, m.Executable, m.Binaries)
}

// Rehash rewrites every shim.
func (m *Manager) Rehash() ([]shim.Result, error) {
	return shim.ForceRegenerate(m.shimSystem(), m.ShimsDir, m.Executable, m.Binaries)
}

func (m *Manager) shimSystem() shim.System {
	if m.Shims == nil {
		return shim.RealSystem{}
	}
	return m.Shims
}
