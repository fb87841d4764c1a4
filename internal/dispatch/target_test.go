package dispatch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/govm/internal/registry"
)

func newTestRegistry(t *testing.T, installed ...string) *registry.Registry {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "versions")
	for _, v := range installed {
		bin := filepath.Join(dir, v, registry.BinDir)
		require.NoError(t, os.MkdirAll(bin, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(bin, "go"), []byte("#!/bin/sh\n"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(bin, "gofmt"), []byte("#!/bin/sh\n"), 0o755))
	}
	return registry.New(dir, zerolog.Nop())
}

func TestLocateNoVersionConfigured(t *testing.T) {
	reg := newTestRegistry(t, "1.21.0")
	_, err := Locate(&testSystem{}, reg, Context{WorkingDir: t.TempDir()}, "go")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoVersionConfigured))
	assert.Contains(t, err.Error(), "govm global")
}

func TestLocateNotInstalled(t *testing.T) {
	reg := newTestRegistry(t, "1.21.0")
	target, err := Locate(&testSystem{}, reg, Context{Override: "1.22.0"}, "go")
	require.Error(t, err)
	assert.True(t, errors.Is(err, registry.ErrNotInstalled))
	assert.Contains(t, err.Error(), "1.22.0")
	assert.Contains(t, err.Error(), EnvVersionOverride)
	assert.Equal(t, "1.22.0", target.Resolution.Version)
}

func TestLocateBinaryNotFound(t *testing.T) {
	reg := newTestRegistry(t, "1.21.0")
	for _, binary := range []string{"vet-nope", "../go", "..", "bin/go"} {
		_, err := Locate(&testSystem{}, reg, Context{Override: "1.21.0"}, binary)
		require.Error(t, err, binary)
		assert.True(t, errors.Is(err, ErrBinaryNotFound), binary)
	}
}

func TestLocateBinaryIsDirectory(t *testing.T) {
	reg := newTestRegistry(t, "1.21.0")
	require.NoError(t, os.MkdirAll(reg.BinaryPath("1.21.0", "tooldir"), 0o755))
	_, err := Locate(&testSystem{}, reg, Context{Override: "1.21.0"}, "tooldir")
	assert.True(t, errors.Is(err, ErrBinaryNotFound))
}

func TestLocateStatError(t *testing.T) {
	reg := newTestRegistry(t, "1.21.0")
	sys := &testSystem{StatFunc: func(string) (os.FileInfo, error) { return nil, os.ErrPermission }}
	_, err := Locate(sys, reg, Context{Override: "1.21.0"}, "go")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrBinaryNotFound))
	assert.True(t, errors.Is(err, os.ErrPermission))
}

func TestLocateRequiresInputs(t *testing.T) {
	reg := newTestRegistry(t)
	_, err := Locate(nil, reg, Context{}, "go")
	require.Error(t, err)
	_, err = Locate(&testSystem{}, reg, Context{}, "  ")
	require.Error(t, err)
}

func TestLocateSuccess(t *testing.T) {
	reg := newTestRegistry(t, "1.21.0", "1.22.0")
	work := t.TempDir()
	writeFile(t, filepath.Join(work, PinFileName), "go1.21.0\n")

	target, err := Locate(&testSystem{}, reg, Context{WorkingDir: work}, "gofmt")
	require.NoError(t, err)
	assert.Equal(t, "1.21.0", target.Resolution.Version)
	assert.Equal(t, SourceScopedPin, target.Resolution.Source)
	assert.Equal(t, reg.BinaryPath("1.21.0", "gofmt"), target.Path)
	assert.Equal(t, reg.InstallDir("1.21.0"), target.Root)
}

func TestExecNotInstalledNeverSpawns(t *testing.T) {
	reg := newTestRegistry(t, "1.21.0")
	global := filepath.Join(t.TempDir(), "version")
	writeFile(t, global, "1.20.0")

	sys := &testSystem{
		GetenvFunc: func(string) string { return "" },
		ExecBinaryFunc: func(string, []string, []string) error {
			t.Fatal("ExecBinary must not be called")
			return nil
		},
	}
	err := Exec(sys, reg, Context{WorkingDir: t.TempDir(), GlobalFile: global}, "go", []string{"version"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, registry.ErrNotInstalled))
	assert.Contains(t, err.Error(), global)
}

func TestExecHandsOff(t *testing.T) {
	reg := newTestRegistry(t, "1.22.0")
	var gotPath string
	var gotArgs, gotEnv []string
	sys := &testSystem{
		EnvironFunc: func() []string {
			return []string{"PATH=/usr/bin", "GOROOT=/stale", "HOME=/home/u"}
		},
		ExecBinaryFunc: func(path string, args []string, env []string) error {
			gotPath, gotArgs, gotEnv = path, args, env
			return nil
		},
	}

	err := Exec(sys, reg, Context{Override: "1.22.0"}, "go", []string{"build", "./..."})
	require.ErrorIs(t, err, ErrDispatched)

	want := reg.BinaryPath("1.22.0", "go")
	assert.Equal(t, want, gotPath)
	assert.Equal(t, []string{want, "build", "./..."}, gotArgs)
	assert.Equal(t, []string{"PATH=/usr/bin", "HOME=/home/u", "GOROOT=" + reg.InstallDir("1.22.0")}, gotEnv)
}

func TestExecWrapsExecError(t *testing.T) {
	reg := newTestRegistry(t, "1.22.0")
	execErr := errors.New("exec format error")
	sys := &testSystem{
		EnvironFunc:    func() []string { return nil },
		ExecBinaryFunc: func(string, []string, []string) error { return execErr },
	}
	err := Exec(sys, reg, Context{Override: "1.22.0"}, "go", nil)
	require.ErrorIs(t, err, execErr)
	assert.NotErrorIs(t, err, ErrDispatched)
}

func TestSetEnv(t *testing.T) {
	env := SetEnv([]string{"A=1", "GOROOT=/a", "B=2", "GOROOT=/b"}, "GOROOT", "/c")
	assert.Equal(t, []string{"A=1", "B=2", "GOROOT=/c"}, env)
	assert.Equal(t, []string{"X=y"}, SetEnv(nil, "X", "y"))
}
