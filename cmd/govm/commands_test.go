package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/govm/internal/catalog"
	"github.com/conn-castle/govm/internal/dispatch"
	"github.com/conn-castle/govm/internal/registry"
	"github.com/conn-castle/govm/internal/shim"
	"github.com/conn-castle/govm/internal/testutil"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestInstallBootstrapsShimsAndGlobal(t *testing.T) {
	e := newCLIEnv(t)

	out := e.mustRun("install", "go1.22.0")
	assert.Contains(t, out, "Go 1.22.0 installed successfully!")
	assert.Contains(t, out, "Created shim "+filepath.Join(e.layout.ShimsDir, "go"))
	assert.Contains(t, out, "Created shim "+filepath.Join(e.layout.ShimsDir, "gofmt"))
	assert.Contains(t, out, "Add "+e.layout.ShimsDir+" to the front of your PATH")
	assert.Contains(t, out, "Set Go 1.22.0 as the global default")

	assert.Equal(t, "1.22.0\n", readFile(t, e.layout.GlobalFile))
	assert.Contains(t, readFile(t, filepath.Join(e.layout.ShimsDir, "go")), testExe)
	assert.Len(t, e.installer.fetched, 1)
}

func TestInstallSecondVersionKeepsGlobal(t *testing.T) {
	e := newCLIEnv(t)
	e.mustRun("install", "1.22.0")

	out := e.mustRun("i", "1.21.0")
	assert.Contains(t, out, "Go 1.21.0 installed successfully!")
	assert.NotContains(t, out, "Created shim")
	assert.NotContains(t, out, "global default")
	assert.Equal(t, "1.22.0\n", readFile(t, e.layout.GlobalFile))
}

func TestInstallAlreadyInstalled(t *testing.T) {
	e := newCLIEnv(t)
	e.installed("1.22.0")

	out := e.mustRun("install", "v1.22.0")
	assert.Equal(t, "Go 1.22.0 is already installed\n", out)
	assert.Empty(t, e.installer.fetched)
}

func TestInstallUnknownVersion(t *testing.T) {
	e := newCLIEnv(t)

	err := e.run("install", "1.99.0")
	require.ErrorIs(t, err, catalog.ErrEntryMissing)
	assert.NoDirExists(t, e.layout.ShimsDir)
}

func TestInstallCatalogFailure(t *testing.T) {
	e := newCLIEnv(t)
	e.installer.listErr = errors.New("catalog down")

	require.ErrorContains(t, e.run("install", "1.22.0"), "catalog down")
}

func TestInstallRequiresVersion(t *testing.T) {
	e := newCLIEnv(t)
	require.Error(t, e.run("install"))
}

func TestUseGlobal(t *testing.T) {
	e := newCLIEnv(t)
	e.installed("1.22.0", "1.21.0")

	out := e.mustRun("use", "1.21.0")
	assert.Equal(t, "Now using Go 1.21.0 (global: "+e.layout.GlobalFile+")\n", out)
	assert.Equal(t, "1.21.0\n", readFile(t, e.layout.GlobalFile))
}

func TestUseLocalInstallsAndPins(t *testing.T) {
	e := newCLIEnv(t)
	e.installed("1.22.0")
	require.NoError(t, os.WriteFile(e.layout.GlobalFile, []byte("1.22.0\n"), 0o644))

	out := e.mustRun("use", "--local", "1.21.0")
	pin := filepath.Join(e.wd, dispatch.PinFileName)
	assert.Contains(t, out, "Go 1.21.0 installed successfully!")
	assert.Contains(t, out, "Now using Go 1.21.0 (local: "+pin+")")
	assert.Equal(t, "1.21.0\n", readFile(t, pin))
	assert.Equal(t, "1.22.0\n", readFile(t, e.layout.GlobalFile))
}

func TestGlobalShowAndSet(t *testing.T) {
	e := newCLIEnv(t)
	e.installed("1.22.0")

	assert.Equal(t, "No global version set; run 'govm global <version>'\n", e.mustRun("global"))

	assert.Equal(t, "Global version set to Go 1.22.0\n", e.mustRun("global", "go1.22.0"))
	assert.Equal(t, "1.22.0\n", e.mustRun("global"))
}

func TestGlobalRequiresInstalled(t *testing.T) {
	e := newCLIEnv(t)

	err := e.run("global", "1.22.0")
	require.ErrorIs(t, err, registry.ErrNotInstalled)
	assert.NoFileExists(t, e.layout.GlobalFile)
}

func TestLocalWritesPin(t *testing.T) {
	e := newCLIEnv(t)
	e.installed("1.21.0")

	out := e.mustRun("local", "v1.21.0")
	pin := filepath.Join(e.wd, dispatch.PinFileName)
	assert.Equal(t, "Wrote Go 1.21.0 to "+pin+"\n", out)
	assert.Equal(t, "1.21.0\n", readFile(t, pin))
}

func TestLocalUsesProcessWorkingDir(t *testing.T) {
	e := newCLIEnv(t)
	e.installed("1.21.0")
	getwd = os.Getwd

	dir := t.TempDir()
	testutil.WithWorkingDir(t, dir, func() {
		e.mustRun("local", "1.21.0")
	})
	assert.Equal(t, "1.21.0\n", readFile(t, filepath.Join(dir, dispatch.PinFileName)))
}

func TestVersionShowsProvenance(t *testing.T) {
	e := newCLIEnv(t)
	e.installed("1.22.0", "1.21.0")
	e.mustRun("global", "1.22.0")

	assert.Equal(t, "1.22.0 (set by "+e.layout.GlobalFile+")\n", e.mustRun("version"))

	e.mustRun("local", "1.21.0")
	assert.Equal(t, "1.21.0 (set by "+filepath.Join(e.wd, dispatch.PinFileName)+")\n", e.mustRun("version"))

	t.Setenv(dispatch.EnvVersionOverride, "go1.20.0")
	out := e.mustRun("version")
	assert.Contains(t, out, "1.20.0 (set by GOVM_VERSION)")
	assert.Contains(t, out, "This version is not installed. Run: govm install 1.20.0")
}

func TestVersionNoneConfigured(t *testing.T) {
	e := newCLIEnv(t)

	err := e.run("version")
	var silent *SilentExitError
	require.ErrorAs(t, err, &silent)
	assert.Equal(t, 1, silent.Code)
	assert.Contains(t, e.stdout.String(), "No Go version configured")
	assert.Contains(t, e.stdout.String(), "govm local <version>")
}

func TestVersionsListing(t *testing.T) {
	e := newCLIEnv(t)
	assert.Contains(t, e.mustRun("versions"), "No Go versions installed")

	e.installed("1.21.0", "1.22.0", "1.20.0")
	e.mustRun("global", "1.21.0")
	e.mustRun("local", "1.22.0")

	out := e.mustRun("ls")
	assert.Equal(t, "Installed Go versions:\n"+
		"  * 1.22.0\n"+
		"    1.21.0 (global)\n"+
		"    1.20.0\n", out)
}

func TestListRemote(t *testing.T) {
	e := newCLIEnv(t)
	e.installed("1.21.0")
	e.mustRun("global", "1.21.0")

	out := e.mustRun("list-remote")
	assert.Equal(t, "Available Go versions:\n"+
		"    1.22.0\n"+
		"  * 1.21.0 (installed)\n"+
		"    1.20.0\n"+
		"\n"+
		"Use govm list-remote --all to see all versions including RCs and betas\n", out)

	out = e.mustRun("ls-remote", "--all", "--limit", "2")
	assert.Equal(t, "Available Go versions:\n"+
		"    1.23rc1 (unstable)\n"+
		"    1.22.0\n", out)
}

func TestListRemoteUsesConfiguredLimit(t *testing.T) {
	e := newCLIEnv(t)
	t.Setenv("GOVM_LIST_LIMIT", "1")

	out := e.mustRun("list-remote")
	assert.Contains(t, out, "1.22.0")
	assert.NotContains(t, out, "1.21.0")
}

func TestUninstall(t *testing.T) {
	e := newCLIEnv(t)
	e.installed("1.22.0", "1.21.0")
	e.mustRun("global", "1.22.0")

	out := e.mustRun("rm", "1.21.0")
	assert.Equal(t, "Go 1.21.0 has been uninstalled\n", out)
	assert.FileExists(t, e.layout.GlobalFile)

	out = e.mustRun("uninstall", "1.22.0")
	assert.Equal(t, "Cleared global version\nGo 1.22.0 has been uninstalled\n", out)
	assert.NoFileExists(t, e.layout.GlobalFile)
	assert.NoDirExists(t, filepath.Join(e.layout.VersionsDir, "1.22.0"))

	assert.Equal(t, "Go 1.22.0 is not installed\n", e.mustRun("uninstall", "1.22.0"))
}

func TestWhich(t *testing.T) {
	e := newCLIEnv(t)
	e.installed("1.22.0")
	e.mustRun("global", "1.22.0")

	bin := filepath.Join(e.layout.VersionsDir, "1.22.0", "bin")
	assert.Equal(t, filepath.Join(bin, "go")+"\n", e.mustRun("which"))
	assert.Equal(t, filepath.Join(bin, "gofmt")+"\n", e.mustRun("which", "gofmt"))
	require.ErrorIs(t, e.run("which", "vet"), dispatch.ErrBinaryNotFound)
}

func TestExecHandsOffToResolvedBinary(t *testing.T) {
	e := newCLIEnv(t)
	e.installed("1.22.0")
	e.mustRun("global", "1.22.0")

	e.mustRun("exec", "go", "test", "-v", "./...")
	require.Len(t, e.execs, 1)
	call := e.execs[0]
	root := filepath.Join(e.layout.VersionsDir, "1.22.0")
	assert.Equal(t, filepath.Join(root, "bin", "go"), call.path)
	assert.Equal(t, []string{call.path, "test", "-v", "./..."}, call.args)
	assert.Contains(t, call.env, "GOROOT="+root)
}

func TestExecNotInstalledNeverSpawns(t *testing.T) {
	e := newCLIEnv(t)
	t.Setenv(dispatch.EnvVersionOverride, "1.22.0")

	err := e.run("exec", "go", "version")
	require.ErrorIs(t, err, registry.ErrNotInstalled)
	assert.Contains(t, err.Error(), "set by GOVM_VERSION")
	assert.Empty(t, e.execs)
}

func TestExecNoVersionConfigured(t *testing.T) {
	e := newCLIEnv(t)
	require.ErrorIs(t, e.run("exec", "go"), dispatch.ErrNoVersionConfigured)
}

func TestExecRequiresBinary(t *testing.T) {
	e := newCLIEnv(t)
	require.ErrorContains(t, e.run("exec"), "exec requires a binary name")
}

func TestRehashRewritesShims(t *testing.T) {
	e := newCLIEnv(t)
	require.NoError(t, os.MkdirAll(e.layout.ShimsDir, 0o755))
	stale := shim.Content("/opt/govm-b/bin/govm", "go")
	require.NoError(t, os.WriteFile(filepath.Join(e.layout.ShimsDir, "go"), stale, 0o644))

	out := e.mustRun("rehash", "-v")
	assert.Contains(t, out, "Regenerating shims...")
	assert.Contains(t, out, "Updated shim "+filepath.Join(e.layout.ShimsDir, "go"))
	assert.Contains(t, out, "-# govm: /opt/govm-b/bin/govm")
	assert.Contains(t, out, "+# govm: "+testExe)
	assert.Contains(t, out, "Created shim "+filepath.Join(e.layout.ShimsDir, "gofmt"))
	assert.Contains(t, out, "Shims regenerated in "+e.layout.ShimsDir)

	info, err := os.Stat(filepath.Join(e.layout.ShimsDir, "go"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode().Perm()&0o100)
}

func TestStaleShimsRefreshedOnNextCommand(t *testing.T) {
	e := newCLIEnv(t)
	e.mustRun("install", "1.22.0")
	goShim := filepath.Join(e.layout.ShimsDir, "go")

	const moved = "/usr/local/other/govm"
	resolveExecutable = func() (string, error) { return moved, nil }

	e.mustRun("exec", "go", "version")
	assert.Contains(t, readFile(t, goShim), testExe)

	e.mustRun("versions")
	assert.Contains(t, readFile(t, goShim), moved)
	assert.Contains(t, e.stderr.String(), "Updated shim "+goShim)
}

func TestShimsNotCreatedBeforeFirstInstall(t *testing.T) {
	e := newCLIEnv(t)
	e.mustRun("versions")
	assert.NoDirExists(t, e.layout.ShimsDir)
}

func TestPruneWithYes(t *testing.T) {
	e := newCLIEnv(t)
	e.installed("1.20.0", "1.21.0", "1.22.0", "1.19.0")
	e.mustRun("global", "1.19.0")

	out := e.mustRun("prune", "--keep", "1", "--yes")
	assert.Contains(t, out, "The following versions will be removed:")
	assert.Contains(t, out, "Keeping 1.22.0")
	assert.Contains(t, out, "Keeping Go 1.19.0 (global default)")
	assert.Contains(t, out, "Removed Go 1.21.0")
	assert.Contains(t, out, "Removed Go 1.20.0")
	assert.Contains(t, out, "Pruned 2 version(s)")

	assert.DirExists(t, filepath.Join(e.layout.VersionsDir, "1.22.0"))
	assert.DirExists(t, filepath.Join(e.layout.VersionsDir, "1.19.0"))
	assert.NoDirExists(t, filepath.Join(e.layout.VersionsDir, "1.21.0"))
}

func TestPruneDeclined(t *testing.T) {
	e := newCLIEnv(t)
	e.installed("1.20.0", "1.21.0")
	e.stdin = "n\n"

	out := e.mustRun("prune", "--keep", "1")
	assert.Contains(t, out, "Remove these versions? [y/N]: ")
	assert.Contains(t, out, "Prune cancelled")
	assert.DirExists(t, filepath.Join(e.layout.VersionsDir, "1.20.0"))
}

func TestPruneConfirmedByPrompt(t *testing.T) {
	e := newCLIEnv(t)
	e.installed("1.20.0", "1.21.0")
	e.stdin = "y\n"

	out := e.mustRun("prune", "--keep", "1")
	assert.Contains(t, out, "Removed Go 1.20.0")
	assert.NoDirExists(t, filepath.Join(e.layout.VersionsDir, "1.20.0"))
}

func TestPruneNothingToDo(t *testing.T) {
	e := newCLIEnv(t)
	e.installed("1.20.0", "1.21.0")

	out := e.mustRun("prune")
	assert.Equal(t, "Nothing to prune. 2 versions installed, keeping 3.\n", out)
}

func TestPruneOnlyProtected(t *testing.T) {
	e := newCLIEnv(t)
	e.installed("1.20.0", "1.21.0")
	e.mustRun("global", "1.20.0")

	out := e.mustRun("prune", "--keep", "1")
	assert.Equal(t, "Keeping Go 1.20.0 (global default)\nNothing to prune. 2 versions installed, keeping 1.\n", out)
}

func TestPruneRejectsNegativeKeep(t *testing.T) {
	e := newCLIEnv(t)
	require.ErrorContains(t, e.run("prune", "--keep", "-1"), "keep must be >= 0")
}

func TestConfigPrintsEffectiveSettings(t *testing.T) {
	e := newCLIEnv(t)
	require.NoError(t, os.MkdirAll(e.root, 0o755))
	require.NoError(t, os.WriteFile(e.layout.ConfigFile, []byte("prune_keep = 5\n"), 0o644))

	out := e.mustRun("config")
	assert.Contains(t, out, "prune_keep = 5")
	assert.Contains(t, out, "list_limit = 20")
	assert.Contains(t, out, "[paths]")
	assert.Contains(t, out, e.layout.VersionsDir)
}

func TestConfigInvalidFileFails(t *testing.T) {
	e := newCLIEnv(t)
	require.NoError(t, os.WriteFile(e.layout.ConfigFile, []byte("bogus_key = 1\n"), 0o644))

	require.Error(t, e.run("versions"))
}
