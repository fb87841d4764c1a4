package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/govm/internal/catalog"
	"github.com/conn-castle/govm/internal/config"
	"github.com/conn-castle/govm/internal/dispatch"
	"github.com/conn-castle/govm/internal/manager"
	"github.com/conn-castle/govm/internal/testutil"
)

const testExe = "/opt/govm-a/bin/govm"

type execCall struct {
	path string
	args []string
	env  []string
}

// cliSystem is the real OS view with the process hand-off recorded instead.
type cliSystem struct {
	dispatch.RealSystem
	calls *[]execCall
}

func (s cliSystem) ExecBinary(path string, args []string, env []string) error {
	*s.calls = append(*s.calls, execCall{path: path, args: args, env: env})
	return nil
}

type cliInstaller struct {
	releases []catalog.Release
	listErr  error
	place    func(dest string) error
	fetched  []string
}

func (f *cliInstaller) ListCatalog(ctx context.Context) ([]catalog.Release, error) {
	return f.releases, f.listErr
}

func (f *cliInstaller) FetchAndPlace(ctx context.Context, file catalog.File, dest string) error {
	f.fetched = append(f.fetched, file.Filename)
	return f.place(dest)
}

type cliEnv struct {
	t         *testing.T
	root      string
	wd        string
	layout    config.Layout
	installer *cliInstaller
	execs     []execCall
	stdin     string
	stdout    bytes.Buffer
	stderr    bytes.Buffer
}

func release(v string, stable bool) catalog.Release {
	p := catalog.CurrentPlatform()
	return catalog.Release{
		Version: "go" + v,
		Stable:  stable,
		Files: []catalog.File{{
			Filename: "go" + v + "." + p.OS + "-" + p.Arch + ".tar.gz",
			OS:       p.OS,
			Arch:     p.Arch,
			Version:  "go" + v,
			Kind:     catalog.KindArchive,
		}},
	}
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	root := t.TempDir()
	wd := t.TempDir()
	t.Setenv(config.EnvRoot, root)
	t.Setenv(dispatch.EnvVersionOverride, "")
	t.Setenv(catalog.EnvNoNetwork, "")

	e := &cliEnv{
		t:      t,
		root:   root,
		wd:     wd,
		layout: config.NewLayout(root),
		installer: &cliInstaller{releases: []catalog.Release{
			release("1.23rc1", false),
			release("1.22.0", true),
			release("1.21.0", true),
			release("1.20.0", true),
		}},
	}

	origNoColor := color.NoColor
	origGetwd := getwd
	origExe := resolveExecutable
	origInstaller := newInstaller
	origSystem := newSystem
	origInteractive := isInteractive
	t.Cleanup(func() {
		color.NoColor = origNoColor
		getwd = origGetwd
		resolveExecutable = origExe
		newInstaller = origInstaller
		newSystem = origSystem
		isInteractive = origInteractive
	})

	color.NoColor = true
	getwd = func() (string, error) { return e.wd, nil }
	resolveExecutable = func() (string, error) { return testExe, nil }
	newInstaller = func(cfg *config.Config, stdout io.Writer) (manager.Installer, error) {
		return e.installer, nil
	}
	newSystem = func() dispatch.System { return cliSystem{calls: &e.execs} }
	isInteractive = func() bool { return false }
	e.installer.place = func(dest string) error {
		testutil.WriteToolchain(t, filepath.Dir(dest), filepath.Base(dest), "go", "gofmt")
		return nil
	}
	return e
}

// run executes govm with args and returns the error. Output accumulates in
// e.stdout and e.stderr.
func (e *cliEnv) run(args ...string) error {
	e.stdout.Reset()
	e.stderr.Reset()
	return execute(append([]string{"govm"}, args...), strings.NewReader(e.stdin), &e.stdout, &e.stderr)
}

func (e *cliEnv) mustRun(args ...string) string {
	e.t.Helper()
	err := e.run(args...)
	require.NoError(e.t, err, "stderr: %s", e.stderr.String())
	return e.stdout.String()
}

func (e *cliEnv) installed(versions ...string) {
	e.t.Helper()
	for _, v := range versions {
		testutil.WriteToolchain(e.t, e.layout.VersionsDir, v, "go", "gofmt")
	}
}
