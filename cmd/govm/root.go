package main

import (
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/conn-castle/govm/internal/catalog"
	"github.com/conn-castle/govm/internal/config"
	"github.com/conn-castle/govm/internal/dispatch"
	"github.com/conn-castle/govm/internal/install"
	"github.com/conn-castle/govm/internal/logging"
	"github.com/conn-castle/govm/internal/manager"
	"github.com/conn-castle/govm/internal/messages"
	"github.com/conn-castle/govm/internal/registry"
)

var (
	getwd             = os.Getwd
	getenv            = os.Getenv
	resolveExecutable = manager.ResolveExecutable
	newInstaller      = defaultInstaller
	newSystem         = func() dispatch.System { return dispatch.RealSystem{} }
)

const flagVerbose = "verbose"

func newRootCmd() *cobra.Command {
	var level int
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		Long:          messages.RootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(level, cmd.ErrOrStderr())
		},
	}
	cmd.PersistentFlags().CountVarP(&level, flagVerbose, "v", messages.RootVerboseFlag)

	cmd.AddCommand(
		newInstallCmd(),
		newUseCmd(),
		newGlobalCmd(),
		newLocalCmd(),
		newCurrentCmd(),
		newVersionsCmd(),
		newListRemoteCmd(),
		newUninstallCmd(),
		newWhichCmd(),
		newExecCmd(),
		newRehashCmd(),
		newPruneCmd(),
		newConfigCmd(),
	)
	return cmd
}

// app is the per-invocation wiring shared by every command.
type app struct {
	layout  config.Layout
	cfg     *config.Config
	manager *manager.Manager
}

// annotationNoShimRefresh marks commands that must not touch the shims dir
// before running.
const annotationNoShimRefresh = "govm/no-shim-refresh"

// loadApp resolves the layout and configuration and builds the manager.
// Existing shims bound to a different govm executable are rewritten first.
func loadApp(cmd *cobra.Command) (*app, error) {
	root, err := config.ResolveRoot(getenv)
	if err != nil {
		return nil, err
	}
	layout := config.NewLayout(root)
	cfg, err := config.Load(layout)
	if err != nil {
		return nil, err
	}
	wd, err := getwd()
	if err != nil {
		return nil, err
	}
	exe, err := resolveExecutable()
	if err != nil {
		return nil, err
	}
	installer, err := newInstaller(cfg, cmd.OutOrStdout())
	if err != nil {
		return nil, err
	}
	m := &manager.Manager{
		Registry:   registry.New(layout.VersionsDir, logging.For("registry")),
		Installer:  installer,
		System:     newSystem(),
		ShimsDir:   layout.ShimsDir,
		GlobalFile: layout.GlobalFile,
		Binaries:   cfg.Binaries,
		Executable: exe,
		WorkingDir: wd,
		Platform:   catalog.CurrentPlatform(),
		Logger:     logging.For("manager"),
	}
	a := &app{layout: layout, cfg: cfg, manager: m}
	if cmd.Annotations[annotationNoShimRefresh] == "" {
		a.refreshShims(cmd)
	}
	return a, nil
}

// refreshShims rewrites stale shims when the shims dir already exists.
// Failures are logged and never fail the command.
func (a *app) refreshShims(cmd *cobra.Command) {
	logger := logging.For("shim")
	info, err := os.Stat(a.layout.ShimsDir)
	if err != nil || !info.IsDir() {
		return
	}
	results, err := a.manager.EnsureShims()
	if err != nil {
		logger.Warn().Err(err).Msg(messages.ShimRefreshFailed)
		return
	}
	printShimResults(cmd.ErrOrStderr(), results, verbosity(cmd) > 0)
}

// verbosity returns the -v count for cmd.
func verbosity(cmd *cobra.Command) int {
	n, err := cmd.Flags().GetCount(flagVerbose)
	if err != nil {
		return 0
	}
	return n
}

func defaultInstaller(cfg *config.Config, stdout io.Writer) (manager.Installer, error) {
	logger := logging.For("install")
	cachePath, err := catalog.DefaultCachePath()
	if err != nil {
		logger.Warn().Err(err).Msg(messages.CatalogCacheDisabled)
		cachePath = ""
	}
	noNetwork := catalog.NetworkDisabled(getenv)
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	return &install.Downloader{
		Catalog: &catalog.Client{
			URL:        cfg.CatalogURL,
			HTTPClient: httpClient,
			CachePath:  cachePath,
			TTL:        cfg.CatalogCacheTTL,
			NoNetwork:  noNetwork,
			Logger:     logging.For("catalog"),
		},
		HTTPClient: httpClient,
		BaseURL:    cfg.DownloadBaseURL,
		MaxBytes:   cfg.MaxDownloadBytes,
		NoNetwork:  noNetwork,
		Out:        stdout,
		Logger:     logger,
	}, nil
}
