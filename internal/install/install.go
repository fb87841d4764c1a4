// Package install is the concrete Installer: it downloads a release archive,
// verifies it, and publishes the extracted toolchain into its install directory.
//
// A destination directory is never visible until extraction has fully
// succeeded. Extraction happens in a hidden staging directory beside the
// destination and the toolchain root is renamed into place as the last step.
package install

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/conn-castle/govm/internal/catalog"
	"github.com/conn-castle/govm/internal/fsutil"
	"github.com/conn-castle/govm/internal/messages"
	"github.com/conn-castle/govm/internal/version"
)

// DefaultBaseURL is the download prefix for catalog file names.
const DefaultBaseURL = "https://go.dev/dl/"

// DefaultMaxBytes caps a single archive download.
const DefaultMaxBytes int64 = 512 << 20

// ArchiveRoot is the top-level directory of a Go binary distribution.
const ArchiveRoot = "go"

const downloadRetryCount = 1

var (
	retryDelay = 250 * time.Millisecond
	osRename   = os.Rename
)

// Downloader fetches the catalog and installs releases over HTTP.
type Downloader struct {
	Catalog    *catalog.Client
	HTTPClient *http.Client
	BaseURL    string
	MaxBytes   int64
	NoNetwork  bool
	// Out receives progress lines. Nil discards them.
	Out    io.Writer
	Logger zerolog.Logger
}

// ListCatalog returns every release in the catalog.
func (d *Downloader) ListCatalog(ctx context.Context) ([]catalog.Release, error) {
	return d.Catalog.Releases(ctx)
}

// FetchAndPlace downloads file and publishes its toolchain at dest. Either dest
// ends up fully populated or it is left absent.
//
// Concurrent installs of the same destination are serialized with a lock file
// beside dest; a waiter that finds dest already published returns success.
func (d *Downloader) FetchAndPlace(ctx context.Context, file catalog.File, dest string) error {
	if strings.TrimSpace(dest) == "" {
		return errors.New(messages.InstallDestinationRequired)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	parent := filepath.Dir(dest)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf(messages.InstallCreateDirFmt, parent, err)
	}
	lockPath := filepath.Join(parent, "."+filepath.Base(dest)+".lock")
	return fsutil.WithLock(lockPath, func() error {
		if _, err := os.Stat(dest); err == nil {
			d.Logger.Debug().Str("dest", dest).Msg(messages.InstallAlreadyPublished)
			return nil
		}
		return d.fetchAndPlaceLocked(ctx, file, dest)
	})
}

func (d *Downloader) fetchAndPlaceLocked(ctx context.Context, file catalog.File, dest string) error {
	v := version.Canonical(file.Version)
	if d.NoNetwork {
		return fmt.Errorf(messages.InstallNetworkDisabledFmt, v, catalog.EnvNoNetwork)
	}
	if !strings.HasSuffix(file.Filename, ".tar.gz") {
		return fmt.Errorf(messages.InstallUnsupportedArchiveFmt, file.Filename)
	}
	parent := filepath.Dir(dest)

	d.printf(messages.InstallDownloadingFmt, v, file.Filename)
	archivePath, err := d.download(ctx, file, parent)
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(archivePath)
	}()

	staging, err := os.MkdirTemp(parent, ".staging-"+filepath.Base(dest)+"-")
	if err != nil {
		return fmt.Errorf(messages.InstallCreateDirFmt, parent, err)
	}
	defer func() {
		_ = os.RemoveAll(staging)
	}()

	d.printf(messages.InstallExtractingFmt, file.Filename)
	if err := extractTarGz(archivePath, staging); err != nil {
		return fmt.Errorf(messages.InstallExtractFmt, file.Filename, err)
	}
	root := filepath.Join(staging, ArchiveRoot)
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return fmt.Errorf(messages.InstallArchiveMissingRootFmt, file.Filename, ArchiveRoot)
	}
	if err := osRename(root, dest); err != nil {
		return fmt.Errorf(messages.InstallPublishFmt, dest, err)
	}
	d.Logger.Info().Str("version", v).Str("dest", dest).Msg("installed")
	return nil
}

func (d *Downloader) printf(format string, args ...any) {
	if d.Out == nil {
		return
	}
	_, _ = fmt.Fprintf(d.Out, format, args...)
}

func (d *Downloader) url(file catalog.File) string {
	base := d.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + file.Filename
}

func (d *Downloader) maxBytes() int64 {
	if d.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return d.MaxBytes
}

func (d *Downloader) httpClient() *http.Client {
	if d.HTTPClient == nil {
		return http.DefaultClient
	}
	return d.HTTPClient
}

// download writes the archive to a hidden temp file in dir and verifies its
// checksum. The caller removes the returned file.
func (d *Downloader) download(ctx context.Context, file catalog.File, dir string) (string, error) {
	url := d.url(file)
	for attempt := 0; attempt <= downloadRetryCount; attempt++ {
		path, retry, err := d.downloadOnce(ctx, url, file, dir, attempt)
		if retry {
			time.Sleep(retryDelay)
			continue
		}
		return path, err
	}
	return "", fmt.Errorf(messages.InstallDownloadFailedFmt, url, errors.New(messages.CatalogRetryBudgetExhausted))
}

func (d *Downloader) downloadOnce(ctx context.Context, url string, file catalog.File, dir string, attempt int) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", false, fmt.Errorf(messages.InstallDownloadFailedFmt, url, err)
	}
	req.Header.Set("User-Agent", "govm")
	resp, err := d.httpClient().Do(req)
	if err != nil {
		if shouldRetry(err, 0, attempt) {
			return "", true, nil
		}
		return "", false, fmt.Errorf(messages.InstallDownloadFailedFmt, url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		if shouldRetry(nil, resp.StatusCode, attempt) {
			return "", true, nil
		}
		return "", false, fmt.Errorf(messages.InstallDownloadStatusFmt, url, resp.Status)
	}
	limit := d.maxBytes()
	if resp.ContentLength > limit {
		return "", false, fmt.Errorf(messages.InstallDownloadTooLargeFmt, url, resp.ContentLength, limit)
	}

	tmp, err := os.CreateTemp(dir, ".download-*.tar.gz")
	if err != nil {
		return "", false, fmt.Errorf(messages.InstallCreateTempFileFmt, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	hash := sha256.New()
	n, err := io.Copy(io.MultiWriter(tmp, hash), io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return "", false, fmt.Errorf(messages.InstallDownloadFailedFmt, url, err)
	}
	if n > limit {
		return "", false, fmt.Errorf(messages.InstallDownloadTooLargeFmt, url, n, limit)
	}
	if err := tmp.Sync(); err != nil {
		return "", false, fmt.Errorf(messages.InstallSyncTempFileFmt, err)
	}
	if err := tmp.Close(); err != nil {
		return "", false, fmt.Errorf(messages.InstallCloseTempFileFmt, err)
	}
	if want := strings.ToLower(strings.TrimSpace(file.SHA256)); want != "" {
		got := hex.EncodeToString(hash.Sum(nil))
		if got != want {
			return "", false, fmt.Errorf(messages.InstallChecksumMismatchFmt, file.Filename, want, got)
		}
	}
	committed = true
	return tmp.Name(), false, nil
}

func shouldRetry(err error, statusCode int, attempt int) bool {
	if attempt >= downloadRetryCount {
		return false
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false
		}
		var netErr net.Error
		return errors.As(err, &netErr)
	}
	return statusCode >= 500 && statusCode <= 599
}
