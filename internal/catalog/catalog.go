// Package catalog fetches and queries the list of published Go releases.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"

	"github.com/conn-castle/govm/internal/fsutil"
	"github.com/conn-castle/govm/internal/messages"
	"github.com/conn-castle/govm/internal/version"
)

// DefaultURL lists every published release, including unstable ones.
const DefaultURL = "https://go.dev/dl/?mode=json&include=all"

// EnvNoNetwork disables catalog and download network access when set to a non-empty value.
const EnvNoNetwork = "GOVM_NO_NETWORK"

// KindArchive is the file kind of a binary distribution archive.
const KindArchive = "archive"

const (
	fetchRetryCount = 1
	cacheFileName   = "govm/catalog.json"
)

var retryDelay = 250 * time.Millisecond

// ErrEntryMissing and ErrNoPlatformBinary are the catalog lookup conditions.
var (
	ErrEntryMissing     = errors.New(messages.CatalogEntryMissing)
	ErrNoPlatformBinary = errors.New(messages.CatalogNoPlatformBinary)
)

// File is a downloadable artifact of a release.
type File struct {
	Filename string `json:"filename"`
	OS       string `json:"os"`
	Arch     string `json:"arch"`
	Version  string `json:"version"`
	SHA256   string `json:"sha256"`
	Size     int64  `json:"size"`
	Kind     string `json:"kind"`
}

// Release is one catalog entry.
type Release struct {
	Version string `json:"version"`
	Stable  bool   `json:"stable"`
	Files   []File `json:"files"`
}

// Canonical returns the canonical form of the release version.
func (r Release) Canonical() string {
	return version.Canonical(r.Version)
}

// Platform identifies an operating system and architecture pair.
type Platform struct {
	OS   string
	Arch string
}

// CurrentPlatform returns the platform govm was built for.
func CurrentPlatform() Platform {
	return Platform{OS: runtime.GOOS, Arch: runtime.GOARCH}
}

func (p Platform) String() string {
	return p.OS + "/" + p.Arch
}

// NetworkDisabled reports whether EnvNoNetwork is set.
func NetworkDisabled(getenv func(string) string) bool {
	if getenv == nil {
		getenv = os.Getenv
	}
	return strings.TrimSpace(getenv(EnvNoNetwork)) != ""
}

// DefaultCachePath returns the catalog cache file under the XDG cache directory.
func DefaultCachePath() (string, error) {
	return xdg.CacheFile(cacheFileName)
}

// Client fetches the catalog over HTTP and caches the response on disk.
type Client struct {
	URL        string
	HTTPClient *http.Client
	// CachePath is where the raw catalog is cached. Empty disables caching.
	CachePath string
	// TTL is how long a cached catalog is served without refetching.
	TTL time.Duration
	// NoNetwork serves only from cache.
	NoNetwork bool
	Logger    zerolog.Logger
	Now       func() time.Time
}

// Releases returns the catalog, newest release first.
//
// A cache younger than TTL is served without network access. When the fetch
// fails, a stale cache is served instead of failing.
func (c *Client) Releases(ctx context.Context) ([]Release, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cached, fresh := c.readCache()
	if cached != nil && (fresh || c.NoNetwork) {
		c.Logger.Debug().Str("path", c.CachePath).Bool("fresh", fresh).Msg(messages.CatalogCacheHit)
		return cached, nil
	}
	if c.NoNetwork {
		return nil, fmt.Errorf(messages.CatalogNetworkDisabledFmt, EnvNoNetwork)
	}

	body, err := c.fetch(ctx)
	if err != nil {
		if cached != nil {
			c.Logger.Warn().Err(err).Msg("catalog fetch failed; using stale cache")
			return cached, nil
		}
		return nil, err
	}
	releases, err := decode(body)
	if err != nil {
		return nil, fmt.Errorf(messages.CatalogDecodeFmt, c.url(), err)
	}
	c.writeCache(body)
	return releases, nil
}

func (c *Client) url() string {
	if c.URL == "" {
		return DefaultURL
	}
	return c.URL
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}

func (c *Client) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *Client) fetch(ctx context.Context) ([]byte, error) {
	url := c.url()
	for attempt := 0; attempt <= fetchRetryCount; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf(messages.CatalogCreateRequestFmt, err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "govm")

		resp, err := c.httpClient().Do(req)
		if err != nil {
			if shouldRetry(err, 0, attempt) {
				time.Sleep(retryDelay)
				continue
			}
			return nil, fmt.Errorf(messages.CatalogFetchFmt, url, err)
		}
		if resp.StatusCode != http.StatusOK {
			status := resp.StatusCode
			statusText := resp.Status
			_ = resp.Body.Close()
			if shouldRetry(nil, status, attempt) {
				time.Sleep(retryDelay)
				continue
			}
			return nil, fmt.Errorf(messages.CatalogFetchStatusFmt, url, statusText)
		}
		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf(messages.CatalogFetchFmt, url, err)
		}
		return body, nil
	}
	return nil, fmt.Errorf(messages.CatalogFetchFmt, url, errors.New(messages.CatalogRetryBudgetExhausted))
}

func shouldRetry(err error, statusCode int, attempt int) bool {
	if attempt >= fetchRetryCount {
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

func decode(body []byte) ([]Release, error) {
	var releases []Release
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&releases); err != nil {
		return nil, err
	}
	return releases, nil
}

// readCache returns the cached catalog and whether it is within TTL. A missing
// or corrupt cache returns nil.
func (c *Client) readCache() ([]Release, bool) {
	if c.CachePath == "" {
		return nil, false
	}
	info, err := os.Stat(c.CachePath)
	if err != nil {
		return nil, false
	}
	data, err := os.ReadFile(c.CachePath)
	if err != nil {
		return nil, false
	}
	releases, err := decode(data)
	if err != nil {
		c.Logger.Debug().Err(err).Str("path", c.CachePath).Msg("ignoring corrupt catalog cache")
		return nil, false
	}
	fresh := c.now().Sub(info.ModTime()) < c.TTL
	return releases, fresh
}

func (c *Client) writeCache(body []byte) {
	if c.CachePath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(c.CachePath), 0o755); err != nil {
		c.Logger.Warn().Err(err).Str("path", c.CachePath).Msg(messages.CatalogCacheWriteFailed)
		return
	}
	if err := fsutil.WriteFileAtomic(c.CachePath, body, 0o644); err != nil {
		c.Logger.Warn().Err(err).Str("path", c.CachePath).Msg(messages.CatalogCacheWriteFailed)
	}
}

// FindRelease returns the release whose canonical version equals v.
func FindRelease(releases []Release, v string) (Release, error) {
	want := version.Canonical(v)
	for _, rel := range releases {
		if rel.Canonical() == want {
			return rel, nil
		}
	}
	return Release{}, fmt.Errorf(messages.CatalogEntryMissingFmt, ErrEntryMissing, want)
}

// SelectFile returns the archive of rel built for p.
func SelectFile(rel Release, p Platform) (File, error) {
	for _, f := range rel.Files {
		if f.OS == p.OS && f.Arch == p.Arch && f.Kind == KindArchive {
			return f, nil
		}
	}
	return File{}, fmt.Errorf(messages.CatalogNoPlatformBinaryFmt, ErrNoPlatformBinary, p.OS, p.Arch, rel.Canonical())
}

// Filter returns releases in descending version order. Unstable releases are
// dropped unless all is set; limit <= 0 means no limit.
func Filter(releases []Release, all bool, limit int) []Release {
	out := make([]Release, 0, len(releases))
	for _, rel := range releases {
		if !all && !rel.Stable {
			continue
		}
		out = append(out, rel)
	}
	sortReleases(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func sortReleases(releases []Release) {
	sort.SliceStable(releases, func(i, j int) bool {
		a, b := releases[i].Canonical(), releases[j].Canonical()
		if c := version.Compare(version.Parse(a), version.Parse(b)); c != 0 {
			return c > 0
		}
		return a < b
	})
}
