// Package config resolves the govm root layout and loads layered settings.
//
// Settings are merged from built-in defaults, then <root>/config.toml, then
// GOVM_* environment variables. Later layers win.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/conn-castle/govm/internal/catalog"
	"github.com/conn-castle/govm/internal/install"
	"github.com/conn-castle/govm/internal/logging"
	"github.com/conn-castle/govm/internal/messages"
)

// EnvPrefix is the prefix of environment variables that override settings.
const EnvPrefix = "GOVM_"

// Setting keys.
const (
	KeyCatalogURL       = "catalog_url"
	KeyDownloadBaseURL  = "download_base_url"
	KeyBinaries         = "binaries"
	KeyPruneKeep        = "prune_keep"
	KeyListLimit        = "list_limit"
	KeyCatalogCacheTTL  = "catalog_cache_ttl"
	KeyHTTPTimeout      = "http_timeout"
	KeyMaxDownloadBytes = "max_download_bytes"
)

// Config is the effective govm configuration.
type Config struct {
	CatalogURL       string        `koanf:"catalog_url"`
	DownloadBaseURL  string        `koanf:"download_base_url"`
	Binaries         []string      `koanf:"binaries"`
	PruneKeep        int           `koanf:"prune_keep"`
	ListLimit        int           `koanf:"list_limit"`
	CatalogCacheTTL  time.Duration `koanf:"catalog_cache_ttl"`
	HTTPTimeout      time.Duration `koanf:"http_timeout"`
	MaxDownloadBytes int64         `koanf:"max_download_bytes"`
}

// Defaults returns the built-in settings layer.
func Defaults() map[string]any {
	return map[string]any{
		KeyCatalogURL:       catalog.DefaultURL,
		KeyDownloadBaseURL:  install.DefaultBaseURL,
		KeyBinaries:         []string{"go", "gofmt"},
		KeyPruneKeep:        3,
		KeyListLimit:        20,
		KeyCatalogCacheTTL:  "1h",
		KeyHTTPTimeout:      "5m",
		KeyMaxDownloadBytes: install.DefaultMaxBytes,
	}
}

var knownKeys = map[string]bool{
	KeyCatalogURL:       true,
	KeyDownloadBaseURL:  true,
	KeyBinaries:         true,
	KeyPruneKeep:        true,
	KeyListLimit:        true,
	KeyCatalogCacheTTL:  true,
	KeyHTTPTimeout:      true,
	KeyMaxDownloadBytes: true,
}

// Load reads the layered configuration for layout.
func Load(layout Layout) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf(messages.ConfigLoadDefaultsFmt, err)
	}

	if _, err := os.Stat(layout.ConfigFile); err == nil {
		if err := k.Load(file.Provider(layout.ConfigFile), toml.Parser()); err != nil {
			return nil, fmt.Errorf(messages.ConfigInvalidConfigFmt, layout.ConfigFile, err)
		}
		logger := logging.For("config")
		logger.Debug().Msgf(messages.ConfigLoadedFmt, layout.ConfigFile)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf(messages.ConfigInvalidConfigFmt, layout.ConfigFile, err)
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		if !knownKeys[key] {
			return ""
		}
		return key
	}), nil)
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigLoadEnvFmt, EnvPrefix, err)
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			ErrorUnused:      true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, fmt.Errorf(messages.ConfigInvalidConfigFmt, layout.ConfigFile, fmt.Errorf(messages.ConfigDecodeFmt, err))
	}
	cfg.Binaries = trimAll(cfg.Binaries)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(messages.ConfigInvalidConfigFmt, layout.ConfigFile, err)
	}
	return &cfg, nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if len(c.Binaries) == 0 {
		return errors.New(messages.ConfigEmptyBinaries)
	}
	for _, name := range c.Binaries {
		if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\\ \t") {
			return fmt.Errorf(messages.ConfigInvalidBinaryFmt, name)
		}
	}
	if c.PruneKeep < 0 {
		return fmt.Errorf(messages.ConfigNegativeFmt, KeyPruneKeep, c.PruneKeep)
	}
	if c.ListLimit < 0 {
		return fmt.Errorf(messages.ConfigNegativeFmt, KeyListLimit, c.ListLimit)
	}
	if c.CatalogCacheTTL < 0 {
		return fmt.Errorf(messages.ConfigNegativeFmt, KeyCatalogCacheTTL, c.CatalogCacheTTL)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf(messages.ConfigNonPositiveFmt, KeyHTTPTimeout, c.HTTPTimeout)
	}
	if c.MaxDownloadBytes <= 0 {
		return fmt.Errorf(messages.ConfigNonPositiveFmt, KeyMaxDownloadBytes, c.MaxDownloadBytes)
	}
	for key, raw := range map[string]string{KeyCatalogURL: c.CatalogURL, KeyDownloadBaseURL: c.DownloadBaseURL} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf(messages.ConfigInvalidURLFmt, key, raw)
		}
	}
	return nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
