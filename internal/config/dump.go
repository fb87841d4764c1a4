package config

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/conn-castle/govm/internal/messages"
)

type dumpPaths struct {
	Root     string `toml:"root"`
	Versions string `toml:"versions"`
	Shims    string `toml:"shims"`
	Global   string `toml:"global"`
	Config   string `toml:"config"`
}

type dump struct {
	CatalogURL       string    `toml:"catalog_url"`
	DownloadBaseURL  string    `toml:"download_base_url"`
	Binaries         []string  `toml:"binaries"`
	PruneKeep        int       `toml:"prune_keep"`
	ListLimit        int       `toml:"list_limit"`
	CatalogCacheTTL  string    `toml:"catalog_cache_ttl"`
	HTTPTimeout      string    `toml:"http_timeout"`
	MaxDownloadBytes int64     `toml:"max_download_bytes"`
	Paths            dumpPaths `toml:"paths"`
}

// Marshal renders the effective configuration and the resolved layout as TOML.
func Marshal(cfg *Config, layout Layout) ([]byte, error) {
	d := dump{
		CatalogURL:       cfg.CatalogURL,
		DownloadBaseURL:  cfg.DownloadBaseURL,
		Binaries:         cfg.Binaries,
		PruneKeep:        cfg.PruneKeep,
		ListLimit:        cfg.ListLimit,
		CatalogCacheTTL:  cfg.CatalogCacheTTL.String(),
		HTTPTimeout:      cfg.HTTPTimeout.String(),
		MaxDownloadBytes: cfg.MaxDownloadBytes,
		Paths: dumpPaths{
			Root:     layout.Root,
			Versions: layout.VersionsDir,
			Shims:    layout.ShimsDir,
			Global:   layout.GlobalFile,
			Config:   layout.ConfigFile,
		},
	}
	data, err := toml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigEncodeFmt, err)
	}
	return data, nil
}
