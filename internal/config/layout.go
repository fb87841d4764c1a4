package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/conn-castle/govm/internal/messages"
)

// EnvRoot overrides the govm root directory.
const EnvRoot = "GOVM_ROOT"

// DefaultRootName is the root directory name under the user's home.
const DefaultRootName = ".govm"

// Layout holds resolved paths under the govm root.
type Layout struct {
	Root        string
	VersionsDir string
	ShimsDir    string
	GlobalFile  string
	ConfigFile  string
}

// NewLayout returns the layout for root.
func NewLayout(root string) Layout {
	return Layout{
		Root:        root,
		VersionsDir: filepath.Join(root, "versions"),
		ShimsDir:    filepath.Join(root, "shims"),
		GlobalFile:  filepath.Join(root, "version"),
		ConfigFile:  filepath.Join(root, "config.toml"),
	}
}

// ResolveRoot returns $GOVM_ROOT (with ~ expanded) or ~/.govm.
func ResolveRoot(getenv func(string) string) (string, error) {
	if raw := strings.TrimSpace(getenv(EnvRoot)); raw != "" {
		expanded, err := homedir.Expand(raw)
		if err != nil {
			return "", fmt.Errorf(messages.ConfigExpandRootFmt, EnvRoot, raw, err)
		}
		return filepath.Abs(expanded)
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf(messages.ConfigHomeDirFmt, err)
	}
	return filepath.Join(home, DefaultRootName), nil
}
