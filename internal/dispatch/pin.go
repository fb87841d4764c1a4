package dispatch

import (
	"errors"
	"os"
	"strings"

	"github.com/conn-castle/govm/internal/logging"
	"github.com/conn-castle/govm/internal/messages"
	"github.com/conn-castle/govm/internal/version"
)

// readMarker reads a version marker file and returns its canonical content.
// Missing, unreadable, and blank markers all report false; read failures are
// logged and never returned so directory ascent can continue past them.
func readMarker(sys System, path string) (string, bool) {
	data, err := sys.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger := logging.For("dispatch")
			logger.Debug().Err(err).Str("path", path).Msg(messages.DispatchMarkerReadSkipped)
		}
		return "", false
	}
	v := version.Canonical(strings.TrimSpace(string(data)))
	if v == "" {
		logger := logging.For("dispatch")
		logger.Debug().Str("path", path).Msg(messages.DispatchMarkerEmpty)
		return "", false
	}
	return v, true
}

// ReadGlobal returns the canonical version stored in the global default
// marker at path, or false when it is absent, unreadable, or blank.
func ReadGlobal(sys System, path string) (string, bool) {
	if path == "" {
		return "", false
	}
	return readMarker(sys, path)
}
