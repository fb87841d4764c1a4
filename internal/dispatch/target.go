package dispatch

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/conn-castle/govm/internal/logging"
	"github.com/conn-castle/govm/internal/messages"
	"github.com/conn-castle/govm/internal/registry"
)

// EnvRuntimeRoot is the runtime-root variable set for every dispatched binary.
const EnvRuntimeRoot = "GOROOT"

// ErrNoVersionConfigured, ErrBinaryNotFound, and ErrDispatched are the exec conditions.
var (
	ErrNoVersionConfigured = errors.New(messages.DispatchNoVersionConfigured)
	ErrBinaryNotFound      = errors.New(messages.DispatchBinaryNotFound)
	// ErrDispatched signals that execution was handed off to the target binary.
	ErrDispatched = errors.New("dispatch executed")
)

// Target is a fully checked dispatch destination.
type Target struct {
	Resolution Resolution
	Binary     string
	Path       string
	Root       string
}

// Locate resolves the active version and checks that binary exists in its
// install tree. It fails with ErrNoVersionConfigured, registry.ErrNotInstalled,
// or ErrBinaryNotFound in that order.
func Locate(sys System, reg *registry.Registry, ctx Context, binary string) (Target, error) {
	if sys == nil {
		return Target{}, fmt.Errorf(messages.DispatchSystemRequired)
	}
	if strings.TrimSpace(binary) == "" {
		return Target{}, fmt.Errorf(messages.DispatchBinaryRequired)
	}
	res, ok := Resolve(sys, ctx)
	if !ok {
		return Target{}, fmt.Errorf(messages.DispatchNoVersionConfiguredFmt, ErrNoVersionConfigured, PinFileName)
	}
	if !reg.IsInstalled(res.Version) {
		return Target{Resolution: res}, fmt.Errorf(messages.DispatchVersionNotInstalledFmt,
			registry.ErrNotInstalled, res.Version, res.Describe(), res.Version)
	}
	target := Target{
		Resolution: res,
		Binary:     binary,
		Path:       reg.BinaryPath(res.Version, binary),
		Root:       reg.InstallDir(res.Version),
	}
	if strings.ContainsAny(binary, `/\`) || binary == "." || binary == ".." {
		return target, fmt.Errorf(messages.DispatchBinaryNotFoundFmt, ErrBinaryNotFound, binary, res.Version)
	}
	info, err := sys.Stat(target.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return target, fmt.Errorf(messages.DispatchBinaryNotFoundFmt, ErrBinaryNotFound, binary, res.Version)
		}
		return target, fmt.Errorf(messages.DispatchCheckBinaryFmt, target.Path, err)
	}
	if info.IsDir() {
		return target, fmt.Errorf(messages.DispatchBinaryNotFoundFmt, ErrBinaryNotFound, binary, res.Version)
	}
	return target, nil
}

// Exec locates binary for the active version and replaces the current process
// with it, forwarding args and setting GOROOT to the version's install tree.
// A successful hand-off never returns on a real system; ErrDispatched is
// returned when the System's exec returns without error.
func Exec(sys System, reg *registry.Registry, ctx Context, binary string, args []string) error {
	target, err := Locate(sys, reg, ctx, binary)
	if err != nil {
		return err
	}
	env := SetEnv(sys.Environ(), EnvRuntimeRoot, target.Root)
	argv := append([]string{target.Path}, args...)

	logger := logging.For("dispatch")
	logger.Debug().
		Str("binary", binary).
		Str("version", target.Resolution.Version).
		Str("source", target.Resolution.Source.String()).
		Str("path", target.Path).
		Msg("exec")

	if err := sys.ExecBinary(target.Path, argv, env); err != nil {
		return fmt.Errorf(messages.DispatchExecFailedFmt, target.Path, err)
	}
	return ErrDispatched
}

// SetEnv sets or appends a key=value entry in an env slice, dropping any
// duplicate entries for key.
func SetEnv(env []string, key string, value string) []string {
	prefix := key + "="
	out := make([]string, 0, len(env)+1)
	for _, entry := range env {
		if strings.HasPrefix(entry, prefix) {
			continue
		}
		out = append(out, entry)
	}
	return append(out, prefix+value)
}
