package dispatch

import (
	"os"
)

// System abstracts the OS operations used by resolution and exec so both can
// be tested without process-global fixtures.
type System interface {
	ReadFile(name string) ([]byte, error)
	Stat(name string) (os.FileInfo, error)
	Getenv(key string) string
	Environ() []string
	ExecBinary(path string, args []string, env []string) error
}

// RealSystem implements System using the OS.
type RealSystem struct{}

// ReadFile reads the named file and returns the contents.
func (RealSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// Stat returns file info for name, following symlinks.
func (RealSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// Getenv returns the value of the environment variable named by key.
func (RealSystem) Getenv(key string) string {
	return os.Getenv(key)
}

// Environ returns a copy of strings representing the environment.
func (RealSystem) Environ() []string {
	return os.Environ()
}

// ExecBinary replaces the current process with the provided binary.
func (RealSystem) ExecBinary(path string, args []string, env []string) error {
	return execBinary(path, args, env)
}
