package dispatch

import (
	"errors"
	"fmt"
	"os"
)

// errNotMocked is returned when a testSystem method is called without a mock function set.
var errNotMocked = errors.New("testSystem: method not mocked")

// testSystem provides a mock System for unit tests.
//
// ExecBinary fails fast unless mocked; the filesystem and environment methods
// fall back to RealSystem so tests can use t.TempDir() and t.Setenv().
type testSystem struct {
	RealSystem

	ReadFileFunc   func(name string) ([]byte, error)
	StatFunc       func(name string) (os.FileInfo, error)
	GetenvFunc     func(key string) string
	EnvironFunc    func() []string
	ExecBinaryFunc func(path string, args []string, env []string) error
}

func (s *testSystem) ReadFile(name string) ([]byte, error) {
	if s.ReadFileFunc != nil {
		return s.ReadFileFunc(name)
	}
	return s.RealSystem.ReadFile(name)
}

func (s *testSystem) Stat(name string) (os.FileInfo, error) {
	if s.StatFunc != nil {
		return s.StatFunc(name)
	}
	return s.RealSystem.Stat(name)
}

func (s *testSystem) Getenv(key string) string {
	if s.GetenvFunc != nil {
		return s.GetenvFunc(key)
	}
	return s.RealSystem.Getenv(key)
}

func (s *testSystem) Environ() []string {
	if s.EnvironFunc != nil {
		return s.EnvironFunc()
	}
	return s.RealSystem.Environ()
}

func (s *testSystem) ExecBinary(path string, args []string, env []string) error {
	if s.ExecBinaryFunc != nil {
		return s.ExecBinaryFunc(path, args, env)
	}
	return fmt.Errorf("%w: ExecBinary", errNotMocked)
}
