// Package fsutil holds filesystem helpers shared by the version manager:
// whole-file atomic replacement and cross-process advisory locks.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/conn-castle/govm/internal/messages"
)

var (
	osCreateTemp = os.CreateTemp
	osRename     = os.Rename
)

// WriteFileAtomic replaces path with data so concurrent readers observe either
// the old content or the new content, never a partial write.
// The parent directory must already exist.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := osCreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf(messages.FsutilCreateTempFileFmt, path, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf(messages.FsutilSetPermissionsFmt, path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf(messages.FsutilWriteTempFileFmt, path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf(messages.FsutilSyncTempFileFmt, path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf(messages.FsutilCloseTempFileFmt, path, err)
	}
	if err := osRename(tmpName, path); err != nil {
		return fmt.Errorf(messages.FsutilRenameTempFileFmt, path, err)
	}
	committed = true
	return nil
}
