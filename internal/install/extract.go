package install

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/conn-castle/govm/internal/messages"
)

// extractTarGz unpacks the gzip-compressed tar at archivePath into dir.
// Entries that would land outside dir are rejected.
func extractTarGz(archivePath string, dir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf(messages.InstallOpenFileFmt, archivePath, err)
	}
	defer func() {
		_ = f.Close()
	}()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer func() {
		_ = gz.Close()
	}()

	realDir, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return err
	}
	root, err := os.OpenRoot(realDir)
	if err != nil {
		return err
	}
	defer func() {
		_ = root.Close()
	}()
	x := &extractor{root: root, dir: realDir}

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if errors.Is(err, tar.ErrInsecurePath) && hdr != nil {
			return fmt.Errorf(messages.InstallUnsafeArchivePathFmt, hdr.Name)
		}
		if err != nil {
			return err
		}
		if err := x.extract(tr, hdr); err != nil {
			return err
		}
	}
}

// extractor writes archive entries through an os.Root, so no write can
// leave dir even when links created earlier in the archive point outward.
type extractor struct {
	root *os.Root
	dir  string
}

func (x *extractor) extract(tr *tar.Reader, hdr *tar.Header) error {
	if !filepath.IsLocal(hdr.Name) {
		return fmt.Errorf(messages.InstallUnsafeArchivePathFmt, hdr.Name)
	}
	name := filepath.Clean(filepath.FromSlash(hdr.Name))
	mode := hdr.FileInfo().Mode().Perm()

	switch hdr.Typeflag {
	case tar.TypeDir:
		return x.mkdirAll(name, hdr.Name)
	case tar.TypeReg:
		if err := x.mkdirAll(filepath.Dir(name), hdr.Name); err != nil {
			return err
		}
		if info, err := x.root.Lstat(name); err == nil && info.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf(messages.InstallUnsafeArchivePathFmt, hdr.Name)
		}
		return x.writeFile(tr, name, mode, hdr.Name)
	case tar.TypeSymlink:
		if err := x.mkdirAll(filepath.Dir(name), hdr.Name); err != nil {
			return err
		}
		if !x.linkStaysInside(name, hdr.Linkname) {
			return fmt.Errorf(messages.InstallUnsafeArchivePathFmt, hdr.Name+" -> "+hdr.Linkname)
		}
		return x.root.Symlink(hdr.Linkname, name)
	default:
		return nil
	}
}

func (x *extractor) mkdirAll(name string, entry string) error {
	if name == "." {
		return nil
	}
	if err := x.root.MkdirAll(name, 0o755); err != nil {
		if !x.resolvesInside(filepath.Join(x.dir, name)) {
			return fmt.Errorf(messages.InstallUnsafeArchivePathFmt, entry)
		}
		return err
	}
	return nil
}

func (x *extractor) writeFile(r io.Reader, name string, mode os.FileMode, entry string) error {
	out, err := x.root.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		if !x.resolvesInside(filepath.Join(x.dir, name)) {
			return fmt.Errorf(messages.InstallUnsafeArchivePathFmt, entry)
		}
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// linkStaysInside reports whether a link at name pointing to link lands
// inside the extraction root once links already on disk are followed.
func (x *extractor) linkStaysInside(name string, link string) bool {
	if filepath.IsAbs(link) {
		return false
	}
	parent, err := filepath.EvalSymlinks(filepath.Join(x.dir, filepath.Dir(name)))
	if err != nil || !x.inside(parent) {
		return false
	}
	dest := filepath.Join(parent, link)
	if resolved, err := filepath.EvalSymlinks(dest); err == nil {
		dest = resolved
	}
	return x.inside(dest)
}

// resolvesInside reports whether the deepest existing ancestor of path
// resolves inside the extraction root.
func (x *extractor) resolvesInside(path string) bool {
	for p := path; ; p = filepath.Dir(p) {
		resolved, err := filepath.EvalSymlinks(p)
		if err == nil {
			return x.inside(resolved)
		}
		if p == filepath.Dir(p) {
			return false
		}
	}
}

func (x *extractor) inside(path string) bool {
	rel, err := filepath.Rel(x.dir, path)
	return err == nil && (rel == "." || filepath.IsLocal(rel))
}
