package filesystem

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/relocate/pkg/errors"
	"github.com/spf13/afero"
)

// NewOS returns the operating system filesystem.
func NewOS() afero.Fs {
	return afero.NewOsFs()
}

// Abs returns the absolute, cleaned form of path.
func Abs(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "cannot resolve %s", path).
			WithDetail("path", path)
	}
	return abs, nil
}

// Within reports whether path is dir itself or lies below it. Both are
// compared in absolute form.
func Within(dir, path string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Lstat describes name without following a final symlink when the backend
// supports it, and falls back to Stat otherwise.
func Lstat(fs afero.Fs, name string) (os.FileInfo, error) {
	if l, ok := fs.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(name)
		return info, err
	}
	return fs.Stat(name)
}

// IsSymlink reports whether info describes a symbolic link.
func IsSymlink(info os.FileInfo) bool {
	return info.Mode()&os.ModeSymlink != 0
}

// SupportsSymlinks reports whether fs can both read and create symlinks.
func SupportsSymlinks(fs afero.Fs) bool {
	_, canRead := fs.(afero.LinkReader)
	_, canLink := fs.(afero.Linker)
	return canRead && canLink
}

// Readlink returns the target of the symlink at name.
func Readlink(fs afero.Fs, name string) (string, error) {
	r, ok := fs.(afero.LinkReader)
	if !ok {
		return "", errors.Newf(errors.ErrUnsupported, "filesystem %s cannot read symlinks", fs.Name())
	}
	return r.ReadlinkIfPossible(name)
}

// Symlink creates newname as a symlink pointing to oldname.
func Symlink(fs afero.Fs, oldname, newname string) error {
	l, ok := fs.(afero.Linker)
	if !ok {
		return errors.Newf(errors.ErrUnsupported, "filesystem %s cannot create symlinks", fs.Name())
	}
	return l.SymlinkIfPossible(oldname, newname)
}

// CopyStats counts what CopyTree copied.
type CopyStats struct {
	Dirs     int
	Files    int
	Symlinks int
	Bytes    int64
}

// CopyTree recursively copies src to dst. Directories and regular files
// keep their permission bits and symlinks are recreated with the same
// target. Existing files in dst are never overwritten and dst may not lie
// inside src.
func CopyTree(fs afero.Fs, src, dst string) (CopyStats, error) {
	var stats CopyStats
	src = filepath.Clean(src)
	dst = filepath.Clean(dst)
	if Within(src, dst) {
		return stats, errors.Newf(errors.ErrInvalidInput, "cannot copy %s into itself at %s", src, dst).
			WithDetail("path", dst)
	}

	err := afero.Walk(fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case info.IsDir():
			stats.Dirs++
			return fs.MkdirAll(target, info.Mode().Perm())
		case IsSymlink(info):
			link, err := Readlink(fs, path)
			if err != nil {
				return err
			}
			stats.Symlinks++
			return Symlink(fs, link, target)
		case info.Mode().IsRegular():
			n, err := copyFile(fs, path, target, info.Mode().Perm())
			stats.Files++
			stats.Bytes += n
			return err
		default:
			return errors.Newf(errors.ErrUnsupported, "cannot copy special file %s", path).
				WithDetail("path", path)
		}
	})
	return stats, err
}

func copyFile(fs afero.Fs, src, dst string, perm os.FileMode) (int64, error) {
	in, err := fs.Open(src)
	if err != nil {
		return 0, err
	}
	defer func() { _ = in.Close() }()

	out, err := fs.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, perm)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(out, in)
	if err != nil {
		_ = out.Close()
		return n, err
	}
	if err := out.Close(); err != nil {
		return n, err
	}
	// OpenFile honours the umask; force the source bits.
	return n, fs.Chmod(dst, perm)
}
