package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/spf13/afero"
)

// NewMemFS returns an empty in-memory filesystem.
func NewMemFS(t *testing.T) afero.Fs {
	t.Helper()
	return afero.NewMemMapFs()
}

// WriteTree writes files (path relative to root -> content) under root,
// creating parent directories as needed.
func WriteTree(t *testing.T, fs afero.Fs, root string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create parent directories for %s: %v", path, err)
		}
		if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", path, err)
		}
	}
}

// ReadFS reads a file from fs and returns it as a string.
func ReadFS(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()

	content, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// Snapshot maps every regular file under root (slash separated, relative
// to root) to its content. Symlinks are recorded as "-> target" when fs
// can read them.
func Snapshot(t *testing.T, fs afero.Fs, root string) map[string]string {
	t.Helper()

	out := map[string]string{}
	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		switch {
		case info.Mode()&os.ModeSymlink != 0:
			if reader, ok := fs.(afero.LinkReader); ok {
				target, err := reader.ReadlinkIfPossible(path)
				if err != nil {
					return err
				}
				out[rel] = "-> " + target
			}
		case info.Mode().IsRegular():
			content, err := afero.ReadFile(fs, path)
			if err != nil {
				return err
			}
			out[rel] = string(content)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to snapshot %s: %v", root, err)
	}
	return out
}

// SortedKeys returns the keys of a snapshot in lexical order.
func SortedKeys(snapshot map[string]string) []string {
	keys := make([]string, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
