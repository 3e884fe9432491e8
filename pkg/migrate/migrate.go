package migrate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/arthur-debert/relocate/pkg/errors"
	"github.com/arthur-debert/relocate/pkg/filesystem"
	"github.com/arthur-debert/relocate/pkg/logging"
	"github.com/arthur-debert/relocate/pkg/rewrite"
	"github.com/dustin/go-humanize"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/afero"
)

// Defaults used when no Option overrides them.
const (
	DefaultBackupSuffix = ".bak"
	DefaultExtension    = "php"
)

// Option customizes a Migrator.
type Option func(*Migrator)

// WithExtensions sets the file extensions (without the dot) that are
// migrated. Matching is case sensitive.
func WithExtensions(exts ...string) Option {
	return func(m *Migrator) {
		m.extensions = map[string]bool{}
		for _, ext := range exts {
			m.extensions["."+strings.TrimPrefix(ext, ".")] = true
		}
	}
}

// WithBackupSuffix sets the suffix appended to the root to name the backup.
func WithBackupSuffix(suffix string) Option {
	return func(m *Migrator) {
		m.backupSuffix = suffix
	}
}

// Options controls a single Run.
type Options struct {
	Root string
	// DryRun computes every rewrite but neither backs up nor writes.
	DryRun bool
	// FailFast stops the batch at the first failed file.
	FailFast bool
	// Diff attaches a unified diff to every changed file.
	Diff bool
	// Force replaces an existing backup directory.
	Force bool
	// OnFile is called with each FileResult as soon as it is produced.
	OnFile func(FileResult)
}

// Migrator rewrites source trees.
type Migrator struct {
	fs           afero.Fs
	rewriter     *rewrite.Rewriter
	extensions   map[string]bool
	backupSuffix string
}

// New returns a Migrator working on fs.
func New(fs afero.Fs, rw *rewrite.Rewriter, opts ...Option) (*Migrator, error) {
	if fs == nil {
		return nil, errors.New(errors.ErrInvalidInput, "filesystem is required")
	}
	if rw == nil {
		return nil, errors.New(errors.ErrInvalidInput, "rewriter is required")
	}

	m := &Migrator{
		fs:           fs,
		rewriter:     rw,
		backupSuffix: DefaultBackupSuffix,
	}
	WithExtensions(DefaultExtension)(m)
	for _, opt := range opts {
		opt(m)
	}

	if len(m.extensions) == 0 {
		return nil, errors.New(errors.ErrInvalidInput, "at least one extension is required")
	}
	if m.backupSuffix == "" {
		return nil, errors.New(errors.ErrInvalidInput, "backup suffix must not be empty")
	}
	return m, nil
}

// Discover lists the files under root that would be migrated, in lexical
// order. Symlinks are not followed.
func (m *Migrator) Discover(root string) ([]string, error) {
	var files []string
	err := afero.Walk(m.fs, filepath.Clean(root), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() && m.extensions[filepath.Ext(path)] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrWalk, "cannot walk %s", root).
			WithDetail("root", root)
	}
	return files, nil
}

// BackupPath returns the backup directory used for root: a sibling of the
// absolute root named after it.
func (m *Migrator) BackupPath(root string) string {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return filepath.Clean(root) + m.backupSuffix
}

// Backup copies root to its backup directory and returns that directory.
// An existing backup is an error unless force is set, in which case it is
// replaced.
func (m *Migrator) Backup(root string, force bool) (string, error) {
	logger := logging.GetLogger("migrate.backup")
	root, err := filesystem.Abs(root)
	if err != nil {
		return "", err
	}
	dst := m.BackupPath(root)

	if _, err := filesystem.Lstat(m.fs, dst); err == nil {
		if !force {
			return "", errors.Newf(errors.ErrBackupExists,
				"backup destination %s already exists", dst).
				WithDetail("path", dst)
		}
		logger.Info().Str("path", dst).Msg("Replacing existing backup")
		if err := m.fs.RemoveAll(dst); err != nil {
			return "", errors.Wrapf(err, errors.ErrBackup, "cannot remove old backup %s", dst).
				WithDetail("path", dst)
		}
	} else if !os.IsNotExist(err) {
		return "", errors.Wrapf(err, errors.ErrBackup, "cannot inspect backup destination %s", dst).
			WithDetail("path", dst)
	}

	done := logging.LogOperationStart(logger, "backup")
	defer done()

	stats, err := filesystem.CopyTree(m.fs, root, dst)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrBackup, "cannot back up %s to %s", root, dst).
			WithDetail("root", root).
			WithDetail("path", dst)
	}

	logger.Info().
		Str("root", root).
		Str("backup", dst).
		Int("files", stats.Files).
		Int("symlinks", stats.Symlinks).
		Str("size", humanize.Bytes(uint64(stats.Bytes))).
		Msg("Backup complete")
	return dst, nil
}

// Run migrates the tree at opts.Root. The returned error is non-nil only
// for failures that stop the whole run (bad root, backup, cancellation);
// per-file failures are reported through the Result.
func (m *Migrator) Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.GetLogger("migrate")
	result := &Result{Root: opts.Root, DryRun: opts.DryRun}

	// Discovered paths must carry the root marker, so work from the
	// absolute root.
	root, err := filesystem.Abs(opts.Root)
	if err != nil {
		return result, err
	}
	result.Root = root

	info, err := m.fs.Stat(root)
	if err != nil {
		return result, errors.Wrapf(err, errors.ErrInvalidInput, "cannot access root %s", root).
			WithDetail("root", root)
	}
	if !info.IsDir() {
		return result, errors.Newf(errors.ErrInvalidInput, "root %s is not a directory", root).
			WithDetail("root", root)
	}

	files, err := m.Discover(root)
	if err != nil {
		return result, err
	}
	logger.Info().Str("root", root).Int("files", len(files)).Bool("dryRun", opts.DryRun).Msg("Discovered files")

	if !opts.DryRun {
		backup, err := m.Backup(root, opts.Force)
		if err != nil {
			return result, err
		}
		result.BackupDir = backup
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		fr := m.File(path, opts.DryRun, opts.Diff)
		result.Files = append(result.Files, fr)
		if opts.OnFile != nil {
			opts.OnFile(fr)
		}

		if fr.Err != nil {
			logger.Error().Err(fr.Err).Str("path", path).Msg("Failed to migrate file")
			if opts.FailFast {
				break
			}
			continue
		}
		logger.Debug().
			Str("path", path).
			Bool("core", fr.Core).
			Int("replacements", fr.Replacements).
			Bool("changed", fr.Changed).
			Msg("Migrated file")
	}

	logger.Info().
		Int("migrated", result.Migrated()).
		Int("changed", result.Changed()).
		Int("failed", result.Failed()).
		Msg("Migration finished")
	return result, nil
}

// File migrates a single file. Unchanged files are not written.
func (m *Migrator) File(path string, dryRun, withDiff bool) FileResult {
	fr := FileResult{Path: path}

	info, err := m.fs.Stat(path)
	if err != nil {
		fr.Err = errors.Wrapf(err, errors.ErrFileRead, "cannot stat %s", path).WithDetail("path", path)
		return fr
	}
	data, err := afero.ReadFile(m.fs, path)
	if err != nil {
		fr.Err = errors.Wrapf(err, errors.ErrFileRead, "cannot read %s", path).WithDetail("path", path)
		return fr
	}
	if !utf8.Valid(data) {
		fr.Err = errors.Newf(errors.ErrEncoding, "%s is not valid UTF-8", path).WithDetail("path", path)
		return fr
	}

	original := string(data)
	res, err := m.rewriter.Rewrite(original, path)
	if err != nil {
		fr.Err = errors.Wrapf(err, errors.GetErrorCode(err), "cannot rewrite %s", path).WithDetail("path", path)
		return fr
	}
	fr.Core = res.Core
	fr.Replacements = res.Replacements
	fr.Changed = res.Changed

	if res.Changed && withDiff {
		fr.Diff = unifiedDiff(path, original, res.Content)
	}
	if !res.Changed || dryRun {
		return fr
	}

	if err := afero.WriteFile(m.fs, path, []byte(res.Content), info.Mode().Perm()); err != nil {
		fr.Err = errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", path).WithDetail("path", path)
	}
	return fr
}

func unifiedDiff(path, before, after string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: path,
		ToFile:   path,
		Context:  2,
	})
	if err != nil {
		return ""
	}
	return diff
}
