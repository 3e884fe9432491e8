package relink

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/relocate/pkg/errors"
	"github.com/arthur-debert/relocate/pkg/filesystem"
	"github.com/arthur-debert/relocate/pkg/logging"
	"github.com/arthur-debert/relocate/pkg/paths"
	"github.com/spf13/afero"
)

// Options controls a Run.
type Options struct {
	// DryRun computes new targets without touching any link.
	DryRun bool
	// FailFast stops at the first failed entry.
	FailFast bool
	// OnEntry is called with every Entry as soon as it is produced.
	OnEntry func(Entry)
}

// Repairer rewrites absolute symlink targets into relative ones.
type Repairer struct {
	fs  afero.Fs
	rel *paths.Relativizer
}

// New returns a Repairer. fs must support reading and creating symlinks.
func New(fs afero.Fs, rel *paths.Relativizer) (*Repairer, error) {
	if fs == nil {
		return nil, errors.New(errors.ErrInvalidInput, "filesystem is required")
	}
	if rel == nil {
		return nil, errors.New(errors.ErrInvalidInput, "relativizer is required")
	}
	if !filesystem.SupportsSymlinks(fs) {
		return nil, errors.Newf(errors.ErrUnsupported, "filesystem %s does not support symlinks", fs.Name())
	}
	return &Repairer{fs: fs, rel: rel}, nil
}

// ReadList reads link paths, one per line. Surrounding whitespace is
// trimmed; blank lines and lines starting with '#' are skipped.
func ReadList(r io.Reader) ([]string, error) {
	var links []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		links = append(links, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrListRead, "cannot read link list")
	}
	return links, nil
}

// ReadListFile opens path on fs and reads it with ReadList.
func ReadListFile(fs afero.Fs, path string) ([]string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrListRead, "cannot open link list %s", path).
			WithDetail("path", path)
	}
	defer func() { _ = f.Close() }()

	links, err := ReadList(f)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrListRead, "cannot read link list %s", path).
			WithDetail("path", path)
	}
	return links, nil
}

// Scan returns the symlinks under root whose target is absolute and does
// not exist, in lexical order. Returned paths are absolute.
func (r *Repairer) Scan(root string) ([]string, error) {
	abs, err := filesystem.Abs(root)
	if err != nil {
		return nil, err
	}

	var links []string
	err = afero.Walk(r.fs, abs, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !filesystem.IsSymlink(info) {
			return nil
		}
		target, err := filesystem.Readlink(r.fs, path)
		if err != nil {
			return err
		}
		if !filepath.IsAbs(target) {
			return nil
		}
		if _, err := r.fs.Stat(path); os.IsNotExist(err) {
			links = append(links, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrWalk, "cannot scan %s", root).
			WithDetail("root", root)
	}
	return links, nil
}

// NewTarget computes the repaired target for a link. Relative targets are
// returned unchanged, even when they contain the root marker. Absolute ones
// are made relative to the directory holding the link after both are
// reduced to the root marker. Targets are used verbatim; quotes are part of
// the file name.
func (r *Repairer) NewTarget(link, target string) (string, error) {
	if !filepath.IsAbs(target) {
		return target, nil
	}
	return r.rel.Rel(link, target)
}

// Repair rewrites a single link. The returned Entry carries any error.
func (r *Repairer) Repair(link string, dryRun bool) Entry {
	entry := Entry{Link: link}

	info, err := filesystem.Lstat(r.fs, link)
	if err != nil {
		return entry.fail(errors.Wrapf(err, errors.ErrSymlinkRead, "cannot stat %s", link))
	}
	if !filesystem.IsSymlink(info) {
		return entry.fail(errors.Newf(errors.ErrSymlinkRead, "%s is not a symlink", link))
	}

	old, err := filesystem.Readlink(r.fs, link)
	if err != nil {
		return entry.fail(errors.Wrapf(err, errors.ErrSymlinkRead, "cannot read symlink %s", link))
	}
	entry.OldTarget = old

	target, err := r.NewTarget(link, old)
	if err != nil {
		return entry.fail(errors.Wrapf(err, errors.GetErrorCode(err), "cannot relativize %s", link))
	}
	entry.NewTarget = target

	switch {
	case target == old:
		entry.Status = StatusUnchanged
		return entry
	case dryRun:
		entry.Status = StatusPlanned
		return entry
	}

	if err := r.fs.Remove(link); err != nil {
		return entry.fail(errors.Wrapf(err, errors.ErrSymlinkRemove, "cannot remove %s", link))
	}
	if err := filesystem.Symlink(r.fs, target, link); err != nil {
		failure := errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot create %s -> %s", link, target)
		// Restore the old link.
		if rerr := filesystem.Symlink(r.fs, old, link); rerr != nil {
			failure = failure.WithDetail("restore_error", rerr.Error())
		}
		return entry.fail(failure)
	}

	entry.Status = StatusRepaired
	return entry
}

// Run repairs links in order. Per-entry failures are recorded in the
// Result; the returned error only reports cancellation.
func (r *Repairer) Run(ctx context.Context, links []string, opts Options) (*Result, error) {
	logger := logging.GetLogger("relink")
	result := &Result{DryRun: opts.DryRun}

	for _, link := range links {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		entry := r.Repair(link, opts.DryRun)
		result.Entries = append(result.Entries, entry)
		if opts.OnEntry != nil {
			opts.OnEntry(entry)
		}

		if entry.Err != nil {
			logger.Error().Err(entry.Err).Str("link", link).Msg("Failed to repair symlink")
			if opts.FailFast {
				break
			}
			continue
		}
		logger.Debug().
			Str("link", link).
			Str("old", entry.OldTarget).
			Str("new", entry.NewTarget).
			Str("status", string(entry.Status)).
			Msg("Processed symlink")
	}

	logger.Info().
		Int("repaired", result.Count(StatusRepaired)+result.Count(StatusPlanned)).
		Int("unchanged", result.Count(StatusUnchanged)).
		Int("failed", result.Count(StatusFailed)).
		Msg("Relink finished")
	return result, nil
}
