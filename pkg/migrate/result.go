package migrate

import "github.com/arthur-debert/relocate/pkg/errors"

// FileResult is the outcome for one file.
type FileResult struct {
	Path         string `json:"path" yaml:"path"`
	Core         bool   `json:"core" yaml:"core"`
	Replacements int    `json:"replacements" yaml:"replacements"`
	Changed      bool   `json:"changed" yaml:"changed"`
	Diff         string `json:"diff,omitempty" yaml:"diff,omitempty"`
	Err          error  `json:"-" yaml:"-"`
}

// OK reports whether the file was migrated without error.
func (f FileResult) OK() bool {
	return f.Err == nil
}

// Result is the outcome of a Run.
type Result struct {
	Root      string
	BackupDir string
	DryRun    bool
	Files     []FileResult
}

// Migrated counts the files processed without error.
func (r *Result) Migrated() int {
	n := 0
	for _, f := range r.Files {
		if f.OK() {
			n++
		}
	}
	return n
}

// Changed counts the files whose content was (or, in a dry run, would be)
// modified.
func (r *Result) Changed() int {
	n := 0
	for _, f := range r.Files {
		if f.OK() && f.Changed {
			n++
		}
	}
	return n
}

// Failed counts the files that could not be migrated.
func (r *Result) Failed() int {
	return len(r.Files) - r.Migrated()
}

// Err returns a PARTIAL_FAILURE error when at least one file failed.
func (r *Result) Err() error {
	failed := r.Failed()
	if failed == 0 {
		return nil
	}
	return errors.Newf(errors.ErrPartialFailure, "%d of %d files failed to migrate", failed, len(r.Files)).
		WithDetail("failed", failed).
		WithDetail("root", r.Root)
}
