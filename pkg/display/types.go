package display

import (
	"github.com/arthur-debert/relocate/pkg/errors"
	"github.com/arthur-debert/relocate/pkg/migrate"
	"github.com/arthur-debert/relocate/pkg/relink"
)

// MigrationReport is the document form of a migrate.Result, used by the
// json and yaml renderers.
type MigrationReport struct {
	Root      string       `json:"root" yaml:"root"`
	BackupDir string       `json:"backup_dir,omitempty" yaml:"backup_dir,omitempty"`
	DryRun    bool         `json:"dry_run" yaml:"dry_run"`
	Summary   Summary      `json:"summary" yaml:"summary"`
	Files     []FileReport `json:"files" yaml:"files"`
}

// FileReport is the document form of a migrate.FileResult.
type FileReport struct {
	Path         string     `json:"path" yaml:"path"`
	Core         bool       `json:"core" yaml:"core"`
	Replacements int        `json:"replacements" yaml:"replacements"`
	Changed      bool       `json:"changed" yaml:"changed"`
	Diff         string     `json:"diff,omitempty" yaml:"diff,omitempty"`
	Error        *ErrorInfo `json:"error,omitempty" yaml:"error,omitempty"`
}

// RelinkReport is the document form of a relink.Result.
type RelinkReport struct {
	DryRun  bool          `json:"dry_run" yaml:"dry_run"`
	Summary Summary       `json:"summary" yaml:"summary"`
	Entries []EntryReport `json:"entries" yaml:"entries"`
}

// EntryReport is the document form of a relink.Entry.
type EntryReport struct {
	Link      string     `json:"link" yaml:"link"`
	OldTarget string     `json:"old_target,omitempty" yaml:"old_target,omitempty"`
	NewTarget string     `json:"new_target,omitempty" yaml:"new_target,omitempty"`
	Status    string     `json:"status" yaml:"status"`
	Error     *ErrorInfo `json:"error,omitempty" yaml:"error,omitempty"`
}

// Summary holds the counters printed at the end of a run.
type Summary struct {
	Total     int `json:"total" yaml:"total"`
	Succeeded int `json:"succeeded" yaml:"succeeded"`
	Changed   int `json:"changed" yaml:"changed"`
	Failed    int `json:"failed" yaml:"failed"`
}

// ErrorInfo is a serializable error.
type ErrorInfo struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

func errorInfo(err error) *ErrorInfo {
	if err == nil {
		return nil
	}
	return &ErrorInfo{Code: string(errors.GetErrorCode(err)), Message: err.Error()}
}

// NewMigrationReport converts a migrate.Result.
func NewMigrationReport(res *migrate.Result) MigrationReport {
	report := MigrationReport{
		Root:      res.Root,
		BackupDir: res.BackupDir,
		DryRun:    res.DryRun,
		Summary: Summary{
			Total:     len(res.Files),
			Succeeded: res.Migrated(),
			Changed:   res.Changed(),
			Failed:    res.Failed(),
		},
		Files: make([]FileReport, 0, len(res.Files)),
	}
	for _, f := range res.Files {
		report.Files = append(report.Files, FileReport{
			Path:         f.Path,
			Core:         f.Core,
			Replacements: f.Replacements,
			Changed:      f.Changed,
			Diff:         f.Diff,
			Error:        errorInfo(f.Err),
		})
	}
	return report
}

// NewRelinkReport converts a relink.Result.
func NewRelinkReport(res *relink.Result) RelinkReport {
	changed := res.Count(relink.StatusRepaired) + res.Count(relink.StatusPlanned)
	failed := res.Count(relink.StatusFailed)
	report := RelinkReport{
		DryRun: res.DryRun,
		Summary: Summary{
			Total:     len(res.Entries),
			Succeeded: len(res.Entries) - failed,
			Changed:   changed,
			Failed:    failed,
		},
		Entries: make([]EntryReport, 0, len(res.Entries)),
	}
	for _, e := range res.Entries {
		report.Entries = append(report.Entries, EntryReport{
			Link:      e.Link,
			OldTarget: e.OldTarget,
			NewTarget: e.NewTarget,
			Status:    string(e.Status),
			Error:     errorInfo(e.Err),
		})
	}
	return report
}
