package display

import (
	"fmt"
	"io"

	"github.com/arthur-debert/relocate/pkg/migrate"
	"github.com/arthur-debert/relocate/pkg/relink"
	"github.com/arthur-debert/relocate/pkg/style"
)

// TextRenderer writes one line per item to out as the run progresses and
// the failures and the summary to errOut.
type TextRenderer struct {
	out    io.Writer
	errOut io.Writer
}

// File prints the path of a migrated file, followed by its diff if any.
func (r *TextRenderer) File(f migrate.FileResult) {
	if f.Err != nil {
		_, _ = fmt.Fprintf(r.errOut, "%s %s: %v\n", style.ErrorIndicator(), f.Path, f.Err)
		return
	}
	_, _ = fmt.Fprintln(r.out, f.Path)
	if f.Diff != "" {
		_, _ = fmt.Fprint(r.out, style.Diff(f.Diff))
	}
}

// MigrationResult prints the summary line.
func (r *TextRenderer) MigrationResult(res *migrate.Result) error {
	var line string
	if res.DryRun {
		line = fmt.Sprintf("Dry run: %d files would be migrated (%d changed), %d failed",
			res.Migrated(), res.Changed(), res.Failed())
	} else {
		line = fmt.Sprintf("Migrated %d files (%d changed), %d failed",
			res.Migrated(), res.Changed(), res.Failed())
		if res.BackupDir != "" {
			line += "; backup at " + style.PathStyle.Render(res.BackupDir)
		}
	}
	_, err := fmt.Fprintf(r.errOut, "%s %s\n", indicator(res.Failed(), res.DryRun), line)
	return err
}

// Entry prints the relink report block of an entry.
func (r *TextRenderer) Entry(e relink.Entry) {
	if e.Err != nil {
		_, _ = fmt.Fprintf(r.errOut, "%s %s: %v\n", style.ErrorIndicator(), e.Link, e.Err)
		return
	}
	_, _ = fmt.Fprintln(r.out, e.Report())
}

// RelinkResult prints the summary line.
func (r *TextRenderer) RelinkResult(res *relink.Result) error {
	verb := "Repaired"
	changed := res.Count(relink.StatusRepaired)
	if res.DryRun {
		verb = "Dry run: would repair"
		changed = res.Count(relink.StatusPlanned)
	}
	line := fmt.Sprintf("%s %d links, %d unchanged, %d failed",
		verb, changed, res.Count(relink.StatusUnchanged), res.Count(relink.StatusFailed))
	_, err := fmt.Fprintf(r.errOut, "%s %s\n", indicator(res.Count(relink.StatusFailed), res.DryRun), line)
	return err
}

// Message prints msg to out as a heading.
func (r *TextRenderer) Message(msg string) error {
	_, err := fmt.Fprintln(r.out, style.TitleStyle.Render(msg))
	return err
}

func indicator(failed int, dryRun bool) string {
	switch {
	case failed > 0:
		return style.WarningIndicator()
	case dryRun:
		return style.PendingIndicator()
	default:
		return style.SuccessIndicator()
	}
}
