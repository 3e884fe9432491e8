package relink

import (
	"fmt"

	"github.com/arthur-debert/relocate/pkg/errors"
)

// Status is the outcome of processing one link.
type Status string

const (
	StatusRepaired  Status = "repaired"
	StatusPlanned   Status = "planned"
	StatusUnchanged Status = "unchanged"
	StatusFailed    Status = "failed"
)

// Entry is the outcome for one link.
type Entry struct {
	Link      string `json:"link" yaml:"link"`
	OldTarget string `json:"old_target,omitempty" yaml:"old_target,omitempty"`
	NewTarget string `json:"new_target,omitempty" yaml:"new_target,omitempty"`
	Status    Status `json:"status" yaml:"status"`
	Err       error  `json:"-" yaml:"-"`
}

func (e Entry) fail(err *errors.RelocateError) Entry {
	e.Status = StatusFailed
	e.Err = err.WithDetail("link", e.Link)
	return e
}

// Report renders the entry the way the relink log lists it:
//
//	<link> :
//	<old target> -> <new target>
func (e Entry) Report() string {
	return fmt.Sprintf("%s : \n%s -> %s", e.Link, e.OldTarget, e.NewTarget)
}

// Result is the outcome of a Run.
type Result struct {
	DryRun  bool
	Entries []Entry
}

// Count returns the number of entries with the given status.
func (r *Result) Count(status Status) int {
	n := 0
	for _, e := range r.Entries {
		if e.Status == status {
			n++
		}
	}
	return n
}

// Err returns a PARTIAL_FAILURE error when at least one entry failed.
func (r *Result) Err() error {
	failed := r.Count(StatusFailed)
	if failed == 0 {
		return nil
	}
	return errors.Newf(errors.ErrPartialFailure, "%d of %d links could not be repaired", failed, len(r.Entries)).
		WithDetail("failed", failed)
}
