package paths

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/relocate/pkg/errors"
)

// DefaultDirExpression is the PHP idiom for the directory of the including file.
const DefaultDirExpression = "dirname(__FILE__)"

var quoteStripper = strings.NewReplacer(`"`, "", `'`, "")

// Relativizer computes marker-normalized relative paths.
type Relativizer struct {
	// Marker is the root segment shared by every path of the tree.
	Marker string
	// DirExpression stands for the directory of the current file in
	// rendered expressions. Empty renders plain quoted paths.
	DirExpression string
}

// New returns a Relativizer for the given root marker. The marker must be an
// absolute segment so that stripped paths stay absolute.
func New(marker, dirExpression string) (*Relativizer, error) {
	if marker == "" {
		return nil, errors.New(errors.ErrInvalidInput, "root marker must not be empty")
	}
	if !strings.HasPrefix(marker, "/") {
		return nil, errors.Newf(errors.ErrInvalidInput,
			"root marker must start with '/': %q", marker).
			WithDetail("marker", marker)
	}
	return &Relativizer{Marker: marker, DirExpression: dirExpression}, nil
}

// StripQuotes removes every single and double quote from s.
func StripQuotes(s string) string {
	return quoteStripper.Replace(s)
}

// Strip drops everything before the first occurrence of the marker.
func (r *Relativizer) Strip(path string) (string, error) {
	idx := strings.Index(path, r.Marker)
	if idx < 0 {
		return "", errors.Newf(errors.ErrMarkerMissing,
			"path %q does not contain root marker %q", path, r.Marker).
			WithDetail("path", path).
			WithDetail("marker", r.Marker)
	}
	return path[idx:], nil
}

// Rel returns the lexical relative path from the directory containing
// fromFile to to. Both are taken verbatim. The result is "." when to names
// that directory itself.
func (r *Relativizer) Rel(fromFile, to string) (string, error) {
	from, err := r.Strip(fromFile)
	if err != nil {
		return "", err
	}
	target, err := r.Strip(to)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(filepath.Dir(filepath.Clean(from)), filepath.Clean(target))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInternal,
			"cannot relativize %q against %q", to, fromFile)
	}
	return filepath.ToSlash(rel), nil
}

// Relativize renders the relative path from fromFile to to as an expression
// anchored at the directory of fromFile. to may be a quoted string literal.
func (r *Relativizer) Relativize(fromFile, to string) (string, error) {
	rel, err := r.Rel(fromFile, StripQuotes(to))
	if err != nil {
		return "", err
	}
	return r.Expression(rel), nil
}

// Expression renders an already computed directory-relative path.
func (r *Relativizer) Expression(rel string) string {
	if r.DirExpression == "" {
		return `"` + rel + `"`
	}
	if rel == "." {
		return r.DirExpression
	}
	return r.DirExpression + `."/` + rel + `"`
}

// ResolveSibling resolves other against the directory containing fromFile
// and normalizes the result. An absolute other is only cleaned.
func ResolveSibling(fromFile, other string) string {
	other = StripQuotes(other)
	if filepath.IsAbs(other) {
		return filepath.Clean(other)
	}
	return filepath.Join(filepath.Dir(fromFile), other)
}
