package rewrite

import (
	"regexp"
	"strings"

	"github.com/arthur-debert/relocate/pkg/classify"
	"github.com/arthur-debert/relocate/pkg/errors"
	"github.com/arthur-debert/relocate/pkg/paths"
)

// DefaultAbsolutePrefix is the segment every absolute include literal starts with.
const DefaultAbsolutePrefix = "/info"

const segmentPattern = `(?:/[\w.$-]+)*/?`

var (
	relativePathPattern = regexp.MustCompile(`["']\.{1,2}` + segmentPattern + `["']`)
	chdirPattern        = regexp.MustCompile(`chdir\(.*?; ?`)
)

// Result describes the outcome of rewriting one file.
type Result struct {
	Content      string
	Core         bool
	Replacements int
	Changed      bool
}

// Rewriter applies the rewrite policies.
type Rewriter struct {
	relativizer     *paths.Relativizer
	classifier      classify.Classifier
	anchor          string
	absolutePattern *regexp.Regexp
}

// New builds a Rewriter. anchor is the absolute location of the core include
// file and must contain the relativizer's root marker.
func New(rel *paths.Relativizer, cls classify.Classifier, absolutePrefix, anchor string) (*Rewriter, error) {
	if rel == nil {
		return nil, errors.New(errors.ErrInvalidInput, "relativizer is required")
	}
	if absolutePrefix == "" {
		return nil, errors.New(errors.ErrInvalidInput, "absolute prefix must not be empty")
	}
	if _, err := rel.Strip(anchor); err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid anchor %q", anchor)
	}

	return &Rewriter{
		relativizer:     rel,
		classifier:      cls,
		anchor:          anchor,
		absolutePattern: AbsolutePathPattern(absolutePrefix),
	}, nil
}

// AbsolutePathPattern returns the matcher for quoted absolute literals
// starting with prefix.
func AbsolutePathPattern(prefix string) *regexp.Regexp {
	return regexp.MustCompile(`["']` + regexp.QuoteMeta(prefix) + segmentPattern + `["']`)
}

// Rewrite classifies content and applies the matching policy.
func (rw *Rewriter) Rewrite(content, filePath string) (Result, error) {
	if rw.classifier.IsCore(content) {
		out, n, err := rw.editCoreFile(content, filePath)
		if err != nil {
			return Result{}, err
		}
		return Result{Content: out, Core: true, Replacements: n, Changed: out != content}, nil
	}

	out, n, err := rw.editRegularFile(content, filePath)
	if err != nil {
		return Result{}, err
	}
	return Result{Content: out, Replacements: n, Changed: out != content}, nil
}

// EditCoreFile applies the core-file policy regardless of classification.
func (rw *Rewriter) EditCoreFile(content, filePath string) (string, error) {
	out, _, err := rw.editCoreFile(content, filePath)
	return out, err
}

// EditRegularFile applies the regular-file policy regardless of classification.
func (rw *Rewriter) EditRegularFile(content, filePath string) (string, error) {
	out, _, err := rw.editRegularFile(content, filePath)
	return out, err
}

func (rw *Rewriter) editCoreFile(content, filePath string) (string, int, error) {
	n := 0
	if loc := chdirPattern.FindStringIndex(content); loc != nil {
		content = content[:loc[0]] + content[loc[1]:]
		n++
	}

	loc := relativePathPattern.FindStringIndex(content)
	if loc == nil {
		return content, n, nil
	}
	replacement, err := rw.relativizer.Relativize(filePath, rw.anchor)
	if err != nil {
		return "", 0, err
	}
	return content[:loc[0]] + replacement + content[loc[1]:], n + 1, nil
}

func (rw *Rewriter) editRegularFile(content, filePath string) (string, int, error) {
	matches := rw.absolutePattern.FindAllStringIndex(content, -1)
	if len(matches) == 0 {
		return content, 0, nil
	}

	var b strings.Builder
	b.Grow(len(content))
	last := 0
	for _, m := range matches {
		replacement, err := rw.relativizer.Relativize(filePath, content[m[0]:m[1]])
		if err != nil {
			return "", 0, errors.Wrapf(err, errors.GetErrorCode(err),
				"cannot rewrite literal %s at offset %d", content[m[0]:m[1]], m[0]).
				WithDetail("file", filePath)
		}
		b.WriteString(content[last:m[0]])
		b.WriteString(replacement)
		last = m[1]
	}
	b.WriteString(content[last:])
	return b.String(), len(matches), nil
}
