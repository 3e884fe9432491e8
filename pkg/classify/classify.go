// Package classify decides which rewrite policy a source file gets.
//
// The decision is a heuristic over the head of the file, not an analysis of
// its code: a file whose first Window characters contain Marker is treated as
// the core include file. Any other file that happens to mention the marker
// that early is misclassified the same way.
package classify

import "strings"

// Defaults used when the configuration does not override them.
const (
	DefaultMarker = "coreshow.php"
	DefaultWindow = 100
)

// Classifier recognizes the core include file.
type Classifier struct {
	Marker string
	Window int
}

// New returns a Classifier, falling back to the defaults for zero values.
func New(marker string, window int) Classifier {
	if marker == "" {
		marker = DefaultMarker
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return Classifier{Marker: marker, Window: window}
}

// Head returns the first Window characters of content.
func (c Classifier) Head(content string) string {
	n := 0
	for i := range content {
		if n == c.Window {
			return content[:i]
		}
		n++
	}
	return content
}

// IsCore reports whether the marker appears entirely within the head of content.
func (c Classifier) IsCore(content string) bool {
	return c.Marker != "" && strings.Contains(c.Head(content), c.Marker)
}
