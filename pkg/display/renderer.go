package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/relocate/pkg/migrate"
	"github.com/arthur-debert/relocate/pkg/relink"
)

// Format selects a Renderer.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a --output value. The empty string means text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "plain":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected text, json or yaml)", s)
	}
}

// Renderer prints run progress and results.
//
// The File and Entry methods are called while a run is in progress; the
// Result methods once it is over. Document renderers ignore the streaming
// calls and emit everything at the end.
type Renderer interface {
	File(f migrate.FileResult)
	MigrationResult(res *migrate.Result) error
	Entry(e relink.Entry)
	RelinkResult(res *relink.Result) error
	Message(msg string) error
}

// New returns the renderer for format. Results go to out and diagnostics
// to errOut.
func New(format Format, out, errOut io.Writer) (Renderer, error) {
	switch format {
	case FormatText, "":
		return &TextRenderer{out: out, errOut: errOut}, nil
	case FormatJSON:
		return newJSONRenderer(out), nil
	case FormatYAML:
		return newYAMLRenderer(out), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}
