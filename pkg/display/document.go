package display

import (
	"encoding/json"
	"io"

	"github.com/arthur-debert/relocate/pkg/migrate"
	"github.com/arthur-debert/relocate/pkg/relink"
	"gopkg.in/yaml.v3"
)

// documentRenderer emits a single document per result.
type documentRenderer struct {
	encode func(v interface{}) error
}

func newJSONRenderer(out io.Writer) *documentRenderer {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return &documentRenderer{encode: encoder.Encode}
}

func newYAMLRenderer(out io.Writer) *documentRenderer {
	return &documentRenderer{encode: func(v interface{}) error {
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return err
		}
		return encoder.Close()
	}}
}

func (r *documentRenderer) File(migrate.FileResult) {}

func (r *documentRenderer) Entry(relink.Entry) {}

func (r *documentRenderer) MigrationResult(res *migrate.Result) error {
	return r.encode(NewMigrationReport(res))
}

func (r *documentRenderer) RelinkResult(res *relink.Result) error {
	return r.encode(NewRelinkReport(res))
}

func (r *documentRenderer) Message(msg string) error {
	return r.encode(map[string]string{"message": msg})
}
