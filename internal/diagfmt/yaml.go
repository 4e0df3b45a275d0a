package diagfmt

import (
	"io"

	"gopkg.in/yaml.v3"

	"bracecheck/internal/diag"
	"bracecheck/internal/source"
)

// YAML writes the same document as JSON, encoded as YAML.
func YAML(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	output := BuildDiagnosticsOutput(bag, fs, opts)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(output); err != nil {
		return err
	}
	return enc.Close()
}
