package cli

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

func writeOutput(w io.Writer, format string, v interface{}) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
