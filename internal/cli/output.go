package cli

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// structured reports whether --json or --yaml was requested.
func structured() bool {
	return FlagJSON || FlagYAML
}

// writeStructured encodes v as YAML when --yaml is set, JSON otherwise.
func writeStructured(w io.Writer, v any) error {
	if FlagYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
