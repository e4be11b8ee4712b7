package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/turing/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidateFormat rejects unknown output formats.
func ValidateFormat(format string) error {
	switch format {
	case FormatText, FormatJSON, FormatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
}

// WriteValue encodes v as JSON or YAML.
func WriteValue(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("format %q cannot encode values", format)
}

// WriteResult prints a run result in the requested format.
func WriteResult(w io.Writer, format string, r *domain.Result) error {
	if format != FormatText {
		return WriteValue(w, format, r)
	}
	fmt.Fprintf(w, "status: %s\n", r.Status)
	fmt.Fprintf(w, "state:  %s\n", r.State)
	fmt.Fprintf(w, "steps:  %d\n", r.Steps)
	fmt.Fprintf(w, "output: %s\n", r.Output)
	if r.Error != "" {
		fmt.Fprintf(w, "error:  %s\n", r.Error)
	}
	return nil
}
