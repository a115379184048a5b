// Package output renders analysis reports as JSON, YAML or a human-readable
// table.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/pankaj-dahiya-devops/sg-audit/internal/models"
)

// Format selects a renderer.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q; valid values: table, json, yaml", s)
	}
}

// Render writes reports to w in the given format. JSON and YAML always emit
// a list, one element per region.
func Render(w io.Writer, format Format, reports []models.AnalysisReport, opts TableOptions) error {
	if reports == nil {
		reports = []models.AnalysisReport{}
	}
	switch format {
	case FormatJSON:
		return RenderJSON(w, reports)
	case FormatYAML:
		return RenderYAML(w, reports)
	case FormatTable, "":
		RenderTable(w, reports, opts)
		return nil
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// RenderJSON writes reports as indented JSON with object keys sorted, the
// layout existing report consumers diff against.
func RenderJSON(w io.Writer, reports []models.AnalysisReport) error {
	// encoding/json sorts map keys, so a pass through a generic value orders
	// every object alphabetically instead of by struct field.
	raw, err := json.Marshal(reports)
	if err != nil {
		return fmt.Errorf("encode JSON report: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("encode JSON report: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("encode JSON report: %w", err)
	}
	return nil
}

// RenderYAML writes reports as a YAML document.
func RenderYAML(w io.Writer, reports []models.AnalysisReport) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(reports); err != nil {
		return fmt.Errorf("encode YAML report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode YAML report: %w", err)
	}
	return nil
}
