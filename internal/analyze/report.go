// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/gapfinder/pkg/types"
)

// Markdown renders a report for display.
func Markdown(r *types.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Research Paper Analysis: %s\n\n", r.Topic)

	if len(r.Papers) > 0 {
		fmt.Fprintf(&b, "Found %d relevant papers (sorted by %s).\n\n", len(r.Papers), r.Sort)
		b.WriteString("## Papers\n\n")
		for i, p := range r.Papers {
			fmt.Fprintf(&b, "%d. **%s**", i+1, p.DisplayTitle())
			if p.Year > 0 {
				fmt.Fprintf(&b, " (%d)", p.Year)
			}
			b.WriteString("\n")
			if len(p.Authors) > 0 {
				fmt.Fprintf(&b, "   %s\n", strings.Join(p.Authors, ", "))
			}
			if link := p.Link(); link != "" {
				fmt.Fprintf(&b, "   Link: %s\n", link)
			} else {
				b.WriteString("   Link: Not available\n")
			}
		}
		b.WriteString("\n")
	}

	if len(r.Analyses) > 0 {
		b.WriteString("## Paper Analyses\n\n")
		for i, a := range r.Analyses {
			fmt.Fprintf(&b, "### %d. %s\n\n", i+1, a.Paper.DisplayTitle())
			if a.Skipped != "" {
				fmt.Fprintf(&b, "_Skipped: %s_\n\n", a.Skipped)
				continue
			}
			b.WriteString(strings.TrimSpace(a.Analysis))
			b.WriteString("\n\n")
		}
	}

	if r.Suggestion != "" {
		b.WriteString("## Suggestions\n\n")
		b.WriteString(strings.TrimSpace(r.Suggestion))
		b.WriteString("\n\n")
	}

	for _, n := range r.Notes {
		fmt.Fprintf(&b, "> %s\n\n", n)
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// Report export formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// ReportFormat returns the export format implied by the extension of path
// (.yaml, .yml, or .json, any case).
func ReportFormat(path string) (string, error) {
	switch ext := filepath.Ext(path); strings.ToLower(ext) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported report format %q: use .yaml, .yml, or .json", ext)
	}
}

// WriteReport exports a report as YAML or JSON, chosen by ReportFormat.
func WriteReport(path string, r *types.Report) error {
	format, err := ReportFormat(path)
	if err != nil {
		return err
	}

	var data []byte
	if format == FormatYAML {
		data, err = yaml.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		data = append(data, '\n')
	}
	return os.WriteFile(path, data, 0o644)
}
