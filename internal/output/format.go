// Package output provides formatting for papers CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/henrybloomingdale/papers-cli/internal/pipeline"
)

// OutputConfig controls which output mode(s) are active.
type OutputConfig struct {
	JSON    bool   // Structured JSON
	YAML    bool   // YAML document
	Human   bool   // Rich terminal output with color
	CSVFile string // Export rows to this CSV path (works alongside any mode)
	RISFile string // Export rows to this RIS path (works alongside any mode)
}

// Validate rejects mutually exclusive stdout modes.
func (c OutputConfig) Validate() error {
	n := 0
	for _, on := range []bool{c.JSON, c.YAML, c.Human} {
		if on {
			n++
		}
	}
	if n > 1 {
		return fmt.Errorf("--json, --yaml and --human are mutually exclusive")
	}
	return nil
}

// FormatReport writes a report. File exports run first so a stdout
// failure does not lose them.
func FormatReport(w io.Writer, report *pipeline.Report, cfg OutputConfig) error {
	if cfg.CSVFile != "" {
		if err := writeRowsCSV(cfg.CSVFile, report.Rows); err != nil {
			return fmt.Errorf("CSV export failed: %w", err)
		}
	}
	if cfg.RISFile != "" {
		if err := writeRowsRIS(cfg.RISFile, report.Rows); err != nil {
			return fmt.Errorf("RIS export failed: %w", err)
		}
	}
	switch {
	case cfg.JSON:
		return writeJSON(w, report)
	case cfg.YAML:
		return writeYAML(w, report)
	case cfg.Human:
		return formatReportHuman(w, report, cfg.CSVFile != "")
	case cfg.CSVFile != "" || cfg.RISFile != "":
		// Rows went to a file; keep stdout to a summary line.
		fmt.Fprintf(w, "Wrote %d papers.\n", len(report.Rows))
		return nil
	}
	return formatReportPlain(w, report)
}

// --- Plain text formatter (default) ---

func formatReportPlain(w io.Writer, report *pipeline.Report) error {
	if len(report.Rows) == 0 {
		fmt.Fprintln(w, "No papers found.")
		return nil
	}

	for i, r := range report.Rows {
		if i > 0 {
			fmt.Fprintf(w, "\n%s\n\n", strings.Repeat("─", 80))
		}
		fmt.Fprintf(w, "PMID: %s\n", r.PubMedID)
		fmt.Fprintf(w, "Title: %s\n", r.Title)
		fmt.Fprintf(w, "Published: %s\n", r.PublicationDate)
		if r.NonAcademicAuthors != "" {
			fmt.Fprintf(w, "Non-academic authors: %s\n", r.NonAcademicAuthors)
			fmt.Fprintf(w, "Affiliations: %s\n", r.CompanyAffiliations)
		} else {
			fmt.Fprintln(w, "Non-academic authors: none")
		}
		fmt.Fprintf(w, "Corresponding email: %s\n", r.CorrespondingEmail)
	}

	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}
