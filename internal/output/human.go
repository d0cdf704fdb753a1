package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/henrybloomingdale/papers-cli/internal/pipeline"
)

// --- Styles ---

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	bold   = lipgloss.NewStyle().Bold(true)
	dim    = lipgloss.NewStyle().Faint(true)
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// truncate cuts a string to maxLen runes, appending "…" if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-1]) + "…"
}

func formatReportHuman(w io.Writer, report *pipeline.Report, exported bool) error {
	if len(report.Rows) == 0 {
		fmt.Fprintln(w, "🔬 No papers found.")
		return nil
	}

	withIndustry := 0
	for _, r := range report.Rows {
		if r.NonAcademicAuthors != "" {
			withIndustry++
		}
	}

	header := fmt.Sprintf("🔬 %d papers, %d with non-academic authors", len(report.Rows), withIndustry)
	fmt.Fprintln(w, bold.Render(header))
	if report.Query != "" {
		fmt.Fprintf(w, "   Query: %s\n", dim.Render(report.Query))
	}
	fmt.Fprintln(w)

	var rows [][]string
	for _, r := range report.Rows {
		authors := r.NonAcademicAuthors
		if authors == "" {
			authors = dim.Render("—")
		}
		rows = append(rows, []string{
			cyan.Render(r.PubMedID),
			bold.Render(truncate(r.Title, 50)),
			r.PublicationDate,
			truncate(authors, 30),
			yellow.Render(truncate(r.CompanyAffiliations, 40)),
		})
	}

	t := table.New().
		Headers("PMID", "Title", "Published", "Non-academic", "Affiliations").
		Rows(rows...).
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
			}
			return lipgloss.NewStyle()
		})

	fmt.Fprintln(w, t.Render())

	if !exported {
		fmt.Fprintln(w)
		fmt.Fprintln(w, dim.Render("💾 Use --file output.csv to export"))
	}
	return nil
}
