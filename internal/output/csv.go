package output

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/henrybloomingdale/papers-cli/internal/pipeline"
)

// csvHeader is the column order of the CSV export.
var csvHeader = []string{
	"PubMedID",
	"Title",
	"Publication Date",
	"Non-academic Author(s)",
	"Company Affiliation(s)",
	"Corresponding Author Email",
}

// writeRowsCSV exports rows to path. The header is written even when
// there are no rows.
func writeRowsCSV(path string, rows []pipeline.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating CSV file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.PubMedID,
			r.Title,
			r.PublicationDate,
			r.NonAcademicAuthors,
			r.CompanyAffiliations,
			r.CorrespondingEmail,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing CSV row %s: %w", r.PubMedID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing CSV output: %w", err)
	}
	return f.Close()
}
