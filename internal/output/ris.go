package output

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/henrybloomingdale/papers-cli/internal/eutils"
	"github.com/henrybloomingdale/papers-cli/internal/pipeline"
)

// writeRowsRIS exports rows to RIS format for citation managers. Only the
// non-academic authors are listed, with their affiliations as AD tags.
func writeRowsRIS(path string, rows []pipeline.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating RIS file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i, r := range rows {
		writeRISTag(w, "TY", "JOUR")
		writeRISTag(w, "TI", knownValue(r.Title))

		for _, au := range r.Authors.Names {
			writeRISTag(w, "AU", au)
		}
		seen := make(map[string]bool, len(r.Authors.Affiliations))
		for _, ad := range r.Authors.Affiliations {
			if ad = knownValue(ad); ad != "" && !seen[ad] {
				seen[ad] = true
				writeRISTag(w, "AD", ad)
			}
		}

		writeRISTag(w, "PY", knownValue(r.PublicationDate))
		if email := knownValue(r.CorrespondingEmail); email != "" {
			writeRISTag(w, "N1", "Corresponding author: "+email)
		}
		if r.PubMedID != "" {
			writeRISTag(w, "ID", "PMID:"+r.PubMedID)
			writeRISTag(w, "UR", "https://pubmed.ncbi.nlm.nih.gov/"+r.PubMedID+"/")
		}
		writeRISTag(w, "ER", "")

		if i < len(rows)-1 {
			if _, err := w.WriteString("\n"); err != nil {
				return fmt.Errorf("writing RIS separator: %w", err)
			}
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing RIS output: %w", err)
	}

	return nil
}

func writeRISTag(w *bufio.Writer, tag, value string) {
	if tag == "" {
		return
	}
	if tag == "ER" {
		_, _ = w.WriteString("ER  -\n")
		return
	}
	if strings.TrimSpace(value) == "" {
		return
	}
	_, _ = w.WriteString(tag + "  - " + sanitizeRISValue(value) + "\n")
}

func sanitizeRISValue(v string) string {
	v = strings.ReplaceAll(v, "\r\n", " ")
	v = strings.ReplaceAll(v, "\n", " ")
	v = strings.ReplaceAll(v, "\r", " ")
	return strings.TrimSpace(v)
}

// knownValue drops the "Unknown" placeholder so RIS omits the tag.
func knownValue(v string) string {
	if v == eutils.Unknown {
		return ""
	}
	return v
}
