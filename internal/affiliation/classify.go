// Package affiliation separates non-academic authors from a paper's author
// list using a keyword heuristic: an affiliation that does not mention
// "university" is treated as non-academic.
package affiliation

import (
	"strings"

	"github.com/henrybloomingdale/papers-cli/internal/eutils"
)

const academicKeyword = "university"

// Result pairs non-academic author names with their affiliations by index.
type Result struct {
	Names        []string `json:"names"`
	Affiliations []string `json:"affiliations"`
}

// Len returns the number of non-academic authors.
func (r Result) Len() int { return len(r.Names) }

// IsAcademic reports whether affiliation contains "university" in any case.
func IsAcademic(affiliation string) bool {
	return strings.Contains(strings.ToLower(affiliation), academicKeyword)
}

// Classify returns the record's non-academic authors in author-list order.
// An empty affiliation counts as non-academic and is reported as "Unknown".
func Classify(record eutils.PaperRecord) Result {
	res := Result{
		Names:        make([]string, 0, len(record.Authors)),
		Affiliations: make([]string, 0, len(record.Authors)),
	}
	for _, au := range record.Authors {
		if IsAcademic(au.Affiliation) {
			continue
		}
		aff := au.Affiliation
		if aff == "" {
			aff = eutils.Unknown
		}
		res.Names = append(res.Names, au.Name)
		res.Affiliations = append(res.Affiliations, aff)
	}
	return res
}
