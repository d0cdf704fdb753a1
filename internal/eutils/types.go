// Package eutils provides the PubMed search and summary client for NCBI
// E-utilities.
package eutils

import "sort"

// Unknown is the display value for absent optional record fields.
const Unknown = "Unknown"

// SearchOptions configures a search query.
type SearchOptions struct {
	// Limit sets retmax. Zero leaves the service default in place.
	Limit int `json:"limit,omitempty"`
}

// Author is one entry of a summary's author list.
type Author struct {
	Name        string `json:"name"`
	Affiliation string `json:"affiliation,omitempty"`
}

// PaperRecord is the subset of an esummary document this tool reads.
// Absent fields keep their zero value.
type PaperRecord struct {
	UID     string   `json:"uid"`
	Title   string   `json:"title"`
	PubDate string   `json:"pubdate"`
	Authors []Author `json:"authors"`
	Email   string   `json:"email,omitempty"`
}

// DisplayTitle returns the title, or "Unknown" when absent.
func (r PaperRecord) DisplayTitle() string { return orUnknown(r.Title) }

// DisplayPubDate returns the publication date, or "Unknown" when absent.
func (r PaperRecord) DisplayPubDate() string { return orUnknown(r.PubDate) }

// CorrespondingEmail returns the corresponding author email, or "Unknown".
func (r PaperRecord) CorrespondingEmail() string { return orUnknown(r.Email) }

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}

// Summaries is the decoded "result" object of an esummary response.
// The reserved "uids" key lands in UIDs; every other key is a record.
type Summaries struct {
	UIDs    []string               `json:"uids"`
	Records map[string]PaperRecord `json:"records"`
}

// Len returns the number of records.
func (s *Summaries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Records)
}

// IDs returns the record keys: first in the order of UIDs, then any
// remaining keys sorted.
func (s *Summaries) IDs() []string {
	if s == nil {
		return []string{}
	}
	ids := make([]string, 0, len(s.Records))
	seen := make(map[string]bool, len(s.Records))
	for _, id := range s.UIDs {
		if _, ok := s.Records[id]; ok && !seen[id] {
			ids = append(ids, id)
			seen[id] = true
		}
	}
	var rest []string
	for id := range s.Records {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	return append(ids, rest...)
}

// Ordered returns the records for ids in that order, skipping IDs with no
// record.
func (s *Summaries) Ordered(ids []string) []PaperRecord {
	out := make([]PaperRecord, 0, len(ids))
	if s == nil {
		return out
	}
	for _, id := range ids {
		if rec, ok := s.Records[id]; ok {
			out = append(out, rec)
		}
	}
	return out
}
