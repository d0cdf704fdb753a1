// Package pipeline runs the search, summary, and classification steps for
// one query and assembles report rows.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/henrybloomingdale/papers-cli/internal/affiliation"
	"github.com/henrybloomingdale/papers-cli/internal/eutils"
)

// Fetcher is the subset of the E-utilities client the pipeline needs.
type Fetcher interface {
	Search(ctx context.Context, query string, opts *eutils.SearchOptions) ([]string, error)
	FetchDetails(ctx context.Context, ids []string) (*eutils.Summaries, error)
}

// Observer receives run counters. *observability.Metrics satisfies it.
type Observer interface {
	RecordPapers(n int)
	RecordNonAcademic(n int)
}

// Row is one output line.
type Row struct {
	PubMedID            string `json:"pubmed_id" yaml:"pubmed_id"`
	Title               string `json:"title" yaml:"title"`
	PublicationDate     string `json:"publication_date" yaml:"publication_date"`
	NonAcademicAuthors  string `json:"non_academic_authors" yaml:"non_academic_authors"`
	CompanyAffiliations string `json:"company_affiliations" yaml:"company_affiliations"`
	CorrespondingEmail  string `json:"corresponding_author_email" yaml:"corresponding_author_email"`

	// Authors keeps the unjoined classification for exporters that need
	// one value per author.
	Authors affiliation.Result `json:"-" yaml:"-"`
}

// Report is the result of one run.
type Report struct {
	Query string   `json:"query" yaml:"query"`
	IDs   []string `json:"ids" yaml:"ids"`
	Rows  []Row    `json:"rows" yaml:"rows"`
}

// Options configures Run.
type Options struct {
	Limit    int
	Logger   zerolog.Logger
	Observer Observer
}

// Run searches PubMed for query, fetches summaries for the hits, and
// returns one row per record in search order. Any error aborts the run
// without partial rows.
func Run(ctx context.Context, client Fetcher, query string, opts Options) (*Report, error) {
	log := opts.Logger

	var searchOpts *eutils.SearchOptions
	if opts.Limit > 0 {
		searchOpts = &eutils.SearchOptions{Limit: opts.Limit}
	}

	ids, err := client.Search(ctx, query, searchOpts)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	summaries, err := client.FetchDetails(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetching details failed: %w", err)
	}
	log.Debug().Msgf("Fetched %d papers from PubMed.", len(ids))

	records := orderRecords(summaries, ids)

	report := &Report{
		Query: query,
		IDs:   ids,
		Rows:  make([]Row, 0, len(records)),
	}
	nonAcademic := 0
	for _, rec := range records {
		res := affiliation.Classify(rec)
		nonAcademic += res.Len()
		report.Rows = append(report.Rows, rowFor(rec, res))
	}

	if opts.Observer != nil {
		opts.Observer.RecordPapers(len(records))
		opts.Observer.RecordNonAcademic(nonAcademic)
	}
	log.Debug().
		Int("rows", len(report.Rows)).
		Int("non_academic_authors", nonAcademic).
		Msg("classification complete")

	return report, nil
}

// orderRecords returns records in search order, followed by any records
// the service returned for IDs the search did not rank.
func orderRecords(s *eutils.Summaries, ids []string) []eutils.PaperRecord {
	records := s.Ordered(ids)
	if len(records) == s.Len() {
		return records
	}
	ranked := make(map[string]bool, len(ids))
	for _, id := range ids {
		ranked[id] = true
	}
	for _, id := range s.IDs() {
		if !ranked[id] {
			records = append(records, s.Records[id])
		}
	}
	return records
}

// BuildRow classifies record and returns its output row.
func BuildRow(record eutils.PaperRecord) Row {
	return rowFor(record, affiliation.Classify(record))
}

func rowFor(rec eutils.PaperRecord, res affiliation.Result) Row {
	return Row{
		PubMedID:            rec.UID,
		Title:               rec.DisplayTitle(),
		PublicationDate:     rec.DisplayPubDate(),
		NonAcademicAuthors:  strings.Join(res.Names, ", "),
		CompanyAffiliations: strings.Join(res.Affiliations, ", "),
		CorrespondingEmail:  rec.CorrespondingEmail(),
		Authors:             res,
	}
}
