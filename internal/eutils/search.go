package eutils

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// esearchResponse represents the raw JSON response from ESearch.
type esearchResponse struct {
	Result *esearchResult `json:"esearchresult"`
}

type esearchResult struct {
	Count  string   `json:"count"`
	IDList []string `json:"idlist"`
}

// Search performs an ESearch query against PubMed and returns the matching
// PMIDs in relevance order. A response without esearchresult.idlist yields
// an empty slice.
func (c *Client) Search(ctx context.Context, query string, opts *SearchOptions) ([]string, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("term", query)
	params.Set("retmode", "json")
	if opts != nil && opts.Limit > 0 {
		params.Set("retmax", strconv.Itoa(opts.Limit))
	}

	body, err := c.DoGet(ctx, "esearch.fcgi", params)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}

	var resp esearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	if resp.Result == nil || resp.Result.IDList == nil {
		return []string{}, nil
	}

	c.Logger.Debug().
		Str("count", resp.Result.Count).
		Int("ids", len(resp.Result.IDList)).
		Msg("search completed")

	return resp.Result.IDList, nil
}
