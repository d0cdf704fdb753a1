package eutils

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// uidsKey is the reserved key of the esummary result object listing the
// returned UIDs. It is not a record.
const uidsKey = "uids"

type esummaryResponse struct {
	Result map[string]json.RawMessage `json:"result"`
}

// FetchDetails retrieves esummary documents for the given PMIDs.
// An empty ids slice is sent as-is; whatever the service answers is
// decoded like any other response.
func (c *Client) FetchDetails(ctx context.Context, ids []string) (*Summaries, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("id", strings.Join(ids, ","))
	params.Set("retmode", "json")

	body, err := c.DoGet(ctx, "esummary.fcgi", params)
	if err != nil {
		return nil, fmt.Errorf("summary request failed: %w", err)
	}

	s, err := parseSummaries(body)
	if err != nil {
		return nil, err
	}

	c.Logger.Debug().
		Int("requested", len(ids)).
		Int("records", s.Len()).
		Msg("summaries fetched")

	return s, nil
}

func parseSummaries(data []byte) (*Summaries, error) {
	var resp esummaryResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parsing summary response: %w", err)
	}

	s := &Summaries{
		UIDs:    []string{},
		Records: make(map[string]PaperRecord, len(resp.Result)),
	}

	for key, raw := range resp.Result {
		if key == uidsKey {
			if err := json.Unmarshal(raw, &s.UIDs); err != nil {
				return nil, fmt.Errorf("parsing summary uids: %w", err)
			}
			continue
		}

		var rec PaperRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("parsing summary for %s: %w", key, err)
		}
		rec.UID = key
		s.Records[key] = rec
	}

	return s, nil
}
