package eutils

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/henrybloomingdale/papers-cli/internal/ncbi"
)

const esummaryFixture = `{
  "header": {"type": "esummary", "version": "0.3"},
  "result": {
    "uids": ["111", "222"],
    "111": {
      "uid": "111",
      "pubdate": "2024 Jan 5",
      "title": "A",
      "authors": [
        {"name": "Alice", "authtype": "Author", "affiliation": "Acme Corp"},
        {"name": "Bob", "authtype": "Author", "affiliation": "Stanford University"}
      ],
      "email": "alice@acme.example"
    },
    "222": {
      "uid": "222",
      "pubdate": "2023",
      "title": "B",
      "authors": [{"name": "Carol", "authtype": "Author"}]
    }
  }
}`

func TestFetchDetails_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/esummary.fcgi" {
			t.Errorf("expected path /esummary.fcgi, got %q", r.URL.Path)
		}
		q := r.URL.Query()
		assert.Equal(t, "pubmed", q.Get("db"))
		assert.Equal(t, "111,222", q.Get("id"))
		assert.Equal(t, "json", q.Get("retmode"))
		assert.Equal(t, "test", q.Get("api_key"))
		w.Write([]byte(esummaryFixture))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithAPIKey("test"))
	s, err := c.FetchDetails(context.Background(), []string{"111", "222"})
	require.NoError(t, err)

	assert.Equal(t, []string{"111", "222"}, s.UIDs)
	require.Equal(t, 2, s.Len())
	_, hasUIDs := s.Records["uids"]
	assert.False(t, hasUIDs, "reserved uids key must not be a record")

	rec := s.Records["111"]
	assert.Equal(t, "111", rec.UID)
	assert.Equal(t, "A", rec.Title)
	assert.Equal(t, "2024 Jan 5", rec.PubDate)
	assert.Equal(t, "alice@acme.example", rec.CorrespondingEmail())
	require.Len(t, rec.Authors, 2)
	assert.Equal(t, Author{Name: "Alice", Affiliation: "Acme Corp"}, rec.Authors[0])

	carol := s.Records["222"].Authors[0]
	assert.Equal(t, "Carol", carol.Name)
	assert.Empty(t, carol.Affiliation)
	assert.Equal(t, Unknown, s.Records["222"].CorrespondingEmail())
}

func TestFetchDetails_KeysMatchSearch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/esearch.fcgi", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(esearchFixture))
	})
	mux.HandleFunc("/esummary.fcgi", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(esummaryFixture))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithAPIKey("test"))
	ids, err := c.Search(context.Background(), "cancer", nil)
	require.NoError(t, err)
	s, err := c.FetchDetails(context.Background(), ids)
	require.NoError(t, err)

	assert.ElementsMatch(t, ids, s.IDs())
}

func TestFetchDetails_EmptyIDsNotSpecialCased(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		q := r.URL.Query()
		_, present := q["id"]
		assert.True(t, present, "id parameter should be sent even when empty")
		assert.Equal(t, "", q.Get("id"))
		w.Write([]byte(`{"esummaryresult": ["Empty id list - nothing todo"]}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithAPIKey("test"))
	s, err := c.FetchDetails(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.UIDs)
}

func TestFetchDetails_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithAPIKey("test"))
	s, err := c.FetchDetails(context.Background(), []string{"111"})
	require.Error(t, err)
	assert.Nil(t, s)

	var te *ncbi.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusBadGateway, te.StatusCode)
	assert.Equal(t, "esummary.fcgi", te.Endpoint)
}

func TestParseSummaries_Malformed(t *testing.T) {
	tests := map[string]string{
		"truncated":      `{"result": {`,
		"bad uids":       `{"result": {"uids": "111"}}`,
		"record not obj": `{"result": {"uids": ["111"], "111": 42}}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parseSummaries([]byte(body))
			assert.Error(t, err)
		})
	}
}

func TestSummaries_Ordering(t *testing.T) {
	s := &Summaries{
		UIDs: []string{"3", "1"},
		Records: map[string]PaperRecord{
			"1": {UID: "1", Title: "one"},
			"2": {UID: "2", Title: "two"},
			"3": {UID: "3", Title: "three"},
		},
	}

	assert.Equal(t, []string{"3", "1", "2"}, s.IDs())

	ordered := s.Ordered([]string{"2", "9", "1"})
	require.Len(t, ordered, 2)
	assert.Equal(t, "two", ordered[0].Title)
	assert.Equal(t, "one", ordered[1].Title)

	var nilSummaries *Summaries
	assert.Equal(t, 0, nilSummaries.Len())
	assert.Empty(t, nilSummaries.IDs())
	assert.Empty(t, nilSummaries.Ordered([]string{"1"}))
}

func TestPaperRecord_DisplayDefaults(t *testing.T) {
	var rec PaperRecord
	assert.Equal(t, Unknown, rec.DisplayTitle())
	assert.Equal(t, Unknown, rec.DisplayPubDate())
	assert.Equal(t, Unknown, rec.CorrespondingEmail())

	rec = PaperRecord{Title: "T", PubDate: "2020", Email: "x@y.z"}
	assert.Equal(t, "T", rec.DisplayTitle())
	assert.Equal(t, "2020", rec.DisplayPubDate())
	assert.Equal(t, "x@y.z", rec.CorrespondingEmail())
}
