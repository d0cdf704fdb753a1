package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/henrybloomingdale/papers-cli/internal/affiliation"
	"github.com/henrybloomingdale/papers-cli/internal/pipeline"
)

func sampleReport() *pipeline.Report {
	return &pipeline.Report{
		Query: "cancer",
		IDs:   []string{"111", "222"},
		Rows: []pipeline.Row{
			{
				PubMedID:            "111",
				Title:               "A",
				PublicationDate:     "2024 Jan",
				NonAcademicAuthors:  "Alice, Carol",
				CompanyAffiliations: "Acme Corp, Boston, MA, Unknown",
				CorrespondingEmail:  "alice@acme.example",
				Authors: affiliation.Result{
					Names:        []string{"Alice", "Carol"},
					Affiliations: []string{"Acme Corp, Boston, MA", "Unknown"},
				},
			},
			{
				PubMedID:           "222",
				Title:              "B",
				PublicationDate:    "Unknown",
				CorrespondingEmail: "Unknown",
			},
		},
	}
}

func TestFormatReportPlain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatReport(&buf, sampleReport(), OutputConfig{}))

	out := buf.String()
	assert.Contains(t, out, "PMID: 111")
	assert.Contains(t, out, "Non-academic authors: Alice, Carol")
	assert.Contains(t, out, "Affiliations: Acme Corp, Boston, MA, Unknown")
	assert.Contains(t, out, "PMID: 222")
	assert.Contains(t, out, "Non-academic authors: none")
}

func TestFormatReportPlainEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatReport(&buf, &pipeline.Report{}, OutputConfig{}))
	assert.Contains(t, buf.String(), "No papers found")
}

func TestFormatReportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatReport(&buf, sampleReport(), OutputConfig{JSON: true}))

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed), buf.String())

	assert.Equal(t, "cancer", parsed["query"])
	rows, ok := parsed["rows"].([]interface{})
	require.True(t, ok)
	require.Len(t, rows, 2)

	first := rows[0].(map[string]interface{})
	assert.Equal(t, "111", first["pubmed_id"])
	assert.Equal(t, "Alice, Carol", first["non_academic_authors"])
	_, leaked := first["Authors"]
	assert.False(t, leaked, "structured authors should not be serialized")
}

func TestFormatReportYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatReport(&buf, sampleReport(), OutputConfig{YAML: true}))

	var parsed pipeline.Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &parsed), buf.String())
	assert.Equal(t, "cancer", parsed.Query)
	require.Len(t, parsed.Rows, 2)
	assert.Equal(t, "alice@acme.example", parsed.Rows[0].CorrespondingEmail)
}

func TestFormatReportHuman(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatReport(&buf, sampleReport(), OutputConfig{Human: true}))

	out := buf.String()
	assert.Contains(t, out, "2 papers, 1 with non-academic authors")
	assert.Contains(t, out, "111")
	assert.Contains(t, out, "222")
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "--file")
}

func TestFormatReportHumanEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatReport(&buf, &pipeline.Report{}, OutputConfig{Human: true}))
	assert.Contains(t, buf.String(), "No papers found")
}

func TestFormatReportCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	var buf bytes.Buffer
	require.NoError(t, FormatReport(&buf, sampleReport(), OutputConfig{CSVFile: path}))
	assert.Contains(t, buf.String(), "Wrote 2 papers.")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{
		"PubMedID", "Title", "Publication Date",
		"Non-academic Author(s)", "Company Affiliation(s)", "Corresponding Author Email",
	}, records[0])
	assert.Equal(t, []string{
		"111", "A", "2024 Jan", "Alice, Carol", "Acme Corp, Boston, MA, Unknown", "alice@acme.example",
	}, records[1])
	assert.Equal(t, []string{"222", "B", "Unknown", "", "", "Unknown"}, records[2])
}

func TestFormatReportCSVEmptyWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	var buf bytes.Buffer
	require.NoError(t, FormatReport(&buf, &pipeline.Report{}, OutputConfig{CSVFile: path}))

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "PubMedID,Title,Publication Date,Non-academic Author(s),Company Affiliation(s),Corresponding Author Email\n", string(body))
}

func TestFormatReportCSVBadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.csv")
	err := FormatReport(&bytes.Buffer{}, sampleReport(), OutputConfig{CSVFile: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CSV export failed")
}

func TestFormatReportCSVWithJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	var buf bytes.Buffer
	require.NoError(t, FormatReport(&buf, sampleReport(), OutputConfig{CSVFile: path, JSON: true}))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(buf.String()), "{"))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestOutputConfigValidate(t *testing.T) {
	assert.NoError(t, OutputConfig{}.Validate())
	assert.NoError(t, OutputConfig{JSON: true, CSVFile: "x.csv"}.Validate())
	assert.Error(t, OutputConfig{JSON: true, Human: true}.Validate())
	assert.Error(t, OutputConfig{YAML: true, JSON: true}.Validate())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "Köln…", truncate("Kölner Dom", 5))
}
