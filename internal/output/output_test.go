package output

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadscrape/internal/leads"
)

func sampleResult() *leads.ResultSet {
	return &leads.ResultSet{
		Target: 60,
		Records: []leads.LeadRecord{
			{Name: "Bright Spark Electrical", Phone: "01614960000", Website: "https://brightspark.co.uk/", Rating: "4.8", Reviews: "212"},
			{Name: "Volts | Amps", Phone: leads.Unknown, Website: leads.Unknown, Rating: leads.Unknown, Reviews: leads.Unknown},
		},
		Passes:     4,
		Expansions: 3,
		Reason:     leads.ReasonBudgetExhausted,
	}
}

func TestToCSVWritesHeaderAndRowsInFieldOrder(t *testing.T) {
	c := NewLeadsContent("Electricians in Manchester", "gmaps", sampleResult())
	out, err := c.ToCSV()
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Business Name", "Phone Number", "Website", "Rating", "Number of Reviews"}, rows[0])
	assert.Equal(t, []string{"Bright Spark Electrical", "01614960000", "https://brightspark.co.uk/", "4.8", "212"}, rows[1])
	assert.Equal(t, "Volts | Amps", rows[2][0])
}

func TestToCSVWithNoLeadsHasOnlyHeader(t *testing.T) {
	out, err := NewLeadsContent("x", "gmaps", nil).ToCSV()
	require.NoError(t, err)
	assert.Equal(t, "Business Name,Phone Number,Website,Rating,Number of Reviews\n", out)
}

func TestToJSON(t *testing.T) {
	raw, err := NewLeadsContent("Electricians in Manchester", "gmaps", sampleResult()).ToJSON()
	require.NoError(t, err)

	var got struct {
		Query  string             `json:"query"`
		Count  int                `json:"count"`
		Reason string             `json:"reason"`
		Leads  []leads.LeadRecord `json:"leads"`
	}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "Electricians in Manchester", got.Query)
	assert.Equal(t, 2, got.Count)
	assert.Equal(t, "budget_exhausted", got.Reason)
	assert.Equal(t, "212", got.Leads[0].Reviews)
}

func TestToMarkdownRendersTable(t *testing.T) {
	out, err := NewLeadsContent("Electricians in Manchester", "gmaps", sampleResult()).ToMarkdown()
	require.NoError(t, err)
	assert.Contains(t, out, "# Leads: Electricians in Manchester")
	assert.Contains(t, out, "| Business Name | Phone Number | Website | Rating | Number of Reviews |")
	assert.Contains(t, out, "| Bright Spark Electrical | 01614960000 | https://brightspark.co.uk/ | 4.8 | 212 |")
	assert.Contains(t, out, `Volts \| Amps`)
}

func TestToHTMLEscapesValues(t *testing.T) {
	rs := &leads.ResultSet{Target: 1, Records: []leads.LeadRecord{
		{Name: "<b>Sparks</b>", Phone: leads.Unknown, Website: leads.Unknown, Rating: leads.Unknown, Reviews: leads.Unknown},
	}}
	out, err := NewLeadsContent("q", "gmaps", rs).ToHTML()
	require.NoError(t, err)
	assert.Contains(t, out, "&lt;b&gt;Sparks&lt;/b&gt;")
	assert.NotContains(t, out, "<b>Sparks")
}

func TestDatedFilename(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "electricians_in_manchester_2026_10_19.csv", DatedFilename("Electricians in Manchester", now, "csv"))
	assert.Equal(t, "plumbers_st_albans_2026_10_19.json", DatedFilename("  Plumbers, St. Albans ", now, ".json"))
	assert.Equal(t, "leads_2026_10_19.md", DatedFilename("!!!", now, Extension("markdown")))
}

func TestWriteFileCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scraped_data", "out.csv")
	require.NoError(t, WriteFile(path, "a,b\n"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))
}
