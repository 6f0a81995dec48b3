package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"leadscrape/internal/leads"
)

// LeadsContent holds a finished result set and implements scraper.Content.
type LeadsContent struct {
	query  string
	source string
	result *leads.ResultSet
}

// NewLeadsContent wraps rs for formatting. A nil rs is treated as empty.
func NewLeadsContent(query, source string, rs *leads.ResultSet) *LeadsContent {
	if rs == nil {
		rs = &leads.ResultSet{}
	}
	return &LeadsContent{query: query, source: source, result: rs}
}

// Leads returns the records in insertion order.
func (c *LeadsContent) Leads() []leads.LeadRecord {
	return c.result.Records
}

// Result returns the underlying result set.
func (c *LeadsContent) Result() *leads.ResultSet {
	return c.result
}

func (c *LeadsContent) summary() string {
	return fmt.Sprintf("%d of %d leads (%s)", c.result.Len(), c.result.Target, c.result.Reason)
}

func (c *LeadsContent) headerHTML() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<h1>Leads: %s</h1>\n", html.EscapeString(c.query)))
	sb.WriteString(fmt.Sprintf("<p>%s</p>\n", html.EscapeString(c.summary())))
	return sb.String()
}

func (c *LeadsContent) tableHTML() string {
	var sb strings.Builder
	sb.WriteString("<table>\n<thead><tr>")
	for _, h := range leads.Header {
		sb.WriteString("<th>" + html.EscapeString(h) + "</th>")
	}
	sb.WriteString("</tr></thead>\n<tbody>\n")
	for _, r := range c.result.Records {
		sb.WriteString("<tr>")
		for i, v := range r.Row() {
			if i == 2 && v != leads.Unknown {
				sb.WriteString(fmt.Sprintf("<td><a href=%q>%s</a></td>", v, html.EscapeString(v)))
				continue
			}
			sb.WriteString("<td>" + html.EscapeString(v) + "</td>")
		}
		sb.WriteString("</tr>\n")
	}
	sb.WriteString("</tbody>\n</table>\n")
	return sb.String()
}

func (c *LeadsContent) ToHTML() (string, error) {
	return c.headerHTML() + c.tableHTML(), nil
}

func (c *LeadsContent) ToMarkdown() (string, error) {
	converter := md.NewConverter("", true, nil)
	header, err := converter.ConvertString(c.headerHTML())
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to Markdown: %w", err)
	}
	return header + "\n\n" + convertHTMLTableToMarkdown(c.tableHTML()), nil
}

func (c *LeadsContent) ToText() (string, error) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Leads: %s\n%s\n\n", c.query, c.summary()))
	for i, r := range c.result.Records {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, r.Name))
		sb.WriteString(fmt.Sprintf("   phone: %s  website: %s  rating: %s  reviews: %s\n", r.Phone, r.Website, r.Rating, r.Reviews))
	}
	return sb.String(), nil
}

func (c *LeadsContent) ToJSON() ([]byte, error) {
	type jsonResult struct {
		Query      string             `json:"query"`
		Source     string             `json:"source"`
		Target     int                `json:"target"`
		Count      int                `json:"count"`
		Passes     int                `json:"passes"`
		Expansions int                `json:"expansions"`
		Reason     leads.Reason       `json:"reason"`
		Leads      []leads.LeadRecord `json:"leads"`
	}
	records := c.result.Records
	if records == nil {
		records = []leads.LeadRecord{}
	}
	return json.MarshalIndent(jsonResult{
		Query:      c.query,
		Source:     c.source,
		Target:     c.result.Target,
		Count:      c.result.Len(),
		Passes:     c.result.Passes,
		Expansions: c.result.Expansions,
		Reason:     c.result.Reason,
		Leads:      records,
	}, "", "  ")
}

func (c *LeadsContent) ToCSV() (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(leads.Header); err != nil {
		return "", err
	}
	for _, r := range c.result.Records {
		if err := w.Write(r.Row()); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// convertHTMLTableToMarkdown renders every table in tableHTML as a Markdown
// table. Unparseable input is returned unchanged.
func convertHTMLTableToMarkdown(tableHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(tableHTML))
	if err != nil {
		return tableHTML
	}

	var builder strings.Builder
	doc.Find("table").Each(func(i int, table *goquery.Selection) {
		headers := []string{}
		headerRow := table.Find("thead tr").First()
		if headerRow.Length() == 0 {
			headerRow = table.Find("tr").First()
		}
		headerRow.Find("th, td").Each(func(j int, header *goquery.Selection) {
			headers = append(headers, cellText(header))
		})
		if len(headers) < 1 {
			return
		}

		builder.WriteString("| " + strings.Join(headers, " | ") + " |\n")
		builder.WriteString("|" + strings.Repeat(" --- |", len(headers)) + "\n")

		dataRows := table.Find("tbody tr")
		if dataRows.Length() == 0 {
			dataRows = table.Find("tr").Slice(1, goquery.ToEnd)
		}
		dataRows.Each(func(j int, row *goquery.Selection) {
			cells := []string{}
			row.Find("td, th").Each(func(k int, cell *goquery.Selection) {
				cells = append(cells, cellText(cell))
			})
			if len(cells) >= 1 {
				builder.WriteString("| " + strings.Join(cells, " | ") + " |\n")
			}
		})
	})

	return builder.String()
}

func cellText(s *goquery.Selection) string {
	return strings.ReplaceAll(strings.TrimSpace(s.Text()), "|", `\|`)
}
