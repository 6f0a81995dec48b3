package scraper

import (
	"context"
	"regexp"
	"time"

	"github.com/charmbracelet/log"

	"leadscrape/internal/leads"
)

// Scraper collects leads for one search term from one kind of source.
//
// Scrape may return a non-nil Content together with an error when the source
// failed after some leads were collected; callers should persist whatever
// the Content holds before reporting the error.
type Scraper interface {
	Name() string
	Scrape(ctx context.Context, target string, opts Options) (Content, error)
}

type Content interface {
	ToHTML() (string, error)
	ToText() (string, error)
	ToMarkdown() (string, error)
	ToJSON() ([]byte, error)
	ToCSV() (string, error)
	Leads() []leads.LeadRecord
}

type Options struct {
	Target        int           // unique leads wanted
	MaxExpansions int           // scroll budget
	Timeout       time.Duration // navigation timeout
	Timing        leads.Timing
	ExpandSettle  time.Duration
	ExpandPixels  int
	PhonePattern  *regexp.Regexp // nil keeps leads.DefaultPhonePattern
	BlockDomains  []string       // rejected website hosts, on top of leads.DefaultBlockedDomains
	ShowUI        bool
	ProxyURL      string
	Logger        *log.Logger
	Observer      leads.Observer // optional progress reporting
	SaveHTML      string         // where to dump the rendered results page, if set
}
