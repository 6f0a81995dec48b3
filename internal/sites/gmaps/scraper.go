package gmaps

import (
	"context"
	"fmt"
	"time"

	"leadscrape/internal/browser"
	"leadscrape/internal/output"
	"leadscrape/internal/scraper"
)

func init() {
	scraper.Register(&GMapsScraper{})
}

// GMapsScraper collects business leads from a Google Maps search.
type GMapsScraper struct{}

func (s *GMapsScraper) Name() string { return "gmaps" }

func (s *GMapsScraper) Scrape(ctx context.Context, query string, opts scraper.Options) (scraper.Content, error) {
	if query == "" {
		return nil, fmt.Errorf("search term is required for --site gmaps")
	}

	b, err := browser.New(browser.Config{
		ProxyURL:       opts.ProxyURL,
		Headless:       !opts.ShowUI,
		BlockResources: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create browser: %w", err)
	}
	defer b.Close()

	client := NewClient(b, opts.Logger, opts.ExpandPixels)
	defer client.Close()

	if err := client.Open(ctx, query, opts.Timeout); err != nil {
		return nil, fmt.Errorf("failed to open maps search: %w", err)
	}

	rs, err := scraper.Collect(ctx, client, opts)
	content := output.NewLeadsContent(query, SearchURL(query), rs)

	if opts.SaveHTML != "" {
		s.saveHTML(client, opts)
	}
	if err != nil {
		return content, fmt.Errorf("collection stopped early: %w", err)
	}
	return content, nil
}

// saveHTML dumps the page after collection. It runs on a fresh context so
// the page can still be saved when the run was cancelled.
func (s *GMapsScraper) saveHTML(client *Client, opts scraper.Options) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	html, err := client.HTML(ctx)
	if err == nil {
		err = output.WriteFile(opts.SaveHTML, html)
	}
	if err != nil && opts.Logger != nil {
		opts.Logger.Warn("failed to save results page", "path", opts.SaveHTML, "err", err)
	}
}
