package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"leadscrape/internal/output"
	"leadscrape/internal/scraper"
)

func init() {
	scraper.Register(&SnapshotScraper{})
}

// SnapshotScraper runs the collector over a results page saved to disk. The
// query is the path of the saved HTML file.
type SnapshotScraper struct{}

func (s *SnapshotScraper) Name() string { return "snapshot" }

func (s *SnapshotScraper) Scrape(ctx context.Context, path string, opts scraper.Options) (scraper.Content, error) {
	if path == "" {
		return nil, fmt.Errorf("html file path is required for --site snapshot")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	src, err := NewSource(f, 0)
	if err != nil {
		return nil, err
	}

	abs, _ := filepath.Abs(path)
	rs, err := scraper.Collect(ctx, src, replayOptions(opts))
	content := output.NewLeadsContent(path, "file://"+abs, rs)
	if err != nil {
		return content, fmt.Errorf("collection stopped early: %w", err)
	}
	return content, nil
}

// replayOptions drops the settle delays, which only give a live page time to
// render.
func replayOptions(opts scraper.Options) scraper.Options {
	opts.ExpandSettle = 0
	opts.Timing.ActivateSettle = 0
	opts.Timing.RetrySettle = 0
	opts.Timing.WebsiteWait = 0
	return opts
}
