package gmaps

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"

	"leadscrape/internal/browser"
	"leadscrape/internal/leads"
)

const defaultExpandPixels = 1000

// Client drives one Google Maps results page and exposes it as a
// leads.Source.
type Client struct {
	browser      *browser.Browser
	page         *rod.Page
	feed         *rod.Element
	listings     rod.Elements
	stale        bool
	expandPixels int
	logger       *log.Logger
}

var _ leads.Source = (*Client)(nil)

// NewClient creates a new Client instance.
func NewClient(b *browser.Browser, logger *log.Logger, expandPixels int) *Client {
	if logger == nil {
		logger = log.Default()
	}
	if expandPixels <= 0 {
		expandPixels = defaultExpandPixels
	}
	return &Client{browser: b, logger: logger, expandPixels: expandPixels, stale: true}
}

// Close closes the page.
func (c *Client) Close() {
	if c.page != nil {
		c.page.Close()
	}
}

// Count re-reads the rendered listing cards. The snapshot it takes backs
// ElementAt until the next Count or Expand.
func (c *Client) Count(ctx context.Context) (int, error) {
	if c.page == nil {
		return 0, errors.New("results page is not open")
	}
	els, err := c.page.Context(ctx).Elements(leads.ListingSelector)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, fmt.Errorf("failed to query listings: %w", err)
	}
	c.listings = els
	c.stale = false
	return len(els), nil
}

func (c *Client) ElementAt(ctx context.Context, i int) (leads.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.stale {
		if _, err := c.Count(ctx); err != nil {
			return nil, err
		}
	}
	if i < 0 || i >= len(c.listings) {
		return nil, fmt.Errorf("listing %d: %w", i, leads.ErrNotFound)
	}
	return &element{el: c.listings[i]}, nil
}

// Expand scrolls the results feed so Maps lazily renders more cards. Without
// a feed container it falls back to wheel scrolling and then PageDown.
func (c *Client) Expand(ctx context.Context) error {
	if c.page == nil {
		return errors.New("results page is not open")
	}
	c.stale = true

	if c.feed != nil {
		_, err := c.feed.Context(ctx).Eval(`(px) => { this.scrollTop += px }`, c.expandPixels)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Warn("feed scroll failed, scrolling page", "err", err)
	}

	page := c.page.Context(ctx)
	err := page.Mouse.Scroll(0, float64(c.expandPixels), 4)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	c.logger.Warn("wheel scroll failed, pressing PageDown", "err", err)

	if err := page.Keyboard.Press(input.PageDown); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("failed to scroll page: %w", err)
	}
	return nil
}

// Activate hovers the card so Maps renders its action buttons.
func (c *Client) Activate(ctx context.Context, el leads.Element) error {
	card, ok := el.(*element)
	if !ok {
		return fmt.Errorf("unexpected element type %T", el)
	}
	if err := card.el.Context(ctx).Hover(); err != nil {
		return notFound(err)
	}
	return nil
}

// HTML returns the rendered results page, including every card loaded so
// far. The output can be replayed with the snapshot site.
func (c *Client) HTML(ctx context.Context) (string, error) {
	if c.page == nil {
		return "", errors.New("results page is not open")
	}
	html, err := c.page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("failed to get page HTML: %w", err)
	}
	return html, nil
}
