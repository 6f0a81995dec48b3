package gmaps

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"

	"leadscrape/internal/leads"
)

const (
	consentWait      = 5 * time.Second
	consentProbeWait = time.Second
	searchBoxWait    = 10 * time.Second
	resultsWait      = 15 * time.Second
	afterConsent     = 2 * time.Second
	afterSearch      = 3 * time.Second
)

// SearchURL returns the Maps search page for term.
func SearchURL(term string) string {
	return searchBaseURL + url.PathEscape(strings.TrimSpace(term))
}

// Open loads Maps, clears the consent dialog, runs the search and locates
// the scrollable results feed.
func (c *Client) Open(ctx context.Context, term string, timeout time.Duration) error {
	page, err := c.browser.NewPage()
	if err != nil {
		return fmt.Errorf("failed to create page: %w", err)
	}
	c.page = page

	if err := page.Context(ctx).Timeout(timeout).Navigate(mapsHomeURL); err != nil {
		return fmt.Errorf("failed to navigate: %w", err)
	}
	if err := page.Context(ctx).Timeout(timeout).WaitLoad(); err != nil {
		return fmt.Errorf("failed to wait for page load: %w", err)
	}

	if c.dismissConsent(ctx) {
		if err := leads.Sleep(ctx, afterConsent); err != nil {
			return err
		}
	}

	if err := c.search(ctx, term, timeout); err != nil {
		return err
	}

	if !c.waitForResults(ctx) {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Warn("results not detected, continuing anyway")
	}
	c.feed = c.locateFeed(ctx)
	if c.feed == nil {
		c.logger.Warn("results feed not found, falling back to page scrolling")
	}
	c.stale = true
	return nil
}

// dismissConsent clicks the first consent button that shows up. Only the
// first probe waits the full consentWait.
func (c *Client) dismissConsent(ctx context.Context) bool {
	wait := consentWait
	for _, b := range consentButtons {
		if ctx.Err() != nil {
			return false
		}
		page := c.page.Context(ctx).Timeout(wait)
		wait = consentProbeWait

		var (
			el  *rod.Element
			err error
		)
		if b.text != "" {
			el, err = page.ElementR(b.selector, b.text)
		} else {
			el, err = page.Element(b.selector)
		}
		if err != nil {
			continue
		}
		if err := el.Context(ctx).Click(proto.InputMouseButtonLeft, 1); err != nil {
			c.logger.Debug("consent click failed", "selector", b.selector, "err", err)
			continue
		}
		c.logger.Info("accepted cookie consent", "selector", b.selector, "text", b.text)
		return true
	}
	return false
}

// search types term into the Maps search box. When the box never appears
// it navigates straight to the search URL instead.
func (c *Client) search(ctx context.Context, term string, timeout time.Duration) error {
	box, err := c.page.Context(ctx).Timeout(searchBoxWait).Element(searchBoxID)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Warn("search box not found, opening search URL", "err", err)
		if err := c.page.Context(ctx).Timeout(timeout).Navigate(SearchURL(term)); err != nil {
			return fmt.Errorf("failed to navigate to search: %w", err)
		}
		return leads.Sleep(ctx, afterSearch)
	}

	if err := box.Context(ctx).Input(term); err != nil {
		return fmt.Errorf("failed to type search term: %w", err)
	}
	if err := c.page.Context(ctx).Keyboard.Press(input.Enter); err != nil {
		return fmt.Errorf("failed to submit search: %w", err)
	}
	c.logger.Info("searching", "term", term)

	c.waitForSearchURL(ctx, timeout)
	return leads.Sleep(ctx, afterSearch)
}

// waitForSearchURL polls the page URL until Maps has routed to a search or
// place view, or timeout elapses.
func (c *Client) waitForSearchURL(ctx context.Context, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		info, err := c.page.Context(ctx).Info()
		if err == nil && (strings.Contains(info.URL, "/search/") || strings.Contains(info.URL, "/place/")) {
			return
		}
		if leads.Sleep(ctx, 200*time.Millisecond) != nil {
			return
		}
	}
}

func (c *Client) waitForResults(ctx context.Context) bool {
	for _, sel := range resultsReady {
		if ctx.Err() != nil {
			return false
		}
		if _, err := c.page.Context(ctx).Timeout(resultsWait).Element(sel); err == nil {
			c.logger.Debug("results detected", "selector", sel)
			return true
		}
	}
	return false
}

func (c *Client) locateFeed(ctx context.Context) *rod.Element {
	for _, sel := range feedContainers {
		has, el, err := c.page.Context(ctx).Has(sel)
		if err == nil && has {
			c.logger.Debug("results feed located", "selector", sel)
			return el
		}
	}
	return nil
}
