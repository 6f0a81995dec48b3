package snapshot

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"leadscrape/internal/leads"
)

const defaultWindow = 10

// Source replays a saved results page. Only the first window cards are
// visible at first and every Expand reveals window more, the way a live feed
// renders on scroll.
type Source struct {
	cards   *goquery.Selection
	window  int
	visible int
}

var _ leads.Source = (*Source)(nil)

// NewSource parses a saved results page from r.
func NewSource(r io.Reader, window int) (*Source, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	if window <= 0 {
		window = defaultWindow
	}
	cards := doc.Find(leads.ListingSelector)
	return &Source{cards: cards, window: window, visible: min(window, cards.Length())}, nil
}

func (s *Source) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.visible, nil
}

func (s *Source) ElementAt(ctx context.Context, i int) (leads.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if i < 0 || i >= s.visible {
		return nil, fmt.Errorf("card %d: %w", i, leads.ErrNotFound)
	}
	return &card{sel: s.cards.Eq(i)}, nil
}

func (s *Source) Expand(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.visible = min(s.visible+s.window, s.cards.Length())
	return nil
}

// Activate is a no-op: a saved page has every link rendered already.
func (s *Source) Activate(ctx context.Context, _ leads.Element) error {
	return ctx.Err()
}

type card struct {
	sel *goquery.Selection
}

var (
	_ leads.Element    = (*card)(nil)
	_ leads.Identifier = (*card)(nil)
)

func (c *card) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return strings.TrimSpace(c.sel.Text()), nil
}

func (c *card) QueryText(ctx context.Context, selector string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	found := c.sel.Find(selector).First()
	if found.Length() == 0 {
		return "", fmt.Errorf("%s: %w", selector, leads.ErrNotFound)
	}
	return found.Text(), nil
}

func (c *card) QueryAttr(ctx context.Context, selector, attr string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	v, ok := c.sel.Find(selector).First().Attr(attr)
	if !ok {
		return "", fmt.Errorf("%s[%s]: %w", selector, attr, leads.ErrNotFound)
	}
	return v, nil
}

func (c *card) QueryAttrs(ctx context.Context, selector, attr string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var values []string
	c.sel.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr(attr); ok {
			values = append(values, v)
		}
	})
	return values, nil
}

func (c *card) WaitFor(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.sel.Find(selector).Length() == 0 {
		return fmt.Errorf("%s: %w", selector, leads.ErrNotFound)
	}
	return nil
}

func (c *card) ID(ctx context.Context) (string, error) {
	return c.QueryAttr(ctx, leads.PlaceLinkSelector, "href")
}
