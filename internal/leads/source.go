package leads

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by element queries and ElementAt when nothing
	// matches. It is an expected outcome, not a failure of the source.
	ErrNotFound = errors.New("not found")

	ErrInvalidArgument = errors.New("invalid argument")
)

// Element is a short-lived handle to one rendered listing. Handles are only
// valid until the next Source.Expand call.
type Element interface {
	// Text returns the element's full rendered text.
	Text(ctx context.Context) (string, error)
	// QueryText returns the text of the first descendant matching selector.
	QueryText(ctx context.Context, selector string) (string, error)
	// QueryAttr returns an attribute of the first descendant matching selector.
	QueryAttr(ctx context.Context, selector, attr string) (string, error)
	// QueryAttrs returns the attribute of every descendant matching selector.
	QueryAttrs(ctx context.Context, selector, attr string) ([]string, error)
	// WaitFor blocks until a descendant matching selector is attached or
	// ctx expires.
	WaitFor(ctx context.Context, selector string) error
}

// Identifier is implemented by elements that carry a stable per-listing ID.
type Identifier interface {
	ID(ctx context.Context) (string, error)
}

// Source is a live, lazily rendered collection of listings.
type Source interface {
	// Count re-enumerates the listings and returns how many are rendered.
	Count(ctx context.Context) (int, error)
	// ElementAt returns the listing at index i of the latest enumeration,
	// or ErrNotFound.
	ElementAt(ctx context.Context, i int) (Element, error)
	// Expand asks the feed to render more listings.
	Expand(ctx context.Context) error
	// Activate sends a hover-equivalent signal to el.
	Activate(ctx context.Context, el Element) error
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
