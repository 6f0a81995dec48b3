package gmaps

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-rod/rod"

	"leadscrape/internal/leads"
)

// element adapts a rendered listing card to leads.Element.
type element struct {
	el *rod.Element
}

var (
	_ leads.Element    = (*element)(nil)
	_ leads.Identifier = (*element)(nil)
)

func (e *element) Text(ctx context.Context) (string, error) {
	text, err := e.el.Context(ctx).Text()
	if err != nil {
		return "", notFound(err)
	}
	return text, nil
}

func (e *element) first(ctx context.Context, selector string) (*rod.Element, error) {
	els, err := e.el.Context(ctx).Elements(selector)
	if err != nil {
		return nil, notFound(err)
	}
	if els.Empty() {
		return nil, fmt.Errorf("%s: %w", selector, leads.ErrNotFound)
	}
	return els.First(), nil
}

func (e *element) QueryText(ctx context.Context, selector string) (string, error) {
	child, err := e.first(ctx, selector)
	if err != nil {
		return "", err
	}
	text, err := child.Context(ctx).Text()
	if err != nil {
		return "", notFound(err)
	}
	return text, nil
}

func (e *element) QueryAttr(ctx context.Context, selector, attr string) (string, error) {
	child, err := e.first(ctx, selector)
	if err != nil {
		return "", err
	}
	v, err := child.Context(ctx).Attribute(attr)
	if err != nil {
		return "", notFound(err)
	}
	if v == nil {
		return "", fmt.Errorf("%s[%s]: %w", selector, attr, leads.ErrNotFound)
	}
	return *v, nil
}

func (e *element) QueryAttrs(ctx context.Context, selector, attr string) ([]string, error) {
	els, err := e.el.Context(ctx).Elements(selector)
	if err != nil {
		return nil, notFound(err)
	}
	values := make([]string, 0, len(els))
	for _, child := range els {
		v, err := child.Context(ctx).Attribute(attr)
		if err != nil || v == nil {
			continue
		}
		values = append(values, *v)
	}
	return values, nil
}

// WaitFor blocks until selector matches inside the card or ctx expires.
func (e *element) WaitFor(ctx context.Context, selector string) error {
	if _, err := e.el.Context(ctx).Element(selector); err != nil {
		return notFound(err)
	}
	return nil
}

// ID returns the place link of the card, which survives feed re-renders.
func (e *element) ID(ctx context.Context) (string, error) {
	return e.QueryAttr(ctx, leads.PlaceLinkSelector, "href")
}

// notFound folds rod's missing-node errors and query deadlines into
// leads.ErrNotFound. Cancellation passes through unchanged.
func notFound(err error) error {
	var missing *rod.ElementNotFoundError
	var gone *rod.ObjectNotFoundError
	switch {
	case errors.Is(err, context.Canceled):
		return err
	case errors.As(err, &missing), errors.As(err, &gone), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", leads.ErrNotFound, err)
	}
	return err
}
