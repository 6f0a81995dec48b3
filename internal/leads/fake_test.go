package leads

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// fakeItem describes one synthetic listing card.
type fakeItem struct {
	id       string
	heading  string
	headline string
	text     string
	stars    string
	reviews  string
	// website links only appear once the card has been activated
	authority string
	label     string
	button    string
	outbound  []string
	// late attaches after the first lookups and is only seen by the retry
	late string
}

type fakeElement struct {
	src  *fakeSource
	item *fakeItem
}

func (e *fakeElement) activated() bool { return e.src.activated[e.item] }

func (e *fakeElement) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return e.item.text, nil
}

func (e *fakeElement) QueryText(ctx context.Context, selector string) (string, error) {
	var v string
	switch selector {
	case NameHeadingSelector:
		v = e.item.heading
	case NameHeadlineSelector:
		v = e.item.headline
	case ReviewsSelector:
		v = e.item.reviews
	}
	if v == "" {
		return "", ErrNotFound
	}
	return v, nil
}

func (e *fakeElement) QueryAttr(ctx context.Context, selector, attr string) (string, error) {
	var v string
	switch {
	case selector == StarsSelector && attr == "aria-label":
		v = e.item.stars
	case !e.activated():
	case selector == WebsiteAuthoritySelector:
		v = e.item.authority
	case selector == WebsiteLabelSelector:
		v = e.item.label
	case selector == WebsiteButtonSelector:
		v = e.item.button
	case selector == WebsiteRetrySelector:
		v = e.item.authority
		if v == "" {
			v = e.item.label
		}
		if v == "" {
			v = e.item.late
		}
	}
	if v == "" {
		return "", ErrNotFound
	}
	return v, nil
}

func (e *fakeElement) QueryAttrs(ctx context.Context, selector, attr string) ([]string, error) {
	if selector != OutboundLinkSelector || !e.activated() || len(e.item.outbound) == 0 {
		return nil, ErrNotFound
	}
	return e.item.outbound, nil
}

func (e *fakeElement) WaitFor(ctx context.Context, selector string) error {
	if e.activated() && e.item.label != "" {
		return nil
	}
	return ErrNotFound
}

type identifiedElement struct{ *fakeElement }

func (e identifiedElement) ID(ctx context.Context) (string, error) {
	if e.item.id == "" {
		return "", ErrNotFound
	}
	return e.item.id, nil
}

// fakeSource renders `visible` items initially and `step` more per Expand.
type fakeSource struct {
	items     []*fakeItem
	visible   int
	step      int
	withIDs   bool
	activated map[*fakeItem]bool

	expands    int
	counts     int
	failCount  int // Count fails on this call number when > 0
	onExpand   func(s *fakeSource)
	onActivate func(item *fakeItem)
	evicted    map[int]bool
}

func newFakeSource(items []*fakeItem, visible, step int) *fakeSource {
	return &fakeSource{
		items:     items,
		visible:   visible,
		step:      step,
		activated: make(map[*fakeItem]bool),
		evicted:   make(map[int]bool),
	}
}

func (s *fakeSource) Count(ctx context.Context) (int, error) {
	s.counts++
	if s.failCount > 0 && s.counts == s.failCount {
		return 0, errors.New("browser session lost")
	}
	return min(s.visible, len(s.items)), nil
}

func (s *fakeSource) ElementAt(ctx context.Context, i int) (Element, error) {
	if i < 0 || i >= min(s.visible, len(s.items)) || s.evicted[i] {
		return nil, ErrNotFound
	}
	el := &fakeElement{src: s, item: s.items[i]}
	if s.withIDs {
		return identifiedElement{el}, nil
	}
	return el, nil
}

func (s *fakeSource) Expand(ctx context.Context) error {
	s.expands++
	s.visible += s.step
	if s.onExpand != nil {
		s.onExpand(s)
	}
	return nil
}

func (s *fakeSource) Activate(ctx context.Context, el Element) error {
	var item *fakeItem
	switch e := el.(type) {
	case *fakeElement:
		item = e.item
	case identifiedElement:
		item = e.item
	}
	s.activated[item] = true
	if s.onActivate != nil {
		s.onActivate(item)
	}
	return nil
}

func testTiming() Timing {
	return Timing{QueryTimeout: time.Second, WebsiteWait: time.Millisecond}
}

func newTestCollector(src *fakeSource, opts ...CollectorOption) *Collector {
	r := NewResolver(src, WithTiming(testTiming()))
	base := []CollectorOption{WithLogger(log.New(io.Discard)), WithExpandSettle(0)}
	return NewCollector(src, r, append(base, opts...)...)
}

// recorder captures observer callbacks.
type recorder struct {
	totals []int
	passes []PassStats
}

func (r *recorder) LeadAccepted(rec LeadRecord, have, target int) {
	r.totals = append(r.totals, have)
}

func (r *recorder) PassCompleted(stats PassStats) {
	r.passes = append(r.passes, stats)
}
