package leads

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// DefaultPhonePattern matches UK numbers: a +44 prefix with four digits or a
// five-digit trunk, followed by six digits.
const DefaultPhonePattern = `(\+44\s?\d{4}|\d{5})\s?\d{6}`

// Timing controls the per-query timeout and the settling delays used while
// resolving fields.
type Timing struct {
	QueryTimeout   time.Duration
	WebsiteWait    time.Duration
	ActivateSettle time.Duration
	RetrySettle    time.Duration
}

// DefaultTiming returns the delays used against a live browser.
func DefaultTiming() Timing {
	return Timing{
		QueryTimeout:   2 * time.Second,
		WebsiteWait:    2 * time.Second,
		ActivateSettle: 500 * time.Millisecond,
		RetrySettle:    300 * time.Millisecond,
	}
}

// strategy extracts one raw candidate value. An error or an empty result
// both mean "try the next one".
type strategy struct {
	name string
	run  func(ctx context.Context, el Element) (string, error)
}

// Resolver extracts and normalizes the fields of one listing.
type Resolver struct {
	src    Source
	timing Timing
	phone  *regexp.Regexp
	sites  WebsiteFilter

	name    []strategy
	website []strategy
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithTiming overrides DefaultTiming.
func WithTiming(t Timing) ResolverOption {
	return func(r *Resolver) { r.timing = t }
}

// WithPhonePattern replaces DefaultPhonePattern.
func WithPhonePattern(re *regexp.Regexp) ResolverOption {
	return func(r *Resolver) { r.phone = re }
}

// WithBlockedDomains replaces DefaultBlockedDomains.
func WithBlockedDomains(domains ...string) ResolverOption {
	return func(r *Resolver) { r.sites = WebsiteFilter{BlockedDomains: domains} }
}

// NewResolver returns a Resolver that activates elements through src.
func NewResolver(src Source, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		src:    src,
		timing: DefaultTiming(),
		phone:  regexp.MustCompile(DefaultPhonePattern),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.name = []strategy{
		{"heading", queryText(NameHeadingSelector)},
		{"headline", queryText(NameHeadlineSelector)},
		{"first-line", func(ctx context.Context, el Element) (string, error) {
			text, err := el.Text(ctx)
			return firstLine(text), err
		}},
	}
	r.website = []strategy{
		{"authority", queryAttr(WebsiteAuthoritySelector, "href")},
		{"label", queryAttr(WebsiteLabelSelector, "href")},
		{"button", queryAttr(WebsiteButtonSelector, "href")},
		{"outbound", r.firstOutbound},
		{"retry", func(ctx context.Context, el Element) (string, error) {
			if err := Sleep(ctx, r.timing.RetrySettle); err != nil {
				return "", err
			}
			return queryAttr(WebsiteRetrySelector, "href")(ctx, el)
		}},
	}
	return r
}

func queryText(selector string) func(context.Context, Element) (string, error) {
	return func(ctx context.Context, el Element) (string, error) {
		return el.QueryText(ctx, selector)
	}
}

func queryAttr(selector, attr string) func(context.Context, Element) (string, error) {
	return func(ctx context.Context, el Element) (string, error) {
		return el.QueryAttr(ctx, selector, attr)
	}
}

// first runs strategies in order and returns the first value accepted by
// clean along with the name of the strategy that produced it.
func (r *Resolver) first(ctx context.Context, el Element, table []strategy, clean func(string) string) (string, string) {
	for _, s := range table {
		if ctx.Err() != nil {
			break
		}
		qctx, cancel := withTimeout(ctx, r.timing.QueryTimeout)
		raw, err := s.run(qctx, el)
		cancel()
		if err != nil || strings.TrimSpace(raw) == "" {
			continue
		}
		if v := clean(raw); v != Unknown {
			return v, s.name
		}
	}
	return Unknown, ""
}

// Name resolves the business name.
func (r *Resolver) Name(ctx context.Context, el Element) (string, string) {
	return r.first(ctx, el, r.name, CleanField)
}

// Rating resolves the star rating.
func (r *Resolver) Rating(ctx context.Context, el Element) (string, string) {
	qctx, cancel := withTimeout(ctx, r.timing.QueryTimeout)
	defer cancel()
	label, err := el.QueryAttr(qctx, StarsSelector, "aria-label")
	if err != nil {
		return Unknown, ""
	}
	if v := parseRating(label); v != "" {
		return v, "stars"
	}
	return Unknown, ""
}

// Reviews resolves the review count.
func (r *Resolver) Reviews(ctx context.Context, el Element) (string, string) {
	qctx, cancel := withTimeout(ctx, r.timing.QueryTimeout)
	defer cancel()
	text, err := el.QueryText(qctx, ReviewsSelector)
	if err != nil {
		return Unknown, ""
	}
	if v := CleanDigits(text); v != Unknown {
		return v, "reviews"
	}
	return Unknown, ""
}

// Phone resolves the phone number from the card text.
func (r *Resolver) Phone(ctx context.Context, el Element) (string, string) {
	qctx, cancel := withTimeout(ctx, r.timing.QueryTimeout)
	defer cancel()
	text, err := el.Text(qctx)
	if err != nil {
		return Unknown, ""
	}
	m := r.phone.FindString(text)
	if m == "" {
		return Unknown, ""
	}
	if v := CleanDigits(m); v != Unknown {
		return v, "pattern"
	}
	return Unknown, ""
}

// Website activates el, lets its links populate and resolves the website.
func (r *Resolver) Website(ctx context.Context, el Element) (string, string) {
	if err := r.src.Activate(ctx, el); err != nil {
		return Unknown, ""
	}
	if err := Sleep(ctx, r.timing.ActivateSettle); err != nil {
		return Unknown, ""
	}

	wctx, cancel := withTimeout(ctx, r.timing.WebsiteWait)
	_ = el.WaitFor(wctx, WebsiteLabelSelector)
	cancel()

	return r.first(ctx, el, r.website, r.sites.Clean)
}

func (r *Resolver) firstOutbound(ctx context.Context, el Element) (string, error) {
	hrefs, err := el.QueryAttrs(ctx, OutboundLinkSelector, "href")
	if err != nil {
		return "", err
	}
	for _, h := range hrefs {
		if v := r.sites.Clean(h); v != Unknown {
			return v, nil
		}
	}
	return "", ErrNotFound
}

// Details resolves the four fields that follow an accepted name.
func (r *Resolver) Details(ctx context.Context, el Element, name string) LeadRecord {
	rec := LeadRecord{Name: CleanField(name)}
	rec.Rating, _ = r.Rating(ctx, el)
	rec.Reviews, _ = r.Reviews(ctx, el)
	rec.Phone, _ = r.Phone(ctx, el)
	rec.Website, _ = r.Website(ctx, el)
	return rec
}

// withTimeout bounds ctx by d; a non-positive d leaves it unbounded.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
