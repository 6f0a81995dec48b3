package leads

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
)

// Observer receives progress callbacks from a run.
type Observer interface {
	LeadAccepted(rec LeadRecord, have, target int)
	PassCompleted(stats PassStats)
}

// PassStats summarizes one enumeration pass.
type PassStats struct {
	Pass       int
	Rendered   int
	NewLeads   int
	Total      int
	Expansions int
	Stalled    bool
}

// Collector drives the scroll / extract / dedupe loop over a Source.
type Collector struct {
	src          Source
	resolver     *Resolver
	logger       *log.Logger
	observer     Observer
	expandSettle time.Duration
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithLogger sets the logger used for per-lead and diagnostic output.
func WithLogger(l *log.Logger) CollectorOption {
	return func(c *Collector) { c.logger = l }
}

// WithObserver registers a progress observer.
func WithObserver(o Observer) CollectorOption {
	return func(c *Collector) { c.observer = o }
}

// WithExpandSettle sets the pause after every Expand call.
func WithExpandSettle(d time.Duration) CollectorOption {
	return func(c *Collector) { c.expandSettle = d }
}

// NewCollector returns a Collector reading from src and resolving fields
// with r.
func NewCollector(src Source, r *Resolver, opts ...CollectorOption) *Collector {
	c := &Collector{
		src:          src,
		resolver:     r,
		logger:       log.Default(),
		expandSettle: 3 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// run holds the state of a single Run call.
type run struct {
	seen      map[string]struct{}
	processed map[string]struct{}
	result    *ResultSet
}

// Run collects up to target unique leads, expanding the feed at most
// maxExpansions times. Reaching the expansion budget is not an error; the
// partial result is returned with ReasonBudgetExhausted. When the source
// fails, the records gathered so far are returned alongside the error.
func (c *Collector) Run(ctx context.Context, target, maxExpansions int) (*ResultSet, error) {
	if target <= 0 {
		return nil, fmt.Errorf("%w: target must be positive, got %d", ErrInvalidArgument, target)
	}
	if maxExpansions < 0 {
		return nil, fmt.Errorf("%w: max expansions must not be negative, got %d", ErrInvalidArgument, maxExpansions)
	}

	st := &run{
		seen:      make(map[string]struct{}),
		processed: make(map[string]struct{}),
		result:    newResultSet(target),
	}
	rs := st.result
	previous := -1

	for {
		rendered, added, err := c.pass(ctx, st)
		rs.Passes++
		if err != nil {
			rs.Reason = ReasonAborted
			return rs, err
		}

		stalled := rendered == previous && rs.Expansions > 0
		if stalled {
			c.logger.Warn("listing count unchanged, continuing to scroll", "count", rendered)
		}
		previous = rendered

		c.logger.Info("pass complete", "pass", rs.Passes, "rendered", rendered, "new", added, "leads", rs.Len(), "target", target)
		if c.observer != nil {
			c.observer.PassCompleted(PassStats{
				Pass:       rs.Passes,
				Rendered:   rendered,
				NewLeads:   added,
				Total:      rs.Len(),
				Expansions: rs.Expansions,
				Stalled:    stalled,
			})
		}

		if rs.Full() {
			rs.Reason = ReasonTargetReached
			return rs, nil
		}
		if rs.Expansions >= maxExpansions {
			rs.Reason = ReasonBudgetExhausted
			return rs, nil
		}

		if err := c.src.Expand(ctx); err != nil {
			rs.Reason = ReasonAborted
			return rs, fmt.Errorf("expand feed: %w", err)
		}
		rs.Expansions++
		if err := Sleep(ctx, c.expandSettle); err != nil {
			rs.Reason = ReasonAborted
			return rs, err
		}
	}
}

// pass walks the current enumeration once, returning how many listings were
// rendered and how many leads were accepted.
func (c *Collector) pass(ctx context.Context, st *run) (int, int, error) {
	n, err := c.src.Count(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("count listings: %w", err)
	}

	added := 0
	for i := 0; i < n; i++ {
		if st.result.Full() {
			break
		}
		if err := ctx.Err(); err != nil {
			return n, added, err
		}

		if _, ok := st.processed[indexKey(i)]; ok {
			continue
		}
		el, err := c.src.ElementAt(ctx, i)
		if errors.Is(err, ErrNotFound) {
			// evicted between Count and ElementAt; it may come back
			continue
		}
		if err != nil {
			return n, added, fmt.Errorf("listing %d: %w", i, err)
		}

		key := c.trackingKey(ctx, el, i)
		if _, ok := st.processed[key]; ok {
			continue
		}
		st.processed[key] = struct{}{}

		name, _ := c.resolver.Name(ctx, el)
		if name == Unknown {
			c.logger.Debug("skipping listing without a name", "index", i)
			continue
		}
		nameKey := NameKey(name)
		if _, dup := st.seen[nameKey]; dup {
			c.logger.Debug("skipping duplicate", "name", name)
			continue
		}
		st.seen[nameKey] = struct{}{}

		rec := c.resolver.Details(ctx, el, name)
		if err := ctx.Err(); err != nil {
			// fields resolved under a cancelled context are unreliable
			return n, added, err
		}
		st.result.add(rec)
		added++

		c.logger.Info("lead", "n", st.result.Len(), "target", st.result.Target, "name", rec.Name)
		if c.observer != nil {
			c.observer.LeadAccepted(rec, st.result.Len(), st.result.Target)
		}
	}
	return n, added, nil
}

// trackingKey prefers a stable listing ID and falls back to the position in
// the current enumeration. Positions drift when the feed reflows, so the
// fallback can both skip and repeat listings.
func (c *Collector) trackingKey(ctx context.Context, el Element, i int) string {
	if idr, ok := el.(Identifier); ok {
		qctx, cancel := withTimeout(ctx, c.resolver.timing.QueryTimeout)
		id, err := idr.ID(qctx)
		cancel()
		if err == nil && id != "" {
			return "id:" + id
		}
	}
	return indexKey(i)
}

func indexKey(i int) string {
	return "idx:" + strconv.Itoa(i)
}
