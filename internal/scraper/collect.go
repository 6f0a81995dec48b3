package scraper

import (
	"context"
	"slices"

	"github.com/charmbracelet/log"

	"leadscrape/internal/leads"
)

// Collect runs the lead collector over src with the resolver and loop
// settings carried in opts.
func Collect(ctx context.Context, src leads.Source, opts Options) (*leads.ResultSet, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	resolverOpts := []leads.ResolverOption{leads.WithTiming(opts.Timing)}
	if opts.PhonePattern != nil {
		resolverOpts = append(resolverOpts, leads.WithPhonePattern(opts.PhonePattern))
	}
	if len(opts.BlockDomains) > 0 {
		blocked := slices.Concat(leads.DefaultBlockedDomains, opts.BlockDomains)
		resolverOpts = append(resolverOpts, leads.WithBlockedDomains(blocked...))
	}
	resolver := leads.NewResolver(src, resolverOpts...)

	collectorOpts := []leads.CollectorOption{
		leads.WithLogger(logger),
		leads.WithExpandSettle(opts.ExpandSettle),
	}
	if opts.Observer != nil {
		collectorOpts = append(collectorOpts, leads.WithObserver(opts.Observer))
	}

	return leads.NewCollector(src, resolver, collectorOpts...).Run(ctx, opts.Target, opts.MaxExpansions)
}
