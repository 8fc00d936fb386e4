/*
run.go - Report run orchestration

PURPOSE:
  Drives one report run for one entity adapter, strictly sequential:

    1. Load the adapter's rule-definition set (once)
    2. Load the adapter's reference tables (once each)
    3. Fetch the complete listing (paginated or not)
    4. Enrich each entity with its detail record
    5. Assemble the document

ERROR MODEL:
  Only configuration errors abort a run, and they abort before any
  upstream I/O. Everything else degrades: failed reference loads produce
  empty tables (fallback labels), failed pages truncate the collection,
  failed detail fetches flag entities listing-only. A run always returns
  the best document it could produce.
*/
package generic

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Runner executes report runs against one upstream source.
type Runner struct {
	Source Source
	Logger *zap.Logger

	PerPage     int           // 0 = DefaultPerPage
	MaxPages    int           // 0 = DefaultMaxPages
	PageDelay   time.Duration // pause between page requests
	DetailDelay time.Duration // pause between detail requests

	// Now supplies the report timestamp; defaults to time.Now. Tests pin
	// it for deterministic documents.
	Now func() time.Time
}

// Run executes one report run for the adapter. The returned error is
// always a configuration error; every other failure mode is absorbed into
// the document and its RunStats.
func (r *Runner) Run(ctx context.Context, adapter Adapter) (*Report, error) {
	if r.Source == nil {
		return nil, ErrNilSource
	}
	if err := adapter.Validate(); err != nil {
		return nil, err
	}
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("reporter", adapter.Key))

	started := time.Now()
	logger.Info("report run starting")

	rc := &RenderContext{
		Lookups: r.loadLookups(ctx, adapter, logger),
		Rules:   r.loadRuleSet(ctx, adapter, logger),
	}

	listing, stats := r.fetchListing(ctx, adapter, logger)

	var entities []EntityRecord
	if adapter.DetailEndpoint != nil {
		enriched := EnrichAll(ctx, r.Source, adapter.DetailEndpoint, listing, r.DetailDelay, logger)
		entities = enriched.Records
		stats.Enriched = enriched.Enriched
		stats.ListingOnly = enriched.ListingOnly
		stats.SkippedNoID = enriched.SkippedNoID
	} else {
		entities = listing
	}
	stats.Entities = len(entities)

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	generatedAt := now()

	report := &Report{
		Adapter:     adapter.Key,
		Title:       adapter.Title,
		GeneratedAt: generatedAt,
		Document:    Assemble(adapter, entities, rc, stats, generatedAt),
		Stats:       stats,
	}

	logger.Info("report run finished",
		zap.Int("entities", stats.Entities),
		zap.Int("enriched", stats.Enriched),
		zap.Int("listingOnly", stats.ListingOnly),
		zap.Bool("truncated", stats.Truncated),
		zap.Duration("took", time.Since(started)))
	return report, nil
}

// loadRuleSet fetches the adapter's rule definitions. A failed load
// produces an empty set; rule interpretations then render not-found
// placeholders instead of aborting.
func (r *Runner) loadRuleSet(ctx context.Context, adapter Adapter, logger *zap.Logger) *RuleSet {
	if adapter.RuleEndpoint == "" {
		return nil
	}
	records, err := r.Source.List(ctx, adapter.RuleEndpoint)
	if err != nil {
		logger.Warn("rule definition load failed",
			zap.String("endpoint", adapter.RuleEndpoint),
			zap.Error(err))
		return NewRuleSet(nil)
	}
	logger.Debug("rule definitions loaded", zap.Int("count", len(records)))
	return NewRuleSet(records)
}

// loadLookups fetches every reference table the adapter declared. Failed
// loads become empty tables so rendering degrades to fallback labels.
func (r *Runner) loadLookups(ctx context.Context, adapter Adapter, logger *zap.Logger) *Lookups {
	lookups := NewLookups()
	for _, spec := range adapter.References {
		records, err := r.Source.List(ctx, spec.Endpoint)
		if err != nil {
			logger.Warn("reference table load failed",
				zap.String("table", spec.Key),
				zap.String("endpoint", spec.Endpoint),
				zap.Error(err))
			records = nil
		}
		lookups.Add(spec.Key, NewReferenceTable(spec.Key, spec.Singular, records))
	}
	return lookups
}

func (r *Runner) fetchListing(ctx context.Context, adapter Adapter, logger *zap.Logger) ([]EntityRecord, RunStats) {
	var stats RunStats

	if adapter.Paginated {
		perPage := adapter.PerPage
		if perPage <= 0 {
			perPage = r.PerPage
		}
		result := FetchAll(ctx, r.Source, adapter.ListEndpoint, FetchOptions{
			PerPage:  perPage,
			MaxPages: r.MaxPages,
			Delay:    r.PageDelay,
			Logger:   logger,
		})
		stats.Pages = result.Pages
		stats.DuplicatesDropped = result.DuplicatesDropped
		stats.Truncated = result.Truncated
		stats.Fallback = result.Fallback
		return result.Records, stats
	}

	records, err := r.Source.List(ctx, adapter.ListEndpoint)
	if err != nil {
		logger.Warn("listing fetch failed",
			zap.String("endpoint", adapter.ListEndpoint),
			zap.Error(err))
		return nil, stats
	}
	stats.Pages = 1
	records, stats.DuplicatesDropped = dedupeByID(records)
	return records, stats
}
