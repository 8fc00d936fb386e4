/*
fetch.go - Paginated collection retrieval

PURPOSE:
  Retrieves a complete collection from a page-based list endpoint. The
  upstream API paginates with page/perPage query parameters and signals
  end-of-data implicitly: a short page or an empty page means there is no
  more data.

TERMINATION RULES:
  1. Page returns fewer records than perPage -> end of data
  2. Page returns zero records            -> end of data
  3. Page budget exhausted                -> stop with Truncated=true
     (an explicit "possibly incomplete" signal, never silent truncation)

FAILURE RULES:
  - Page 1 fails: retry once against the same endpoint without pagination
    parameters. Some collection endpoints predate pagination support.
  - Page N>1 fails: keep what was accumulated; the run degrades rather
    than aborts.

DEDUPLICATION:
  Pagination can hand the same record back on two pages when the upstream
  collection shifts mid-walk. Duplicates are dropped by id, first
  occurrence wins, and the dropped count is reported. Records without an
  id are kept as-is; they cannot collide and cannot be enriched.

SEE ALSO:
  - run.go: Applies FetchAll per adapter and feeds the result onward
*/
package generic

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// =============================================================================
// OPTIONS AND RESULT
// =============================================================================

const (
	// DefaultPerPage is the page size requested from list endpoints.
	DefaultPerPage = 100

	// DefaultMaxPages bounds a paginated walk. A collection larger than
	// MaxPages*PerPage is reported as truncated rather than looping.
	DefaultMaxPages = 20
)

// FetchOptions controls one paginated walk.
type FetchOptions struct {
	PerPage  int           // defaults to DefaultPerPage
	MaxPages int           // defaults to DefaultMaxPages
	Delay    time.Duration // courtesy pause between page requests
	Logger   *zap.Logger
}

// FetchResult is the outcome of one paginated walk, deduplicated by id.
type FetchResult struct {
	Records           []EntityRecord
	Pages             int
	DuplicatesDropped int
	Truncated         bool
	Fallback          bool
}

// =============================================================================
// FETCH
// =============================================================================

// FetchAll retrieves the complete collection behind a paginated list
// endpoint. Transport failures degrade the result instead of propagating:
// the worst case is an empty FetchResult.
func FetchAll(ctx context.Context, src Source, endpoint string, opts FetchOptions) FetchResult {
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var res FetchResult
	var all []EntityRecord

	page := 1
	for page <= maxPages {
		records, err := src.ListPage(ctx, endpoint, page, perPage)
		if err != nil {
			logger.Warn("page fetch failed",
				zap.String("endpoint", endpoint),
				zap.Int("page", page),
				zap.Error(err))

			if page == 1 {
				// The endpoint may not support pagination at all.
				records, err = src.List(ctx, endpoint)
				if err != nil {
					logger.Warn("unpaginated fallback failed",
						zap.String("endpoint", endpoint),
						zap.Error(err))
					return res
				}
				res.Fallback = true
				res.Pages = 1
				all = records
			}
			break
		}

		res.Pages++
		if len(records) == 0 {
			break
		}
		all = append(all, records...)

		if len(records) < perPage {
			break
		}
		page++
		if page <= maxPages && opts.Delay > 0 {
			if !sleepCtx(ctx, opts.Delay) {
				break
			}
		}
	}

	if page > maxPages {
		res.Truncated = true
		logger.Warn("page budget exhausted, collection possibly incomplete",
			zap.String("endpoint", endpoint),
			zap.Int("maxPages", maxPages))
	}

	res.Records, res.DuplicatesDropped = dedupeByID(all)
	if res.DuplicatesDropped > 0 {
		logger.Info("dropped duplicate records",
			zap.String("endpoint", endpoint),
			zap.Int("dropped", res.DuplicatesDropped))
	}
	return res
}

// dedupeByID removes records whose id was already seen, first occurrence
// wins. Records without an id pass through untouched.
func dedupeByID(records []EntityRecord) ([]EntityRecord, int) {
	if len(records) == 0 {
		return nil, 0
	}
	seen := make(map[int64]bool, len(records))
	unique := make([]EntityRecord, 0, len(records))
	dropped := 0
	for _, rec := range records {
		id, ok := rec.ID()
		if !ok {
			unique = append(unique, rec)
			continue
		}
		if seen[id] {
			dropped++
			continue
		}
		seen[id] = true
		unique = append(unique, rec)
	}
	return unique, dropped
}

// sleepCtx pauses for d unless the context ends first. Returns false when
// the context ended.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
