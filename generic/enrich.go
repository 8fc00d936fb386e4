/*
enrich.go - Listing/detail merge and per-entity enrichment

PURPOSE:
  The API exposes two sources of truth for the same entity id: a partial
  listing record and a fuller detail record. Merge combines them into one
  EntityRecord without ever losing a populated field.

MERGE POLICY (field by field):
  1. Start from the listing record.
  2. Adopt a detail field only where the merged result is absent or nil.
  3. "statistics" is special: both sides merge key-by-key, detail's
     non-nil keys win per key. Never a wholesale overwrite.
  4. Listing-only fields (denormalized tags like "type") survive even
     when the detail record omits them.

PARTIAL FAILURE:
  A failed detail fetch does not discard the entity. The listing record is
  emitted alone, flagged listing-only, and the run continues with the
  remaining entities.
*/
package generic

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const statisticsField = "statistics"

// Merge combines a listing record with its detail record under the
// absence-safe precedence policy. Both inputs are left untouched.
func Merge(listing, detail EntityRecord) EntityRecord {
	merged := listing.Clone()

	for key, value := range detail {
		existing, present := merged[key]

		switch {
		case !present || existing == nil:
			merged[key] = value

		case key == statisticsField && value != nil:
			detailStats, ok := value.(map[string]any)
			if !ok {
				continue // schema surprise: keep listing's shape
			}
			listingStats, _ := existing.(map[string]any)
			merged[key] = mergeStatistics(listingStats, detailStats)
		}
	}
	return merged
}

// mergeStatistics merges statistics key-by-key into a fresh map. Detail's
// non-nil keys win per key; nil detail keys never clobber listing values.
func mergeStatistics(listing, detail map[string]any) map[string]any {
	merged := make(map[string]any, len(listing)+len(detail))
	for k, v := range listing {
		merged[k] = v
	}
	for k, v := range detail {
		if v != nil {
			merged[k] = v
		}
	}
	return merged
}

// =============================================================================
// ENRICHMENT PASS
// =============================================================================

// Enrichment is the outcome of enriching a fetched listing collection.
type Enrichment struct {
	Records     []EntityRecord
	Enriched    int
	ListingOnly int
	SkippedNoID int
}

// EnrichAll fetches the detail record for every listing entity and merges
// the pair. Sequential on purpose: the upstream API has no documented
// concurrency ceiling, so the engine self-throttles with a fixed delay.
func EnrichAll(ctx context.Context, src Source, detailEndpoint func(EntityRecord) string, listings []EntityRecord, delay time.Duration, logger *zap.Logger) Enrichment {
	if logger == nil {
		logger = zap.NewNop()
	}

	out := Enrichment{Records: make([]EntityRecord, 0, len(listings))}
	for i, listing := range listings {
		if i > 0 && delay > 0 {
			if !sleepCtx(ctx, delay) {
				// Context ended mid-run: emit the rest listing-only.
				for _, rest := range listings[i:] {
					out.Records = append(out.Records, flagListingOnly(rest))
					out.ListingOnly++
				}
				return out
			}
		}

		id, ok := listing.ID()
		if !ok {
			logger.Warn("listing record has no id, skipping enrichment")
			out.Records = append(out.Records, listing.Clone())
			out.SkippedNoID++
			continue
		}

		detail, err := src.Detail(ctx, detailEndpoint(listing))
		if err != nil || len(detail) == 0 {
			if err != nil {
				logger.Warn("detail fetch failed, keeping listing data only",
					zap.Int64("id", id),
					zap.Error(err))
			}
			out.Records = append(out.Records, flagListingOnly(listing))
			out.ListingOnly++
			continue
		}

		out.Records = append(out.Records, Merge(listing, detail))
		out.Enriched++
	}
	return out
}

func flagListingOnly(listing EntityRecord) EntityRecord {
	flagged := listing.Clone()
	flagged[FieldListingOnly] = true
	return flagged
}

// ListingOnly reports whether the record was emitted without detail data.
func ListingOnly(rec EntityRecord) bool {
	flagged, _ := rec.Bool(FieldListingOnly)
	return flagged
}
