/*
Package generic provides the core entity aggregation and rule-interpretation
engine for loyalty configuration reporting.

PURPOSE:
  This package contains entity-agnostic types and algorithms for turning a
  remote loyalty API's configuration objects into human-readable reports.
  Whether the entities are reward groups, tier sets, promotions, or product
  groups, the same engine handles paginated retrieval, detail enrichment,
  reference resolution, rule interpretation, and report assembly.

KEY CONCEPTS IN THIS FILE (types.go):
  - EntityRecord: One configuration entity as a dynamic field map
  - Source: The upstream API surface the engine consumes
  - RunStats: Counters describing how a report run went

DESIGN PRINCIPLES:
  1. Forward-only data flow: each stage returns a new value, nothing is
     mutated in place
  2. Graceful degradation: missing fields and failed calls reduce report
     detail, they never abort a run
  3. Parameterization over duplication: one engine, many entity adapters

SEE ALSO:
  - adapter.go: Per-entity-type configuration
  - fetch.go: Paginated collection retrieval
  - enrich.go: Listing/detail merge
  - rules.go: Rule interpretation
  - report.go: Document assembly
*/
package generic

import (
	"context"
)

// =============================================================================
// ENTITY RECORD - Dynamic field map from the upstream API
// =============================================================================

// EntityRecord is one configuration entity as decoded from the API: a
// mapping from field name to value. Values are the usual JSON shapes:
// string, float64, bool, map[string]any, []any, or nil.
type EntityRecord map[string]any

// FieldListingOnly marks a record whose detail fetch failed; the engine sets
// it, not the API. Renderers treat it as bookkeeping, not entity data.
const FieldListingOnly = "_listingOnly"

// ID returns the record's integer id, if present. JSON numbers decode as
// float64, but ids also show up as int or int64 in hand-built records.
func (r EntityRecord) ID() (int64, bool) {
	return r.Int("id")
}

// Int returns the named field as an int64.
func (r EntityRecord) Int(key string) (int64, bool) {
	switch n := r[key].(type) {
	case float64:
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}

// String returns the named field as a string, or "" when absent or not a
// string.
func (r EntityRecord) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// Bool returns the named field as a bool plus a presence flag.
func (r EntityRecord) Bool(key string) (bool, bool) {
	b, ok := r[key].(bool)
	return b, ok
}

// Map returns the named field as a nested mapping, or nil.
func (r EntityRecord) Map(key string) map[string]any {
	m, _ := r[key].(map[string]any)
	return m
}

// List returns the named field as a list, or nil.
func (r EntityRecord) List(key string) []any {
	l, _ := r[key].([]any)
	return l
}

// Has reports whether the field is present with a non-nil value.
func (r EntityRecord) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// Clone returns a shallow copy. Merge and enrichment work on clones so no
// stage mutates another stage's output.
func (r EntityRecord) Clone() EntityRecord {
	out := make(EntityRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Statistics returns the record's statistics sub-mapping, or nil.
func (r EntityRecord) Statistics() map[string]any {
	return r.Map("statistics")
}

// RefID extracts an id from a reference value that is either a bare number
// or a {id: ...} object, the two shapes the API uses for foreign keys.
func RefID(v any) (int64, bool) {
	switch ref := v.(type) {
	case float64:
		return int64(ref), true
	case int:
		return int64(ref), true
	case int64:
		return ref, true
	case map[string]any:
		return EntityRecord(ref).Int("id")
	default:
		return 0, false
	}
}

// =============================================================================
// SOURCE - Upstream API surface consumed by the engine
// =============================================================================

// Source is the slice of the loyalty API the engine needs: page-based list
// endpoints, unpaginated list endpoints, and per-id detail endpoints.
// Transport failures surface as errors; the engine absorbs them at stage
// boundaries rather than propagating them.
type Source interface {
	// ListPage fetches one page of a paginated collection endpoint.
	ListPage(ctx context.Context, endpoint string, page, perPage int) ([]EntityRecord, error)

	// List fetches an unpaginated collection endpoint in one call.
	List(ctx context.Context, endpoint string) ([]EntityRecord, error)

	// Detail fetches a single record from a per-id detail endpoint. The
	// endpoint already includes the id (adapters build it per record).
	Detail(ctx context.Context, endpoint string) (EntityRecord, error)
}

// =============================================================================
// RUN STATS - Counters for one report run
// =============================================================================

// RunStats describes how a report run went: how much was fetched, how much
// was enriched, and which degradations occurred. Rendered into the report
// header so a reader can judge completeness.
type RunStats struct {
	Entities          int
	Enriched          int
	ListingOnly       int
	SkippedNoID       int
	Pages             int
	DuplicatesDropped int

	// Truncated is the explicit "possibly incomplete" signal raised when
	// the page budget was exhausted before end-of-data.
	Truncated bool

	// Fallback records that page 1 failed and the unpaginated fallback
	// call supplied the listing instead.
	Fallback bool
}
