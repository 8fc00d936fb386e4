/*
resolve.go - Run-scoped reference tables

PURPOSE:
  The API stores foreign keys (club ids, transaction-type ids, tier-rule
  ids) as opaque integers. Reference tables resolve them to descriptive
  records for rendering.

LIFETIME:
  A table is fetched once at the start of a report run and is immutable
  for the run's duration. There is no cross-run caching and no lazy
  initialization hiding inside lookups; the run constructs its tables up
  front and passes them explicitly to whatever renders references.

DEGRADATION:
  A table that failed to load is represented as nil. All methods are
  nil-safe and produce fallback labels ("Club 42"), so a missing table
  costs detail, not the report.
*/
package generic

import (
	"fmt"
	"sort"
)

// ReferenceTable is an immutable id -> descriptive-record lookup for one
// reference collection (clubs, transaction types, tier rules).
type ReferenceTable struct {
	name     string
	singular string
	byID     map[int64]EntityRecord
}

// NewReferenceTable builds a table from the records of a reference list
// endpoint. Records without an id are ignored. The singular form names the
// collection in fallback labels ("Club 42").
func NewReferenceTable(name, singular string, records []EntityRecord) *ReferenceTable {
	byID := make(map[int64]EntityRecord, len(records))
	for _, rec := range records {
		if id, ok := rec.ID(); ok {
			if _, exists := byID[id]; !exists {
				byID[id] = rec
			}
		}
	}
	return &ReferenceTable{name: name, singular: singular, byID: byID}
}

// Lookup resolves an id to its descriptive record.
func (t *ReferenceTable) Lookup(id int64) (EntityRecord, bool) {
	if t == nil {
		return nil, false
	}
	rec, ok := t.byID[id]
	return rec, ok
}

// Label renders an id as "{name} (ID: {id})" when resolvable, or the
// fallback "{Singular} {id}" when not.
func (t *ReferenceTable) Label(id int64) string {
	if rec, ok := t.Lookup(id); ok {
		if name := rec.String("name"); name != "" {
			return fmt.Sprintf("%s (ID: %d)", name, id)
		}
	}
	singular := "Record"
	if t != nil && t.singular != "" {
		singular = t.singular
	}
	return fmt.Sprintf("%s %d", singular, id)
}

// Len returns the number of resolvable records.
func (t *ReferenceTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.byID)
}

// All returns the table's records sorted by ascending id, for summary
// sections that list the whole collection.
func (t *ReferenceTable) All() []EntityRecord {
	if t == nil {
		return nil
	}
	ids := make([]int64, 0, len(t.byID))
	for id := range t.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	records := make([]EntityRecord, 0, len(ids))
	for _, id := range ids {
		records = append(records, t.byID[id])
	}
	return records
}

// =============================================================================
// LOOKUPS - All reference tables for one run
// =============================================================================

// Lookups bundles the reference tables a run loaded, keyed by the
// adapter's reference spec key. Nil-safe like the tables themselves.
type Lookups struct {
	tables map[string]*ReferenceTable
}

// NewLookups creates an empty lookup bundle.
func NewLookups() *Lookups {
	return &Lookups{tables: make(map[string]*ReferenceTable)}
}

// Add registers a loaded table under its key. A nil table marks a failed
// load and keeps lookups degrading to fallback labels.
func (l *Lookups) Add(key string, table *ReferenceTable) {
	l.tables[key] = table
}

// Table returns the table under key, or nil when it never loaded.
func (l *Lookups) Table(key string) *ReferenceTable {
	if l == nil {
		return nil
	}
	return l.tables[key]
}

// Label resolves an id through the named table, falling back to
// "{Singular} {id}" labels when the table or the id is missing.
func (l *Lookups) Label(key string, id int64) string {
	return l.Table(key).Label(id)
}
