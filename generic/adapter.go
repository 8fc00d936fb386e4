/*
adapter.go - Per-entity-type engine configuration

PURPOSE:
  An Adapter is the only thing that differs between reporting on reward
  groups, tier sets, promotions, or any other entity type: endpoint names,
  field names, column layout, reference tables, and the occasional
  entity-specific rendering hook. The engine stays generic; adapters are
  plain configuration values, not subclass hierarchies with overridden
  methods.

HOOKS:
  The two function hooks (ExtraDetail, ExtraSections) cover the handful of
  renderings that are genuinely entity-specific, like a tier set's tier
  table or the clubs summary. Everything else is declarative.

SEE ALSO:
  - groups/, tiers/, promotions/: The adapter definitions
  - report.go: Consumes adapters to assemble documents
*/
package generic

import (
	"strings"
)

// ReferenceSpec names one reference table an adapter needs, and where to
// fetch it.
type ReferenceSpec struct {
	Key      string // lookup key, e.g. "clubs"
	Singular string // fallback-label noun, e.g. "Club"
	Endpoint string // list endpoint, fetched once per run
}

// RenderContext carries the run-scoped lookup tables into rendering code.
type RenderContext struct {
	Lookups *Lookups
	Rules   *RuleSet
}

// Column is one summary-table column: a header and a cell renderer.
type Column struct {
	Header string
	Value  func(rec EntityRecord, rc *RenderContext) string
}

// Field is one declaratively rendered detail line: the record key, its
// display label, and the formatting rule. Absent fields are omitted.
type Field struct {
	Key   string
	Label string
	Kind  FieldKind
}

// Total declares a numeric aggregate summed across all entities for the
// statistics section. Path addresses nested fields ("statistics",
// "memberCount").
type Total struct {
	Label string
	Path  []string
}

// Adapter parameterizes the engine for one entity type.
type Adapter struct {
	Key      string // report slug, e.g. "reward-groups"
	Title    string // plural display name, e.g. "Reward Groups"
	Singular string

	// Listing retrieval.
	ListEndpoint string
	Paginated    bool
	PerPage      int // 0 = engine default

	// DetailEndpoint builds the per-record detail endpoint. Nil disables
	// enrichment for entity types whose listing is already complete.
	DetailEndpoint func(rec EntityRecord) string

	// Rule interpretation wiring. Empty RuleEndpoint disables it.
	RuleEndpoint string
	RulesKey     string // entity field holding rule instances
	LogicKey     string // entity field holding the any/all combinator

	// Reference tables loaded once per run.
	References []ReferenceSpec

	// Statistics section wiring.
	StatusKey  string  // count entities by this field
	TypeKey    string  // secondary category field; also tie-break sort key
	Totals     []Total // numeric aggregates
	ExtraStats func(entities []EntityRecord) []string

	// Tabular summary.
	Columns []Column

	// Detail sections.
	DetailFields []Field
	ExtraDetail  func(b *strings.Builder, rec EntityRecord, rc *RenderContext)

	// Report-level sections appended after the tabular summary.
	ExtraSections func(b *strings.Builder, rc *RenderContext)
}

// Validate reports whether the adapter carries the minimum wiring a run
// needs.
func (a Adapter) Validate() error {
	if a.Key == "" || a.Title == "" || a.ListEndpoint == "" {
		return ErrBadAdapter
	}
	return nil
}

// NumberAt reads a numeric field through a nested path, e.g.
// ("statistics", "memberCount").
func NumberAt(rec EntityRecord, path ...string) (float64, bool) {
	current := map[string]any(rec)
	for i, key := range path {
		if i == len(path)-1 {
			switch n := current[key].(type) {
			case float64:
				return n, true
			case int:
				return float64(n), true
			case int64:
				return float64(n), true
			default:
				return 0, false
			}
		}
		next, ok := current[key].(map[string]any)
		if !ok {
			return 0, false
		}
		current = next
	}
	return 0, false
}
