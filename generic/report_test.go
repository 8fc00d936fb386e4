/*
report_test.go - Assembly and full-run behavior

The end-to-end test drives a Runner against a canned source and checks
the document a reader would actually see: section order, row ordering,
degradation notes, and rule text.
*/
package generic_test

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/warp/loyalty-reporter/generic"
)

// =============================================================================
// SORTING
// =============================================================================

func TestSortEntities_ByIDThenType(t *testing.T) {
	entities := []generic.EntityRecord{
		{"id": float64(2), "type": "b"},
		{"name": "no id"},
		{"id": float64(2), "type": "a"},
		{"id": float64(1)},
	}

	sorted := generic.SortEntities(entities, "type")

	if id, _ := sorted[0].ID(); id != 1 {
		t.Errorf("first should be id 1, got %d", id)
	}
	if sorted[1].String("type") != "a" || sorted[2].String("type") != "b" {
		t.Errorf("type must tie-break equal ids: got %q then %q",
			sorted[1].String("type"), sorted[2].String("type"))
	}
	if _, ok := sorted[3].ID(); ok {
		t.Error("id-less record should sort last")
	}
}

func TestSortEntities_InputUntouched(t *testing.T) {
	entities := []generic.EntityRecord{{"id": float64(2)}, {"id": float64(1)}}
	_ = generic.SortEntities(entities, "")
	if id, _ := entities[0].ID(); id != 2 {
		t.Error("SortEntities must not mutate its input")
	}
}

// =============================================================================
// FULL RUN
// =============================================================================

// widgetAdapter is a minimal paginated adapter with rules and one
// reference table, exercising every engine stage.
func widgetAdapter() generic.Adapter {
	return generic.Adapter{
		Key:          "widgets",
		Title:        "Widgets",
		Singular:     "Widget",
		ListEndpoint: "widgets",
		Paginated:    true,
		DetailEndpoint: func(r generic.EntityRecord) string {
			id, _ := r.ID()
			return "widgets/" + strconv.FormatInt(id, 10)
		},
		RuleEndpoint: "widgets/ruleDefinitions",
		RulesKey:     "rules",
		LogicKey:     "logic",
		StatusKey:    "status",
		Totals: []generic.Total{
			{Label: "Total Members", Path: []string{"statistics", "memberCount"}},
		},
		Columns: []generic.Column{
			generic.ColID(),
			generic.ColName(),
			generic.ColText("Status", "status", "Unknown"),
		},
		DetailFields: []generic.Field{
			{Key: "status", Label: "Status", Kind: generic.KindText},
			{Key: "createdAt", Label: "Created", Kind: generic.KindDate},
		},
	}
}

func widgetSource() *fakeSource {
	return &fakeSource{
		pages: map[string]map[int][]generic.EntityRecord{
			"widgets": {
				// Record 2 repeats across pages; first occurrence wins.
				1: {
					rec(2, "name", "Beta", "status", "active"),
					rec(3, "name", "Gamma", "status", "draft"),
				},
				2: {
					rec(2, "name", "Beta Again"),
					rec(1, "name", "Alpha", "status", "active",
						"rules", []any{map[string]any{
							"ruleDefinition": map[string]any{"id": float64(10)},
							"values": []any{map[string]any{
								"component": map[string]any{"id": float64(100)},
								"operator":  "isGreaterThan",
								"value1":    "500",
							}},
						}}),
				},
				3: {},
			},
		},
		lists: map[string][]generic.EntityRecord{
			"widgets/ruleDefinitions": {
				{"id": float64(10), "name": "Spend Rule", "components": []any{
					map[string]any{"id": float64(100), "name": "Spend Amount", "type": "numeric"},
				}},
			},
		},
		details: map[string]generic.EntityRecord{
			// Detail for 2 is missing on purpose.
			"widgets/1": {"id": float64(1), "createdAt": "2025-02-01T08:00:00Z",
				"statistics": map[string]any{"memberCount": float64(120)}},
			"widgets/3": {"id": float64(3), "createdAt": "2025-03-01T08:00:00Z",
				"statistics": map[string]any{"memberCount": float64(30)}},
		},
	}
}

func TestRunner_FullRun(t *testing.T) {
	// GIVEN: 2 pages of listings with a duplicate id, details for 1 and 3
	src := widgetSource()
	runner := &generic.Runner{
		Source:  src,
		PerPage: 2,
		Now:     func() time.Time { return time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC) },
	}

	report, err := runner.Run(context.Background(), widgetAdapter())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	doc := report.Document

	// THEN: All three entities survive, the duplicate is dropped
	if report.Stats.Entities != 3 {
		t.Errorf("expected 3 entities, got %d", report.Stats.Entities)
	}
	if report.Stats.DuplicatesDropped != 1 {
		t.Errorf("expected 1 duplicate dropped, got %d", report.Stats.DuplicatesDropped)
	}
	if report.Stats.Enriched != 2 || report.Stats.ListingOnly != 1 {
		t.Errorf("expected 2 enriched / 1 listing-only, got %d/%d",
			report.Stats.Enriched, report.Stats.ListingOnly)
	}

	// Header and section order
	for _, want := range []string{
		"# Complete Widgets Report",
		"**Generated:** June 01, 2025 at 12:00 UTC",
		"## Statistics Summary",
		"## Widgets Summary",
		"## Detailed Widget Information",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
	statsIdx := strings.Index(doc, "## Statistics Summary")
	tableIdx := strings.Index(doc, "## Widgets Summary")
	detailIdx := strings.Index(doc, "## Detailed Widget Information")
	if !(statsIdx < tableIdx && tableIdx < detailIdx) {
		t.Error("sections out of order")
	}

	// Table rows sorted by ascending id
	alphaIdx := strings.Index(doc, "| 1 | Alpha |")
	betaIdx := strings.Index(doc, "| 2 | Beta |")
	gammaIdx := strings.Index(doc, "| 3 | Gamma |")
	if alphaIdx == -1 || betaIdx == -1 || gammaIdx == -1 {
		t.Fatalf("table rows missing: %d %d %d", alphaIdx, betaIdx, gammaIdx)
	}
	if !(alphaIdx < betaIdx && betaIdx < gammaIdx) {
		t.Error("table rows not sorted by id")
	}

	// Entity 2's failed detail fetch is visible, not fatal
	if !strings.Contains(doc, "### Beta (ID: 2)") {
		t.Error("listing-only entity missing from detail sections")
	}
	if !strings.Contains(doc, "*Listing data only: the detail fetch for this entity failed.*") {
		t.Error("missing listing-only note")
	}

	// Merged detail data renders
	if !strings.Contains(doc, "**Created:** February 01, 2025 at 08:00 UTC") {
		t.Error("detail field from merge missing")
	}
	if !strings.Contains(doc, "**Total Members:** 150") {
		t.Error("numeric total missing or wrong")
	}

	// Rule interpretation renders
	if !strings.Contains(doc, "**Rule 1:** Spend Rule: Spend Amount is greater than 500") {
		t.Error("rule interpretation missing")
	}
}

func TestRunner_ConfigErrorsAbort(t *testing.T) {
	runner := &generic.Runner{}
	if _, err := runner.Run(context.Background(), widgetAdapter()); !generic.IsConfigError(err) {
		t.Errorf("nil source must be a configuration error, got %v", err)
	}

	runner = &generic.Runner{Source: &fakeSource{}}
	if _, err := runner.Run(context.Background(), generic.Adapter{}); !generic.IsConfigError(err) {
		t.Errorf("invalid adapter must be a configuration error, got %v", err)
	}
}

func TestRunner_FailedReferenceLoadDegrades(t *testing.T) {
	// GIVEN: The reference endpoint errors, the listing works
	src := &fakeSource{
		lists: map[string][]generic.EntityRecord{
			"things": {rec(1, "name", "One", "club", map[string]any{"id": float64(5)})},
		},
		listErrs: map[string]error{"clubs": errTest},
	}
	adapter := generic.Adapter{
		Key: "things", Title: "Things", Singular: "Thing",
		ListEndpoint: "things",
		References:   []generic.ReferenceSpec{{Key: "clubs", Singular: "Club", Endpoint: "clubs"}},
		Columns: []generic.Column{
			{Header: "Club", Value: func(r generic.EntityRecord, rc *generic.RenderContext) string {
				id, _ := generic.RefID(r["club"])
				return rc.Lookups.Label("clubs", id)
			}},
		},
	}

	report, err := (&generic.Runner{Source: src}).Run(context.Background(), adapter)
	if err != nil {
		t.Fatalf("failed reference load must not abort the run: %v", err)
	}

	// THEN: The fallback label renders with the table's singular noun
	if !strings.Contains(report.Document, "Club 5") {
		t.Errorf("expected fallback label, document:\n%s", report.Document)
	}
}

var errTest = errors.New("boom")
