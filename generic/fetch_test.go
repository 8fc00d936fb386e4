/*
fetch_test.go - Paginated retrieval behavior

Covers the termination rules (short page, empty page, page budget), the
page-1 unpaginated fallback, and id-based deduplication.
*/
package generic_test

import (
	"context"
	"errors"
	"testing"

	"github.com/warp/loyalty-reporter/generic"
)

// =============================================================================
// TEST INFRASTRUCTURE
// =============================================================================

// fakeSource serves canned pages, listings, and details.
type fakeSource struct {
	pages   map[string]map[int][]generic.EntityRecord // endpoint -> page -> records
	lists   map[string][]generic.EntityRecord
	details map[string]generic.EntityRecord

	pageErrs map[string]map[int]error
	listErrs map[string]error

	pageCalls   int
	listCalls   int
	detailCalls int
}

func (f *fakeSource) ListPage(_ context.Context, endpoint string, page, _ int) ([]generic.EntityRecord, error) {
	f.pageCalls++
	if errs, ok := f.pageErrs[endpoint]; ok {
		if err, ok := errs[page]; ok {
			return nil, err
		}
	}
	return f.pages[endpoint][page], nil
}

func (f *fakeSource) List(_ context.Context, endpoint string) ([]generic.EntityRecord, error) {
	f.listCalls++
	if err, ok := f.listErrs[endpoint]; ok {
		return nil, err
	}
	return f.lists[endpoint], nil
}

func (f *fakeSource) Detail(_ context.Context, endpoint string) (generic.EntityRecord, error) {
	f.detailCalls++
	rec, ok := f.details[endpoint]
	if !ok {
		return nil, errors.New("detail unavailable")
	}
	return rec, nil
}

func rec(id int, kv ...any) generic.EntityRecord {
	r := generic.EntityRecord{"id": float64(id)}
	for i := 0; i+1 < len(kv); i += 2 {
		r[kv[i].(string)] = kv[i+1]
	}
	return r
}

func records(ids ...int) []generic.EntityRecord {
	out := make([]generic.EntityRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, rec(id))
	}
	return out
}

// =============================================================================
// TERMINATION
// =============================================================================

func TestFetchAll_ShortPageEndsWalk(t *testing.T) {
	// GIVEN: Page 1 full (3 of 3), page 2 short (1 of 3)
	src := &fakeSource{pages: map[string]map[int][]generic.EntityRecord{
		"things": {1: records(1, 2, 3), 2: records(4)},
	}}

	// WHEN: Fetching with perPage=3
	res := generic.FetchAll(context.Background(), src, "things", generic.FetchOptions{PerPage: 3})

	// THEN: Both pages consumed, no page 3 request
	if len(res.Records) != 4 {
		t.Errorf("expected 4 records, got %d", len(res.Records))
	}
	if res.Pages != 2 {
		t.Errorf("expected 2 pages, got %d", res.Pages)
	}
	if src.pageCalls != 2 {
		t.Errorf("expected 2 page calls, got %d", src.pageCalls)
	}
	if res.Truncated {
		t.Error("short page must not report truncation")
	}
}

func TestFetchAll_EmptyPageEndsWalk(t *testing.T) {
	// GIVEN: Page 1 full, page 2 empty
	src := &fakeSource{pages: map[string]map[int][]generic.EntityRecord{
		"things": {1: records(1, 2), 2: {}},
	}}

	res := generic.FetchAll(context.Background(), src, "things", generic.FetchOptions{PerPage: 2})

	if len(res.Records) != 2 {
		t.Errorf("expected 2 records, got %d", len(res.Records))
	}
	if src.pageCalls != 2 {
		t.Errorf("expected 2 page calls, got %d", src.pageCalls)
	}
}

func TestFetchAll_PageBudgetSetsTruncated(t *testing.T) {
	// GIVEN: Every page comes back full
	pages := make(map[int][]generic.EntityRecord)
	next := 1
	for p := 1; p <= 5; p++ {
		pages[p] = records(next, next+1)
		next += 2
	}
	src := &fakeSource{pages: map[string]map[int][]generic.EntityRecord{"things": pages}}

	// WHEN: The budget allows only 3 pages
	res := generic.FetchAll(context.Background(), src, "things", generic.FetchOptions{PerPage: 2, MaxPages: 3})

	// THEN: The walk stops at the budget and flags truncation
	if !res.Truncated {
		t.Error("expected Truncated=true when the page budget is exhausted")
	}
	if len(res.Records) != 6 {
		t.Errorf("expected 6 records, got %d", len(res.Records))
	}
	if src.pageCalls != 3 {
		t.Errorf("expected 3 page calls, got %d", src.pageCalls)
	}
}

// =============================================================================
// FALLBACK AND FAILURE
// =============================================================================

func TestFetchAll_Page1FailureFallsBackUnpaginated(t *testing.T) {
	// GIVEN: Page 1 fails, but the plain listing works
	src := &fakeSource{
		pageErrs: map[string]map[int]error{"legacy": {1: errors.New("400 bad request")}},
		lists:    map[string][]generic.EntityRecord{"legacy": records(7, 8, 9)},
	}

	res := generic.FetchAll(context.Background(), src, "legacy", generic.FetchOptions{PerPage: 100})

	// THEN: The unpaginated result is used and flagged
	if !res.Fallback {
		t.Error("expected Fallback=true")
	}
	if res.Pages != 1 {
		t.Errorf("expected Pages=1 after fallback, got %d", res.Pages)
	}
	if len(res.Records) != 3 {
		t.Errorf("expected 3 records from fallback, got %d", len(res.Records))
	}
}

func TestFetchAll_LaterPageFailureKeepsAccumulated(t *testing.T) {
	// GIVEN: Page 1 succeeds, page 2 fails
	src := &fakeSource{
		pages:    map[string]map[int][]generic.EntityRecord{"things": {1: records(1, 2)}},
		pageErrs: map[string]map[int]error{"things": {2: errors.New("503")}},
	}

	res := generic.FetchAll(context.Background(), src, "things", generic.FetchOptions{PerPage: 2})

	// THEN: Page 1's records survive; no unpaginated retry happens
	if len(res.Records) != 2 {
		t.Errorf("expected 2 records, got %d", len(res.Records))
	}
	if src.listCalls != 0 {
		t.Errorf("expected no fallback call for page >1 failure, got %d", src.listCalls)
	}
}

func TestFetchAll_TotalFailureYieldsEmptyResult(t *testing.T) {
	src := &fakeSource{
		pageErrs: map[string]map[int]error{"things": {1: errors.New("401")}},
		listErrs: map[string]error{"things": errors.New("401")},
	}

	res := generic.FetchAll(context.Background(), src, "things", generic.FetchOptions{})

	if len(res.Records) != 0 {
		t.Errorf("expected empty result, got %d records", len(res.Records))
	}
}

// =============================================================================
// DEDUPLICATION
// =============================================================================

func TestFetchAll_DuplicateIDsDropped_FirstWins(t *testing.T) {
	// GIVEN: Record 2 appears on both pages, with different payloads
	src := &fakeSource{pages: map[string]map[int][]generic.EntityRecord{
		"things": {
			1: {rec(1), rec(2, "name", "first")},
			2: {rec(2, "name", "second"), rec(3)},
		},
	}}

	res := generic.FetchAll(context.Background(), src, "things", generic.FetchOptions{PerPage: 2})

	if res.DuplicatesDropped != 1 {
		t.Errorf("expected 1 duplicate dropped, got %d", res.DuplicatesDropped)
	}
	if len(res.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(res.Records))
	}
	for _, r := range res.Records {
		if id, _ := r.ID(); id == 2 && r.String("name") != "first" {
			t.Errorf("first occurrence should win, got name=%q", r.String("name"))
		}
	}
}

func TestFetchAll_IDLessRecordsPassThrough(t *testing.T) {
	// GIVEN: Two records without ids on one page
	src := &fakeSource{pages: map[string]map[int][]generic.EntityRecord{
		"things": {1: {
			{"name": "a"},
			{"name": "b"},
			rec(1),
		}},
	}}

	res := generic.FetchAll(context.Background(), src, "things", generic.FetchOptions{PerPage: 100})

	// THEN: Both id-less records survive, never treated as duplicates
	if len(res.Records) != 3 {
		t.Errorf("expected 3 records, got %d", len(res.Records))
	}
	if res.DuplicatesDropped != 0 {
		t.Errorf("id-less records must not count as duplicates, got %d dropped", res.DuplicatesDropped)
	}
}

func TestFetchAll_DefaultsApplied(t *testing.T) {
	// A full page at the default size keeps the walk going; verify the
	// default perPage actually reaches the source via the short-page rule.
	pages := map[int][]generic.EntityRecord{}
	ids := make([]int, generic.DefaultPerPage)
	for i := range ids {
		ids[i] = i + 1
	}
	pages[1] = records(ids...)
	pages[2] = records(9999)
	src := &fakeSource{pages: map[string]map[int][]generic.EntityRecord{"things": pages}}

	res := generic.FetchAll(context.Background(), src, "things", generic.FetchOptions{})

	if res.Pages != 2 {
		t.Errorf("expected 2 pages with default perPage=%d, got %d", generic.DefaultPerPage, res.Pages)
	}
	if want := generic.DefaultPerPage + 1; len(res.Records) != want {
		t.Errorf("expected %d records, got %d", want, len(res.Records))
	}
}
