/*
report.go - Report assembly

PURPOSE:
  Produces the final document from an enriched, interpreted entity
  collection. Three ordered sections:

    1. Statistics summary - counts by status and type, numeric totals
    2. Tabular summary    - one row per entity, fixed columns, sorted
    3. Detail sections    - every populated field per entity, plus
                            resolved references and rule interpretations

  Output is one self-contained markdown document. Downstream consumers
  (archive, HTTP responses) treat it verbatim.

OMISSION POLICY:
  Missing optional fields are omitted entirely. A placeholder appears only
  where absence itself is information ("Not specified" for a checked but
  absent date), never as an empty cell filler.

ORDERING:
  Entities sort by ascending id; the adapter's type field breaks ties for
  polymorphic collections (promotion subtypes can reuse ids). Statistics
  breakdowns sort by key so the document is deterministic.
*/
package generic

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Report is one finished report run: the document plus its run metadata.
type Report struct {
	Adapter     string
	Title       string
	GeneratedAt time.Time
	Document    string
	Stats       RunStats
}

// SortEntities orders entities by ascending id, breaking ties on the
// adapter's type field. Records without an id sort last. Returns a new
// slice.
func SortEntities(entities []EntityRecord, typeKey string) []EntityRecord {
	sorted := make([]EntityRecord, len(entities))
	copy(sorted, entities)
	sort.SliceStable(sorted, func(i, j int) bool {
		iID, iOK := sorted[i].ID()
		jID, jOK := sorted[j].ID()
		switch {
		case iOK && !jOK:
			return true
		case !iOK && jOK:
			return false
		case iID != jID:
			return iID < jID
		}
		if typeKey == "" {
			return false
		}
		return sorted[i].String(typeKey) < sorted[j].String(typeKey)
	})
	return sorted
}

// Assemble renders the full document for one report run.
func Assemble(adapter Adapter, entities []EntityRecord, rc *RenderContext, stats RunStats, generatedAt time.Time) string {
	entities = SortEntities(entities, adapter.TypeKey)

	var b strings.Builder
	writeHeader(&b, adapter, stats, generatedAt)
	writeStatisticsSummary(&b, adapter, entities)
	writeTabularSummary(&b, adapter, entities, rc)
	if adapter.ExtraSections != nil {
		adapter.ExtraSections(&b, rc)
	}
	writeDetailSections(&b, adapter, entities, rc)
	return b.String()
}

// =============================================================================
// HEADER
// =============================================================================

func writeHeader(b *strings.Builder, adapter Adapter, stats RunStats, generatedAt time.Time) {
	fmt.Fprintf(b, "# Complete %s Report\n\n", adapter.Title)
	fmt.Fprintf(b, "**Generated:** %s\n", generatedAt.UTC().Format("January 02, 2006 at 15:04 UTC"))
	fmt.Fprintf(b, "**Total %s:** %d\n", adapter.Title, stats.Entities)
	if adapter.DetailEndpoint != nil {
		fmt.Fprintf(b, "**Successfully Enriched:** %d\n", stats.Enriched)
		fmt.Fprintf(b, "**Listing Data Only:** %d\n", stats.ListingOnly)
	}
	b.WriteString("\n")
	if stats.Truncated {
		b.WriteString("*Warning: the page budget was reached while fetching; this report is possibly incomplete.*\n\n")
	}
	if stats.DuplicatesDropped > 0 {
		fmt.Fprintf(b, "*%d duplicate records from pagination were dropped (first occurrence kept).*\n\n", stats.DuplicatesDropped)
	}
}

// =============================================================================
// SECTION 1: STATISTICS SUMMARY
// =============================================================================

func writeStatisticsSummary(b *strings.Builder, adapter Adapter, entities []EntityRecord) {
	b.WriteString("## Statistics Summary\n\n")
	fmt.Fprintf(b, "**Total %s:** %d\n", adapter.Title, len(entities))

	for _, total := range adapter.Totals {
		sum := 0.0
		have := 0
		for _, rec := range entities {
			if n, ok := NumberAt(rec, total.Path...); ok {
				sum += n
				have++
			}
		}
		fmt.Fprintf(b, "**%s:** %s\n", total.Label, FormatNumber(sum))
		if have < len(entities) {
			fmt.Fprintf(b, "**%s with %s Data:** %d\n", adapter.Title, total.Label, have)
		}
	}

	if adapter.ExtraStats != nil {
		for _, line := range adapter.ExtraStats(entities) {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}

	writeBreakdown(b, adapter.Title, adapter.StatusKey, entities)
	writeBreakdown(b, adapter.Title, adapter.TypeKey, entities)
	b.WriteString("\n")
}

// writeBreakdown counts entities by one field and writes the sorted
// distribution.
func writeBreakdown(b *strings.Builder, title, key string, entities []EntityRecord) {
	if key == "" {
		return
	}
	counts := make(map[string]int)
	for _, rec := range entities {
		value := rec.String(key)
		if value == "" {
			value = "Unknown"
		}
		counts[value]++
	}
	if len(counts) == 0 {
		return
	}

	values := make([]string, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	sort.Strings(values)

	fmt.Fprintf(b, "\n**%s by %s:**\n", title, PrettifyKey(key))
	for _, v := range values {
		fmt.Fprintf(b, "- %s: %d\n", v, counts[v])
	}
}

// =============================================================================
// SECTION 2: TABULAR SUMMARY
// =============================================================================

func writeTabularSummary(b *strings.Builder, adapter Adapter, entities []EntityRecord, rc *RenderContext) {
	if len(adapter.Columns) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s Summary\n\n", adapter.Title)

	headers := make([]string, len(adapter.Columns))
	dividers := make([]string, len(adapter.Columns))
	for i, col := range adapter.Columns {
		headers[i] = col.Header
		dividers[i] = strings.Repeat("-", len(col.Header))
	}
	fmt.Fprintf(b, "| %s |\n", strings.Join(headers, " | "))
	fmt.Fprintf(b, "|%s|\n", strings.Join(mapSlice(dividers, func(d string) string { return d + "--" }), "|"))

	for _, rec := range entities {
		cells := make([]string, len(adapter.Columns))
		for i, col := range adapter.Columns {
			cells[i] = escapeCell(col.Value(rec, rc))
		}
		fmt.Fprintf(b, "| %s |\n", strings.Join(cells, " | "))
	}
	b.WriteString("\n")
}

func mapSlice(in []string, f func(string) string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = f(s)
	}
	return out
}

// escapeCell keeps field values from breaking the markdown table grid.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "\\|")
}

// =============================================================================
// SECTION 3: DETAIL SECTIONS
// =============================================================================

func writeDetailSections(b *strings.Builder, adapter Adapter, entities []EntityRecord, rc *RenderContext) {
	fmt.Fprintf(b, "## Detailed %s Information\n\n", adapter.Singular)
	b.WriteString("*All data from both listing calls and detail calls is preserved.*\n\n")

	for _, rec := range entities {
		writeEntityDetail(b, adapter, rec, rc)
	}
}

func writeEntityDetail(b *strings.Builder, adapter Adapter, rec EntityRecord, rc *RenderContext) {
	fmt.Fprintf(b, "### %s (ID: %s)\n\n", entityName(rec, adapter.Singular), entityIDString(rec))

	if ListingOnly(rec) {
		b.WriteString("*Listing data only: the detail fetch for this entity failed.*\n\n")
	}

	for _, field := range adapter.DetailFields {
		value, ok := rec[field.Key]
		if !ok || value == nil {
			continue
		}
		fmt.Fprintf(b, "**%s:** %s\n", field.Label, FormatValue(field.Kind, value))
	}

	writeStatisticsBlock(b, rec)

	if adapter.RulesKey != "" {
		writeRulesBlock(b, adapter, rec, rc)
	}

	if adapter.ExtraDetail != nil {
		adapter.ExtraDetail(b, rec, rc)
	}

	b.WriteString("\n---\n\n")
}

// writeStatisticsBlock renders the entity's statistics sub-mapping, keys
// sorted for determinism, nil values omitted.
func writeStatisticsBlock(b *strings.Builder, rec EntityRecord) {
	stats := rec.Statistics()
	if len(stats) == 0 {
		return
	}
	keys := make([]string, 0, len(stats))
	for k := range stats {
		if stats[k] != nil {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return
	}
	sort.Strings(keys)

	b.WriteString("\n**Statistics:**\n")
	for _, k := range keys {
		switch v := stats[k].(type) {
		case float64, int, int64:
			fmt.Fprintf(b, "- %s: %s\n", PrettifyKey(k), FormatNumber(v))
		case string:
			fmt.Fprintf(b, "- %s: %s\n", PrettifyKey(k), v)
		case bool:
			fmt.Fprintf(b, "- %s: %s\n", PrettifyKey(k), FormatBool(v))
		default:
			fmt.Fprintf(b, "- %s: %v\n", PrettifyKey(k), v)
		}
	}
}

func writeRulesBlock(b *strings.Builder, adapter Adapter, rec EntityRecord, rc *RenderContext) {
	rules := ParseRules(rec, adapter.RulesKey)
	if len(rules) == 0 {
		if rec.Has(adapter.RulesKey) {
			b.WriteString("\n**Rules:** No specific rules defined\n")
		}
		return
	}

	b.WriteString("\n**Rules:**\n\n")
	for i, rule := range rules {
		fmt.Fprintf(b, "**Rule %d:** %s\n\n", i+1, rc.Rules.Interpret(rule))
	}

	logic := RuleLogic(rec, adapter.RulesKey, adapter.LogicKey)
	if text := CombinatorText(logic, len(rules)); text != "" {
		fmt.Fprintf(b, "**Rule Logic:** %s\n\n", text)
	}
}

func entityName(rec EntityRecord, singular string) string {
	if name := rec.String("name"); name != "" {
		return name
	}
	return "Unnamed " + singular
}

func entityIDString(rec EntityRecord) string {
	if id, ok := rec.ID(); ok {
		return fmt.Sprintf("%d", id)
	}
	return "N/A"
}
