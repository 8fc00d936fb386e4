/*
Package promotions provides the entity adapters for earning-side
configuration: promotions and the reward catalog.

PURPOSE:
  Promotions are polymorphic: the listing carries a type discriminator
  (transactionBonus, transactionProductBonus, fixedPoint, dealOfTheDay,
  enrollmentPoint, ...) and the detail endpoint is addressed by both type
  and id. Ids are only unique within a type, which is why the engine
  tie-breaks its id sort on the type field.

CROSS-REFERENCES:
  Promotion records point into nearly every other entity domain. Clubs
  and transaction types resolve through reference tables; product,
  location, and member group ids plus tier ids render as bare ids for
  cross-referencing against those entities' own reports.

SEE ALSO:
  - rewards.go: The reward catalog adapter
  - generic/report.go: Sort and assembly rules
*/
package promotions

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/warp/loyalty-reporter/generic"
)

// Reference table keys used by the promotion adapter.
const (
	RefClubs            = "clubs"
	RefTransactionTypes = "transactionTypes"
)

// listEndpoint requests every lifecycle status; the API default omits
// drafts and completed promotions.
const listEndpoint = "promotions?status=draft&status=active&status=scheduled&status=completed&status=noStatus"

// Promotions returns the adapter for promotion reporting.
func Promotions() generic.Adapter {
	return generic.Adapter{
		Key:          "promotions",
		Title:        "Promotions",
		Singular:     "Promotion",
		ListEndpoint: listEndpoint,
		Paginated:    true,
		DetailEndpoint: func(rec generic.EntityRecord) string {
			id, _ := rec.ID()
			return fmt.Sprintf("promotions/%s/%d", rec.String("type"), id)
		},
		References: []generic.ReferenceSpec{
			{Key: RefClubs, Singular: "Club", Endpoint: "clubs"},
			{Key: RefTransactionTypes, Singular: "Transaction Type", Endpoint: "transactionTypes"},
		},
		StatusKey:  "status",
		TypeKey:    "type",
		ExtraStats: promotionStats,
		Columns: []generic.Column{
			generic.ColID(),
			generic.ColName(),
			generic.ColText("Type", "type", "Unknown"),
			{Header: "Status", Value: func(rec generic.EntityRecord, _ *generic.RenderContext) string {
				return StatusPhrase(rec.String("status"))
			}},
			{Header: "Activity Period", Value: func(rec generic.EntityRecord, _ *generic.RenderContext) string {
				return generic.FormatDateRange(activityRange(rec))
			}},
			{Header: "Bonus Type", Value: func(rec generic.EntityRecord, _ *generic.RenderContext) string {
				return BonusTypePhrase(rec.String("bonusType"))
			}},
			{Header: "Bonus Value", Value: func(rec generic.EntityRecord, _ *generic.RenderContext) string {
				return bonusValue(rec)
			}},
			{Header: "Frequency", Value: func(rec generic.EntityRecord, _ *generic.RenderContext) string {
				if f := rec.String("frequency"); f != "" {
					return generic.TitleWords(f)
				}
				return "N/A"
			}},
		},
		ExtraDetail: promotionDetail,
	}
}

// =============================================================================
// PHRASES
// =============================================================================

var statusPhrases = map[string]string{
	"active":    "Active",
	"draft":     "Draft",
	"scheduled": "Scheduled",
	"completed": "Completed",
	"nostatus":  "No Status",
	"inactive":  "Inactive",
	"expired":   "Expired",
}

// StatusPhrase names a promotion lifecycle status, passing unknown codes
// through verbatim.
func StatusPhrase(status string) string {
	if status == "" {
		return "Unknown"
	}
	if phrase, ok := statusPhrases[strings.ToLower(status)]; ok {
		return phrase
	}
	return status
}

var bonusTypePhrases = map[string]string{
	"percentagePoints":   "Percentage Points",
	"fixedPoints":        "Fixed Points",
	"percentageDiscount": "Percentage Discount",
	"fixedDiscount":      "Fixed Discount",
	"freeProduct":        "Free Product",
	"multiplierPoints":   "Multiplier Points",
}

// BonusTypePhrase names a bonus mechanic, passing unknown codes through
// verbatim. Empty input stays empty so table cells do not say "Unknown"
// for promotion types that have no bonus concept.
func BonusTypePhrase(bonusType string) string {
	if phrase, ok := bonusTypePhrases[bonusType]; ok {
		return phrase
	}
	return bonusType
}

var weekdayNames = map[string]string{
	"sunday":    "Sunday",
	"monday":    "Monday",
	"tuesday":   "Tuesday",
	"wednesday": "Wednesday",
	"thursday":  "Thursday",
	"friday":    "Friday",
	"saturday":  "Saturday",
}

// FormatValidDays renders a validOnDays list; the full week collapses to
// "All days".
func FormatValidDays(days []any) string {
	if len(days) == 0 {
		return "Not specified"
	}
	formatted := make([]string, 0, len(days))
	for _, d := range days {
		day, _ := d.(string)
		if name, ok := weekdayNames[strings.ToLower(day)]; ok {
			formatted = append(formatted, name)
		} else {
			formatted = append(formatted, day)
		}
	}
	if len(formatted) == 7 {
		return "All days"
	}
	return strings.Join(formatted, ", ")
}

// =============================================================================
// RENDERING HELPERS
// =============================================================================

// activityRange prefers activityDateRange; older promotion types still
// call it dateRange.
func activityRange(rec generic.EntityRecord) map[string]any {
	if dr := rec.Map("activityDateRange"); dr != nil {
		return dr
	}
	return rec.Map("dateRange")
}

// bonusValue renders whichever bonus magnitude field the promotion type
// carries.
func bonusValue(rec generic.EntityRecord) string {
	if n, ok := rec.Int("percentageOfPoints"); ok && n != 0 {
		return fmt.Sprintf("%d%%", n)
	}
	if n, ok := rec.Int("fixedPoints"); ok && n != 0 {
		return generic.FormatNumber(n) + " pts"
	}
	if v, ok := rec["multiplier"]; ok && v != nil {
		return fmt.Sprintf("%vx", v)
	}
	return ""
}

func promotionStats(entities []generic.EntityRecord) []string {
	frequencies := make(map[string]int)
	years := make(map[int]int)
	for _, rec := range entities {
		freq := rec.String("frequency")
		if freq == "" {
			freq = "Unknown"
		}
		frequencies[generic.TitleWords(freq)]++

		if dr := activityRange(rec); dr != nil {
			if start := generic.EntityRecord(dr).String("start"); start != "" {
				if t, err := time.Parse("2006-01-02", strings.SplitN(start, "T", 2)[0]); err == nil {
					years[t.Year()]++
				}
			}
		}
	}

	lines := []string{"", "**Promotions by Frequency:**"}
	for _, key := range sortedKeys(frequencies) {
		lines = append(lines, fmt.Sprintf("- %s: %d", key, frequencies[key]))
	}
	if len(years) > 0 {
		lines = append(lines, "", "**Promotions by Start Year:**")
		for _, year := range sortedIntKeys(years) {
			lines = append(lines, fmt.Sprintf("- %d: %d", year, years[year]))
		}
	}
	return lines
}

// =============================================================================
// DETAIL SECTION
// =============================================================================

func promotionDetail(b *strings.Builder, rec generic.EntityRecord, rc *generic.RenderContext) {
	fmt.Fprintf(b, "**Promotion Type:** %s\n", orUnknown(rec.String("type")))
	fmt.Fprintf(b, "**Status:** %s\n", StatusPhrase(rec.String("status")))
	if ref := rec.String("externalReference"); ref != "" {
		fmt.Fprintf(b, "**External Reference:** %s\n", ref)
	}
	if desc := rec.String("description"); desc != "" {
		fmt.Fprintf(b, "**Description:** %s\n", strings.TrimSpace(desc))
	}
	if freq := rec.String("frequency"); freq != "" {
		fmt.Fprintf(b, "**Frequency:** %s\n", generic.TitleWords(freq))
	}

	if dr := activityRange(rec); dr != nil {
		fmt.Fprintf(b, "**Activity Period:** %s\n", generic.FormatDateRange(dr))
	}
	if dr := rec.Map("bookingDateRange"); dr != nil {
		fmt.Fprintf(b, "**Booking Period:** %s\n", generic.FormatDateRange(dr))
	}

	writeBonusFields(b, rec)

	if days := rec.List("validOnDays"); len(days) > 0 {
		fmt.Fprintf(b, "**Valid Days:** %s\n", FormatValidDays(days))
	}
	if limit := rec.String("limit"); limit != "" {
		fmt.Fprintf(b, "**Limit:** %s\n", generic.TitleWords(limit))
	}

	writeActivationPromotion(b, rec)
	writeResolvedRefs(b, "Transaction Types", rec.List("transactionTypes"), rc.Lookups.Table(RefTransactionTypes))
	writeCrossRefIDs(b, "Product Groups", "product groups report", "Product Group", rec.List("productGroups"))
	writeLocations(b, rec)
	writeResolvedRefs(b, "Associated Clubs", rec.List("clubs"), rc.Lookups.Table(RefClubs))
	writeCrossRefIDs(b, "Member Groups", "audience groups report", "Member Group", rec.List("memberGroups"))
	writeCrossRefIDs(b, "Tiers", "tiers report", "Tier", rec.List("tiers"))
	writeAdditionalFields(b, rec)
}

func writeBonusFields(b *strings.Builder, rec generic.EntityRecord) {
	if bt := rec.String("bonusType"); bt != "" {
		fmt.Fprintf(b, "**Bonus Type:** %s\n", BonusTypePhrase(bt))
	}
	if n, ok := rec.Int("percentageOfPoints"); ok && n != 0 {
		fmt.Fprintf(b, "**Percentage of Points:** %d%%\n", n)
	}
	if n, ok := rec.Int("fixedPoints"); ok && n != 0 {
		fmt.Fprintf(b, "**Fixed Points:** %s\n", generic.FormatNumber(n))
	}
	if v, ok := rec["multiplier"]; ok && v != nil {
		fmt.Fprintf(b, "**Points Multiplier:** %vx\n", v)
	}
	if pr := rec.String("pointsRounding"); pr != "" {
		fmt.Fprintf(b, "**Points Rounding:** %s\n", pr)
	}
}

func writeActivationPromotion(b *strings.Builder, rec generic.EntityRecord) {
	activation, ok := rec["activationPromotion"]
	if !ok || activation == nil {
		return
	}
	b.WriteString("\n**Activation Promotion:**\n")
	if m, ok := activation.(map[string]any); ok {
		ar := generic.EntityRecord(m)
		if id, ok := ar.ID(); ok {
			fmt.Fprintf(b, "- Promotion ID: %d\n", id)
		}
		if name := ar.String("name"); name != "" {
			fmt.Fprintf(b, "- Name: %s\n", name)
		}
		return
	}
	fmt.Fprintf(b, "- %v\n", activation)
}

// writeResolvedRefs renders a reference list through a lookup table:
// resolvable ids get their names, the rest fall back to labeled ids.
func writeResolvedRefs(b *strings.Builder, heading string, refs []any, table *generic.ReferenceTable) {
	if len(refs) == 0 {
		return
	}
	fmt.Fprintf(b, "\n**%s:**\n", heading)
	for _, ref := range refs {
		if id, ok := generic.RefID(ref); ok {
			b.WriteString("- " + table.Label(id) + "\n")
		}
	}
}

// writeCrossRefIDs renders a reference list as bare ids, annotated with
// the report the ids join against.
func writeCrossRefIDs(b *strings.Builder, heading, joinTarget, singular string, refs []any) {
	if len(refs) == 0 {
		return
	}
	fmt.Fprintf(b, "\n**%s:** *(IDs for cross-reference with %s)*\n", heading, joinTarget)
	for _, ref := range refs {
		if id, ok := generic.RefID(ref); ok {
			fmt.Fprintf(b, "- %s ID: %d\n", singular, id)
		}
	}
}

func writeLocations(b *strings.Builder, rec generic.EntityRecord) {
	if all, ok := rec.Bool("allLocations"); ok && all {
		b.WriteString("\n**Locations:** All locations\n")
		return
	}
	writeCrossRefIDs(b, "Location Groups", "location groups report", "Location Group", rec.List("locationGroups"))
}

// additionalFields are the optional numeric/boolean settings some
// promotion types carry; present values render under one heading.
var additionalFields = []string{
	"minimumSpendAmount", "maximumSpendAmount", "minimumQuantity", "maximumQuantity",
	"isStackable", "priority", "maxUsagePerMember", "maxUsagePerDay", "maxUsageTotal",
}

func writeAdditionalFields(b *strings.Builder, rec generic.EntityRecord) {
	var lines []string
	for _, field := range additionalFields {
		value, ok := rec[field]
		if !ok || value == nil {
			continue
		}
		label := generic.PrettifyKey(field)
		if flag, ok := value.(bool); ok {
			lines = append(lines, fmt.Sprintf("- %s: %s", label, generic.FormatBool(flag)))
		} else {
			lines = append(lines, fmt.Sprintf("- %s: %s", label, generic.FormatNumber(value)))
		}
	}
	if len(lines) == 0 {
		return
	}
	b.WriteString("\n**Additional Information:**\n")
	for _, line := range lines {
		b.WriteString(line + "\n")
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedIntKeys(m map[int]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
