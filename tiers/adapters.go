/*
Package tiers provides the entity adapter for tier set reporting.

PURPOSE:
  Tier sets are the loyalty program's member-level ladders. Each set
  carries an ordered tier list, qualifier rules referencing the shared
  tier-rule catalog, and club associations. Unlike the group entities,
  qualifier rules here are structural references (tierRule id, transaction
  type descriptor, date range type) rather than component/operator
  condition graphs, so interpretation lives in this package instead of
  the generic rule engine.

SEE ALSO:
  - generic/resolve.go: The reference tables qualifiers resolve through
  - groups/: The condition-graph rule model the other entities use
*/
package tiers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/warp/loyalty-reporter/generic"
)

// Reference table keys used by the tier set adapter.
const (
	RefClubs     = "clubs"
	RefTierRules = "tierRules"
)

// allTransactionsDescriptorID is the upstream sentinel meaning "no
// transaction type filter".
const allTransactionsDescriptorID = 1

// TierSets returns the adapter for tier set reporting.
func TierSets() generic.Adapter {
	return generic.Adapter{
		Key:          "tiers",
		Title:        "Tier Sets",
		Singular:     "Tier Set",
		ListEndpoint: "tierSets",
		DetailEndpoint: func(rec generic.EntityRecord) string {
			id, _ := rec.ID()
			return fmt.Sprintf("tierSets/%d", id)
		},
		References: []generic.ReferenceSpec{
			{Key: RefClubs, Singular: "Club", Endpoint: "clubs"},
			{Key: RefTierRules, Singular: "Tier Rule", Endpoint: "tierRules"},
		},
		StatusKey: "status",
		ExtraStats: func(entities []generic.EntityRecord) []string {
			totalTiers := 0
			totalMembers := 0.0
			for _, rec := range entities {
				for _, t := range rec.List("tiers") {
					tier, ok := t.(map[string]any)
					if !ok {
						continue
					}
					totalTiers++
					if n, ok := generic.NumberAt(generic.EntityRecord(tier), "statistics", "memberCount"); ok {
						totalMembers += n
					}
				}
			}
			return []string{
				fmt.Sprintf("**Total Tiers:** %d", totalTiers),
				fmt.Sprintf("**Total Members Across All Tiers:** %s", generic.FormatNumber(totalMembers)),
			}
		},
		Columns: []generic.Column{
			generic.ColID(),
			generic.ColName(),
			generic.ColText("Status", "status", "N/A"),
			generic.ColListCount("Tiers Count", "tiers"),
			generic.ColShortDate("Last Updated", "lastUpdatedTimestamp"),
		},
		DetailFields: []generic.Field{
			{Key: "status", Label: "Status", Kind: generic.KindText},
			{Key: "rebuildSettings", Label: "Rebuild Settings", Kind: generic.KindText},
			{Key: "description", Label: "Description", Kind: generic.KindText},
			{Key: "lastUpdatedTimestamp", Label: "Last Updated", Kind: generic.KindDate},
		},
		ExtraDetail:   tierSetDetail,
		ExtraSections: clubsSummary,
	}
}

// =============================================================================
// QUALIFIER RULES
// =============================================================================

// tierSetDetail renders the parts of a tier set the declarative fields
// cannot: qualifier rules, club associations, and the tier table.
func tierSetDetail(b *strings.Builder, rec generic.EntityRecord, rc *generic.RenderContext) {
	writeQualifierRules(b, rec, rc)
	writeAssociatedClubs(b, rec, rc)
	writeTierTable(b, rec)
}

func writeQualifierRules(b *strings.Builder, rec generic.EntityRecord, rc *generic.RenderContext) {
	first := rec.Map("firstRule")
	second := rec.Map("secondRule")
	if first == nil && second == nil {
		return
	}

	b.WriteString("\n**Primary Qualifier Rules:**\n")
	if first != nil {
		b.WriteString(interpretQualifier(generic.EntityRecord(first), rc))
	}
	if second != nil {
		b.WriteString("\n**Second Rule:**\n")
		b.WriteString(interpretQualifier(generic.EntityRecord(second), rc))
	}
}

// interpretQualifier renders one qualifier rule as bullet lines. Rules
// reference the tier-rule catalog by id; descriptor id 1 means no
// transaction filtering.
func interpretQualifier(rule generic.EntityRecord, rc *generic.RenderContext) string {
	var parts []string

	if tierRule := rule.Map("tierRule"); tierRule != nil {
		if id, ok := generic.EntityRecord(tierRule).Int("id"); ok {
			parts = append(parts, "**Primary Qualifier:** "+rc.Lookups.Label(RefTierRules, id))
		}
	}

	if desc := rule.Map("transactionTypeDescriptor"); desc != nil {
		if id, ok := generic.EntityRecord(desc).Int("id"); ok {
			if id == allTransactionsDescriptorID {
				parts = append(parts, "**Transaction Type Descriptor:** Do Not Filter - All Transaction Types")
			} else {
				parts = append(parts, fmt.Sprintf("**Transaction Type Descriptor:** ID %d", id))
			}
		}
	}

	if drt := rule.String("dateRangeType"); drt != "" {
		parts = append(parts, "**Date Range:** "+generic.DateRangePhrase(drt))
	}

	if len(parts) == 0 {
		return "Rule details not available\n"
	}
	var b strings.Builder
	for _, p := range parts {
		b.WriteString("- " + p + "\n")
	}
	return b.String()
}

// =============================================================================
// CLUBS AND TIERS
// =============================================================================

func writeAssociatedClubs(b *strings.Builder, rec generic.EntityRecord, rc *generic.RenderContext) {
	clubs := rec.List("clubs")
	if len(clubs) == 0 {
		return
	}
	b.WriteString("\n**Associated Clubs:**\n")
	for _, ref := range clubs {
		if id, ok := generic.RefID(ref); ok {
			b.WriteString("- " + rc.Lookups.Label(RefClubs, id) + "\n")
		}
	}
}

// writeTierTable renders the ordered tier ladder with qualifying
// thresholds and current membership.
func writeTierTable(b *strings.Builder, rec generic.EntityRecord) {
	raw := rec.List("tiers")
	if len(raw) == 0 {
		return
	}

	tiers := make([]generic.EntityRecord, 0, len(raw))
	for _, t := range raw {
		if m, ok := t.(map[string]any); ok {
			tiers = append(tiers, generic.EntityRecord(m))
		}
	}
	sort.SliceStable(tiers, func(i, j int) bool {
		io, _ := tiers[i].Int("order")
		jo, _ := tiers[j].Int("order")
		return io < jo
	})

	b.WriteString("\n**Tiers:**\n\n")
	b.WriteString("| Order | Tier Name | 1st Min Qualifying Value | 2nd Min Qualifying Value | Current Count |\n")
	b.WriteString("|-------|-----------|--------------------------|--------------------------|---------------|\n")
	for _, tier := range tiers {
		order := "N/A"
		if o, ok := tier.Int("order"); ok {
			order = fmt.Sprintf("%d", o)
		}
		name := tier.String("name")
		if name == "" {
			name = "Unnamed"
		}
		firstMin := generic.FormatNumber(tier["firstQualifyingValue"])
		secondMin := "--"
		if tier.Has("secondQualifyingValue") {
			secondMin = generic.FormatNumber(tier["secondQualifyingValue"])
		}
		count := "N/A"
		if n, ok := generic.NumberAt(tier, "statistics", "memberCount"); ok {
			count = generic.FormatNumber(n)
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s |\n", order, name, firstMin, secondMin, count)
	}
}

// clubsSummary writes the run-wide clubs table after the tabular summary.
func clubsSummary(b *strings.Builder, rc *generic.RenderContext) {
	clubs := rc.Lookups.Table(RefClubs).All()
	if len(clubs) == 0 {
		return
	}

	b.WriteString("## Clubs Summary\n\n")
	b.WriteString("| ID | Name | Description | Status |\n")
	b.WriteString("|----|------|-------------|--------|\n")
	for _, club := range clubs {
		name := club.String("name")
		if name == "" {
			name = "Unnamed"
		}
		description := club.String("description")
		if len(description) > 50 {
			description = description[:47] + "..."
		}
		status := club.String("status")
		if status == "" {
			status = "N/A"
		}
		id := "N/A"
		if cid, ok := club.ID(); ok {
			id = fmt.Sprintf("%d", cid)
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n", id, name, description, status)
	}
	b.WriteString("\n")
}
