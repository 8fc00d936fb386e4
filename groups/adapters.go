/*
Package groups provides the entity adapters for the loyalty system's
rule-based member and catalog groupings.

PURPOSE:
  Four entity types share one rule model: reward groups, audience groups
  (promotional member groups), product groups, and location groups. Each
  is a collection of rule-defined membership criteria validated against
  the shared rule-definition schema at groups/ruleDefinitions. The
  adapters here differ only in endpoints, pagination, and column layout;
  the engine does the rest.

ENTITY NOTES:
  Reward groups:   paginated listing, rich statistics, optional parent
                   group, rebuild frequency
  Audience groups: unpaginated, rules arrive wrapped as {ruleMatch, rules}
  Product groups:  unpaginated, listing carries statistics=true
  Location groups: unpaginated, same shape as product groups

SEE ALSO:
  - generic/adapter.go: The configuration surface being filled in
  - tiers/, promotions/: The other entity domains
*/
package groups

import (
	"fmt"
	"strings"

	"github.com/warp/loyalty-reporter/generic"
)

// RuleDefinitionEndpoint is the shared rule schema collection for all
// group types.
const RuleDefinitionEndpoint = "groups/ruleDefinitions"

// =============================================================================
// REWARD GROUPS
// =============================================================================

// RewardGroups returns the adapter for reward group reporting.
func RewardGroups() generic.Adapter {
	return generic.Adapter{
		Key:          "reward-groups",
		Title:        "Reward Groups",
		Singular:     "Reward Group",
		ListEndpoint: "groups/reward",
		Paginated:    true,
		DetailEndpoint: func(rec generic.EntityRecord) string {
			id, _ := rec.ID()
			return fmt.Sprintf("groups/reward/%d", id)
		},
		RuleEndpoint: RuleDefinitionEndpoint,
		RulesKey:     "rules",
		LogicKey:     "logic",
		StatusKey:    "status",
		TypeKey:      "rebuildFrequency",
		Totals: []generic.Total{
			{Label: "Total Members Across All Groups", Path: []string{"statistics", "memberCount"}},
		},
		Columns: []generic.Column{
			generic.ColID(),
			generic.ColName(),
			generic.ColText("Status", "status", "Unknown"),
			generic.ColText("Rebuild Frequency", "rebuildFrequency", "Unknown"),
			generic.ColNumberAt("Member Count", "statistics", "memberCount"),
			generic.ColRuleCount("Rules Count", "rules"),
			generic.ColLongDate("Last Updated", "lastUpdated"),
		},
		DetailFields: []generic.Field{
			{Key: "status", Label: "Status", Kind: generic.KindText},
			{Key: "rebuildFrequency", Label: "Rebuild Frequency", Kind: generic.KindText},
			{Key: "description", Label: "Description", Kind: generic.KindText},
			{Key: "createdAt", Label: "Created", Kind: generic.KindDate},
			{Key: "lastUpdated", Label: "Last Updated", Kind: generic.KindDate},
			{Key: "lastRebuilt", Label: "Last Rebuilt", Kind: generic.KindDate},
			{Key: "isValid", Label: "Is Valid", Kind: generic.KindBool},
			{Key: "isActive", Label: "Is Active", Kind: generic.KindBool},
			{Key: "allowDuplicates", Label: "Allow Duplicates", Kind: generic.KindBool},
			{Key: "maxMembers", Label: "Max Members", Kind: generic.KindNumber},
		},
		ExtraDetail: parentGroupDetail,
	}
}

// parentGroupDetail renders the optional parent-group reference.
func parentGroupDetail(b *strings.Builder, rec generic.EntityRecord, _ *generic.RenderContext) {
	parent := rec.Map("parentGroup")
	if parent == nil {
		return
	}
	b.WriteString("\n**Parent Group:**\n")
	if id, ok := generic.EntityRecord(parent).Int("id"); ok {
		fmt.Fprintf(b, "- ID: %d\n", id)
	}
	if name := generic.EntityRecord(parent).String("name"); name != "" {
		fmt.Fprintf(b, "- Name: %s\n", name)
	}
}

// =============================================================================
// AUDIENCE / PRODUCT / LOCATION GROUPS
// =============================================================================

// AudienceGroups returns the adapter for promotional member group
// reporting.
func AudienceGroups() generic.Adapter {
	a := memberGroupAdapter("audience-groups", "Audience Groups", "Audience Group", "groups/promotionalMember")
	return a
}

// ProductGroups returns the adapter for product group reporting.
func ProductGroups() generic.Adapter {
	return memberGroupAdapter("product-groups", "Product Groups", "Product Group", "groups/product?statistics=true")
}

// LocationGroups returns the adapter for location group reporting.
func LocationGroups() generic.Adapter {
	return memberGroupAdapter("location-groups", "Location Groups", "Location Group", "groups/location?statistics=true")
}

// memberGroupAdapter builds the shared configuration for the unpaginated
// group types. They differ from reward groups in their listing endpoints
// and their ruleMatch combinator field, nothing else structural.
func memberGroupAdapter(key, title, singular, endpoint string) generic.Adapter {
	detailEndpoint := strings.SplitN(endpoint, "?", 2)[0]
	return generic.Adapter{
		Key:          key,
		Title:        title,
		Singular:     singular,
		ListEndpoint: endpoint,
		DetailEndpoint: func(rec generic.EntityRecord) string {
			id, _ := rec.ID()
			return fmt.Sprintf("%s/%d", detailEndpoint, id)
		},
		RuleEndpoint: RuleDefinitionEndpoint,
		RulesKey:     "rules",
		LogicKey:     "ruleMatch",
		StatusKey:    "status",
		TypeKey:      "rebuildFrequency",
		Totals: []generic.Total{
			{Label: "Total Members Across All Groups", Path: []string{"statistics", "memberCount"}},
		},
		Columns: []generic.Column{
			generic.ColID(),
			generic.ColName(),
			generic.ColText("Status", "status", "Unknown"),
			generic.ColText("Rebuild", "rebuildFrequency", "Unknown"),
			generic.ColText("Logic", "ruleMatch", "N/A"),
			generic.ColRuleCount("Rules", "rules"),
			generic.ColNumberAt("Members", "statistics", "memberCount"),
			generic.ColShortDate("Last Built", "lastBuiltTimestamp"),
		},
		DetailFields: []generic.Field{
			{Key: "status", Label: "Status", Kind: generic.KindText},
			{Key: "rebuildFrequency", Label: "Rebuild Frequency", Kind: generic.KindText},
			{Key: "description", Label: "Description", Kind: generic.KindText},
			{Key: "lastBuiltTimestamp", Label: "Last Built", Kind: generic.KindDate},
		},
	}
}
