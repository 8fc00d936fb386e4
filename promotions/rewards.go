/*
rewards.go - Reward catalog adapter

The reward catalog is the redemption side of the program: what points buy.
Records are dense with operational settings (expiry, limits, POS
eligibility, notification toggles) and carry club references under three
different field names. Embedded print/email/text template bodies are
reduced to template-id references so report size stays proportional to
configuration, not content.
*/
package promotions

import (
	"fmt"
	"strings"

	"github.com/warp/loyalty-reporter/generic"
)

// Rewards returns the adapter for reward catalog reporting.
func Rewards() generic.Adapter {
	return generic.Adapter{
		Key:          "rewards",
		Title:        "Rewards",
		Singular:     "Reward",
		ListEndpoint: "rewards",
		Paginated:    true,
		PerPage:      50,
		DetailEndpoint: func(rec generic.EntityRecord) string {
			id, _ := rec.ID()
			return fmt.Sprintf("rewards/%d", id)
		},
		References: []generic.ReferenceSpec{
			{Key: RefClubs, Singular: "Club", Endpoint: "clubs"},
		},
		StatusKey:  "status",
		TypeKey:    "type",
		ExtraStats: rewardStats,
		Columns: []generic.Column{
			generic.ColID(),
			generic.ColName(),
			{Header: "Type", Value: func(rec generic.EntityRecord, _ *generic.RenderContext) string {
				return RewardTypePhrase(rec.String("type"))
			}},
			{Header: "Status", Value: func(rec generic.EntityRecord, _ *generic.RenderContext) string {
				return RewardStatusPhrase(rec.String("status"))
			}},
			generic.ColNumberAt("Points Cost", "pointsCost"),
			{Header: "Cash Value", Value: func(rec generic.EntityRecord, _ *generic.RenderContext) string {
				return generic.FormatCurrency(rec["cashValue"], "")
			}},
			generic.ColShortDate("Available From", "availableFrom"),
			generic.ColShortDate("Available Until", "availableUntil"),
		},
		ExtraDetail: rewardDetail,
	}
}

// =============================================================================
// PHRASES
// =============================================================================

var rewardTypePhrases = map[string]string{
	"points":      "Points Reward",
	"cash":        "Cash Reward",
	"merchandise": "Merchandise Reward",
	"experience":  "Experience Reward",
	"discount":    "Discount Reward",
	"freeplay":    "Free Play Reward",
	"comp":        "Complimentary Reward",
}

// RewardTypePhrase names a reward type, passing unknown codes through
// verbatim.
func RewardTypePhrase(rewardType string) string {
	if rewardType == "" {
		return "Unknown"
	}
	if phrase, ok := rewardTypePhrases[strings.ToLower(rewardType)]; ok {
		return phrase
	}
	return rewardType
}

var rewardStatusPhrases = map[string]string{
	"active":   "Active",
	"inactive": "Inactive",
	"expired":  "Expired",
	"pending":  "Pending Approval",
	"draft":    "Draft",
}

// RewardStatusPhrase names a reward status, passing unknown codes through
// verbatim.
func RewardStatusPhrase(status string) string {
	if status == "" {
		return "Unknown"
	}
	if phrase, ok := rewardStatusPhrases[strings.ToLower(status)]; ok {
		return phrase
	}
	return status
}

// =============================================================================
// STATISTICS
// =============================================================================

func rewardStats(entities []generic.EntityRecord) []string {
	active := 0
	totalInventory := 0.0
	remainingInventory := 0.0
	types := make(map[string]int)
	for _, rec := range entities {
		if strings.EqualFold(rec.String("status"), "active") {
			active++
		}
		if n, ok := generic.NumberAt(rec, "totalInventory"); ok {
			totalInventory += n
		}
		if n, ok := generic.NumberAt(rec, "remainingInventory"); ok {
			remainingInventory += n
		}
		rewardType := rec.String("type")
		if rewardType == "" {
			rewardType = "Unknown"
		}
		types[rewardType]++
	}

	lines := []string{
		fmt.Sprintf("**Active Rewards:** %d", active),
		fmt.Sprintf("**Total Inventory:** %s", generic.FormatNumber(totalInventory)),
		fmt.Sprintf("**Remaining Inventory:** %s", generic.FormatNumber(remainingInventory)),
	}
	return lines
}

// =============================================================================
// DETAIL SECTION
// =============================================================================

func rewardDetail(b *strings.Builder, rec generic.EntityRecord, rc *generic.RenderContext) {
	fmt.Fprintf(b, "**Type:** %s\n", RewardTypePhrase(rec.String("type")))
	fmt.Fprintf(b, "**Status:** %s\n", RewardStatusPhrase(rec.String("status")))
	if ref := rec.String("externalReference"); ref != "" {
		fmt.Fprintf(b, "**External Reference:** %s\n", ref)
	}
	if desc := rec.String("description"); desc != "" {
		fmt.Fprintf(b, "**Description:** %s\n", desc)
	}

	if v, ok := rec["minimumCurrencyAmount"]; ok && v != nil {
		fmt.Fprintf(b, "**Minimum Currency Amount:** %s\n", generic.FormatCurrency(v, ""))
	}
	if v, ok := rec["maximumCurrencyAmount"]; ok && v != nil {
		fmt.Fprintf(b, "**Maximum Currency Amount:** %s\n", generic.FormatCurrency(v, ""))
	}

	writePointsFormula(b, rec)

	if deduct, ok := rec.Bool("deductPoints"); ok {
		fmt.Fprintf(b, "**Deduct Points:** %s\n", generic.FormatBool(deduct))
	}

	if expireType := rec.String("expireType"); expireType != "" {
		fmt.Fprintf(b, "**Expiry Type:** %s\n", generic.TitleWords(expireType))
		if days, ok := rec.Int("expireDaysFromIssued"); ok && expireType != "never" && days != 0 {
			fmt.Fprintf(b, "**Expires After:** %d days from issue\n", days)
		}
	}

	if v, ok := rec["issueLimit"]; ok && v != nil {
		fmt.Fprintf(b, "**Issue Limit:** %s\n", generic.FormatNumber(v))
	}
	if v, ok := rec["memberIssueLimit"]; ok && v != nil {
		fmt.Fprintf(b, "**Member Issue Limit:** %s\n", generic.FormatNumber(v))
	}
	if reached, ok := rec.Bool("totalLimitReached"); ok {
		fmt.Fprintf(b, "**Total Limit Reached:** %s\n", generic.FormatBool(reached))
	}

	if pos := rec.String("posEligibility"); pos != "" {
		fmt.Fprintf(b, "**POS Eligibility:** %s\n", generic.PrettifyKey(pos))
	}
	if transfer, ok := rec.Bool("requireTransferTarget"); ok {
		fmt.Fprintf(b, "**Requires Transfer Target:** %s\n", generic.FormatBool(transfer))
	}
	if barcode := rec.String("barCodeType"); barcode != "" {
		fmt.Fprintf(b, "**Barcode Type:** %s\n", barcode)
	}

	writeNotificationSettings(b, rec)
	writeRewardClubs(b, rec, rc)
	writeCrossRefIDs(b, "Promotional Member Groups", "audience groups report", "Group", rec.List("promotionalMemberGroups"))
	writeCrossRefIDs(b, "Associated Tiers", "tiers report", "Tier", rec.List("tiers"))
	writeTranslations(b, rec)
	writeTemplateReferences(b, rec)

	if attach, ok := rec.Bool("attachPrintTemplateInPdfFormat"); ok {
		fmt.Fprintf(b, "**Attach Print Template as PDF:** %s\n", generic.FormatBool(attach))
	}
}

func writePointsFormula(b *strings.Builder, rec generic.EntityRecord) {
	formula := rec.Map("currencyToPointsFormula")
	if formula == nil {
		return
	}
	fr := generic.EntityRecord(formula)
	points, _ := fr.Int("points")
	perValue, ok := fr.Int("perValue")
	if !ok {
		perValue = 1
	}
	rounding := fr.String("roundingType")
	if rounding == "" {
		rounding = "N/A"
	}
	fmt.Fprintf(b, "**Points Formula:** %d points per %d currency unit (Rounding: %s)\n", points, perValue, rounding)
}

func writeNotificationSettings(b *strings.Builder, rec generic.EntityRecord) {
	var settings []string
	if v, ok := rec.Bool("sendPendingViaEmailAtEndOfDay"); ok {
		settings = append(settings, "Email at end of day: "+generic.FormatBool(v))
	}
	if v, ok := rec.Bool("sendPendingNotificationRealTime"); ok {
		settings = append(settings, "Real-time notifications: "+generic.FormatBool(v))
	}
	if len(settings) > 0 {
		fmt.Fprintf(b, "**Notification Settings:** %s\n", strings.Join(settings, ", "))
	}
}

// rewardClubFields are the three field names club references hide under.
var rewardClubFields = []string{"clubs", "eligibleClubs", "restrictedClubs"}

func writeRewardClubs(b *strings.Builder, rec generic.EntityRecord, rc *generic.RenderContext) {
	table := rc.Lookups.Table(RefClubs)
	var labels []string
	for _, field := range rewardClubFields {
		for _, ref := range rec.List(field) {
			if id, ok := generic.RefID(ref); ok {
				labels = append(labels, table.Label(id))
			}
		}
	}
	if len(labels) == 0 {
		return
	}
	b.WriteString("\n**Associated Clubs:**\n")
	for _, label := range labels {
		b.WriteString("- " + label + "\n")
	}
}

func writeTranslations(b *strings.Builder, rec generic.EntityRecord) {
	translations := rec.List("translations")
	if len(translations) == 0 {
		return
	}
	b.WriteString("\n**Translations:**\n")
	for _, t := range translations {
		m, ok := t.(map[string]any)
		if !ok {
			continue
		}
		tr := generic.EntityRecord(m)
		language := "Unknown"
		if lang := tr.Map("language"); lang != nil {
			if name := generic.EntityRecord(lang).String("name"); name != "" {
				language = name
			}
		}
		name := tr.String("name")
		if name == "" {
			name = "N/A"
		}
		description := tr.String("description")
		if description == "" {
			description = "N/A"
		}
		fmt.Fprintf(b, "- **%s:** %s - %s\n", language, name, description)
	}
}

// templateReferenceFields map record keys to display labels. Only the
// template ids render; embedded bodies are deliberately dropped.
var templateReferenceFields = []struct {
	key   string
	label string
}{
	{"rewardPrintTemplate", "Print Template"},
	{"deviceRewardPrintTemplate", "Device Print Template"},
	{"notifyEmailTemplate", "Notification Email Template"},
	{"certificateEmailTemplate", "Certificate Email Template"},
	{"notifyTextTemplate", "Notification Text Template"},
	{"certificateTextTemplate", "Certificate Text Template"},
}

func writeTemplateReferences(b *strings.Builder, rec generic.EntityRecord) {
	var lines []string
	for _, field := range templateReferenceFields {
		tmpl := rec.Map(field.key)
		if tmpl == nil {
			continue
		}
		if id, ok := generic.EntityRecord(tmpl).Int("id"); ok {
			lines = append(lines, fmt.Sprintf("- %s: %d", field.label, id))
		}
	}
	if len(lines) == 0 {
		return
	}
	b.WriteString("\n**Template References:**\n")
	for _, line := range lines {
		b.WriteString(line + "\n")
	}
}
