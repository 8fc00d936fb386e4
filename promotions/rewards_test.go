package promotions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warp/loyalty-reporter/generic"
)

func TestRewardPhrases(t *testing.T) {
	assert.Equal(t, "Free Play Reward", RewardTypePhrase("freePlay"))
	assert.Equal(t, "Unknown", RewardTypePhrase(""))
	assert.Equal(t, "voucher", RewardTypePhrase("voucher"), "unknown codes pass through")

	assert.Equal(t, "Pending Approval", RewardStatusPhrase("pending"))
	assert.Equal(t, "Unknown", RewardStatusPhrase(""))
}

func TestRewardStats(t *testing.T) {
	lines := rewardStats([]generic.EntityRecord{
		{"status": "active", "totalInventory": float64(1000), "remainingInventory": float64(400)},
		{"status": "ACTIVE", "totalInventory": float64(500)},
		{"status": "expired"},
	})

	assert.Contains(t, lines, "**Active Rewards:** 2")
	assert.Contains(t, lines, "**Total Inventory:** 1,500")
	assert.Contains(t, lines, "**Remaining Inventory:** 400")
}

func TestWritePointsFormula(t *testing.T) {
	var b strings.Builder
	writePointsFormula(&b, generic.EntityRecord{
		"currencyToPointsFormula": map[string]any{
			"points":       float64(10),
			"perValue":     float64(2),
			"roundingType": "roundDown",
		},
	})
	assert.Equal(t, "**Points Formula:** 10 points per 2 currency unit (Rounding: roundDown)\n", b.String())

	b.Reset()
	writePointsFormula(&b, generic.EntityRecord{
		"currencyToPointsFormula": map[string]any{"points": float64(5)},
	})
	assert.Equal(t, "**Points Formula:** 5 points per 1 currency unit (Rounding: N/A)\n", b.String())

	b.Reset()
	writePointsFormula(&b, generic.EntityRecord{})
	assert.Empty(t, b.String())
}

func TestWriteRewardClubs_ThreeFieldNames(t *testing.T) {
	var b strings.Builder
	rec := generic.EntityRecord{
		"clubs":           []any{float64(1)},
		"eligibleClubs":   []any{map[string]any{"id": float64(2)}},
		"restrictedClubs": []any{float64(3)},
	}

	writeRewardClubs(&b, rec, testRenderContext())
	out := b.String()

	assert.Contains(t, out, "- Gold Club (ID: 1)")
	assert.Contains(t, out, "- Club 2", "unresolvable ids fall back to labeled ids")
	assert.Contains(t, out, "- Club 3")
}

func TestWriteTemplateReferences_IDsOnly(t *testing.T) {
	var b strings.Builder
	rec := generic.EntityRecord{
		"rewardPrintTemplate": map[string]any{
			"id":   float64(12),
			"body": "<html>enormous embedded template body</html>",
		},
		"notifyEmailTemplate": map[string]any{"id": float64(34)},
	}

	writeTemplateReferences(&b, rec)
	out := b.String()

	assert.Contains(t, out, "- Print Template: 12")
	assert.Contains(t, out, "- Notification Email Template: 34")
	assert.NotContains(t, out, "enormous embedded template body")
}

func TestWriteTranslations(t *testing.T) {
	var b strings.Builder
	rec := generic.EntityRecord{"translations": []any{
		map[string]any{
			"language":    map[string]any{"name": "French"},
			"name":        "Carte cadeau",
			"description": "Une carte cadeau",
		},
		map[string]any{},
	}}

	writeTranslations(&b, rec)
	out := b.String()

	assert.Contains(t, out, "- **French:** Carte cadeau - Une carte cadeau")
	assert.Contains(t, out, "- **Unknown:** N/A - N/A")
}

func TestRewardDetail_ExpiryAndNotifications(t *testing.T) {
	var b strings.Builder
	rec := generic.EntityRecord{
		"id":                              float64(1),
		"type":                            "points",
		"status":                          "active",
		"expireType":                      "daysFromIssued",
		"expireDaysFromIssued":            float64(90),
		"sendPendingViaEmailAtEndOfDay":   true,
		"sendPendingNotificationRealTime": false,
		"attachPrintTemplateInPdfFormat":  true,
	}

	rewardDetail(&b, rec, testRenderContext())
	out := b.String()

	assert.Contains(t, out, "**Type:** Points Reward")
	assert.Contains(t, out, "**Expiry Type:** DaysFromIssued")
	assert.Contains(t, out, "**Expires After:** 90 days from issue")
	assert.Contains(t, out, "**Notification Settings:** Email at end of day: Yes, Real-time notifications: No")
	assert.Contains(t, out, "**Attach Print Template as PDF:** Yes")
}
