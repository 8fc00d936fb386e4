/*
format.go - Type-aware value formatting for report rendering

PURPOSE:
  One place for every value-to-text rule the reports use: ISO timestamps
  to long-form dates, comma-grouped integers, fixed-point currency,
  booleans as Yes/No. Formatting never fails; unparseable input renders
  verbatim so a schema surprise costs polish, not the report.

PRECISION:
  Currency goes through decimal.Decimal. Loyalty configuration carries
  money fields (cash values, spend thresholds) where float rounding in
  the output would be visible and wrong.
*/
package generic

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// FieldKind selects the formatting rule for a detail field.
type FieldKind int

const (
	KindText FieldKind = iota
	KindDate
	KindNumber
	KindCurrency
	KindBool
	KindPercent
	KindTitle // lower-camel or lowercase API enums rendered title-case
)

// timestampLayouts are tried in order when parsing API timestamps. The
// API is inconsistent about zone suffixes and time parts.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// FormatDate renders an ISO timestamp long-form: "January 02, 2006 at
// 15:04 UTC". Empty input reads "Not specified" (explicitly checked,
// found absent); unparseable input renders verbatim.
func FormatDate(s string) string {
	if s == "" {
		return "Not specified"
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format("January 02, 2006 at 15:04 UTC")
		}
	}
	return s
}

// FormatDay renders just the calendar day of an ISO timestamp: "January
// 02, 2006". Used where the time part is noise (activity periods).
func FormatDay(s string) string {
	if s == "" {
		return "Not specified"
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format("January 02, 2006")
		}
	}
	return s
}

// ShortDate truncates an ISO timestamp to its date part for summary table
// cells. Empty input reads "Unknown".
func ShortDate(s string) string {
	if s == "" {
		return "Unknown"
	}
	if i := strings.IndexByte(s, 'T'); i > 0 {
		return s[:i]
	}
	return s
}

// FormatDateRange renders a {start, end} mapping as a human period.
func FormatDateRange(dr map[string]any) string {
	if dr == nil {
		return "Not specified"
	}
	start := EntityRecord(dr).String("start")
	end := EntityRecord(dr).String("end")
	switch {
	case start != "" && end != "":
		return FormatDay(start) + " - " + FormatDay(end)
	case start != "":
		return "From " + FormatDay(start)
	case end != "":
		return "Until " + FormatDay(end)
	default:
		return "Not specified"
	}
}

// FormatNumber renders a numeric value as a comma-grouped integer. Nil
// reads "0"; non-numeric values render verbatim.
func FormatNumber(v any) string {
	switch n := v.(type) {
	case nil:
		return "0"
	case float64:
		return groupDigits(decimal.NewFromFloat(n).Round(0).String())
	case int:
		return groupDigits(decimal.NewFromInt(int64(n)).String())
	case int64:
		return groupDigits(decimal.NewFromInt(n).String())
	default:
		return fmt.Sprintf("%v", v)
	}
}

// FormatCurrency renders a monetary value as "$1,234.50 USD". Nil reads
// "N/A"; non-numeric values render verbatim.
func FormatCurrency(v any, currency string) string {
	if currency == "" {
		currency = "USD"
	}
	var d decimal.Decimal
	switch n := v.(type) {
	case nil:
		return "N/A"
	case float64:
		d = decimal.NewFromFloat(n)
	case int:
		d = decimal.NewFromInt(int64(n))
	case int64:
		d = decimal.NewFromInt(n)
	case string:
		parsed, err := decimal.NewFromString(n)
		if err != nil {
			return n
		}
		d = parsed
	default:
		return fmt.Sprintf("%v", v)
	}

	fixed := d.StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")
	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s$%s.%s %s", sign, groupDigits(intPart), fracPart, currency)
}

// FormatBool renders a boolean as Yes/No.
func FormatBool(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// FormatValue dispatches on the field kind. The value is whatever the API
// supplied; mismatched kinds degrade to verbatim rendering.
func FormatValue(kind FieldKind, v any) string {
	switch kind {
	case KindDate:
		if s, ok := v.(string); ok {
			return FormatDate(s)
		}
	case KindNumber:
		return FormatNumber(v)
	case KindCurrency:
		return FormatCurrency(v, "")
	case KindBool:
		if b, ok := v.(bool); ok {
			return FormatBool(b)
		}
	case KindPercent:
		return FormatNumber(v) + "%"
	case KindTitle:
		if s, ok := v.(string); ok {
			return TitleWords(s)
		}
	}
	return fmt.Sprintf("%v", v)
}

// groupDigits inserts thousands separators into a plain digit run.
func groupDigits(s string) string {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// PrettifyKey turns an API field key into a display label: camelCase and
// snake_case both become spaced Title Case ("memberCount" -> "Member
// Count", "last_built" -> "Last Built").
func PrettifyKey(key string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range key {
		switch {
		case r == '_' || r == '-':
			b.WriteByte(' ')
			prevLower = false
		case unicode.IsUpper(r) && prevLower:
			b.WriteByte(' ')
			b.WriteRune(r)
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}
	return TitleWords(b.String())
}

// TitleWords upper-cases the first letter of every space-separated word.
func TitleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
