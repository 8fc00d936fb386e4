/*
columns.go - Reusable summary-table column constructors

The seven entity reporters share most of their table columns (id, name,
status, counts, dates). Adapters compose these constructors and add the
handful of genuinely entity-specific cells inline.
*/
package generic

import (
	"fmt"
)

// ColID renders the entity id.
func ColID() Column {
	return Column{Header: "ID", Value: func(rec EntityRecord, _ *RenderContext) string {
		return entityIDString(rec)
	}}
}

// ColName renders the entity name.
func ColName() Column {
	return Column{Header: "Name", Value: func(rec EntityRecord, _ *RenderContext) string {
		if name := rec.String("name"); name != "" {
			return name
		}
		return "Unnamed"
	}}
}

// ColText renders a string field verbatim, with a default for absence.
func ColText(header, key, fallback string) Column {
	return Column{Header: header, Value: func(rec EntityRecord, _ *RenderContext) string {
		if v := rec.String(key); v != "" {
			return v
		}
		return fallback
	}}
}

// ColShortDate renders the date part of a timestamp field.
func ColShortDate(header, key string) Column {
	return Column{Header: header, Value: func(rec EntityRecord, _ *RenderContext) string {
		return ShortDate(rec.String(key))
	}}
}

// ColLongDate renders a timestamp field long-form, "N/A" when absent.
func ColLongDate(header, key string) Column {
	return Column{Header: header, Value: func(rec EntityRecord, _ *RenderContext) string {
		if v := rec.String(key); v != "" {
			return FormatDate(v)
		}
		return "N/A"
	}}
}

// ColNumberAt renders a (possibly nested) numeric field comma-grouped,
// "N/A" when absent.
func ColNumberAt(header string, path ...string) Column {
	return Column{Header: header, Value: func(rec EntityRecord, _ *RenderContext) string {
		if n, ok := NumberAt(rec, path...); ok {
			return FormatNumber(n)
		}
		return "N/A"
	}}
}

// ColRuleCount renders how many rule instances the entity carries.
func ColRuleCount(header, rulesKey string) Column {
	return Column{Header: header, Value: func(rec EntityRecord, _ *RenderContext) string {
		return fmt.Sprintf("%d", len(ParseRules(rec, rulesKey)))
	}}
}

// ColListCount renders the length of a list field.
func ColListCount(header, key string) Column {
	return Column{Header: header, Value: func(rec EntityRecord, _ *RenderContext) string {
		return fmt.Sprintf("%d", len(rec.List(key)))
	}}
}
