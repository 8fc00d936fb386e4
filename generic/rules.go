/*
rules.go - Rule interpretation

PURPOSE:
  Converts the API's dynamic rule/condition object graph into natural
  language. A rule instance references a rule definition (the schema: name
  plus ordered components) and carries condition values (component id,
  operator, up to two values, optionally a precomputed label).

  The engine explains rules, it does not execute them: combinators like
  ruleMatch any/all are rendered as text for a human reader, never
  evaluated against member data.

RENDERING CONTRACT:
  - Unresolvable rule definition: an explicit "not found" string. Never a
    panic, never an aborted report.
  - Unresolvable component: that condition is skipped, its siblings still
    render.
  - Unknown operator code: passes through verbatim. New operator codes
    appear upstream before this table learns them.
  - Value precedence: selectedText > value1+value2 range > value1 alone >
    "(no value specified)". Date-range components get dedicated phrasing.

WHY A STATIC PHRASE TABLE:
  Operators are a small closed-ish enum. A map plus verbatim passthrough
  is the whole forward-compatibility story; anything cleverer would need
  upstream schema knowledge the API does not publish.
*/
package generic

import (
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// RULE SCHEMA TYPES
// =============================================================================

// ComponentDefinition is one configurable field within a rule definition,
// e.g. "Spend Amount" (numeric) or "Enrollment Date" (dateRange).
type ComponentDefinition struct {
	ID   int64
	Name string
	Type string // dropdown, dateRange, numeric, text, ...
}

// RuleDefinition is the schema for one kind of rule: a display name and an
// ordered set of components.
type RuleDefinition struct {
	ID         int64
	Name       string
	Components []ComponentDefinition
}

// Component finds a component by id within the definition.
func (d RuleDefinition) Component(id int64) (ComponentDefinition, bool) {
	for _, c := range d.Components {
		if c.ID == id {
			return c, true
		}
	}
	return ComponentDefinition{}, false
}

// RuleSet is the immutable rule-definition lookup table for one report
// run, fetched once from the rule-definition endpoint.
type RuleSet struct {
	byID map[int64]RuleDefinition
}

// NewRuleSet decodes rule-definition records into a lookup table. Records
// without an id are ignored; malformed components are skipped.
func NewRuleSet(records []EntityRecord) *RuleSet {
	byID := make(map[int64]RuleDefinition, len(records))
	for _, rec := range records {
		id, ok := rec.ID()
		if !ok {
			continue
		}
		def := RuleDefinition{ID: id, Name: rec.String("name")}
		if def.Name == "" {
			def.Name = fmt.Sprintf("Rule %d", id)
		}
		for _, c := range rec.List("components") {
			comp, ok := c.(map[string]any)
			if !ok {
				continue
			}
			compID, ok := EntityRecord(comp).Int("id")
			if !ok {
				continue
			}
			def.Components = append(def.Components, ComponentDefinition{
				ID:   compID,
				Name: EntityRecord(comp).String("name"),
				Type: EntityRecord(comp).String("type"),
			})
		}
		byID[id] = def
	}
	return &RuleSet{byID: byID}
}

// Find resolves a rule definition by id. Nil-safe.
func (s *RuleSet) Find(id int64) (RuleDefinition, bool) {
	if s == nil {
		return RuleDefinition{}, false
	}
	def, ok := s.byID[id]
	return def, ok
}

// Len returns the number of definitions loaded.
func (s *RuleSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.byID)
}

// =============================================================================
// RULE INSTANCE TYPES
// =============================================================================

// ConditionValue is one configured condition inside a rule instance.
type ConditionValue struct {
	ComponentID   int64
	ComponentType string // copied from the instance's embedded component ref
	Operator      string
	Value1        string
	Value2        string
	SelectedText  string // authoritative precomputed label, when present
}

// RuleInstance is a rule as attached to an entity: a definition reference
// plus the ordered condition values.
type RuleInstance struct {
	DefinitionID int64
	Values       []ConditionValue
}

// ParseRuleInstance decodes a raw rule object from an entity record. The
// shape is {ruleDefinition: {id}, values: [{component: {id, type},
// operator, value1, value2, selectedText}]}.
func ParseRuleInstance(v any) (RuleInstance, bool) {
	raw, ok := v.(map[string]any)
	if !ok {
		return RuleInstance{}, false
	}
	rec := EntityRecord(raw)

	var inst RuleInstance
	if def := rec.Map("ruleDefinition"); def != nil {
		inst.DefinitionID, _ = EntityRecord(def).Int("id")
	}
	for _, rv := range rec.List("values") {
		value, ok := rv.(map[string]any)
		if !ok {
			continue
		}
		vr := EntityRecord(value)
		cv := ConditionValue{
			Operator:     vr.String("operator"),
			Value1:       scalarString(vr["value1"]),
			Value2:       scalarString(vr["value2"]),
			SelectedText: vr.String("selectedText"),
		}
		if comp := vr.Map("component"); comp != nil {
			cv.ComponentID, _ = EntityRecord(comp).Int("id")
			cv.ComponentType = EntityRecord(comp).String("type")
		}
		inst.Values = append(inst.Values, cv)
	}
	return inst, true
}

// ParseRules decodes every rule instance under the entity's rules field.
// Handles both shapes the API uses: a bare list of rules, and a wrapper
// object {ruleMatch, rules: [...]}.
func ParseRules(rec EntityRecord, rulesKey string) []RuleInstance {
	raw := rec[rulesKey]
	if wrapper, ok := raw.(map[string]any); ok {
		raw = wrapper["rules"]
	}
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	rules := make([]RuleInstance, 0, len(list))
	for _, item := range list {
		if inst, ok := ParseRuleInstance(item); ok {
			rules = append(rules, inst)
		}
	}
	return rules
}

// RuleLogic extracts the any/all combinator flag for an entity's rules,
// looking at both the entity field and the wrapper-object shape. Defaults
// to "all".
func RuleLogic(rec EntityRecord, rulesKey, logicKey string) string {
	if wrapper := rec.Map(rulesKey); wrapper != nil {
		if match := EntityRecord(wrapper).String("ruleMatch"); match != "" {
			return match
		}
	}
	if logic := rec.String(logicKey); logic != "" {
		return logic
	}
	return "all"
}

// scalarString renders value1/value2 payloads, which arrive as strings or
// numbers. Numbers keep their natural formatting (no trailing zeros).
func scalarString(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case bool:
		if n {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", n)
	}
}

// =============================================================================
// OPERATOR AND DATE-RANGE PHRASES
// =============================================================================

// operatorPhrases maps the API's symbolic operator codes to human phrases.
// Unknown codes pass through verbatim.
var operatorPhrases = map[string]string{
	"isEqual":                "equals",
	"isNotEqual":             "does not equal",
	"isGreaterThan":          "is greater than",
	"isLessThan":             "is less than",
	"isGreaterThanOrEqualTo": "is greater than or equal to",
	"isLessThanOrEqualTo":    "is less than or equal to",
	"isBetween":              "is between",
	"isNotBetween":           "is not between",
	"contains":               "contains",
	"doesNotContain":         "does not contain",
	"startsWith":             "starts with",
	"endsWith":               "ends with",
	"isOneOf":                "is one of",
	"isNotOneOf":             "is not one of",
	"isEmpty":                "has no value",
	"isNotEmpty":             "has any value",
}

// OperatorPhrase converts an operator code to its human phrase, passing
// unknown codes through verbatim for forward compatibility.
func OperatorPhrase(op string) string {
	if phrase, ok := operatorPhrases[op]; ok {
		return phrase
	}
	return op
}

// dateRangePhrases names the API's relative date-range operator codes.
var dateRangePhrases = map[string]string{
	"previous365Days": "Previous 365 Days",
	"currentYear":     "Current Year",
	"previousYear":    "Previous Year",
	"currentMonth":    "Current Month",
	"previousMonth":   "Previous Month",
	"currentWeek":     "Current Week",
	"previousWeek":    "Previous Week",
	"customDates":     "Custom Date Range",
	"entireProgram":   "Entire Program Period",
}

// DateRangePhrase names a relative date-range code, passing unknown codes
// through verbatim.
func DateRangePhrase(code string) string {
	if phrase, ok := dateRangePhrases[code]; ok {
		return phrase
	}
	return code
}

// =============================================================================
// INTERPRETATION
// =============================================================================

// Interpret renders one rule instance as natural language against this
// rule set. Pure: same inputs always produce the same string.
func (s *RuleSet) Interpret(rule RuleInstance) string {
	if rule.DefinitionID == 0 {
		return "Rule definition not found"
	}
	def, ok := s.Find(rule.DefinitionID)
	if !ok {
		return fmt.Sprintf("Rule definition %d not found", rule.DefinitionID)
	}

	var parts []string
	for _, cv := range rule.Values {
		comp, ok := def.Component(cv.ComponentID)
		if !ok {
			continue // unknown component: skip, keep siblings
		}
		if text := renderCondition(comp, cv); text != "" {
			parts = append(parts, text)
		}
	}

	if len(parts) == 0 {
		return def.Name + " (no interpretable values)"
	}
	return def.Name + ": " + strings.Join(parts, " AND ")
}

// renderCondition renders one condition value against its component
// definition.
func renderCondition(comp ComponentDefinition, cv ConditionValue) string {
	// A precomputed label already carries the full human meaning; the
	// component context is redundant next to it.
	if cv.SelectedText != "" {
		return cv.SelectedText
	}

	if comp.Type == "dateRange" || cv.ComponentType == "dateRange" {
		return renderDateRangeCondition(cv)
	}

	label := comp.Name
	if label == "" {
		label = "Unknown Component"
	}
	return fmt.Sprintf("%s %s %s", label, OperatorPhrase(cv.Operator), renderConditionValue(cv))
}

func renderDateRangeCondition(cv ConditionValue) string {
	switch {
	case cv.Operator == "customDates" && cv.Value1 != "" && cv.Value2 != "":
		return fmt.Sprintf("Date Range: %s to %s", cv.Value1, cv.Value2)
	case cv.Operator != "" && cv.Operator != "customDates":
		if phrase, ok := dateRangePhrases[cv.Operator]; ok {
			return "Date Range: " + phrase
		}
	}
	switch {
	case cv.Value1 != "" && cv.Value2 != "":
		return fmt.Sprintf("Date Range: %s to %s", cv.Value1, cv.Value2)
	case cv.Value1 != "":
		return "Date Range: from " + cv.Value1
	default:
		return "Date Range: not specified"
	}
}

func renderConditionValue(cv ConditionValue) string {
	switch {
	case cv.Value1 != "" && cv.Value2 != "":
		return cv.Value1 + " to " + cv.Value2
	case cv.Value1 != "":
		return cv.Value1
	default:
		return "(no value specified)"
	}
}

// CombinatorText explains how multiple rules on one entity combine. The
// combinator is reported as text, not re-evaluated as logic. Empty for
// fewer than two rules.
func CombinatorText(logic string, ruleCount int) string {
	if ruleCount < 2 {
		return ""
	}
	match := "ALL"
	if strings.EqualFold(logic, "any") {
		match = "ANY"
	}
	return fmt.Sprintf("Member qualifies if they match **%s** of the above rules", match)
}
