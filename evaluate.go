package csvimport

import (
	"regexp"

	"github.com/shopspring/decimal"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// cellFailure is one rule/type violation on a single cell, before it is
// turned into a ValidationError (dense) or a bitset bit (bitmap).
type cellFailure struct {
	code    ErrorCode
	message string
}

// evaluateCell runs §4.5's full per-cell program: required short-circuits
// empty cells; otherwise type/locale-type, then length, then
// range/pattern/enum/email, then custom, each contributing at most one
// failure. `unique` is excluded — it always runs as a second pass over the
// finished column.
func evaluateCell(value string, col *ColumnDef, locale *LocaleConfig) []cellFailure {
	var failures []cellFailure
	requiredRule, hasRequired := findRule(col.Rules, RuleRequired)

	if value == "" {
		if hasRequired {
			failures = append(failures, cellFailure{code: CodeRequired, message: requiredMessage(requiredRule)})
		}
		return failures
	}

	if col.Type.localeSensitive() {
		res := getChecker(col.Type, locale.ID)(value)
		if !res.ok {
			failures = append(failures, cellFailure{code: CodeType, message: res.message})
			return failures // a type failure makes range/pattern checks meaningless
		}
	}

	for _, rule := range sortedRules(col.Rules) {
		if rule.Kind == RuleRequired {
			continue // already handled above
		}
		if f, fail := evaluateRule(rule, value, col, locale); fail {
			failures = append(failures, f)
		}
	}
	return failures
}

func findRule(rules []Rule, kind RuleKind) (Rule, bool) {
	for _, r := range rules {
		if r.Kind == kind {
			return r, true
		}
	}
	return Rule{}, false
}

func requiredMessage(r Rule) string {
	if r.Message != "" {
		return r.Message
	}
	return "value is required"
}

func evaluateRule(rule Rule, value string, col *ColumnDef, locale *LocaleConfig) (cellFailure, bool) {
	code := ruleKindToCode[rule.Kind]
	switch rule.Kind {
	case RuleMin, RuleMax:
		d, ok := parseCellNumber(value, locale)
		if !ok {
			return cellFailure{}, false // not a locale number: min/max do not apply (numeric types report it via the type check)
		}
		threshold := decimal.NewFromFloat(rule.Number)
		if rule.Kind == RuleMin && d.LessThan(threshold) {
			return cellFailure{code: code, message: ruleMessage(rule, "value below minimum")}, true
		}
		if rule.Kind == RuleMax && d.GreaterThan(threshold) {
			return cellFailure{code: code, message: ruleMessage(rule, "value above maximum")}, true
		}
		return cellFailure{}, false

	case RuleMinLength:
		if len([]rune(value)) < rule.MinLen {
			return cellFailure{code: code, message: ruleMessage(rule, "value too short")}, true
		}
		return cellFailure{}, false

	case RuleMaxLength:
		if len([]rune(value)) > rule.MaxLen {
			return cellFailure{code: code, message: ruleMessage(rule, "value too long")}, true
		}
		return cellFailure{}, false

	case RulePattern:
		if rule.Pattern == nil || !rule.Pattern.MatchString(value) {
			return cellFailure{code: code, message: ruleMessage(rule, "value does not match pattern")}, true
		}
		return cellFailure{}, false

	case RuleEnum:
		for _, v := range rule.Enum {
			if v == value {
				return cellFailure{}, false
			}
		}
		return cellFailure{code: code, message: ruleMessage(rule, "value not in allowed set")}, true

	case RuleEmail:
		if !emailPattern.MatchString(value) {
			return cellFailure{code: code, message: ruleMessage(rule, "value is not a valid email address")}, true
		}
		return cellFailure{}, false

	case RuleCustom:
		if rule.Custom != nil && !rule.Custom(value) {
			return cellFailure{code: code, message: ruleMessage(rule, "value failed custom validation")}, true
		}
		return cellFailure{}, false

	default:
		return cellFailure{}, false
	}
}

func ruleMessage(rule Rule, fallback string) string {
	if rule.Message == "" {
		return fallback
	}
	return rule.Message
}

// columnUniqueDuplicates runs the second unique pass over a finished column:
// every row index after the first occurrence of a non-empty value fails.
func columnUniqueDuplicates(rows [][]string, colIdx int) map[int]bool {
	seen := make(map[string]bool)
	dup := make(map[int]bool)
	for row, cells := range rows {
		if colIdx >= len(cells) {
			continue
		}
		v := cells[colIdx]
		if v == "" {
			continue
		}
		if seen[v] {
			dup[row] = true
			continue
		}
		seen[v] = true
	}
	return dup
}

