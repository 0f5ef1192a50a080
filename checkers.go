package csvimport

import (
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// typeSubCode distinguishes the TYPE error family's sub-reasons: date:
// format/month/day/year; currency/number: format/number; phone:
// length/country-code. All still report ErrorCode CodeType; the sub-code
// only selects the human message.
type typeSubCode int

const (
	subNone typeSubCode = iota
	subDateFormat
	subDateMonth
	subDateDay
	subDateYear
	subNumberFormat
	subPhoneLength
	subPhoneCountryCode
	subBooleanFormat
)

// checkResult is what a locale-aware checker returns: ok, or a TYPE failure
// with a sub-code and message.
type checkResult struct {
	ok      bool
	sub     typeSubCode
	message string
}

func okResult() checkResult { return checkResult{ok: true} }

func failResult(sub typeSubCode, msg string) checkResult {
	return checkResult{ok: false, sub: sub, message: msg}
}

// checkerFunc validates one raw cell value under a resolved locale.
type checkerFunc func(value string) checkResult

// checkerCache memoizes one checker per (ColumnType, localeID) pair in a
// process-wide cache.
type checkerCache struct {
	mu    sync.RWMutex
	funcs map[checkerKey]checkerFunc
}

type checkerKey struct {
	typ    ColumnType
	locale string
}

var globalCheckerCache = &checkerCache{funcs: map[checkerKey]checkerFunc{}}

func getChecker(typ ColumnType, localeID string) checkerFunc {
	key := checkerKey{typ: typ, locale: localeID}
	globalCheckerCache.mu.RLock()
	fn, ok := globalCheckerCache.funcs[key]
	globalCheckerCache.mu.RUnlock()
	if ok {
		return fn
	}

	fn = buildChecker(typ, localeID)
	globalCheckerCache.mu.Lock()
	if _, raced := globalCheckerCache.funcs[key]; !raced {
		globalCheckerCache.funcs[key] = fn
	}
	globalCheckerCache.mu.Unlock()
	return fn
}

func buildChecker(typ ColumnType, localeID string) checkerFunc {
	locale := GetLocale(localeID)
	switch typ {
	case TypeDate:
		return dateChecker(locale)
	case TypeNumber, TypeInteger:
		return numberChecker(locale, typ == TypeInteger)
	case TypeCurrency:
		return currencyChecker(locale)
	case TypePhone:
		return phoneChecker(locale)
	case TypeBoolean:
		return booleanChecker(locale)
	default:
		return func(string) checkResult { return okResult() }
	}
}

// dateChecker attempts each registered format regex in turn; on a match it
// validates month/day/year ranges, yielding a distinct sub-code per
// failing component.
func dateChecker(locale *LocaleConfig) checkerFunc {
	formats := GetDateFormats(locale.ID)
	return func(value string) checkResult {
		for _, info := range formats {
			m := info.Regex.FindStringSubmatch(value)
			if m == nil {
				continue
			}
			year, _ := strconv.Atoi(m[info.YearIndex])
			month, _ := strconv.Atoi(m[info.MonthIndex])
			day, _ := strconv.Atoi(m[info.DayIndex])

			if year < 1900 || year > 2100 {
				return failResult(subDateYear, "year out of range")
			}
			if month < 1 || month > 12 {
				return failResult(subDateMonth, "month out of range")
			}
			if day < 1 || day > daysInMonth(month, year) {
				return failResult(subDateDay, "day out of range")
			}
			return okResult()
		}
		return failResult(subDateFormat, "does not match any known date format")
	}
}

// numberChecker implements the locale number pattern: optional leading
// minus, digit groups separated by the locale's thousands separator,
// optional decimal part. integerOnly additionally rejects a fractional
// remainder.
func numberChecker(locale *LocaleConfig, integerOnly bool) checkerFunc {
	return func(value string) checkResult {
		d, ok := parseLocaleNumber(value, locale)
		if !ok {
			return failResult(subNumberFormat, "not a valid number for locale "+locale.ID)
		}
		if integerOnly && !d.IsInteger() {
			return failResult(subNumberFormat, "not an integer")
		}
		return okResult()
	}
}

// currencyChecker strips a leading or trailing currency symbol (with
// optional whitespace) then defers to the number check.
func currencyChecker(locale *LocaleConfig) checkerFunc {
	numCheck := numberChecker(locale, false)
	return func(value string) checkResult {
		stripped := stripCurrencySymbol(value, locale)
		return numCheck(stripped)
	}
}

func stripCurrencySymbol(value string, locale *LocaleConfig) string {
	for _, sym := range locale.CurrencySymbols {
		if locale.CurrencyPosition == CurrencySuffix || locale.CurrencyPosition == CurrencyBoth {
			if strings.HasSuffix(strings.TrimSpace(value), sym) {
				trimmed := strings.TrimSpace(value)
				return strings.TrimSpace(strings.TrimSuffix(trimmed, sym))
			}
		}
		if locale.CurrencyPosition == CurrencyPrefix || locale.CurrencyPosition == CurrencyBoth {
			if strings.HasPrefix(strings.TrimSpace(value), sym) {
				trimmed := strings.TrimSpace(value)
				return strings.TrimSpace(strings.TrimPrefix(trimmed, sym))
			}
		}
	}
	return value
}

// phoneChecker strips formatting characters, checks digit count is within
// phoneTotalDigits +/- 2, and if the value starts with '+' also requires
// the locale's country code to match.
func phoneChecker(locale *LocaleConfig) checkerFunc {
	return func(value string) checkResult {
		hasPlus := strings.HasPrefix(strings.TrimSpace(value), "+")
		stripped := ProcessorStripChars(strings.TrimSpace(value), " -().")
		digits := strings.TrimPrefix(stripped, "+")

		if hasPlus {
			if !strings.HasPrefix(digits, locale.CountryCode) {
				return failResult(subPhoneCountryCode, "does not match locale country code "+locale.CountryCode)
			}
		}

		low := locale.PhoneTotalDigits - 2
		high := locale.PhoneTotalDigits + 2
		if len(digits) < low || len(digits) > high {
			return failResult(subPhoneLength, "digit count out of range")
		}
		for _, r := range digits {
			if r < '0' || r > '9' {
				return failResult(subPhoneLength, "contains non-digit characters")
			}
		}
		return okResult()
	}
}

// booleanChecker lower-cases and trims, then tests membership in the
// locale's true/false token union.
func booleanChecker(locale *LocaleConfig) checkerFunc {
	truthy := make(map[string]bool, len(locale.BooleanTrueWords))
	falsy := make(map[string]bool, len(locale.BooleanFalseWords))
	for _, w := range locale.BooleanTrueWords {
		truthy[strings.ToLower(w)] = true
	}
	for _, w := range locale.BooleanFalseWords {
		falsy[strings.ToLower(w)] = true
	}
	return func(value string) checkResult {
		norm := strings.ToLower(strings.TrimSpace(value))
		if truthy[norm] || falsy[norm] {
			return okResult()
		}
		return failResult(subBooleanFormat, "not a recognized boolean token for locale")
	}
}

// parseLocaleNumber strips the locale's thousands separator, then replaces
// the decimal separator with '.', then parses via shopspring/decimal for
// exact comparisons (no float rounding on currency/min/max checks).
func parseLocaleNumber(value string, locale *LocaleConfig) (decimal.Decimal, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return decimal.Zero, false
	}
	if !numberPatternFor(locale).MatchString(v) {
		return decimal.Zero, false
	}

	neg := false
	if strings.HasPrefix(v, "-") {
		neg = true
		v = v[1:]
	}
	v = numberUngroup(v, locale.ThousandsSep)
	if locale.DecimalSep != '.' {
		v = strings.ReplaceAll(v, string(locale.DecimalSep), ".")
	}
	if neg {
		v = "-" + v
	}

	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

var numberPatternCache sync.Map // localeID -> *regexp.Regexp

// numberPatternFor builds (once per locale) the locale number regex:
// optional leading minus, up to three leading digits, repeated
// thousands-groups, optional decimal part.
func numberPatternFor(locale *LocaleConfig) *regexp.Regexp {
	if cached, ok := numberPatternCache.Load(locale.ID); ok {
		return cached.(*regexp.Regexp)
	}
	group := regexp.QuoteMeta(string(locale.ThousandsSep))
	dec := regexp.QuoteMeta(string(locale.DecimalSep))
	pattern := `^-?\d{1,3}(` + group + `\d{3})*(` + dec + `\d+)?$`
	re := regexp.MustCompile(pattern)
	numberPatternCache.Store(locale.ID, re)
	return re
}

// parseCellNumber is the exported-in-spirit helper rules.go uses for
// min/max comparisons: it parses a cell through the column's locale.
func parseCellNumber(value string, locale *LocaleConfig) (decimal.Decimal, bool) {
	return parseLocaleNumber(value, locale)
}
