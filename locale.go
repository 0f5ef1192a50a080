package csvimport

import (
	"regexp"
	"strings"
	"sync"
)

// CurrencyPosition says where a currency symbol sits relative to the number.
type CurrencyPosition int

const (
	CurrencyPrefix CurrencyPosition = iota
	CurrencySuffix
	CurrencyBoth
)

// DateFormatInfo is a derived, cached view of a locale date pattern such as
// "DD.MM.YYYY": the literal format string, a matching regex, and the
// capture-group indices for day/month/year.
type DateFormatInfo struct {
	FormatString string
	Regex        *regexp.Regexp
	DayIndex     int
	MonthIndex   int
	YearIndex    int
}

// LocaleConfig is a named bundle of formatting conventions (§4.1).
type LocaleConfig struct {
	ID                string
	DateFormats       []string // e.g. []string{"DD.MM.YYYY", "DD/MM/YYYY"}
	ThousandsSep      byte
	DecimalSep        byte
	CurrencySymbols   []string
	CurrencyPosition  CurrencyPosition
	CountryCode       string
	PhoneTotalDigits  int
	BooleanTrueWords  []string
	BooleanFalseWords []string
}

// localeRegistry is one of the three process-wide, append-mostly caches
// the engine keeps: entries are never rewritten once inserted, so
// concurrent readers always observe a consistent value.
type localeRegistry struct {
	mu          sync.RWMutex
	locales     map[string]*LocaleConfig
	aliases     map[string]string
	dateFormats map[string][]DateFormatInfo // cache keyed by locale id
}

var globalLocaleRegistry = newLocaleRegistry()

func newLocaleRegistry() *localeRegistry {
	r := &localeRegistry{
		locales:     map[string]*LocaleConfig{},
		aliases:     map[string]string{},
		dateFormats: map[string][]DateFormatInfo{},
	}
	for _, cfg := range builtinLocales() {
		r.locales[cfg.ID] = cfg
	}
	r.aliases["en-US"] = "en"
	return r
}

func builtinLocales() []*LocaleConfig {
	return []*LocaleConfig{
		{
			ID:                "en",
			DateFormats:       []string{"MM/DD/YYYY", "YYYY-MM-DD"},
			ThousandsSep:      ',',
			DecimalSep:        '.',
			CurrencySymbols:   []string{"$"},
			CurrencyPosition:  CurrencyPrefix,
			CountryCode:       "1",
			PhoneTotalDigits:  10,
			BooleanTrueWords:  []string{"true", "yes", "1"},
			BooleanFalseWords: []string{"false", "no", "0"},
		},
		{
			ID:                "en-GB",
			DateFormats:       []string{"DD/MM/YYYY", "YYYY-MM-DD"},
			ThousandsSep:      ',',
			DecimalSep:        '.',
			CurrencySymbols:   []string{"£"},
			CurrencyPosition:  CurrencyPrefix,
			CountryCode:       "44",
			PhoneTotalDigits:  10,
			BooleanTrueWords:  []string{"true", "yes", "1"},
			BooleanFalseWords: []string{"false", "no", "0"},
		},
		{
			ID:                "tr",
			DateFormats:       []string{"DD.MM.YYYY"},
			ThousandsSep:      '.',
			DecimalSep:        ',',
			CurrencySymbols:   []string{"₺", "TL"},
			CurrencyPosition:  CurrencySuffix,
			CountryCode:       "90",
			PhoneTotalDigits:  10,
			BooleanTrueWords:  []string{"evet", "true", "1"},
			BooleanFalseWords: []string{"hayır", "false", "0"},
		},
		{
			ID:                "de",
			DateFormats:       []string{"DD.MM.YYYY"},
			ThousandsSep:      '.',
			DecimalSep:        ',',
			CurrencySymbols:   []string{"€"},
			CurrencyPosition:  CurrencySuffix,
			CountryCode:       "49",
			PhoneTotalDigits:  10,
			BooleanTrueWords:  []string{"wahr", "ja", "true", "1"},
			BooleanFalseWords: []string{"falsch", "nein", "false", "0"},
		},
		{
			ID:                "fr",
			DateFormats:       []string{"DD/MM/YYYY"},
			ThousandsSep:      ' ',
			DecimalSep:        ',',
			CurrencySymbols:   []string{"€"},
			CurrencyPosition:  CurrencySuffix,
			CountryCode:       "33",
			PhoneTotalDigits:  10,
			BooleanTrueWords:  []string{"vrai", "oui", "true", "1"},
			BooleanFalseWords: []string{"faux", "non", "false", "0"},
		},
	}
}

func (r *localeRegistry) resolve(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if alias, ok := r.aliases[id]; ok {
		return alias
	}
	return id
}

func (r *localeRegistry) get(id string) *LocaleConfig {
	resolved := r.resolve(id)
	r.mu.RLock()
	cfg, ok := r.locales[resolved]
	r.mu.RUnlock()
	if !ok {
		r.mu.RLock()
		cfg = r.locales["en"]
		r.mu.RUnlock()
	}
	return cfg
}

func (r *localeRegistry) has(id string) bool {
	resolved := r.resolve(id)
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.locales[resolved]
	return ok
}

func (r *localeRegistry) register(cfg *LocaleConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.locales[cfg.ID]; exists {
		return // append-mostly: never rewrite an existing entry
	}
	r.locales[cfg.ID] = cfg
}

func (r *localeRegistry) ids() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.locales))
	for id := range r.locales {
		ids = append(ids, id)
	}
	return ids
}

func (r *localeRegistry) dateFormatInfos(id string) []DateFormatInfo {
	resolved := r.resolve(id)
	r.mu.RLock()
	cached, ok := r.dateFormats[resolved]
	r.mu.RUnlock()
	if ok {
		return cached
	}

	cfg := r.get(resolved)
	infos := make([]DateFormatInfo, 0, len(cfg.DateFormats))
	for _, format := range cfg.DateFormats {
		infos = append(infos, compileDateFormat(format))
	}

	r.mu.Lock()
	r.dateFormats[resolved] = infos
	r.mu.Unlock()
	return infos
}

// compileDateFormat derives a regex and day/month/year capture indices from
// a pattern such as "DD.MM.YYYY": tokens DD/MM/YYYY separated by literal
// characters, as specified in §4.1.
func compileDateFormat(format string) DateFormatInfo {
	var pattern strings.Builder
	pattern.WriteByte('^')
	dayIdx, monthIdx, yearIdx := -1, -1, -1
	group := 0
	i := 0
	for i < len(format) {
		switch {
		case strings.HasPrefix(format[i:], "YYYY"):
			pattern.WriteString(`(\d{4})`)
			group++
			yearIdx = group
			i += 4
		case strings.HasPrefix(format[i:], "MM"):
			pattern.WriteString(`(\d{1,2})`)
			group++
			monthIdx = group
			i += 2
		case strings.HasPrefix(format[i:], "DD"):
			pattern.WriteString(`(\d{1,2})`)
			group++
			dayIdx = group
			i += 2
		default:
			pattern.WriteString(regexp.QuoteMeta(string(format[i])))
			i++
		}
	}
	pattern.WriteByte('$')
	return DateFormatInfo{
		FormatString: format,
		Regex:        regexp.MustCompile(pattern.String()),
		DayIndex:     dayIdx,
		MonthIndex:   monthIdx,
		YearIndex:    yearIdx,
	}
}

// GetLocale looks up a locale by id, falling back to English when unknown.
func GetLocale(id string) *LocaleConfig { return globalLocaleRegistry.get(id) }

// HasLocale reports whether id is a registered locale (after alias resolution).
func HasLocale(id string) bool { return globalLocaleRegistry.has(id) }

// RegisterLocale adds a locale bundle. Re-registering an existing id is a no-op.
func RegisterLocale(cfg *LocaleConfig) {
	if cfg == nil || cfg.ID == "" {
		return
	}
	globalLocaleRegistry.register(cfg)
}

// GetLocaleIds lists every registered locale id.
func GetLocaleIds() []string { return globalLocaleRegistry.ids() }

// GetDateFormats returns the cached, derived date-format info for a locale.
func GetDateFormats(id string) []DateFormatInfo { return globalLocaleRegistry.dateFormatInfos(id) }

func daysInMonth(month, year int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if isLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 0
	}
}

func isLeapYear(year int) bool {
	if year%400 == 0 {
		return true
	}
	if year%100 == 0 {
		return false
	}
	return year%4 == 0
}
