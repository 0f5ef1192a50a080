package csvimport

import (
	"strings"

	"github.com/tiendc/gofn"
)

// ProcessorTrim trims surrounding whitespace from a cell value.
func ProcessorTrim(s string) string {
	return strings.TrimSpace(s)
}

// ProcessorStripChars removes every occurrence of any rune in cut from s,
// used by the phone checker to strip spaces, dashes, parens and dots.
func ProcessorStripChars(s, cut string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(cut, r) {
			return -1
		}
		return r
	}, s)
}

// numberUngroup strips a locale's thousands separator from a numeric
// string via gofn.NumberFmtUngroup instead of a hand-rolled string-replace
// loop.
func numberUngroup(s string, groupSep byte) string {
	return gofn.NumberFmtUngroup(s, groupSep)
}
