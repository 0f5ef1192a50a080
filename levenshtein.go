package csvimport

import (
	"unicode"

	"golang.org/x/text/cases"
)

var foldCaser = cases.Fold()

// normalizeForMatch lower-cases (Unicode-aware, via golang.org/x/text/cases,
// the same text-handling dependency family aretext pulls in) and strips
// non-alphanumeric runes, so similarity scoring ignores case and punctuation.
func normalizeForMatch(s string) string {
	folded := foldCaser.String(s)
	out := make([]rune, 0, len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out = append(out, r)
		}
	}
	return string(out)
}

// foldEqual compares two header strings the way the mapper's exact/alias
// passes do: trimmed and case-folded, but not stripped of punctuation.
func foldEqual(a, b string) bool {
	return cases.Fold().String(trimSpace(a)) == cases.Fold().String(trimSpace(b))
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && isSpaceByte(s[start]) {
		start++
	}
	for end > start && isSpaceByte(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f'
}

// levenshtein computes the classic edit distance between two strings.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			curr[j] = minInt(del, minInt(ins, sub))
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// similarity returns the normalized edit-distance similarity in [0,1]:
// 1 - levenshtein / max(len), computed over lower-cased,
// non-alphanumeric-stripped strings.
func similarity(a, b string) float64 {
	na, nb := normalizeForMatch(a), normalizeForMatch(b)
	if na == "" && nb == "" {
		return 1.0
	}
	maxLen := maxInt(len([]rune(na)), len([]rune(nb)))
	if maxLen == 0 {
		return 1.0
	}
	dist := levenshtein(na, nb)
	return 1.0 - float64(dist)/float64(maxLen)
}
