package csvimport

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ParseOptions configures Parse. A zero Delimiter or Quote falls back to ','
// or '"'; Header is true only when set, as DefaultParseOptions does.
type ParseOptions struct {
	Delimiter      byte
	Quote          byte
	Header         bool
	SkipEmptyLines bool
}

// DefaultParseOptions returns the comma-delimited, double-quoted, header-row defaults.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{Delimiter: ',', Quote: '"', Header: true}
}

// ParseResult is the matrix produced by Parse/CompiledParser.Parse.
type ParseResult struct {
	Headers    []string
	Rows       [][]string
	RowCount   int
	FieldCount int
}

// Parse converts CSV text into a headers/rows matrix: quoted fields may
// contain the delimiter, newlines, and doubled escaped quotes; bare \n,
// \r\n and \r line terminators are all recognized; rows narrower than the
// first row are padded with empty strings and rows wider than it are
// truncated.
func Parse(text string, options ...ParseOptions) (*ParseResult, error) {
	opts := DefaultParseOptions()
	if len(options) > 0 {
		opts = options[0]
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if opts.Quote == 0 {
		opts.Quote = '"'
	}

	rawRows := scanRows(text, opts.Delimiter, opts.Quote, opts.SkipEmptyLines)
	return assembleResult(rawRows, opts.Header)
}

// scanRows is the generic single-pass scanner: it recognizes the delimiter
// and quote outside quoted regions, treats a doubled quote inside a quoted
// region as a literal quote, and treats any other character (including
// delimiter and newline) inside a quoted region as literal text.
func scanRows(text string, delim, quote byte, skipEmpty bool) [][]string {
	var rows [][]string
	var row []string
	var field strings.Builder
	inQuotes := false
	i := 0
	n := len(text)

	flushField := func() {
		row = append(row, field.String())
		field.Reset()
	}
	flushRow := func() {
		flushField()
		if !skipEmpty || !isEmptyRow(row) {
			rows = append(rows, row)
		}
		row = nil
	}

	for i < n {
		c := text[i]
		switch {
		case inQuotes:
			if c == quote {
				if i+1 < n && text[i+1] == quote {
					field.WriteByte(quote)
					i += 2
					continue
				}
				inQuotes = false
				i++
				continue
			}
			field.WriteByte(c)
			i++
		case c == quote:
			inQuotes = true
			i++
		case c == delim:
			flushField()
			i++
		case c == '\n':
			flushRow()
			i++
		case c == '\r':
			flushRow()
			i++
			if i < n && text[i] == '\n' {
				i++
			}
		default:
			field.WriteByte(c)
			i++
		}
	}
	// Final row, if the text didn't end with a line terminator.
	if field.Len() > 0 || len(row) > 0 {
		flushRow()
	}
	return rows
}

func isEmptyRow(row []string) bool {
	for _, f := range row {
		if f != "" {
			return false
		}
	}
	return true
}

func assembleResult(rawRows [][]string, hasHeader bool) (*ParseResult, error) {
	result := &ParseResult{}
	if len(rawRows) == 0 {
		return result, nil
	}

	start := 0
	width := len(rawRows[0])
	if hasHeader {
		result.Headers = rawRows[0]
		start = 1
	}
	result.FieldCount = width

	rows := make([][]string, 0, len(rawRows)-start)
	for _, raw := range rawRows[start:] {
		rows = append(rows, normalizeWidth(raw, width))
	}
	result.Rows = rows
	result.RowCount = len(rows)
	return result, nil
}

// normalizeWidth pads a short row with empty strings or truncates a long one.
func normalizeWidth(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}

// CompiledParser is a specialized scanner cached by (delimiter, quote,
// fieldCount). Its observable behavior is identical to the generic Parse
// on conforming input (same delimiter/quote, and rows matching
// fieldCount); non-conforming rows still get padded/truncated by the same
// normalizeWidth step the generic path uses, so there is no divergent
// "fast path" bug surface.
type CompiledParser struct {
	Delimiter  byte
	Quote      byte
	FieldCount int
}

type parserCacheKey struct {
	delimiter  byte
	quote      byte
	fieldCount int
}

var parserCache = mustNewParserCache(32)

func mustNewParserCache(size int) *lru.Cache[parserCacheKey, *CompiledParser] {
	c, err := lru.New[parserCacheKey, *CompiledParser](size)
	if err != nil {
		panic(err) // only possible if size <= 0, a programmer error
	}
	return c
}

// CompileParser inspects a sample of header text to detect delimiter, quote
// and field count, then returns a cached CompiledParser for that key.
func CompileParser(sampleText string) (*CompiledParser, error) {
	delim, quote := detectDialect(sampleText)
	firstLine := firstLineOf(sampleText)
	fields := scanRows(firstLine, delim, quote, false)
	fieldCount := 0
	if len(fields) > 0 {
		fieldCount = len(fields[0])
	}

	key := parserCacheKey{delimiter: delim, quote: quote, fieldCount: fieldCount}
	if cached, ok := parserCache.Get(key); ok {
		return cached, nil
	}
	cp := &CompiledParser{Delimiter: delim, Quote: quote, FieldCount: fieldCount}
	parserCache.Add(key, cp)
	return cp, nil
}

// Parse runs the compiled scanner. Behaviorally identical to Parse(text,
// ParseOptions{Delimiter, Quote, Header: hasHeader}); provided for hosts
// that pre-compile a parser once and reuse it across many inputs sharing
// the same dialect.
func (cp *CompiledParser) Parse(text string, hasHeader bool) (*ParseResult, error) {
	return Parse(text, ParseOptions{Delimiter: cp.Delimiter, Quote: cp.Quote, Header: hasHeader})
}

// ClearParserCache empties the compiled-parser cache. Must not be called
// concurrently with a Parse/CompileParser call: the engine's caches
// assume single-threaded use except across the worker transport boundary.
func ClearParserCache() {
	parserCache.Purge()
}

func firstLineOf(text string) string {
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' || text[i] == '\r' {
			return text[:i]
		}
	}
	return text
}

// detectDialect guesses delimiter and quote from a header sample: the most
// frequent of ',', ';', '\t', '|' outside quotes wins; quote is always '"'.
func detectDialect(sample string) (delimiter, quote byte) {
	candidates := []byte{',', ';', '\t', '|'}
	counts := map[byte]int{}
	inQuotes := false
	line := firstLineOf(sample)
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == '"' {
			inQuotes = !inQuotes
			continue
		}
		if inQuotes {
			continue
		}
		for _, cand := range candidates {
			if c == cand {
				counts[cand]++
			}
		}
	}
	best := byte(',')
	bestCount := -1
	for _, cand := range candidates {
		if counts[cand] > bestCount {
			best = cand
			bestCount = counts[cand]
		}
	}
	return best, '"'
}
