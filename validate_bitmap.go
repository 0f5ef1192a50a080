package csvimport

import (
	"math"
	"math/bits"
)

// Bitset is a word-packed bit vector addressed by row index, used by the
// bitmap validator once row counts pass the threshold where one
// ValidationError struct per failure stops being cheap.
type Bitset struct {
	words []uint64
	n     int
}

func newBitset(n int) *Bitset {
	return &Bitset{words: make([]uint64, (n+63)/64), n: n}
}

func (b *Bitset) set(i int) {
	b.words[i/64] |= 1 << uint(i%64)
}

func (b *Bitset) get(i int) bool {
	return b.words[i/64]&(1<<uint(i%64)) != 0
}

// popCount returns the number of set bits via math/bits, the whole reason
// to prefer a bitset over a map[int]bool at scale.
func (b *Bitset) popCount() int {
	total := 0
	for _, w := range b.words {
		total += bits.OnesCount64(w)
	}
	return total
}

func (b *Bitset) indices() []int {
	out := make([]int, 0, b.popCount())
	for i := 0; i < b.n; i++ {
		if b.get(i) {
			out = append(out, i)
		}
	}
	return out
}

// ruleBitsetKey addresses one (column, ruleKind) bitset: the bitmap
// validator's actual storage unit.
type ruleBitsetKey struct {
	col  int
	code ErrorCode
}

// BitmapValidationResult is the bitmap validator's output: one bitset per
// (column, ruleKind) pair sized to totalRows, plus a row-level union bitset
// maintained alongside them during the same pass. No per-cell message or
// value is retained; GetErrors/GetRowErrors/GetCellError/GetErrorRowCount/
// GetErrorSummary/ErrorCount all derive their answer from the bitsets (and,
// where a human message is needed, by re-running the per-cell program
// against the original row on demand) rather than from a precomputed
// failure table.
type BitmapValidationResult struct {
	schema      *Schema
	rows        [][]string
	totalRows   int
	rowHasError *Bitset
	ruleBits    map[ruleBitsetKey]*Bitset

	// uniqueDups memoizes columnUniqueDuplicates per column the first time
	// an accessor needs it, instead of recomputing it on every call.
	uniqueDups map[int]map[int]bool
}

// PageOptions bounds a GetErrors page.
type PageOptions struct {
	Limit  int
	Offset int
}

// BitmapThreshold is the row count above which the importer state machine
// selects the bitmap validator instead of the dense one.
const BitmapThreshold = 10000

// RunValidation picks the dense or bitmap validator based on row count and
// runs it, returning whichever field applies and leaving the other nil.
// This is the selection logic the state machine's adapters call between
// CONFIRM_MAPPING/SKIP_MAPPING and dispatching ActionValidateComplete.
func RunValidation(rows [][]string, schema *Schema) (*ValidationResult, *BitmapValidationResult) {
	if len(rows) > BitmapThreshold {
		return nil, ValidateBitmap(rows, schema)
	}
	return Validate(rows, schema), nil
}

// ValidateBitmap runs the same per-cell program as Validate but only sets
// bits, for use above the dense validator's row-count threshold.
func ValidateBitmap(rows [][]string, schema *Schema) *BitmapValidationResult {
	result := &BitmapValidationResult{
		schema:      schema,
		rows:        rows,
		totalRows:   len(rows),
		rowHasError: newBitset(len(rows)),
		ruleBits:    map[ruleBitsetKey]*Bitset{},
	}

	for colIdx, col := range schema.Columns {
		locale := GetLocale(schema.localeFor(col))

		for rowIdx, cells := range rows {
			var value string
			if colIdx < len(cells) {
				value = cells[colIdx]
			}
			failures := evaluateCell(value, col, locale)
			if len(failures) == 0 {
				continue
			}
			result.rowHasError.set(rowIdx)
			for _, f := range failures {
				result.setBit(colIdx, f.code, rowIdx)
			}
		}

		if hasUniqueRule(col.Rules) {
			for rowIdx := range columnUniqueDuplicates(rows, colIdx) {
				result.rowHasError.set(rowIdx)
				result.setBit(colIdx, CodeUnique, rowIdx)
			}
		}
	}

	return result
}

func (r *BitmapValidationResult) setBit(colIdx int, code ErrorCode, row int) {
	key := ruleBitsetKey{col: colIdx, code: code}
	b, ok := r.ruleBits[key]
	if !ok {
		b = newBitset(r.totalRows)
		r.ruleBits[key] = b
	}
	b.set(row)
}

// ErrorCount is the popcount sum of every per-(column, ruleKind) bitset.
func (r *BitmapValidationResult) ErrorCount() int {
	total := 0
	for _, b := range r.ruleBits {
		total += b.popCount()
	}
	return total
}

// GetErrors returns a page of errors in row-then-column order. A negative
// Offset or Limit from a caller is clamped to zero rather than panicking or
// silently returning nothing. Only rows flagged in rowHasError are ever
// re-examined, so a mostly-valid high-row-count input never pays the cost
// of revisiting its valid rows.
func (r *BitmapValidationResult) GetErrors(opts PageOptions) []ValidationError {
	opts.Offset = clamp(opts.Offset, 0, math.MaxInt)
	opts.Limit = clamp(opts.Limit, 0, math.MaxInt)
	var out []ValidationError
	skipped := 0
	for _, rowIdx := range r.rowHasError.indices() {
		for colIdx, col := range r.schema.Columns {
			for _, f := range r.cellFailuresAt(rowIdx, colIdx) {
				if skipped < opts.Offset {
					skipped++
					continue
				}
				if opts.Limit > 0 && len(out) >= opts.Limit {
					return out
				}
				out = append(out, ValidationError{
					Row: rowIdx, Col: colIdx, Field: col.Name,
					Value: r.cellValue(rowIdx, colIdx), Code: f.code, Message: f.message,
				})
			}
		}
	}
	return out
}

// GetRowErrors returns every failure in a single row, recomputed on demand.
func (r *BitmapValidationResult) GetRowErrors(row int) []ValidationError {
	if row < 0 || row >= r.totalRows || !r.rowHasError.get(row) {
		return nil
	}
	var out []ValidationError
	for colIdx, col := range r.schema.Columns {
		for _, f := range r.cellFailuresAt(row, colIdx) {
			out = append(out, ValidationError{
				Row: row, Col: colIdx, Field: col.Name,
				Value: r.cellValue(row, colIdx), Code: f.code, Message: f.message,
			})
		}
	}
	return out
}

// GetCellError returns the first rule (in §4.5 priority order) whose
// bitset contains bit `row` for column `col`, recomputed on demand.
func (r *BitmapValidationResult) GetCellError(row, col int) (ValidationError, bool) {
	if row < 0 || row >= r.totalRows || col < 0 || col >= len(r.schema.Columns) {
		return ValidationError{}, false
	}
	failures := r.cellFailuresAt(row, col)
	if len(failures) == 0 {
		return ValidationError{}, false
	}
	f := failures[0]
	return ValidationError{
		Row: row, Col: col, Field: r.schema.Columns[col].Name,
		Value: r.cellValue(row, col), Code: f.code, Message: f.message,
	}, true
}

// GetErrorRowCount reports how many rows have at least one failure, via a
// single popcount over the row bitset.
func (r *BitmapValidationResult) GetErrorRowCount() int {
	return r.rowHasError.popCount()
}

// GetErrorSummary computes popcount per rule kind and per column directly
// from the bitsets, plus the row counts from rowHasError — nothing here is
// a side-channel counter accumulated during ValidateBitmap.
func (r *BitmapValidationResult) GetErrorSummary() ValidationStats {
	stats := ValidationStats{
		TotalRows:      r.totalRows,
		ErrorsByRule:   map[string]int{},
		ErrorsByColumn: map[string]int{},
	}
	stats.ErrorRows = r.rowHasError.popCount()
	stats.ValidRows = stats.TotalRows - stats.ErrorRows

	for key, b := range r.ruleBits {
		n := b.popCount()
		if n == 0 {
			continue
		}
		stats.ErrorsByRule[key.code.String()] += n
		stats.ErrorsByColumn[r.schema.Columns[key.col].Name] += n
	}
	return stats
}

// cellFailuresAt recomputes a single cell's failures (message included) by
// re-running the same per-cell program ValidateBitmap used to set its
// bits, plus the memoized unique-duplicate pass. Nothing here is read from
// a precomputed per-cell map.
func (r *BitmapValidationResult) cellFailuresAt(row, colIdx int) []cellFailure {
	col := r.schema.Columns[colIdx]
	locale := GetLocale(r.schema.localeFor(col))
	failures := evaluateCell(r.cellValue(row, colIdx), col, locale)
	if hasUniqueRule(col.Rules) && r.columnDuplicates(colIdx)[row] {
		failures = append(failures, cellFailure{
			code:    CodeUnique,
			message: "duplicate value for a unique column",
		})
	}
	return failures
}

func (r *BitmapValidationResult) columnDuplicates(colIdx int) map[int]bool {
	if dup, ok := r.uniqueDups[colIdx]; ok {
		return dup
	}
	if r.uniqueDups == nil {
		r.uniqueDups = map[int]map[int]bool{}
	}
	dup := columnUniqueDuplicates(r.rows, colIdx)
	r.uniqueDups[colIdx] = dup
	return dup
}

func (r *BitmapValidationResult) cellValue(row, col int) string {
	if row < 0 || row >= len(r.rows) || col < 0 || col >= len(r.rows[row]) {
		return ""
	}
	return r.rows[row][col]
}
