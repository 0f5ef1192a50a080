package csvimport

import "sort"

// Validate runs the dense validator: every cell in every row is checked
// and every failure recorded, suitable for small-to-medium row counts
// where holding one ValidationError per failure in memory is cheap. Rows
// are expected in schema column order (the output of ApplyMapping).
func Validate(rows [][]string, schema *Schema) *ValidationResult {
	result := &ValidationResult{
		Valid: true,
		Stats: ValidationStats{
			ErrorsByRule:   map[string]int{},
			ErrorsByColumn: map[string]int{},
		},
	}
	result.Stats.TotalRows = len(rows)

	errorRows := make(map[int]bool)

	for colIdx, col := range schema.Columns {
		locale := GetLocale(schema.localeFor(col))

		for rowIdx, cells := range rows {
			var value string
			if colIdx < len(cells) {
				value = cells[colIdx]
			}
			for _, f := range evaluateCell(value, col, locale) {
				result.Errors = append(result.Errors, ValidationError{
					Row:     rowIdx,
					Col:     colIdx,
					Field:   col.Name,
					Value:   value,
					Code:    f.code,
					Message: f.message,
				})
				errorRows[rowIdx] = true
				result.Stats.ErrorsByRule[f.code.String()]++
				result.Stats.ErrorsByColumn[col.Name]++
			}
		}

		if hasUniqueRule(col.Rules) {
			for rowIdx := range columnUniqueDuplicates(rows, colIdx) {
				var value string
				if colIdx < len(rows[rowIdx]) {
					value = rows[rowIdx][colIdx]
				}
				result.Errors = append(result.Errors, ValidationError{
					Row:     rowIdx,
					Col:     colIdx,
					Field:   col.Name,
					Value:   value,
					Code:    CodeUnique,
					Message: "duplicate value for a unique column",
				})
				errorRows[rowIdx] = true
				result.Stats.ErrorsByRule[CodeUnique.String()]++
				result.Stats.ErrorsByColumn[col.Name]++
			}
		}
	}

	sort.SliceStable(result.Errors, func(i, j int) bool {
		if result.Errors[i].Row != result.Errors[j].Row {
			return result.Errors[i].Row < result.Errors[j].Row
		}
		return result.Errors[i].Col < result.Errors[j].Col
	})

	result.Stats.ErrorRows = len(errorRows)
	result.Stats.ValidRows = result.Stats.TotalRows - result.Stats.ErrorRows
	result.Valid = len(result.Errors) == 0
	return result
}
