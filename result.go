package csvimport

// ImportResult is the finished artifact a host persists or hands off once
// an importer reaches StepReview/StepComplete: the mapped rows alongside
// the mapping and validation that produced them.
type ImportResult struct {
	Schema           *Schema
	Rows             [][]string
	Mapping          *MappingResult
	Validation       *ValidationResult
	BitmapValidation *BitmapValidationResult
	Aborted          bool
}

// BuildImportResult assembles an ImportResult from an in-progress importer
// state, or returns nil if the state hasn't reached the point where a
// result is meaningful (no parse result yet, or no mapping set). If
// the state already carries a validation result (dense or bitmap, picked
// by RunValidation's row-count threshold) it is reused as-is; only a
// state with neither falls back to running the dense validator here.
func BuildImportResult(partial *ImporterState, schema *Schema) *ImportResult {
	if partial == nil || partial.ParseResult == nil || partial.Mapping == nil || schema == nil {
		return nil
	}

	rows := ApplyMapping(partial.ParseResult.Rows, partial.Mapping, schema)
	validation := partial.ValidateResult
	bitmap := partial.BitmapValidation
	if validation == nil && bitmap == nil {
		validation = Validate(rows, schema)
	}

	return &ImportResult{
		Schema:           schema,
		Rows:             rows,
		Mapping:          partial.Mapping,
		Validation:       validation,
		BitmapValidation: bitmap,
		Aborted:          partial.Step == StepError,
	}
}
