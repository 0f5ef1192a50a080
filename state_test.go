package csvimport

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInitialState(t *testing.T) {
	s := CreateInitialState()
	assert.Equal(t, StepIdle, s.Step)
}

func TestReducerFullHappyPath(t *testing.T) {
	s := CreateInitialState()

	s = ImporterReducer(s, Action{Type: ActionLoadString, FileName: "f.csv"})
	require.Equal(t, StepParsing, s.Step)

	parseResult := &ParseResult{Headers: []string{"a"}, Rows: [][]string{{"1"}}}
	s = ImporterReducer(s, Action{Type: ActionParseComplete, ParseResult: parseResult})
	require.Equal(t, StepMapping, s.Step)
	require.NotNil(t, s.ParseResult)

	s = ImporterReducer(s, Action{Type: ActionConfirmMapping})
	require.Equal(t, StepValidating, s.Step)

	vr := &ValidationResult{Valid: true}
	s = ImporterReducer(s, Action{Type: ActionValidateComplete, ValidateResult: vr})
	require.Equal(t, StepReview, s.Step)

	s = ImporterReducer(s, Action{Type: ActionAccept})
	require.Equal(t, StepComplete, s.Step)
}

func TestReducerOutOfStepActionIsNoOp(t *testing.T) {
	s := CreateInitialState()
	next := ImporterReducer(s, Action{Type: ActionConfirmMapping})
	assert.Same(t, s, next)
}

func TestReducerParseError(t *testing.T) {
	s := CreateInitialState()
	s = ImporterReducer(s, Action{Type: ActionParseStart})
	s = ImporterReducer(s, Action{Type: ActionParseError, ParseErr: "boom"})
	assert.Equal(t, StepError, s.Step)
	assert.Equal(t, "boom", s.ErrorMessage)
}

func TestReducerReset(t *testing.T) {
	s := CreateInitialState()
	s = ImporterReducer(s, Action{Type: ActionParseStart})
	s = ImporterReducer(s, Action{Type: ActionReset})
	assert.Equal(t, StepIdle, s.Step)
}

func TestReducerGoBack(t *testing.T) {
	s := CreateInitialState()
	s = ImporterReducer(s, Action{Type: ActionParseStart})
	s = ImporterReducer(s, Action{Type: ActionParseComplete, ParseResult: &ParseResult{}})
	require.Equal(t, StepMapping, s.Step)

	s = ImporterReducer(s, Action{Type: ActionGoBack})
	assert.Equal(t, StepIdle, s.Step)
}

func TestReducerDoubleGoBackClearsValidation(t *testing.T) {
	s := CreateInitialState()
	s = ImporterReducer(s, Action{Type: ActionParseStart})
	s = ImporterReducer(s, Action{Type: ActionParseComplete, ParseResult: &ParseResult{Headers: []string{"a"}, Rows: [][]string{{"1"}}}})
	s = ImporterReducer(s, Action{Type: ActionConfirmMapping})

	bitmap := ValidateBitmap([][]string{{"1"}}, emailSchema(t))
	s = ImporterReducer(s, Action{Type: ActionValidateComplete, ValidateResult: &ValidationResult{Valid: true}, BitmapResult: bitmap})
	require.Equal(t, StepReview, s.Step)
	require.NotNil(t, s.ValidateResult)
	require.NotNil(t, s.BitmapValidation)

	s = ImporterReducer(s, Action{Type: ActionAccept})
	require.Equal(t, StepComplete, s.Step)

	s = ImporterReducer(s, Action{Type: ActionGoBack})
	require.Equal(t, StepReview, s.Step)
	assert.NotNil(t, s.ValidateResult)
	assert.NotNil(t, s.BitmapValidation)

	s = ImporterReducer(s, Action{Type: ActionGoBack})
	require.Equal(t, StepMapping, s.Step)
	assert.Nil(t, s.ValidateResult)
	assert.Nil(t, s.BitmapValidation)
}

func TestRunValidationSelectsBitmapAboveThreshold(t *testing.T) {
	schema := emailSchema(t)

	smallRows := [][]string{{"a@example.com", "30"}}
	dense, bitmap := RunValidation(smallRows, schema)
	assert.NotNil(t, dense)
	assert.Nil(t, bitmap)

	bigRows := make([][]string, BitmapThreshold+1)
	for i := range bigRows {
		bigRows[i] = []string{fmt.Sprintf("user%d@example.com", i), "30"}
	}
	dense, bitmap = RunValidation(bigRows, schema)
	assert.Nil(t, dense)
	require.NotNil(t, bitmap)
	assert.Equal(t, 0, bitmap.ErrorCount())
}

// TestScenarioEReachableThroughDocumentedFlow drives idle -> parsing ->
// mapping -> validating -> review through the same action sequence a host
// adapter would use, with RunValidation picking the bitmap backend for a
// 10,001-row input, reproducing end-to-end scenario E.
func TestScenarioEReachableThroughDocumentedFlow(t *testing.T) {
	schema := emailSchema(t)
	rows := make([][]string, BitmapThreshold+1)
	for i := range rows {
		rows[i] = []string{fmt.Sprintf("user%d@example.com", i), "30"}
	}
	rows[7500][0] = ""

	s := CreateInitialState()
	s = ImporterReducer(s, Action{Type: ActionLoadString, FileName: "big.csv"})
	require.Equal(t, StepParsing, s.Step)

	s = ImporterReducer(s, Action{Type: ActionParseComplete, ParseResult: &ParseResult{
		Headers: []string{"email", "age"},
		Rows:    rows,
	}})
	require.Equal(t, StepMapping, s.Step)

	mapping := MapColumns(s.ParseResult.Headers, schema)
	s = ImporterReducer(s, Action{Type: ActionSetMapping, Mapping: mapping})
	s = ImporterReducer(s, Action{Type: ActionConfirmMapping})
	require.Equal(t, StepValidating, s.Step)

	mappedRows := ApplyMapping(s.ParseResult.Rows, s.Mapping, schema)
	dense, bitmap := RunValidation(mappedRows, schema)
	s = ImporterReducer(s, Action{Type: ActionValidateComplete, ValidateResult: dense, BitmapResult: bitmap})
	require.Equal(t, StepReview, s.Step)

	require.Nil(t, s.ValidateResult)
	require.NotNil(t, s.BitmapValidation)
	assert.Equal(t, 1, s.BitmapValidation.ErrorCount())

	cellErr, ok := s.BitmapValidation.GetCellError(7500, 0)
	require.True(t, ok)
	assert.Equal(t, CodeRequired, cellErr.Code)
	assert.Equal(t, 1, s.BitmapValidation.GetErrorRowCount())
}

func TestIsValidTransition(t *testing.T) {
	assert.True(t, IsValidTransition(StepIdle, StepParsing))
	assert.True(t, IsValidTransition(StepParsing, StepMapping))
	assert.False(t, IsValidTransition(StepIdle, StepValidating))
	assert.True(t, IsValidTransition(StepReview, StepComplete))
}

func TestCanGoBackForward(t *testing.T) {
	assert.True(t, CanGoBack(StepMapping))
	assert.False(t, CanGoBack(StepParsing))
	assert.True(t, CanGoForward(StepMapping))
	assert.False(t, CanGoForward(StepParsing))
}

func TestGetBackSteps(t *testing.T) {
	chain := GetBackSteps(StepComplete)
	assert.Equal(t, []ImporterStep{StepReview, StepMapping, StepIdle}, chain)
}

func TestStateMonotonicityIsADAG(t *testing.T) {
	// Following the happy path forward should never revisit idle until RESET/GO_BACK.
	s := CreateInitialState()
	seen := map[ImporterStep]bool{s.Step: true}
	steps := []Action{
		{Type: ActionParseStart},
		{Type: ActionParseComplete, ParseResult: &ParseResult{}},
		{Type: ActionConfirmMapping},
		{Type: ActionValidateComplete, ValidateResult: &ValidationResult{}},
		{Type: ActionAccept},
	}
	for _, action := range steps {
		s = ImporterReducer(s, action)
		if seen[s.Step] {
			t.Fatalf("step %s revisited, violates DAG", s.Step)
		}
		seen[s.Step] = true
	}
}
