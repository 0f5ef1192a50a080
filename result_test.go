package csvimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildImportResultNilBeforeMapping(t *testing.T) {
	state := CreateInitialState()
	schema := emailSchema(t)
	assert.Nil(t, BuildImportResult(state, schema))
}

func TestBuildImportResultAssemblesRows(t *testing.T) {
	schema := emailSchema(t)
	state := CreateInitialState()
	state = ImporterReducer(state, Action{Type: ActionParseStart})
	state = ImporterReducer(state, Action{Type: ActionParseComplete, ParseResult: &ParseResult{
		Headers: []string{"email", "age"},
		Rows:    [][]string{{"a@example.com", "30"}},
	}})
	mapping := MapColumns(state.ParseResult.Headers, schema)
	state = ImporterReducer(state, Action{Type: ActionSetMapping, Mapping: mapping})

	result := BuildImportResult(state, schema)
	require.NotNil(t, result)
	assert.Equal(t, [][]string{{"a@example.com", "30"}}, result.Rows)
	assert.True(t, result.Validation.Valid)
	assert.False(t, result.Aborted)
}
