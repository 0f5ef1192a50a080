package csvimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emailSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := NewSchema("en",
		&ColumnDef{Name: "email", Type: TypeString, Rules: []Rule{Required(), EmailRule(), Unique()}},
		&ColumnDef{Name: "age", Type: TypeInteger, Rules: []Rule{Min(0), Max(120)}},
	)
	require.NoError(t, err)
	return s
}

func TestValidateRequiredSkipsOtherRulesOnEmpty(t *testing.T) {
	schema := emailSchema(t)
	rows := [][]string{{"", "30"}}
	result := Validate(rows, schema)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, CodeRequired, result.Errors[0].Code)
}

func TestValidateEmailAndRange(t *testing.T) {
	schema := emailSchema(t)
	rows := [][]string{
		{"a@example.com", "30"},
		{"not-an-email", "200"},
	}
	result := Validate(rows, schema)
	assert.False(t, result.Valid)

	var sawEmail, sawMax bool
	for _, e := range result.Errors {
		if e.Field == "email" && e.Code == CodeEmail {
			sawEmail = true
		}
		if e.Field == "age" && e.Code == CodeMax {
			sawMax = true
		}
	}
	assert.True(t, sawEmail)
	assert.True(t, sawMax)
}

func TestValidateUniqueSecondPass(t *testing.T) {
	schema := emailSchema(t)
	rows := [][]string{
		{"a@example.com", "30"},
		{"a@example.com", "31"},
	}
	result := Validate(rows, schema)
	var uniqueErrs int
	for _, e := range result.Errors {
		if e.Code == CodeUnique {
			uniqueErrs++
		}
	}
	assert.Equal(t, 1, uniqueErrs)
}

func TestValidateStatsConservation(t *testing.T) {
	schema := emailSchema(t)
	rows := [][]string{
		{"a@example.com", "30"},
		{"bad-email", "30"},
		{"c@example.com", "30"},
	}
	result := Validate(rows, schema)
	assert.Equal(t, result.Stats.TotalRows, result.Stats.ValidRows+result.Stats.ErrorRows)
}

func TestValidateErrorsOrderedByRowThenColumn(t *testing.T) {
	schema := emailSchema(t)
	rows := [][]string{
		{"bad1", "200"},
		{"bad2", "200"},
	}
	result := Validate(rows, schema)
	for i := 1; i < len(result.Errors); i++ {
		prev, cur := result.Errors[i-1], result.Errors[i]
		if prev.Row == cur.Row {
			assert.LessOrEqual(t, prev.Col, cur.Col)
		} else {
			assert.Less(t, prev.Row, cur.Row)
		}
	}
}
