package csvimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBasic(t *testing.T) {
	result, err := Parse("a,b,c\n1,2,3\n4,5,6")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, result.Headers)
	assert.Equal(t, [][]string{{"1", "2", "3"}, {"4", "5", "6"}}, result.Rows)
	assert.Equal(t, 2, result.RowCount)
	assert.Equal(t, 3, result.FieldCount)
}

func TestParseQuotedFields(t *testing.T) {
	text := "a,b\n\"hello, world\",\"line1\nline2\"\n\"she said \"\"hi\"\"\",plain"
	result, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "hello, world", result.Rows[0][0])
	assert.Equal(t, "line1\nline2", result.Rows[0][1])
	assert.Equal(t, `she said "hi"`, result.Rows[1][0])
}

func TestParseLineTerminators(t *testing.T) {
	for _, sep := range []string{"\n", "\r\n", "\r"} {
		text := "a,b" + sep + "1,2" + sep + "3,4"
		result, err := Parse(text)
		require.NoError(t, err, sep)
		assert.Equal(t, [][]string{{"1", "2"}, {"3", "4"}}, result.Rows, sep)
	}
}

func TestParseRaggedRows(t *testing.T) {
	result, err := Parse("a,b,c\n1,2\n1,2,3,4")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", ""}, result.Rows[0])
	assert.Equal(t, []string{"1", "2", "3"}, result.Rows[1])
}

func TestParseNoHeader(t *testing.T) {
	result, err := Parse("1,2\n3,4", ParseOptions{Delimiter: ',', Quote: '"', Header: false})
	require.NoError(t, err)
	assert.Nil(t, result.Headers)
	assert.Equal(t, 2, result.RowCount)
}

func TestParseRoundTrip(t *testing.T) {
	matrix := [][]string{{"alpha", "beta", "gamma"}, {"1", "2", "3"}}
	text := ""
	for _, row := range matrix {
		line := ""
		for i, f := range row {
			if i > 0 {
				line += ","
			}
			line += f
		}
		text += line + "\n"
	}
	result, err := Parse(text, ParseOptions{Delimiter: ',', Quote: '"', Header: false})
	require.NoError(t, err)
	assert.Equal(t, matrix, result.Rows)
}

func TestCompileParserCaching(t *testing.T) {
	ClearParserCache()
	cp1, err := CompileParser("a;b;c")
	require.NoError(t, err)
	cp2, err := CompileParser("x;y;z")
	require.NoError(t, err)
	assert.Same(t, cp1, cp2)
	assert.Equal(t, byte(';'), cp1.Delimiter)
}

func TestDetectDialectPicksMostFrequent(t *testing.T) {
	delim, quote := detectDialect("a\tb\tc")
	assert.Equal(t, byte('\t'), delim)
	assert.Equal(t, byte('"'), quote)
}
