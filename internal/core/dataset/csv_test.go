package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSVBasic(t *testing.T) {
	rows := ParseCSV("a,b,c\n1,2,3\n")
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"a", "b", "c"}, rows[0])
	assert.Equal(t, []string{"1", "2", "3"}, rows[1])
}

func TestParseCSVQuotedFields(t *testing.T) {
	rows := ParseCSV("title,ingredients\n\"Banana, Oat\",\"milk; oats\"\n")
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Banana, Oat", "milk; oats"}, rows[1])
}

func TestParseCSVQuotedNewlineAndEscapes(t *testing.T) {
	rows := ParseCSV("a,b\n\"line1\nline2\",\"say \"\"hi\"\"\"\n")
	require.Len(t, rows, 2)
	assert.Equal(t, "line1\nline2", rows[1][0])
	assert.Equal(t, `say "hi"`, rows[1][1])
}

func TestParseCSVLineEndings(t *testing.T) {
	for _, input := range []string{"a,b\r\nc,d\r\n", "a,b\nc,d\n", "a,b\rc,d\r"} {
		rows := ParseCSV(input)
		require.Len(t, rows, 2, "input %q", input)
		assert.Equal(t, []string{"a", "b"}, rows[0])
		assert.Equal(t, []string{"c", "d"}, rows[1])
	}
}

func TestParseCSVStripsBOM(t *testing.T) {
	rows := ParseCSV("\uFEFFtitle\nBanane\n")
	require.Len(t, rows, 2)
	assert.Equal(t, "title", rows[0][0])
}

func TestParseCSVTrailingRowWithoutNewline(t *testing.T) {
	rows := ParseCSV("a,b\nc,d")
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"c", "d"}, rows[1])
}

func TestParseCSVRaggedRows(t *testing.T) {
	rows := ParseCSV("a,b,c\nonly-one\n")
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"only-one"}, rows[1])
	assert.Equal(t, "", fieldAt(rows[1], 2))
}

func TestParseCSVMalformedQuotingRecovers(t *testing.T) {
	// unterminated quote: no error, remainder accumulates into the field
	rows := ParseCSV("a,\"unterminated\nstill going")
	require.Len(t, rows, 1)
	assert.Equal(t, "a", rows[0][0])
	assert.Equal(t, "unterminated\nstill going", rows[0][1])
}

func TestRowIsBlank(t *testing.T) {
	assert.True(t, rowIsBlank([]string{"", "  ", "\t"}))
	assert.False(t, rowIsBlank([]string{"", "x"}))
}
