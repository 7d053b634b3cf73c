package dataset

import (
	"strings"
)

// ParseCSV tokenizes raw CSV text into rows of raw field strings.
//
// It accepts the usual hostile inputs of scraped datasets: quoted fields
// containing commas and newlines, doubled-quote escapes, any mix of
// \r\n / \n / \r row endings, a leading byte-order mark, and a final row
// with no terminator. Malformed quoting never produces an error; the state
// machine keeps accumulating and recovers best-effort. Ragged rows are
// returned as-is and left to the record builder.
func ParseCSV(input string) [][]string {
	input = strings.TrimPrefix(input, "\uFEFF")

	var (
		rows     [][]string
		row      []string
		field    strings.Builder
		inQuotes bool
	)

	endField := func() {
		row = append(row, field.String())
		field.Reset()
	}
	endRow := func() {
		endField()
		rows = append(rows, row)
		row = nil
	}

	for i := 0; i < len(input); i++ {
		c := input[i]

		if inQuotes {
			if c == '"' {
				if i+1 < len(input) && input[i+1] == '"' {
					field.WriteByte('"')
					i++
				} else {
					inQuotes = false
				}
				continue
			}
			field.WriteByte(c)
			continue
		}

		switch c {
		case '"':
			inQuotes = true
		case ',':
			endField()
		case '\r':
			if i+1 < len(input) && input[i+1] == '\n' {
				i++
			}
			endRow()
		case '\n':
			endRow()
		default:
			field.WriteByte(c)
		}
	}

	// trailing row without a newline terminator
	if field.Len() > 0 || len(row) > 0 || inQuotes {
		endRow()
	}

	return rows
}

// rowIsBlank reports whether every field of a row is empty after trimming.
func rowIsBlank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// fieldAt returns row[i], or "" when the row is shorter than the header.
func fieldAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
