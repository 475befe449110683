// backend/src/importer/tokenizer.go
package importer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFormat marks a file that cannot enter the pipeline at all: not enough
// lines, too many rows, or an otherwise unusable shape.
var ErrFormat = errors.New("invalid file format")

// RawTable is the tokenized form of an uploaded statement: one header row and
// zero or more data rows, every row carrying exactly len(Headers) fields.
type RawTable struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
	// Dropped counts data lines excluded because their field count did not
	// match the header's. They are not surfaced as row-level errors.
	Dropped int `json:"droppedRows"`
}

// Tokenize parses raw delimited text into a RawTable. The first non-blank
// line is the header; every following line must tokenize to the same field
// count or it is dropped. Fails when fewer than two non-blank lines exist
// (header plus at least one data row).
func Tokenize(text string) (*RawTable, error) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) < 2 {
		return nil, fmt.Errorf("%w: file must contain a header row and at least one data row", ErrFormat)
	}

	headers := splitFields(lines[0])
	table := &RawTable{Headers: headers}
	for _, line := range lines[1:] {
		fields := splitFields(line)
		if len(fields) != len(headers) {
			table.Dropped++
			continue
		}
		table.Rows = append(table.Rows, fields)
	}
	return table, nil
}

// splitFields scans one line character by character, treating a comma as a
// separator only outside double quotes. Each field is trimmed and stripped of
// one leading and one trailing quote.
func splitFields(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			current.WriteRune(r)
		case r == ',' && !inQuotes:
			fields = append(fields, cleanField(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, cleanField(current.String()))
	return fields
}

// cleanField trims a field and strips one leading and one trailing quote
// independently, so an unbalanced field like `"abc` still loses its quote.
func cleanField(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	return strings.TrimSpace(s)
}
