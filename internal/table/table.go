// Package table holds the in-memory representation of an uploaded
// spreadsheet of social media post metrics.
package table

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Table is an ordered grid of cells loaded verbatim from a spreadsheet.
// The first row of the source worksheet is the header. Cells are kept as
// the strings excelize produced for them; no type coercion is applied.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// FromRows builds a Table from raw worksheet rows, treating the first row
// as the header. Short data rows are padded so every row has one cell per
// column.
func FromRows(rows [][]string) (*Table, error) {
	if len(rows) == 0 {
		return nil, &ParseError{Reason: "worksheet is empty"}
	}

	header := rows[0]
	if len(header) == 0 {
		return nil, &ParseError{Reason: "header row has no columns"}
	}

	t := &Table{Columns: header}
	for _, row := range rows[1:] {
		padded := make([]string, len(header))
		copy(padded, row)
		t.Rows = append(t.Rows, padded)
	}

	return t, nil
}

// RowCount returns the number of data rows (header excluded).
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColumnCount returns the number of header columns.
func (t *Table) ColumnCount() int {
	return len(t.Columns)
}

// Markdown renders the table as a pipe-delimited markdown table with the
// header row, a separator row, and one line per data row. Column widths
// are padded so the text lines up. The rendering is deterministic: the
// same table always produces the same bytes.
func (t *Table) Markdown() string {
	header := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = sanitizeCell(c)
	}

	rows := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		clean := make([]string, len(row))
		for i, cell := range row {
			clean[i] = sanitizeCell(cell)
		}
		rows = append(rows, clean)
	}

	widths := make([]int, len(header))
	for i, c := range header {
		widths[i] = utf8.RuneCountInString(c)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && utf8.RuneCountInString(cell) > widths[i] {
				widths[i] = utf8.RuneCountInString(cell)
			}
		}
	}
	for i := range widths {
		if widths[i] < 3 {
			widths[i] = 3
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for i, w := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(" ")
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", w-utf8.RuneCountInString(cell)))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}

	writeRow(header)
	b.WriteString("|")
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteString("|")
	}
	b.WriteString("\n")
	for _, row := range rows {
		writeRow(row)
	}

	return b.String()
}

// sanitizeCell keeps one cell on one markdown line. Pipes would break the
// column layout and newlines would break the one-row-per-line contract.
func sanitizeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

// Preview returns up to n data rows for display. Negative n is treated
// as zero.
func (t *Table) Preview(n int) [][]string {
	if n < 0 {
		n = 0
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return t.Rows[:n]
}

// Summary returns a one-line human description of the table shape.
func (t *Table) Summary() string {
	return fmt.Sprintf("%d columns × %d rows", len(t.Columns), len(t.Rows))
}

// ParseError reports a spreadsheet that could not be read into a Table.
// It is user-correctable: the session survives and a new upload may be
// attempted.
type ParseError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := "could not read spreadsheet"
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
