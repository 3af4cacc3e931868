package table

import (
	"strings"
	"testing"
)

func TestFromRows(t *testing.T) {
	tbl, err := FromRows([][]string{
		{"Post", "Likes", "Comments"},
		{"Launch day!", "1200", "88"},
		{"Behind the scenes"},
	})
	if err != nil {
		t.Fatalf("FromRows failed: %v", err)
	}

	if tbl.ColumnCount() != 3 {
		t.Errorf("expected 3 columns, got %d", tbl.ColumnCount())
	}
	if tbl.RowCount() != 2 {
		t.Errorf("expected 2 rows, got %d", tbl.RowCount())
	}

	// Short rows are padded to the header width
	if len(tbl.Rows[1]) != 3 {
		t.Errorf("expected padded row of 3 cells, got %d", len(tbl.Rows[1]))
	}
	if tbl.Rows[1][1] != "" {
		t.Errorf("expected empty padding cell, got %q", tbl.Rows[1][1])
	}
}

func TestFromRowsEmpty(t *testing.T) {
	if _, err := FromRows(nil); err == nil {
		t.Fatal("expected error for empty worksheet")
	}
	if _, err := FromRows([][]string{{}}); err == nil {
		t.Fatal("expected error for empty header row")
	}
}

func TestMarkdownContainsAllHeadersAndCells(t *testing.T) {
	tbl := &Table{
		Columns: []string{"Post", "Likes", "Shares"},
		Rows: [][]string{
			{"Launch day!", "1200", "45"},
			{"Weekly roundup", "300", "12"},
		},
	}

	md := tbl.Markdown()
	for _, want := range []string{"Post", "Likes", "Shares", "Launch day!", "1200", "Weekly roundup", "300"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}

	lines := strings.Split(strings.TrimRight(md, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + separator + 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[1], "|--") {
		t.Errorf("expected separator row, got %q", lines[1])
	}
}

func TestMarkdownDeterministic(t *testing.T) {
	tbl := &Table{
		Columns: []string{"A", "B"},
		Rows:    [][]string{{"1", "2"}, {"3", "4"}},
	}
	if tbl.Markdown() != tbl.Markdown() {
		t.Fatal("markdown rendering is not deterministic")
	}
}

func TestMarkdownSanitizesCells(t *testing.T) {
	tbl := &Table{
		Columns: []string{"Post"},
		Rows:    [][]string{{"a|b\nc"}},
	}

	md := tbl.Markdown()
	lines := strings.Split(strings.TrimRight(md, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("newline in cell leaked into row layout: %q", md)
	}
	if !strings.Contains(md, `a\|b c`) {
		t.Errorf("expected escaped pipe and collapsed newline, got %q", md)
	}
}

func TestPreview(t *testing.T) {
	tbl := &Table{
		Columns: []string{"A"},
		Rows:    [][]string{{"1"}, {"2"}, {"3"}},
	}
	if got := len(tbl.Preview(2)); got != 2 {
		t.Errorf("Preview(2) returned %d rows", got)
	}
	if got := len(tbl.Preview(10)); got != 3 {
		t.Errorf("Preview(10) returned %d rows", got)
	}
	if got := len(tbl.Preview(-1)); got != 0 {
		t.Errorf("Preview(-1) returned %d rows", got)
	}
}
