package cli

import (
	"strings"
	"testing"

	"github.com/jmylchreest/swatch/internal/colour"
)

func TestTableAddRow(t *testing.T) {
	table := NewTable("Name", "Age")

	table.AddRow("Alice", "30")
	table.AddRow("Bob")
	table.AddRow("Charlie", "25", "Extra")

	if table.Len() != 3 {
		t.Fatalf("Expected 3 rows, got %d", table.Len())
	}
	if len(table.rows[1]) != 2 || table.rows[1][1] != "" {
		t.Errorf("Expected short row to be padded, got %q", table.rows[1])
	}
	if len(table.rows[2]) != 2 {
		t.Errorf("Expected long row to be truncated, got %q", table.rows[2])
	}
}

func TestTableRender(t *testing.T) {
	table := NewTable("Name", "Age", "City")
	table.AddRow("Alice", "30", "New York")
	table.AddRow("Bob", "25", "LA")

	want := "" +
		"Name   Age  City\n" +
		"-----  ---  --------\n" +
		"Alice  30   New York\n" +
		"Bob    25   LA\n"
	if got := table.Render(); got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestTableRenderEmpty(t *testing.T) {
	if got := NewTable().Render(); got != "" {
		t.Errorf("Expected empty render for no headers, got %q", got)
	}

	got := NewTable("A", "B").Render()
	if lines := strings.Count(got, "\n"); lines != 2 {
		t.Errorf("Expected header and separator only, got %d lines", lines)
	}
}

func TestTableRenderIgnoresColourEscapes(t *testing.T) {
	swatch := colour.ColourPreview(colour.RGB{R: 255}, 4)

	table := NewTable("PREVIEW", "HEX")
	table.AddRow(swatch, "#ff0000")
	lines := strings.Split(table.Render(), "\n")

	header := lines[0]
	row := lines[2]
	if strings.Index(header, "HEX") != 9 {
		t.Fatalf("Expected HEX column at 9, header %q", header)
	}
	plain := ansiEscape.ReplaceAllString(row, "")
	if strings.Index(plain, "#ff0000") != 9 {
		t.Errorf("Expected hex aligned under header, got %q", plain)
	}
}

func TestVisibleWidth(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 3},
		{"héllo", 5},
		{colour.ColourPreview(colour.RGB{}, 6), 6},
		{colour.ColourPreviewWithText(colour.RGB{R: 10}, "x", 3) + "yz", 5},
	}
	for _, tt := range tests {
		if got := visibleWidth(tt.in); got != tt.want {
			t.Errorf("visibleWidth(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"no limit", "/a/very/long/path.png", 0, []string{"/a/very/long/path.png"}},
		{"fits", "short", 10, []string{"short"}},
		{"path separators", "/home/user/pictures/wall.png", 12, []string{"/home/user/", "pictures/", "wall.png"}},
		{"words", "one two three", 8, []string{"one two", "three"}},
		{"hard break", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapText(tt.text, tt.width)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("wrapText(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestTableWrapsColumn(t *testing.T) {
	table := NewTable("IMAGE", "N")
	table.SetColumnMaxWidth(0, 12)
	table.AddRow("/home/user/pictures/wall.png", "1")

	got := table.Render()
	want := "" +
		"IMAGE        N\n" +
		"-----------  -\n" +
		"/home/user/  1\n" +
		"pictures/\n" +
		"wall.png\n"
	if got != want {
		t.Errorf("Render() =\n%q\nwant\n%q", got, want)
	}
}
