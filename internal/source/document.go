// Package source holds loaded text documents and translates byte offsets
// into zero-based line/column positions.
package source

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Position is a zero-based location inside a document. Column counts
// Unicode code points from the start of the line.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Document is an immutable text file with a precomputed line-start table.
type Document struct {
	ID   string
	Text string

	// lineStarts[i] is the byte offset of line i; lineStarts[0] is always 0.
	lineStarts []int
}

// NewDocument builds a document and its line table in a single pass.
func NewDocument(id, text string) *Document {
	starts := make([]int, 1, strings.Count(text, "\n")+1)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Document{ID: id, Text: text, lineStarts: starts}
}

// LineCount returns the number of lines, counting a trailing empty line.
func (d *Document) LineCount() int {
	return len(d.lineStarts)
}

// LineStart returns the byte offset where line begins, clamped to the document.
func (d *Document) LineStart(line int) int {
	if line <= 0 {
		return 0
	}
	if line >= len(d.lineStarts) {
		return len(d.Text)
	}
	return d.lineStarts[line]
}

// Line returns the text of line without its terminator ("\n" or "\r\n").
func (d *Document) Line(line int) string {
	if line < 0 || line >= len(d.lineStarts) {
		return ""
	}
	end := len(d.Text)
	if line+1 < len(d.lineStarts) {
		end = d.lineStarts[line+1] - 1
	}
	return strings.TrimSuffix(d.Text[d.lineStarts[line]:end], "\r")
}

// From returns the forward slice of the text starting at line.
func (d *Document) From(line int) string {
	return d.Text[d.LineStart(line):]
}

// PositionAt converts a byte offset into a line/column position.
// Offsets outside the document are clamped.
func (d *Document) PositionAt(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(d.Text) {
		offset = len(d.Text)
	}
	// Largest line whose start is <= offset.
	line := sort.Search(len(d.lineStarts), func(i int) bool {
		return d.lineStarts[i] > offset
	}) - 1
	column := utf8.RuneCountInString(d.Text[d.lineStarts[line]:offset])
	return Position{Line: line, Column: column}
}

// OffsetAt converts a position back into a byte offset, clamping the column
// to the end of the line.
func (d *Document) OffsetAt(pos Position) int {
	if pos.Line < 0 {
		return 0
	}
	if pos.Line >= len(d.lineStarts) {
		return len(d.Text)
	}
	start := d.lineStarts[pos.Line]
	text := d.Line(pos.Line)
	column := 0
	for i := range text {
		if column >= pos.Column {
			return start + i
		}
		column++
	}
	return start + len(text)
}
