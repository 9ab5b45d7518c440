package nav

import (
	"fmt"
	"strings"

	"github.com/morozRed/actionref/internal/index"
	"github.com/morozRed/actionref/internal/source"
)

// Linker turns file ids into what a user sees and what a link points to.
type Linker interface {
	DisplayPath(id string) string
	Target(id string) string
}

// Link is one rendered usage. Line is zero-based.
type Link struct {
	Label  string `json:"label"`
	Target string `json:"target"`
	Line   int    `json:"line"`
}

// Markdown renders the link with a one-based line anchor.
func (l Link) Markdown() string {
	return fmt.Sprintf("[%s](%s#%d)", l.Label, l.Target, l.Line+1)
}

// Links renders the usages of entry in index order.
func Links(entry index.Entry, linker Linker) []Link {
	links := make([]Link, 0, len(entry.Usages))
	for _, usage := range entry.Usages {
		links = append(links, Link{
			Label:  linker.DisplayPath(usage.File),
			Target: linker.Target(usage.File),
			Line:   usage.Line,
		})
	}
	return links
}

// RenderMarkdown renders one paragraph per usage.
func RenderMarkdown(entry index.Entry, linker Linker) string {
	var b strings.Builder
	for _, link := range Links(entry, linker) {
		b.WriteString(link.Markdown())
		b.WriteString("\n\n")
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' || r == '$' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// WordAt returns the identifier touching pos, including a word that ends
// exactly at pos.
func WordAt(doc *source.Document, pos source.Position) (string, bool) {
	if doc == nil || pos.Line < 0 || pos.Line >= doc.LineCount() {
		return "", false
	}
	runes := []rune(doc.Line(pos.Line))
	col := pos.Column
	if col < 0 {
		col = 0
	}
	if col > len(runes) {
		col = len(runes)
	}

	start, end := col, col
	for start > 0 && isWordRune(runes[start-1]) {
		start--
	}
	for end < len(runes) && isWordRune(runes[end]) {
		end++
	}
	if start == end {
		return "", false
	}
	return string(runes[start:end]), true
}

// Hover renders the usages of the creator named under pos. ok is false when
// there is no word there or it is not an indexed creator.
func Hover(doc *source.Document, pos source.Position, idx *index.Index, linker Linker) (word string, markdown string, ok bool) {
	word, ok = WordAt(doc, pos)
	if !ok {
		return "", "", false
	}
	entry, found := idx.Lookup(word)
	if !found {
		return word, "", false
	}
	return word, RenderMarkdown(entry, linker), true
}
