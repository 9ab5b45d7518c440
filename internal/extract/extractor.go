// Package extract finds action-creator definitions in source text and the
// action type each one emits. Matching is lexical: no syntax tree is built.
package extract

import (
	"iter"
	"strings"

	"github.com/morozRed/actionref/internal/source"
)

// Definition is one recognized (creator name, action type) pair.
type Definition struct {
	Name       string `json:"name"`
	ActionType string `json:"action_type"`
	File       string `json:"file"`
	Line       int    `json:"line"` // zero-based
	Kind       Kind   `json:"-"`
}

// Extractor yields definitions from definition-file documents.
type Extractor struct {
	classifier *Classifier
}

func NewExtractor(factories []string) *Extractor {
	return &Extractor{classifier: NewClassifier(factories)}
}

// Definitions lazily yields one Definition per recognized definition line,
// in line order. Lines producing only a name or only a type yield nothing.
func (e *Extractor) Definitions(doc *source.Document) iter.Seq[Definition] {
	return func(yield func(Definition) bool) {
		if doc == nil {
			return
		}
		for line := 0; line < doc.LineCount(); line++ {
			stmt := e.classifier.Classify(doc.Line(line))
			if stmt.Kind == KindOther {
				continue
			}
			name := strings.TrimSpace(stmt.Name)
			actionType := strings.TrimSpace(e.classifier.Resolve(stmt, doc.From(line)))
			if name == "" || actionType == "" {
				continue
			}
			def := Definition{
				Name:       name,
				ActionType: actionType,
				File:       doc.ID,
				Line:       line,
				Kind:       stmt.Kind,
			}
			if !yield(def) {
				return
			}
		}
	}
}
