package index

import (
	"context"
	"strings"

	"github.com/morozRed/actionref/internal/source"
)

// usageScan accumulates usages for one creator across usage files.
type usageScan struct {
	actionType string
	usageCount map[string]int // per-file occurrences, including the suppressed first one
	usages     []Location
}

func newUsageScan(actionType string) *usageScan {
	return &usageScan{actionType: actionType, usageCount: make(map[string]int)}
}

// scanDocument performs a literal, non-overlapping, leftmost-first search for
// the action type. The first occurrence in each file is taken to be the
// import that brings the constant into scope and is only counted.
func (s *usageScan) scanDocument(doc *source.Document) {
	if doc == nil || s.actionType == "" {
		return
	}
	text := doc.Text
	for offset := 0; offset <= len(text); {
		i := strings.Index(text[offset:], s.actionType)
		if i < 0 {
			return
		}
		start := offset + i
		s.usageCount[doc.ID]++
		if s.usageCount[doc.ID] > 1 {
			pos := doc.PositionAt(start)
			s.usages = append(s.usages, Location{File: doc.ID, Line: pos.Line, Column: pos.Column})
		}
		offset = start + len(s.actionType)
	}
}

// ScanUsages returns the retained usage locations of actionType across docs,
// in document order then text order. Nil documents are skipped. The scan
// stops early with ctx's error when ctx is cancelled between documents.
func ScanUsages(ctx context.Context, actionType string, docs []*source.Document) ([]Location, error) {
	scan := newUsageScan(actionType)
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		scan.scanDocument(doc)
	}
	return scan.usages, nil
}
