package index

import (
	"slices"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Location is a zero-based position in a workspace file.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// Entry is everything known about one action creator.
type Entry struct {
	Name       string     `json:"name"`
	ActionType string     `json:"action_type"`
	Definition Location   `json:"definition"`
	Usages     []Location `json:"usages"`
}

// Issue captures a non-fatal problem encountered while building the index.
type Issue struct {
	File     string `json:"file"`
	Severity string `json:"severity"` // warning | error
	Message  string `json:"message"`
}

// Index maps creator names to entries. It is never mutated after
// construction, so it is safe for concurrent readers.
type Index struct {
	entries map[string]Entry
}

// Empty returns an index with no entries.
func Empty() *Index {
	return &Index{entries: map[string]Entry{}}
}

// FromEntries builds an index, e.g. from a persisted snapshot. Entries
// without usages are dropped and a repeated name keeps the last entry.
func FromEntries(entries []Entry) *Index {
	idx := &Index{entries: make(map[string]Entry, len(entries))}
	for _, entry := range entries {
		if entry.Name == "" || len(entry.Usages) == 0 {
			continue
		}
		entry.Usages = slices.Clone(entry.Usages)
		idx.entries[entry.Name] = entry
	}
	return idx
}

// Lookup returns the entry for name.
func (idx *Index) Lookup(name string) (Entry, bool) {
	if idx == nil {
		return Entry{}, false
	}
	entry, ok := idx.entries[name]
	if !ok {
		return Entry{}, false
	}
	entry.Usages = slices.Clone(entry.Usages)
	return entry, true
}

func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.entries)
}

// Names returns the indexed creator names in sorted order.
func (idx *Index) Names() []string {
	if idx == nil {
		return nil
	}
	names := make([]string, 0, len(idx.entries))
	for name := range idx.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entries returns copies of all entries ordered by name.
func (idx *Index) Entries() []Entry {
	names := idx.Names()
	out := make([]Entry, 0, len(names))
	for _, name := range names {
		entry, _ := idx.Lookup(name)
		out = append(out, entry)
	}
	return out
}

// Fingerprint hashes names, action types and usage lists. Two indexes with
// equal fingerprints answer every lookup identically.
func (idx *Index) Fingerprint() uint64 {
	h := xxhash.New()
	write := func(s string) {
		_, _ = h.WriteString(s)
		_, _ = h.WriteString("\x00")
	}
	for _, entry := range idx.Entries() {
		write(entry.Name)
		write(entry.ActionType)
		for _, usage := range entry.Usages {
			write(usage.File)
			write(strconv.Itoa(usage.Line))
			write(strconv.Itoa(usage.Column))
		}
		write("\x01")
	}
	return h.Sum64()
}
