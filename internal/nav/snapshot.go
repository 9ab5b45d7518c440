package nav

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/morozRed/actionref/internal/config"
	"github.com/morozRed/actionref/internal/fileutil"
	"github.com/morozRed/actionref/internal/index"
)

const (
	SnapshotFile    = "index.json"
	SnapshotVersion = "actionref-index-v1"
)

// ErrNoSnapshot is returned by LoadSnapshot when no index has been written yet.
var ErrNoSnapshot = errors.New("action creator index missing (run actionref index)")

// Snapshot is the persisted form of an index.
type Snapshot struct {
	Version     string        `json:"version"`
	Root        string        `json:"root"`
	Fingerprint string        `json:"fingerprint"`
	Entries     []index.Entry `json:"entries"`
}

// SnapshotPath returns the snapshot location under rootPath.
func SnapshotPath(rootPath string) string {
	return filepath.Join(rootPath, config.DirName, SnapshotFile)
}

// NewSnapshot captures idx with entries in name order.
func NewSnapshot(rootPath string, idx *index.Index) Snapshot {
	entries := idx.Entries()
	if entries == nil {
		entries = []index.Entry{}
	}
	return Snapshot{
		Version:     SnapshotVersion,
		Root:        filepath.ToSlash(rootPath),
		Fingerprint: fileutil.FormatHash(idx.Fingerprint()),
		Entries:     entries,
	}
}

// WriteSnapshot persists idx. An unchanged index leaves the file untouched;
// the returned bool reports whether the file was rewritten.
func WriteSnapshot(rootPath string, idx *index.Index) (bool, error) {
	data, err := json.MarshalIndent(NewSnapshot(rootPath, idx), "", "  ")
	if err != nil {
		return false, err
	}
	return fileutil.WriteIfChangedTracked(SnapshotPath(rootPath), data)
}

// LoadSnapshot reads the snapshot written by WriteSnapshot.
func LoadSnapshot(rootPath string) (*Snapshot, error) {
	path := SnapshotPath(rootPath)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrNoSnapshot, path)
		}
		return nil, fmt.Errorf("failed to read action creator index: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode action creator index: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported index version %q (run actionref index)", snapshot.Version)
	}
	return &snapshot, nil
}

// Index rebuilds the in-memory index from the snapshot.
func (s *Snapshot) Index() *index.Index {
	if s == nil {
		return index.Empty()
	}
	return index.FromEntries(s.Entries)
}
