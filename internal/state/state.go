package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/morozRed/actionref/internal/fileutil"
)

const (
	StateFile           = ".state.json"
	CurrentStateVersion = "1"
)

// FileState tracks the state of a single input file
type FileState struct {
	Hash      string    `json:"hash"`
	UpdatedAt time.Time `json:"updated_at"`
}

// State records the input files an index was built from.
type State struct {
	Version     string               `json:"version"`
	Fingerprint string               `json:"fingerprint,omitempty"`
	UpdatedAt   time.Time            `json:"updated_at"`
	Files       map[string]FileState `json:"files"`
}

// NewState creates a new empty state
func NewState() *State {
	return &State{
		Version: CurrentStateVersion,
		Files:   make(map[string]FileState),
	}
}

// FromHashes builds a state for a freshly built index.
func FromHashes(hashes map[string]string, fingerprint string) *State {
	s := NewState()
	s.Fingerprint = fingerprint
	for file, hash := range hashes {
		s.SetFileHash(file, hash)
	}
	return s
}

// Load reads state from the context state file. A missing file yields an
// empty state.
func Load(contextDir string) (*State, error) {
	path := filepath.Join(contextDir, StateFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", StateFile, err)
	}
	if state.Version == "" {
		state.Version = CurrentStateVersion
	}
	if state.Files == nil {
		state.Files = make(map[string]FileState)
	}
	return &state, nil
}

// Save writes state to the context state file.
func (s *State) Save(contextDir string) error {
	if s.Version == "" {
		s.Version = CurrentStateVersion
	}
	if s.Files == nil {
		s.Files = make(map[string]FileState)
	}

	s.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return fileutil.WriteIfChanged(filepath.Join(contextDir, StateFile), data)
}

// SetFileHash updates the hash for a file
func (s *State) SetFileHash(file, hash string) {
	s.Files[file] = FileState{
		Hash:      hash,
		UpdatedAt: time.Now(),
	}
}

// GetFileHash returns the stored hash for a file
func (s *State) GetFileHash(file string) (string, bool) {
	fs, ok := s.Files[file]
	if !ok {
		return "", false
	}
	return fs.Hash, true
}

// HasChanged returns true if the file hash differs from stored
func (s *State) HasChanged(file, currentHash string) bool {
	storedHash, ok := s.GetFileHash(file)
	if !ok {
		return true // New file
	}
	return storedHash != currentHash
}

// ChangedFiles returns new or modified files, sorted.
func (s *State) ChangedFiles(currentHashes map[string]string) []string {
	changed := make([]string, 0)
	for file, hash := range currentHashes {
		if s.HasChanged(file, hash) {
			changed = append(changed, file)
		}
	}
	sort.Strings(changed)
	return changed
}

// DeletedFiles returns recorded files that no longer exist, sorted.
func (s *State) DeletedFiles(currentFiles map[string]bool) []string {
	deleted := make([]string, 0)
	for file := range s.Files {
		if !currentFiles[file] {
			deleted = append(deleted, file)
		}
	}
	sort.Strings(deleted)
	return deleted
}

// Staleness compares the recorded inputs with the current ones.
type Staleness struct {
	Changed []string `json:"changed"`
	Deleted []string `json:"deleted"`
}

// Stale reports whether anything changed.
func (st Staleness) Stale() bool {
	return len(st.Changed) > 0 || len(st.Deleted) > 0
}

// Compare diffs currentHashes (file -> hash) against the recorded state.
func (s *State) Compare(currentHashes map[string]string) Staleness {
	present := make(map[string]bool, len(currentHashes))
	for file := range currentHashes {
		present[file] = true
	}
	return Staleness{
		Changed: s.ChangedFiles(currentHashes),
		Deleted: s.DeletedFiles(present),
	}
}
