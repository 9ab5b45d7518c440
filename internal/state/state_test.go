package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangedAndDeletedFiles(t *testing.T) {
	s := NewState()
	s.SetFileHash("a.js", "a1")
	s.SetFileHash("b.js", "b1")
	s.SetFileHash("c.js", "c1")

	changed := s.ChangedFiles(map[string]string{
		"a.js": "a1",
		"b.js": "b2",
		"d.js": "d1",
	})
	assert.Equal(t, []string{"b.js", "d.js"}, changed)

	deleted := s.DeletedFiles(map[string]bool{
		"a.js": true,
		"b.js": true,
		"d.js": true,
	})
	assert.Equal(t, []string{"c.js"}, deleted)
}

func TestCompare(t *testing.T) {
	s := FromHashes(map[string]string{"a.js": "a1", "b.js": "b1"}, "00ff")

	fresh := s.Compare(map[string]string{"a.js": "a1", "b.js": "b1"})
	assert.False(t, fresh.Stale())

	stale := s.Compare(map[string]string{"a.js": "a2"})
	assert.True(t, stale.Stale())
	assert.Equal(t, []string{"a.js"}, stale.Changed)
	assert.Equal(t, []string{"b.js"}, stale.Deleted)
}

func TestSaveAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".actionref")
	s := FromHashes(map[string]string{"store/a.js": "0123"}, "beef")
	require.NoError(t, s.Save(dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, CurrentStateVersion, loaded.Version)
	assert.Equal(t, "beef", loaded.Fingerprint)
	hash, ok := loaded.GetFileHash("store/a.js")
	assert.True(t, ok)
	assert.Equal(t, "0123", hash)
}

func TestLoadMissingAndMalformed(t *testing.T) {
	dir := t.TempDir()
	s, err := Load(dir)
	require.NoError(t, err)
	assert.Empty(t, s.Files)

	require.NoError(t, os.WriteFile(filepath.Join(dir, StateFile), []byte("{"), 0o644))
	_, err = Load(dir)
	assert.Error(t, err)
}
