package nav

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morozRed/actionref/internal/index"
	"github.com/morozRed/actionref/internal/source"
)

type fakeLinker struct{}

func (fakeLinker) DisplayPath(id string) string { return id }
func (fakeLinker) Target(id string) string      { return "file:///repo/" + id }

func sampleIndex() *index.Index {
	return index.FromEntries([]index.Entry{
		{
			Name:       "fetchUser",
			ActionType: "FETCH_USER",
			Definition: index.Location{File: "src/action-creators.js", Line: 2},
			Usages: []index.Location{
				{File: "store/reducers/user.js", Line: 9, Column: 9},
				{File: "store/sagas/user.js", Line: 0, Column: 4},
			},
		},
		{
			Name:       "setUser",
			ActionType: "SET_USER",
			Definition: index.Location{File: "src/action-creators.js", Line: 7},
			Usages:     []index.Location{{File: "store/reducers/user.js", Line: 12, Column: 9}},
		},
	})
}

func TestRenderMarkdown(t *testing.T) {
	entry, ok := sampleIndex().Lookup("fetchUser")
	require.True(t, ok)

	assert.Equal(t,
		"[store/reducers/user.js](file:///repo/store/reducers/user.js#10)\n\n"+
			"[store/sagas/user.js](file:///repo/store/sagas/user.js#1)\n\n",
		RenderMarkdown(entry, fakeLinker{}))
}

func TestWordAt(t *testing.T) {
	doc := source.NewDocument("a.js", "dispatch(fetchUser());\n  $el.x_1\n")

	tests := []struct {
		name string
		pos  source.Position
		want string
		ok   bool
	}{
		{"start of word", source.Position{Line: 0, Column: 9}, "fetchUser", true},
		{"inside word", source.Position{Line: 0, Column: 12}, "fetchUser", true},
		{"end of word", source.Position{Line: 0, Column: 18}, "fetchUser", true},
		{"dollar and underscore", source.Position{Line: 1, Column: 3}, "$el", true},
		{"after dot", source.Position{Line: 1, Column: 6}, "x_1", true},
		{"whitespace", source.Position{Line: 1, Column: 0}, "", false},
		{"column past end clamps", source.Position{Line: 0, Column: 99}, "", false},
		{"line out of range", source.Position{Line: 5, Column: 0}, "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			word, ok := WordAt(doc, tc.pos)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, word)
		})
	}
}

func TestHover(t *testing.T) {
	doc := source.NewDocument("a.js", "dispatch(fetchUser());\ndispatch(unknown());\n")
	idx := sampleIndex()

	word, markdown, ok := Hover(doc, source.Position{Line: 0, Column: 10}, idx, fakeLinker{})
	require.True(t, ok)
	assert.Equal(t, "fetchUser", word)
	assert.Contains(t, markdown, "#10)")

	word, markdown, ok = Hover(doc, source.Position{Line: 1, Column: 10}, idx, fakeLinker{})
	assert.False(t, ok)
	assert.Equal(t, "unknown", word)
	assert.Empty(t, markdown)
}

func TestSuggest(t *testing.T) {
	names := []string{"fetchUser", "fetchUsers", "setUser", "resetForm"}

	got := Suggest(names, "fetchuser", 5)
	require.GreaterOrEqual(t, len(got), 2)
	assert.Equal(t, []string{"fetchUser", "fetchUsers"}, got[:2])

	assert.Equal(t, []string{"fetchUser"}, Suggest(names, "fetchuser", 1))
	assert.Subset(t, Suggest(names, "User", 5), []string{"fetchUser", "setUser"})
	assert.Nil(t, Suggest(names, " ", 5))
	assert.Nil(t, Suggest(names, "fetch", 0))
}

func TestParseLocationQuery(t *testing.T) {
	tests := []struct {
		query  string
		file   string
		line   int
		column int
		ok     bool
	}{
		{"store/a.js:10:5", "store/a.js", 10, 5, true},
		{"store/a.js:10", "store/a.js", 10, 1, true},
		{"C:/repo/a.js:3:2", "C:/repo/a.js", 3, 2, true},
		{"store/a.js", "", 0, 0, false},
		{"store/a.js:0:1", "", 0, 0, false},
		{"store/a.js:x", "", 0, 0, false},
		{":4", "", 0, 0, false},
	}
	for _, tc := range tests {
		file, line, column, ok := ParseLocationQuery(tc.query)
		assert.Equal(t, tc.ok, ok, tc.query)
		assert.Equal(t, tc.file, file, tc.query)
		assert.Equal(t, tc.line, line, tc.query)
		assert.Equal(t, tc.column, column, tc.query)
	}
}

func TestSnapshotRoundTripAndWriteIfChanged(t *testing.T) {
	root := t.TempDir()
	idx := sampleIndex()

	written, err := WriteSnapshot(root, idx)
	require.NoError(t, err)
	assert.True(t, written)

	written, err = WriteSnapshot(root, sampleIndex())
	require.NoError(t, err)
	assert.False(t, written, "identical index must not rewrite the snapshot")

	snapshot, err := LoadSnapshot(root)
	require.NoError(t, err)
	assert.Equal(t, SnapshotVersion, snapshot.Version)
	assert.Equal(t, []string{"fetchUser", "setUser"}, snapshot.Index().Names())
	assert.Equal(t, idx.Fingerprint(), snapshot.Index().Fingerprint())
}

func TestLoadSnapshot_Missing(t *testing.T) {
	_, err := LoadSnapshot(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoSnapshot)
	assert.Contains(t, err.Error(), "run actionref index")
}

func TestLoadSnapshot_WrongVersion(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Dir(SnapshotPath(root)), 0o755))
	require.NoError(t, os.WriteFile(SnapshotPath(root), []byte(`{"version":"v0","entries":[]}`), 0o644))

	_, err := LoadSnapshot(root)
	assert.ErrorContains(t, err, "unsupported index version")
}

func newTestCommand(run func(*cobra.Command, []string) error) (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{Use: "test", RunE: run}
	cmd.Flags().Bool("json", false, "")
	cmd.Flags().Bool("fuzzy", false, "")
	cmd.Flags().Int("limit", 5, "")
	var out bytes.Buffer
	cmd.SetOut(&out)
	return cmd, &out
}

func setupWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Chdir(root)
	_, err := WriteSnapshot(root, sampleIndex())
	require.NoError(t, err)
	path := filepath.Join(root, "store", "reducers", "user.js")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("import { fetchUser } from '../action-creators';\n"), 0o644))
	return root
}

func TestRunLookup(t *testing.T) {
	setupWorkspace(t)

	cmd, out := newTestCommand(RunLookup)
	require.NoError(t, RunLookup(cmd, []string{"fetchUser"}))
	assert.Contains(t, out.String(), "fetchUser (FETCH_USER) defined at src/action-creators.js:3")
	assert.Contains(t, out.String(), "- store/reducers/user.js:10:10")

	cmd, out = newTestCommand(RunLookup)
	require.NoError(t, cmd.Flags().Set("fuzzy", "true"))
	require.NoError(t, RunLookup(cmd, []string{"fetchUsr"}))
	assert.Contains(t, out.String(), `no usages found for "fetchUsr"`)
	assert.Contains(t, out.String(), "did you mean: fetchUser")
}

func TestRunList(t *testing.T) {
	setupWorkspace(t)

	cmd, out := newTestCommand(RunList)
	require.NoError(t, RunList(cmd, nil))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{
		"action creators (2)",
		"- fetchUser [FETCH_USER] 2 usages",
		"- setUser [SET_USER] 1 usages",
	}, lines)
}

func TestRunHover(t *testing.T) {
	root := setupWorkspace(t)

	cmd, out := newTestCommand(RunHover)
	require.NoError(t, RunHover(cmd, []string{"store/reducers/user.js:1:12"}))
	target := "file://" + filepath.ToSlash(filepath.Join(root, "store", "reducers", "user.js"))
	assert.Contains(t, out.String(), "[store/reducers/user.js]("+target+"#10)")

	cmd, out = newTestCommand(RunHover)
	require.NoError(t, RunHover(cmd, []string{"store/reducers/user.js:1:1"}))
	assert.Contains(t, out.String(), "no action creator at store/reducers/user.js:1:1")

	cmd, _ = newTestCommand(RunHover)
	assert.Error(t, RunHover(cmd, []string{"store/reducers/user.js"}))
}

func TestRunLookup_NoSnapshot(t *testing.T) {
	t.Chdir(t.TempDir())
	cmd, _ := newTestCommand(RunLookup)
	err := RunLookup(cmd, []string{"fetchUser"})
	assert.ErrorIs(t, err, ErrNoSnapshot)
}
