package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morozRed/actionref/internal/cli"
	"github.com/morozRed/actionref/internal/index"
)

func run(t *testing.T, args ...string) []byte {
	t.Helper()
	cmd := cli.NewRootCommand("test")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute(), "actionref %v", args)
	return out.Bytes()
}

func copyFixture(t *testing.T, name string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.CopyFS(root, os.DirFS(filepath.Join("..", "..", "fixtures", name))))
	return root
}

func TestReduxFixture(t *testing.T) {
	root := copyFixture(t, "redux")
	t.Chdir(root)

	var summary cli.IndexSummary
	require.NoError(t, json.Unmarshal(run(t, "index", "--json"), &summary))
	assert.Equal(t, 2, summary.DefinitionFiles)
	assert.Equal(t, 3, summary.UsageFiles)
	assert.Equal(t, 3, summary.ExcludedFiles)
	assert.Equal(t, 6, summary.Definitions)
	assert.Equal(t, 5, summary.Indexed)
	assert.Equal(t, []string{"resetUsers"}, summary.Pruned)

	var list struct {
		Count    int `json:"count"`
		Creators []struct {
			Name       string `json:"name"`
			ActionType string `json:"action_type"`
			Usages     int    `json:"usages"`
		} `json:"creators"`
	}
	require.NoError(t, json.Unmarshal(run(t, "list", "--json"), &list))
	require.Equal(t, 5, list.Count)

	got := make(map[string]int, len(list.Creators))
	for _, creator := range list.Creators {
		got[creator.Name+"/"+creator.ActionType] = creator.Usages
	}
	assert.Equal(t, map[string]int{
		"addItem/ADD_ITEM":           1,
		"clearCart/CLEAR_CART":       1,
		"fetchUsers/FETCH_USERS":     1,
		"receiveUsers/RECEIVE_USERS": 2,
		"selectUser/SELECT_USER":     1,
	}, got)

	var lookup struct {
		Found bool        `json:"found"`
		Entry index.Entry `json:"entry"`
	}
	require.NoError(t, json.Unmarshal(run(t, "lookup", "receiveUsers", "--json"), &lookup))
	require.True(t, lookup.Found)
	assert.Equal(t, index.Location{File: "src/users/action-creators.js", Line: 6}, lookup.Entry.Definition)
	assert.Equal(t, []index.Location{
		{File: "src/users/store/reducer.js", Line: 6, Column: 9},
		{File: "src/users/store/sagas.js", Line: 6, Column: 20},
	}, lookup.Entry.Usages)

	var miss struct {
		Found       bool     `json:"found"`
		Suggestions []string `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(run(t, "lookup", "fetchUser", "--json", "--fuzzy"), &miss))
	assert.False(t, miss.Found)
	assert.Contains(t, miss.Suggestions, "fetchUsers")
}

func TestReduxFixtureStatus(t *testing.T) {
	root := copyFixture(t, "redux")
	t.Chdir(root)

	run(t, "index", "--quiet")

	var status cli.StatusSummary
	require.NoError(t, json.Unmarshal(run(t, "status", "--json"), &status))
	assert.True(t, status.Indexed)
	assert.False(t, status.Stale)
	assert.Equal(t, 5, status.Scanned)

	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "legacy", "store", "old.js"), []byte("RESET_USERS RESET_USERS\n"), 0644))
	require.NoError(t, json.Unmarshal(run(t, "status", "--json"), &status))
	assert.False(t, status.Stale, "ignored files never make the index stale")
}
