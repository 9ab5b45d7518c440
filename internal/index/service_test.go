package index

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_LookupBeforeFirstRebuild(t *testing.T) {
	svc := NewService(newMemWorkspace(map[string]string{}), defaultOptions())

	_, ok := svc.Lookup("fetchUser")
	assert.False(t, ok)
	require.NotNil(t, svc.Current())
	assert.Equal(t, 0, svc.Current().Len())
}

func TestService_RebuildPublishesIndex(t *testing.T) {
	ws := newMemWorkspace(map[string]string{
		"src/action-creators.js": fetchUserCreator,
		"store/reducers/user.js": userReducer,
	})
	svc := NewService(ws, defaultOptions())

	idx, report, err := svc.Rebuild(context.Background())
	require.NoError(t, err)
	assert.Same(t, idx, svc.Current())
	assert.Equal(t, 1, report.Indexed)

	entry, ok := svc.Lookup("fetchUser")
	require.True(t, ok)
	assert.Len(t, entry.Usages, 1)
}

func TestService_FailedRebuildKeepsPreviousIndex(t *testing.T) {
	ws := newMemWorkspace(map[string]string{
		"src/action-creators.js": fetchUserCreator,
		"store/reducers/user.js": userReducer,
	})
	svc := NewService(ws, defaultOptions())
	before, _, err := svc.Rebuild(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = svc.Rebuild(ctx)
	require.Error(t, err)

	assert.Same(t, before, svc.Current())
	_, ok := svc.Lookup("fetchUser")
	assert.True(t, ok)
}

func TestService_LookupReturnsCopies(t *testing.T) {
	ws := newMemWorkspace(map[string]string{
		"src/action-creators.js": fetchUserCreator,
		"store/reducers/user.js": userReducer,
	})
	svc := NewService(ws, defaultOptions())
	_, _, err := svc.Rebuild(context.Background())
	require.NoError(t, err)

	entry, _ := svc.Lookup("fetchUser")
	entry.Usages[0].Line = 999

	again, _ := svc.Lookup("fetchUser")
	assert.Equal(t, 9, again.Usages[0].Line)
}

func TestService_ConcurrentRebuildsAndLookups(t *testing.T) {
	ws := newMemWorkspace(map[string]string{
		"src/action-creators.js": fetchUserCreator,
		"store/reducers/user.js": userReducer,
	})
	svc := NewService(ws, defaultOptions())
	want, _, err := Rebuild(context.Background(), ws, defaultOptions())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _, err := svc.Rebuild(context.Background())
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				// Either the empty initial index or a complete one, never a partial one.
				if entry, ok := svc.Lookup("fetchUser"); ok {
					assert.Len(t, entry.Usages, 1)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, want.Fingerprint(), svc.Current().Fingerprint())
}
