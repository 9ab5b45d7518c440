package index

import (
	"context"
	"sync"
	"sync/atomic"
)

// Service owns the published index. Readers always see a complete index:
// a rebuild assembles a new one off to the side and swaps it in atomically.
type Service struct {
	ws   Workspace
	opts Options

	rebuildMu sync.Mutex // serializes rebuilds; lookups never take it
	current   atomic.Pointer[Index]
}

func NewService(ws Workspace, opts Options) *Service {
	s := &Service{ws: ws, opts: opts}
	s.current.Store(Empty())
	return s
}

// Rebuild scans the workspace and publishes the result. Concurrent calls
// run one after another. On error the previous index stays published.
func (s *Service) Rebuild(ctx context.Context) (*Index, *Report, error) {
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	idx, report, err := Rebuild(ctx, s.ws, s.opts)
	if err != nil {
		return nil, report, err
	}
	s.current.Store(idx)
	return idx, report, nil
}

// Current returns the published index.
func (s *Service) Current() *Index {
	return s.current.Load()
}

// Lookup queries the published index.
func (s *Service) Lookup(name string) (Entry, bool) {
	return s.Current().Lookup(name)
}
