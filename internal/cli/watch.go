package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/morozRed/actionref/internal/index"
	"github.com/morozRed/actionref/internal/watch"
)

// liveIndex keeps a published index in sync with the workspace.
type liveIndex struct {
	p   *project
	svc *index.Service
}

func newLiveIndex(p *project) *liveIndex {
	return &liveIndex{p: p, svc: index.NewService(p.ws, p.options())}
}

// refresh rebuilds the whole index, publishes it and persists it. On failure
// the previous index stays published.
func (l *liveIndex) refresh(ctx context.Context) (*index.Index, error) {
	idx, report, err := l.svc.Rebuild(ctx)
	if err != nil {
		return nil, err
	}
	ReportIssues(report.Issues)
	if _, err := persistIndex(l.p, idx, report); err != nil {
		return idx, err
	}
	return idx, nil
}

// onChange is the watcher callback.
func (l *liveIndex) onChange(ctx context.Context, changed []string) {
	log.Printf("Rebuilding index after changes in %d file(s): %s", len(changed), SummarizePaths(changed, 5))
	start := time.Now()

	idx, err := l.refresh(ctx)
	if err != nil {
		log.Printf("Error during rebuild: %v", err)
		return
	}
	log.Printf("Rebuild complete in %v (%d action creators)", time.Since(start).Round(time.Millisecond), idx.Len())
}

func (l *liveIndex) newWatcher() (*watch.Watcher, error) {
	w, err := watch.New(l.p.rootPath, l.p.ws, l.p.cfg.Debounce(), l.onChange)
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return w, nil
}

func RunWatch(cmd *cobra.Command, args []string) error {
	rootPath, err := resolveWorkingDirectory()
	if err != nil {
		return err
	}
	p, err := openProject(rootPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	live := newLiveIndex(p)
	idx, err := live.refresh(ctx)
	if err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}
	log.Printf("Indexed %d action creators; watching %s for changes...", idx.Len(), p.rootPath)

	w, err := live.newWatcher()
	if err != nil {
		return err
	}
	w.Start(ctx)
	defer w.Stop()

	<-ctx.Done()
	log.Printf("Stopping watcher...")
	return nil
}
