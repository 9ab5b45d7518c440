// Package watch triggers full index rebuilds when JavaScript sources change.
package watch

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/morozRed/actionref/internal/fileutil"
)

// Ignorer reports whether a root-relative path is excluded from the workspace.
type Ignorer interface {
	Ignored(relPath string, isDir bool) bool
}

// ChangeFunc handles one debounced batch of changed files (root-relative,
// slash-separated, sorted). Calls never overlap.
type ChangeFunc func(ctx context.Context, changed []string)

// Watcher watches a directory tree and reports quiet-period batches of
// changes to .js files.
type Watcher struct {
	rootDir      string
	ignorer      Ignorer
	onChange     ChangeFunc
	watcher      *fsnotify.Watcher
	debounceTime time.Duration

	stopCh    chan struct{}
	doneCh    chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
	started   bool
	mu        sync.Mutex
}

// New creates a watcher over rootDir. Nothing is delivered until Start.
func New(rootDir string, ignorer Ignorer, debounce time.Duration, onChange ChangeFunc) (*Watcher, error) {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(absRoot); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		rootDir:      absRoot,
		ignorer:      ignorer,
		onChange:     onChange,
		watcher:      fsw,
		debounceTime: debounce,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}

	if err := w.addDirectoriesRecursively(absRoot); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Start begins watching in a background goroutine. Subsequent calls are no-ops.
func (w *Watcher) Start(ctx context.Context) {
	w.startOnce.Do(func() {
		w.mu.Lock()
		w.started = true
		w.mu.Unlock()
		go w.watch(ctx)
	})
}

// Stop stops the watcher and waits for an in-flight batch to finish. It is
// safe to call more than once and without Start.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.mu.Lock()
		started := w.started
		w.mu.Unlock()
		if started {
			<-w.doneCh
		}
		w.watcher.Close()
	})
}

func (w *Watcher) watch(ctx context.Context) {
	defer close(w.doneCh)

	var debounceTimer *time.Timer
	flushCh := make(chan struct{}, 1)
	changed := make(map[string]bool)

	stopTimer := func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}

	for {
		select {
		case <-ctx.Done():
			stopTimer()
			return

		case <-w.stopCh:
			stopTimer()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				stopTimer()
				return
			}

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if w.shouldWatchDirectory(event.Name) {
						if err := w.addDirectoriesRecursively(event.Name); err != nil {
							log.Printf("Warning: failed to watch new directory %s: %v", event.Name, err)
						}
					}
					continue
				}
			}

			relPath, ok := w.relevant(event)
			if !ok {
				continue
			}
			changed[relPath] = true

			stopTimer()
			debounceTimer = time.AfterFunc(w.debounceTime, func() {
				select {
				case flushCh <- struct{}{}:
				default:
				}
			})

		case <-flushCh:
			if len(changed) == 0 {
				continue
			}
			files := fileutil.MapKeysSorted(changed)
			changed = make(map[string]bool)
			w.onChange(ctx, files)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				stopTimer()
				return
			}
			log.Printf("File watcher error: %v", err)
		}
	}
}

// relevant filters events down to content changes of non-ignored .js files.
func (w *Watcher) relevant(event fsnotify.Event) (string, bool) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return "", false
	}
	if !strings.EqualFold(filepath.Ext(event.Name), ".js") {
		return "", false
	}
	relPath, err := filepath.Rel(w.rootDir, event.Name)
	if err != nil || strings.HasPrefix(relPath, "..") {
		return "", false
	}
	if w.ignorer != nil && w.ignorer.Ignored(relPath, false) {
		return "", false
	}
	return filepath.ToSlash(relPath), true
}

func (w *Watcher) shouldWatchDirectory(path string) bool {
	relPath, err := filepath.Rel(w.rootDir, path)
	if err != nil {
		return false
	}
	if relPath == "." {
		return true
	}
	return w.ignorer == nil || !w.ignorer.Ignored(relPath, true)
}

func (w *Watcher) addDirectoriesRecursively(rootPath string) error {
	return filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Printf("Warning: error accessing %s: %v", path, err)
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if !w.shouldWatchDirectory(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			log.Printf("Warning: failed to watch directory %s: %v", path, err)
		}
		return nil
	})
}
