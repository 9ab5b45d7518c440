// Package workspace resolves file ids against a project directory on disk.
// A file id is the slash-separated path relative to the workspace root.
package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/morozRed/actionref/internal/ignore"
)

// FS is a Workspace rooted at a directory.
type FS struct {
	root    string
	matcher *ignore.Matcher
}

// New returns a workspace rooted at root that honours root/.actionrefignore.
func New(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
	}
	rules, err := ignore.LoadRules(abs)
	if err != nil {
		return nil, err
	}
	return &FS{root: abs, matcher: ignore.NewMatcher(rules)}, nil
}

// Root returns the absolute workspace root.
func (w *FS) Root() string {
	return w.root
}

// Files walks the workspace and returns every non-ignored file id in
// lexical order.
func (w *FS) Files(ctx context.Context) ([]string, error) {
	var ids []string
	err := filepath.WalkDir(w.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != w.root {
				return filepath.SkipDir
			}
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if path == w.root {
			return nil
		}

		relPath, err := filepath.Rel(w.root, path)
		if err != nil {
			return nil
		}
		if w.matcher.ShouldIgnore(relPath, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		ids = append(ids, filepath.ToSlash(relPath))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

// FindFiles returns the ids matching a doublestar pattern. "**/" matches
// zero or more directories, so "**/store/**/*.js" also matches "store/a.js".
func (w *FS) FindFiles(ctx context.Context, pattern string) ([]string, error) {
	pattern = strings.TrimPrefix(filepath.ToSlash(strings.TrimSpace(pattern)), "./")
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern %q", pattern)
	}

	files, err := w.Files(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]string, 0, len(files))
	for _, id := range files {
		if doublestar.MatchUnvalidated(pattern, id) {
			matched = append(matched, id)
		}
	}
	return matched, nil
}

// ReadFile returns the text of the file with the given id.
func (w *FS) ReadFile(id string) (string, error) {
	data, err := os.ReadFile(w.Path(id))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Path returns the absolute OS path of id.
func (w *FS) Path(id string) string {
	return filepath.Join(w.root, filepath.FromSlash(id))
}

// ID converts an absolute or root-relative path into a file id. ok is false
// when the path lies outside the workspace.
func (w *FS) ID(path string) (string, bool) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(w.root, path)
	}
	rel, err := filepath.Rel(w.root, filepath.Clean(path))
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// Ignored reports whether the matcher excludes a root-relative path.
func (w *FS) Ignored(relPath string, isDir bool) bool {
	return w.matcher.ShouldIgnore(relPath, isDir)
}

// DisplayPath is the workspace-relative path shown to users.
func (w *FS) DisplayPath(id string) string {
	return id
}

// Target is the link target for id: a file URI of its absolute path.
func (w *FS) Target(id string) string {
	return "file://" + filepath.ToSlash(w.Path(id))
}
