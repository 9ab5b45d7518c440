package index

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/morozRed/actionref/internal/config"
	"github.com/morozRed/actionref/internal/extract"
	"github.com/morozRed/actionref/internal/fileutil"
	"github.com/morozRed/actionref/internal/source"
)

// Workspace is the host environment the indexer reads from.
type Workspace interface {
	// FindFiles returns file ids matching pattern in a deterministic order.
	FindFiles(ctx context.Context, pattern string) ([]string, error)
	// ReadFile returns the full text of a file.
	ReadFile(id string) (string, error)
}

// Options controls a rebuild.
type Options struct {
	DefinitionGlobs []string
	UsageGlobs      []string
	ExcludeUsages   []string
	Factories       []string
	Workers         int

	// OnFileLoaded, when set, is called once per file read attempt.
	OnFileLoaded func(id string)
}

// OptionsFromConfig maps configuration onto rebuild options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		DefinitionGlobs: cfg.Paths.Definitions,
		UsageGlobs:      cfg.Paths.Usages,
		ExcludeUsages:   cfg.Paths.ExcludeUsages,
		Factories:       cfg.Extract.Factories,
		Workers:         cfg.Scan.Workers,
	}
}

// Report describes what a rebuild looked at.
type Report struct {
	DefinitionFiles []string          `json:"definition_files"`
	UsageFiles      []string          `json:"usage_files"`
	ExcludedFiles   []string          `json:"excluded_files,omitempty"`
	Definitions     int               `json:"definitions"`
	Indexed         int               `json:"indexed"`
	Pruned          []string          `json:"pruned,omitempty"`
	Issues          []Issue           `json:"issues,omitempty"`
	Hashes          map[string]string `json:"-"` // content hash per successfully read file
}

// Rebuild runs the full two-pass pipeline and returns a fresh index.
// Per-file read failures are recorded as issues and contribute nothing; an
// error is returned only when enumeration fails or ctx is cancelled.
func Rebuild(ctx context.Context, ws Workspace, opts Options) (*Index, *Report, error) {
	report := &Report{Hashes: make(map[string]string)}

	filter, err := NewUsageFilter(opts.ExcludeUsages)
	if err != nil {
		return nil, report, err
	}

	definitionFiles, usageFiles, err := enumerate(ctx, ws, opts)
	if err != nil {
		return nil, report, err
	}
	report.DefinitionFiles = definitionFiles
	if len(definitionFiles) == 0 || len(usageFiles) == 0 {
		report.UsageFiles = usageFiles
		return Empty(), report, nil
	}
	report.UsageFiles, report.ExcludedFiles = filter.Split(usageFiles)

	definitionDocs, err := loadDocuments(ctx, ws, definitionFiles, opts, report)
	if err != nil {
		return nil, report, err
	}
	usageDocs, err := loadDocuments(ctx, ws, report.UsageFiles, opts, report)
	if err != nil {
		return nil, report, err
	}

	definitions := collectDefinitions(definitionDocs, extract.NewExtractor(opts.Factories), report)
	report.Definitions = len(definitions)

	// Each creator is scanned independently into its own slot; the merge
	// below is sequential, so no entry is ever written concurrently.
	results := make([][]Location, len(definitions))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit(opts.Workers))
	for i, def := range definitions {
		g.Go(func() error {
			usages, err := ScanUsages(gctx, def.ActionType, usageDocs)
			if err != nil {
				return err
			}
			results[i] = usages
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, report, err
	}

	idx := &Index{entries: make(map[string]Entry, len(definitions))}
	for i, def := range definitions {
		if len(results[i]) == 0 {
			report.Pruned = append(report.Pruned, def.Name)
			continue
		}
		idx.entries[def.Name] = Entry{
			Name:       def.Name,
			ActionType: def.ActionType,
			Definition: Location{File: def.File, Line: def.Line},
			Usages:     results[i],
		}
	}
	report.Indexed = idx.Len()
	return idx, report, nil
}

// Inputs lists the files a rebuild with opts would read: definition files
// and the usage files that survive the exclusion filter.
func Inputs(ctx context.Context, ws Workspace, opts Options) (definitions, usages, excluded []string, err error) {
	filter, err := NewUsageFilter(opts.ExcludeUsages)
	if err != nil {
		return nil, nil, nil, err
	}
	definitions, all, err := enumerate(ctx, ws, opts)
	if err != nil {
		return nil, nil, nil, err
	}
	usages, excluded = filter.Split(all)
	return definitions, usages, excluded, nil
}

func enumerate(ctx context.Context, ws Workspace, opts Options) (definitions, usages []string, err error) {
	definitions, err = findAll(ctx, ws, opts.DefinitionGlobs)
	if err != nil {
		return nil, nil, err
	}
	usages, err = findAll(ctx, ws, opts.UsageGlobs)
	if err != nil {
		return nil, nil, err
	}
	return definitions, usages, nil
}

func findAll(ctx context.Context, ws Workspace, patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, pattern := range patterns {
		ids, err := ws.FindFiles(ctx, pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to find files for %q: %w", pattern, err)
		}
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	return out, nil
}

// loadDocuments reads ids concurrently. The result is positional: a failed
// read leaves a nil document and records an issue.
func loadDocuments(ctx context.Context, ws Workspace, ids []string, opts Options, report *Report) ([]*source.Document, error) {
	docs := make([]*source.Document, len(ids))
	readErrs := make([]error, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit(opts.Workers))
	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			text, err := ws.ReadFile(id)
			if opts.OnFileLoaded != nil {
				opts.OnFileLoaded(id)
			}
			if err != nil {
				readErrs[i] = err
				return nil
			}
			docs[i] = source.NewDocument(id, text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, id := range ids {
		if readErrs[i] != nil {
			report.Issues = append(report.Issues, Issue{
				File:     id,
				Severity: "error",
				Message:  fmt.Sprintf("read failed: %v", readErrs[i]),
			})
			continue
		}
		report.Hashes[id] = fileutil.HashContent([]byte(docs[i].Text))
	}
	return docs, nil
}

// collectDefinitions extracts definitions in file then line order. A name
// that recurs replaces the earlier definition in place (last writer wins)
// and the overwrite is reported.
func collectDefinitions(docs []*source.Document, extractor *extract.Extractor, report *Report) []extract.Definition {
	var out []extract.Definition
	position := make(map[string]int)
	for _, doc := range docs {
		for def := range extractor.Definitions(doc) {
			if i, ok := position[def.Name]; ok {
				prev := out[i]
				report.Issues = append(report.Issues, Issue{
					File:     def.File,
					Severity: "warning",
					Message: fmt.Sprintf("action creator %q on line %d replaces the definition at %s:%d",
						def.Name, def.Line+1, prev.File, prev.Line+1),
				})
				out[i] = def
				continue
			}
			position[def.Name] = len(out)
			out = append(out, def)
		}
	}
	return out
}

func workerLimit(workers int) int {
	if workers < 1 {
		return 1
	}
	return workers
}
