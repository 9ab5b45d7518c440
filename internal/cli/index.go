package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/morozRed/actionref/internal/fileutil"
	"github.com/morozRed/actionref/internal/index"
	"github.com/morozRed/actionref/internal/nav"
	"github.com/morozRed/actionref/internal/state"
)

func RunIndex(cmd *cobra.Command, args []string) error {
	rootPath, err := resolveRoot(args)
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to read --json flag: %w", err)
	}
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to read --quiet flag: %w", err)
	}

	p, err := openProject(rootPath)
	if err != nil {
		return err
	}
	return BuildIndex(commandContext(cmd), p, cmd.OutOrStdout(), asJSON, quiet || asJSON)
}

// BuildIndex rebuilds the index from scratch, persists it and prints a summary.
func BuildIndex(ctx context.Context, p *project, w io.Writer, asJSON, quiet bool) error {
	start := time.Now()
	progress := newIndexProgressReporter(quiet)
	opts := p.options()
	opts.OnFileLoaded = progress.FileLoaded

	idx, report, err := index.Rebuild(ctx, p.ws, opts)
	progress.Done()
	if err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}
	ReportIssues(report.Issues)

	rewritten, err := persistIndex(p, idx, report)
	if err != nil {
		return err
	}

	summary := IndexSummary{
		Mode:            "index",
		RootPath:        p.rootPath,
		Snapshot:        nav.SnapshotPath(p.rootPath),
		Fingerprint:     fileutil.FormatHash(idx.Fingerprint()),
		DefinitionFiles: len(report.DefinitionFiles),
		UsageFiles:      len(report.UsageFiles),
		ExcludedFiles:   len(report.ExcludedFiles),
		Definitions:     report.Definitions,
		Indexed:         report.Indexed,
		Pruned:          report.Pruned,
		Issues:          len(report.Issues),
		Rewritten:       rewritten,
		DurationMS:      time.Since(start).Milliseconds(),
	}
	return PrintIndexSummary(w, summary, asJSON)
}

// persistIndex writes the snapshot and the input-file state. It reports
// whether the snapshot changed on disk.
func persistIndex(p *project, idx *index.Index, report *index.Report) (bool, error) {
	rewritten, err := nav.WriteSnapshot(p.rootPath, idx)
	if err != nil {
		return false, fmt.Errorf("failed to write index: %w", err)
	}
	st := state.FromHashes(report.Hashes, fileutil.FormatHash(idx.Fingerprint()))
	if err := st.Save(p.contextDir()); err != nil {
		return rewritten, fmt.Errorf("failed to persist state: %w", err)
	}
	return rewritten, nil
}

func ReportIssues(issues []index.Issue) {
	for _, issue := range issues {
		fmt.Fprintf(os.Stderr, "[%s] %s: %s\n", issue.Severity, issue.File, issue.Message)
	}
}
