package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/morozRed/actionref/internal/fileutil"
)

type IndexSummary struct {
	Mode            string   `json:"mode"`
	RootPath        string   `json:"root_path"`
	Snapshot        string   `json:"snapshot"`
	Fingerprint     string   `json:"fingerprint"`
	DefinitionFiles int      `json:"definition_files"`
	UsageFiles      int      `json:"usage_files"`
	ExcludedFiles   int      `json:"excluded_files"`
	Definitions     int      `json:"definitions"`
	Indexed         int      `json:"indexed"`
	Pruned          []string `json:"pruned,omitempty"`
	Issues          int      `json:"issues"`
	Rewritten       bool     `json:"rewritten"`
	DurationMS      int64    `json:"duration_ms"`
}

type StatusSummary struct {
	Mode         string   `json:"mode"`
	RootPath     string   `json:"root_path"`
	Indexed      bool     `json:"indexed"`
	Stale        bool     `json:"stale"`
	Fingerprint  string   `json:"fingerprint,omitempty"`
	Scanned      int      `json:"scanned"`
	Changed      int      `json:"changed"`
	Deleted      int      `json:"deleted"`
	DurationMS   int64    `json:"duration_ms"`
	ChangedFiles []string `json:"changed_files,omitempty"`
	DeletedFiles []string `json:"deleted_files,omitempty"`
}

func PrintIndexSummary(w io.Writer, summary IndexSummary, asJSON bool) error {
	if asJSON {
		return fileutil.FprintJSON(w, summary)
	}

	fmt.Fprintf(w, "index complete in %dms\n", summary.DurationMS)
	snapshotState := "unchanged"
	if summary.Rewritten {
		snapshotState = "rewritten"
	}
	fmt.Fprintf(w, "output: %s (%s)\n", summary.Snapshot, snapshotState)
	fmt.Fprintf(w, "files: definitions=%d usages=%d excluded=%d\n", summary.DefinitionFiles, summary.UsageFiles, summary.ExcludedFiles)
	fmt.Fprintf(w, "creators: defined=%d indexed=%d pruned=%d\n", summary.Definitions, summary.Indexed, len(summary.Pruned))
	if len(summary.Pruned) > 0 {
		fmt.Fprintf(w, "unused creators (%d): %s\n", len(summary.Pruned), SummarizePaths(summary.Pruned, 8))
	}
	return nil
}

func PrintStatusSummary(w io.Writer, summary StatusSummary, asJSON bool) error {
	if asJSON {
		return fileutil.FprintJSON(w, summary)
	}

	if !summary.Indexed {
		fmt.Fprintln(w, "status: no index (run actionref index)")
		return nil
	}
	state := "fresh"
	if summary.Stale {
		state = "stale"
	}
	fmt.Fprintf(w, "status: %s scanned=%d changed=%d deleted=%d duration=%dms\n",
		state, summary.Scanned, summary.Changed, summary.Deleted, summary.DurationMS)
	if len(summary.ChangedFiles) > 0 {
		fmt.Fprintf(w, "changed files (%d): %s\n", len(summary.ChangedFiles), SummarizePaths(summary.ChangedFiles, 8))
	}
	if len(summary.DeletedFiles) > 0 {
		fmt.Fprintf(w, "deleted files (%d): %s\n", len(summary.DeletedFiles), SummarizePaths(summary.DeletedFiles, 8))
	}
	return nil
}

func SummarizePaths(paths []string, max int) string {
	if len(paths) <= max {
		return strings.Join(paths, ", ")
	}
	return fmt.Sprintf("%s ... (+%d more)", strings.Join(paths[:max], ", "), len(paths)-max)
}
