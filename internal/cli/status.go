package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/morozRed/actionref/internal/fileutil"
	"github.com/morozRed/actionref/internal/index"
	"github.com/morozRed/actionref/internal/nav"
	"github.com/morozRed/actionref/internal/state"
)

func RunStatus(cmd *cobra.Command, args []string) error {
	start := time.Now()
	rootPath, err := resolveWorkingDirectory()
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to read --json flag: %w", err)
	}

	p, err := openProject(rootPath)
	if err != nil {
		return err
	}

	summary := StatusSummary{Mode: "status", RootPath: p.rootPath}
	if _, err := os.Stat(nav.SnapshotPath(p.rootPath)); err != nil {
		if os.IsNotExist(err) {
			return PrintStatusSummary(cmd.OutOrStdout(), summary, asJSON)
		}
		return fmt.Errorf("failed to stat index: %w", err)
	}
	summary.Indexed = true

	st, err := state.Load(p.contextDir())
	if err != nil {
		if IsCorruptStateError(err) {
			fmt.Fprintf(os.Stderr, "warning: corrupt state file detected (%v); treating all files as changed\n", err)
			st = state.NewState()
		} else {
			return fmt.Errorf("failed to load state: %w", err)
		}
	}

	currentHashes, err := scanInputHashes(commandContext(cmd), p)
	if err != nil {
		return fmt.Errorf("failed to scan files: %w", err)
	}

	staleness := st.Compare(currentHashes)
	summary.Stale = staleness.Stale()
	summary.Fingerprint = st.Fingerprint
	summary.Scanned = len(currentHashes)
	summary.Changed = len(staleness.Changed)
	summary.Deleted = len(staleness.Deleted)
	summary.ChangedFiles = staleness.Changed
	summary.DeletedFiles = staleness.Deleted
	summary.DurationMS = time.Since(start).Milliseconds()

	return PrintStatusSummary(cmd.OutOrStdout(), summary, asJSON)
}

// scanInputHashes hashes every file an index build would read. Unreadable
// files are left out, matching what a build records.
func scanInputHashes(ctx context.Context, p *project) (map[string]string, error) {
	definitions, usages, excluded, err := index.Inputs(ctx, p.ws, p.options())
	if err != nil {
		return nil, err
	}
	hashes := make(map[string]string, len(definitions)+len(usages))
	if len(definitions) == 0 || len(usages)+len(excluded) == 0 {
		// A build reads nothing in this case.
		return hashes, nil
	}
	for _, id := range fileutil.DedupeStrings(append(definitions, usages...)) {
		hash, err := fileutil.HashFile(p.ws.Path(id))
		if err != nil {
			continue
		}
		hashes[id] = hash
	}
	return hashes, nil
}

func IsCorruptStateError(err error) bool {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return true
	}
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &typeErr)
}
