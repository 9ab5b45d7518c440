package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/morozRed/actionref/internal/mcpserver"
)

// RunServe builds the index and serves it over MCP stdio. Nothing but the
// protocol may go to stdout, so progress and summaries are skipped.
func RunServe(cmd *cobra.Command, version string) error {
	rootPath, err := resolveWorkingDirectory()
	if err != nil {
		return err
	}
	p, err := openProject(rootPath)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	live := newLiveIndex(p)
	idx, err := live.refresh(ctx)
	if err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}
	log.Printf("Indexed %d action creators", idx.Len())

	w, err := live.newWatcher()
	if err != nil {
		return err
	}
	return mcpserver.New(live.svc, p.ws, w, version).Serve(ctx)
}
