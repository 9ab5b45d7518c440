package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/morozRed/actionref/internal/config"
	"github.com/morozRed/actionref/internal/nav"
)

func RunInit(cmd *cobra.Command, args []string) error {
	rootPath, err := resolveWorkingDirectory()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	path, created, err := config.WriteDefault(rootPath)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(out, "Wrote default configuration to %s\n", path)
	} else {
		fmt.Fprintf(out, "Configuration already exists at %s\n", path)
	}

	noIndex, err := nav.OptionalBoolFlag(cmd, "no-index", false)
	if err != nil {
		return err
	}
	if noIndex {
		return nil
	}

	p, err := openProject(rootPath)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "Running initial index...")
	return BuildIndex(commandContext(cmd), p, out, false, true)
}
