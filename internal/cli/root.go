package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/morozRed/actionref/internal/nav"
)

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "actionref",
		Short: "Cross-reference Redux action creators with the code that handles them",
		Long: `actionref finds action creators in action-creator modules, resolves the
action type each one produces and indexes every place in the store that
consumes that type - reducers, sagas, middleware.

The index is written to .actionref/index.json and queried with lookup,
list and hover.`,
		SilenceUsage: true,
	}

	// Build Commands
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default .actionref/config.yml and build the index",
		RunE:  RunInit,
	}
	initCmd.Flags().Bool("no-index", false, "Write configuration only, skip the initial index")

	indexCmd := &cobra.Command{
		Use:   "index [path]",
		Short: "Build the action creator index",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunIndex,
	}
	indexCmd.Flags().Bool("json", false, "Print machine-readable run summary")
	indexCmd.Flags().Bool("quiet", false, "Disable the progress bar")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether the index is stale",
		RunE:  RunStatus,
	}
	statusCmd.Flags().Bool("json", false, "Print machine-readable status output")

	// Query Commands
	lookupCmd := &cobra.Command{
		Use:   "lookup <creator>",
		Short: "Show where an action creator's type is consumed",
		Args:  cobra.ExactArgs(1),
		RunE:  nav.RunLookup,
	}
	lookupCmd.Flags().Bool("json", false, "Print machine-readable lookup result")
	lookupCmd.Flags().Bool("fuzzy", false, "Suggest similar creator names when lookup misses")
	lookupCmd.Flags().Int("limit", 5, "Maximum number of suggestions")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List indexed action creators",
		Args:  cobra.NoArgs,
		RunE:  nav.RunList,
	}
	listCmd.Flags().Bool("json", false, "Print machine-readable list")

	hoverCmd := &cobra.Command{
		Use:   "hover <file:line[:column]>",
		Short: "Render usage links for the action creator under a position",
		Args:  cobra.ExactArgs(1),
		RunE:  nav.RunHover,
	}
	hoverCmd.Flags().Bool("json", false, "Print machine-readable hover result")

	// Live Commands
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the index whenever JavaScript sources change",
		RunE:  RunWatch,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the live index to MCP clients over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunServe(cmd, version)
		},
	}

	// Additional Commands
	installHookCmd := &cobra.Command{
		Use:   "install-hook",
		Short: "Install git pre-commit hook that refreshes the index",
		RunE:  RunInstallHook,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "actionref %s\n", version)
		},
	}

	rootCmd.AddCommand(
		initCmd,
		indexCmd,
		statusCmd,
		lookupCmd,
		listCmd,
		hoverCmd,
		watchCmd,
		serveCmd,
		installHookCmd,
		versionCmd,
	)

	return rootCmd
}
