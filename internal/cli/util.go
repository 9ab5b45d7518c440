package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/morozRed/actionref/internal/config"
	"github.com/morozRed/actionref/internal/index"
	"github.com/morozRed/actionref/internal/workspace"
)

func resolveWorkingDirectory() (string, error) {
	rootPath, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to resolve working directory: %w", err)
	}
	return rootPath, nil
}

// resolveRoot returns the absolute project directory named by args, or the
// working directory.
func resolveRoot(args []string) (string, error) {
	if len(args) == 0 {
		return resolveWorkingDirectory()
	}
	rootPath, err := filepath.Abs(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %q: %w", args[0], err)
	}
	info, err := os.Stat(rootPath)
	if err != nil {
		return "", fmt.Errorf("failed to access path %q: %w", rootPath, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path %q is not a directory", rootPath)
	}
	return rootPath, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

// project bundles what every indexing command needs.
type project struct {
	rootPath string
	cfg      *config.Config
	ws       *workspace.FS
}

func openProject(rootPath string) (*project, error) {
	cfg, err := config.LoadConfigFromDir(rootPath)
	if err != nil {
		return nil, err
	}
	ws, err := workspace.New(rootPath)
	if err != nil {
		return nil, err
	}
	return &project{rootPath: ws.Root(), cfg: cfg, ws: ws}, nil
}

func (p *project) options() index.Options {
	return index.OptionsFromConfig(p.cfg)
}

func (p *project) contextDir() string {
	return filepath.Join(p.rootPath, config.DirName)
}
