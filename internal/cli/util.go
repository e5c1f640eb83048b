package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/richardkriesman/batterypack/internal/project"
	"github.com/richardkriesman/batterypack/internal/tasktree"
	"github.com/richardkriesman/batterypack/internal/toolchain"
	"github.com/spf13/cobra"
)

func resolveWorkingDirectory() (string, error) {
	rootPath, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to resolve working directory: %w", err)
	}
	return rootPath, nil
}

// projectRoot returns the --project directory, or the working directory
// when the flag is unset.
func projectRoot(cmd *cobra.Command) (string, error) {
	dir, err := cmd.Flags().GetString("project")
	if err != nil {
		return "", fmt.Errorf("failed to read --project flag: %w", err)
	}
	if dir == "" {
		return resolveWorkingDirectory()
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project directory: %w", err)
	}
	return abs, nil
}

func (a *app) open(cmd *cobra.Command) (*project.Project, error) {
	root, err := projectRoot(cmd)
	if err != nil {
		return nil, err
	}
	return project.Open(root, a.version)
}

func (a *app) settings(cmd *cobra.Command) (toolchain.Settings, error) {
	root, err := projectRoot(cmd)
	if err != nil {
		return toolchain.Settings{}, err
	}
	return toolchain.LoadSettings(root)
}

// runTasks drives a task tree over the opened project, rendering progress to
// the command's error stream.
func (a *app) runTasks(cmd *cobra.Command, build tasktree.BuildFunc) error {
	engine := &tasktree.Engine{
		Open:     func() (*project.Project, error) { return a.open(cmd) },
		Build:    build,
		Renderer: tasktree.NewTerminalRenderer(cmd.ErrOrStderr()),
	}
	return engine.Run(commandContext(cmd))
}

// perProject builds one task per project of the subproject walk,
// dependencies first.
func perProject(fn func(root, p *project.Project) *tasktree.Task) tasktree.BuildFunc {
	return func(ctx context.Context, root *project.Project) ([]*tasktree.Task, error) {
		tasks := make([]*tasktree.Task, 0)
		for p, err := range root.Walk() {
			if err != nil {
				return nil, err
			}
			tasks = append(tasks, fn(root, p))
		}
		return tasks, nil
	}
}

func collectProjects(root *project.Project) ([]*project.Project, error) {
	projects := make([]*project.Project, 0)
	for p, err := range root.Walk() {
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func displayPath(root, p *project.Project) string {
	return p.RelPath(root.Root())
}
