package cli

import (
	"context"
	"fmt"

	"github.com/richardkriesman/batterypack/internal/derivation"
	"github.com/richardkriesman/batterypack/internal/project"
	"github.com/richardkriesman/batterypack/internal/tasktree"
	"github.com/richardkriesman/batterypack/internal/toolchain"
	"github.com/spf13/cobra"
)

func (a *app) runBuild(cmd *cobra.Command, args []string) error {
	assertFormat, err := cmd.Flags().GetBool("assert-format")
	if err != nil {
		return fmt.Errorf("failed to read --assert-format flag: %w", err)
	}
	settings, err := a.settings(cmd)
	if err != nil {
		return err
	}

	return a.runTasks(cmd, func(ctx context.Context, root *project.Project) ([]*tasktree.Task, error) {
		inspector, err := toolchain.NewInspector(toolchain.DefaultParseCacheSize)
		if err != nil {
			return nil, err
		}
		formatter := &toolchain.Formatter{Settings: settings, Runner: a.runner}
		compiler := &toolchain.Compiler{Settings: settings, Runner: a.runner}

		return perProject(func(root, p *project.Project) *tasktree.Task {
			formatTask := &tasktree.Task{
				Description: "Formatting project",
				Fn: func(ctx context.Context) error {
					return formatter.Format(ctx, p)
				},
				FormatError: toolchain.FormatKnownError,
			}
			if assertFormat {
				formatTask = &tasktree.Task{
					Description: "Checking formatting",
					Fn: func(ctx context.Context) error {
						return formatter.Assert(ctx, p)
					},
					FormatError: toolchain.FormatKnownError,
				}
			}

			return &tasktree.Task{
				Description: "Building " + displayPath(root, p),
				ShouldSkip: func(ctx context.Context) (tasktree.Skip, error) {
					hasEntrypoint, err := p.HasSourceEntrypoint()
					if err != nil {
						return tasktree.Skip{}, err
					}
					if !hasEntrypoint {
						return tasktree.SkipBecause("No source entrypoint"), nil
					}
					upToDate, _, err := p.IsUpToDate()
					if err != nil {
						return tasktree.Skip{}, err
					}
					if upToDate {
						return tasktree.SkipBecause("Up-to-date"), nil
					}
					return tasktree.Proceed, nil
				},
				Tasks: []*tasktree.Task{
					formatTask,
					{
						Description: "Checking for circular dependencies",
						Fn: func(ctx context.Context) error {
							return inspector.AssertNoCircularDependencies(ctx, p)
						},
						FormatError: toolchain.FormatKnownError,
					},
					{
						Description: "Compiling project",
						Fn: func(ctx context.Context) error {
							if err := compiler.Compile(ctx, p); err != nil {
								return err
							}
							return p.RecordFingerprint()
						},
						FormatError: toolchain.FormatKnownError,
					},
				},
			}
		})(ctx, root)
	})
}

func (a *app) runClean(cmd *cobra.Command, args []string) error {
	return a.runTasks(cmd, perProject(func(root, p *project.Project) *tasktree.Task {
		return &tasktree.Task{
			Description: "Cleaning " + displayPath(root, p),
			Fn: func(ctx context.Context) error {
				return p.Clean()
			},
		}
	}))
}

func (a *app) runSync(cmd *cobra.Command, args []string) error {
	settings, err := a.settings(cmd)
	if err != nil {
		return err
	}
	return a.runTasks(cmd, perProject(func(root, p *project.Project) *tasktree.Task {
		tokens := &toolchain.CredentialTokens{Settings: settings, Runner: a.runner, Dir: p.Root()}
		return &tasktree.Task{
			Description: "Syncing " + displayPath(root, p),
			Fn: func(ctx context.Context) error {
				if err := p.Flush(); err != nil {
					return err
				}
				return derivation.NewBuilder(p).MakeDerivations(ctx, derivation.Defaults(tokens))
			},
		}
	}))
}

func (a *app) runTest(cmd *cobra.Command, args []string) error {
	root, err := a.open(cmd)
	if err != nil {
		return err
	}
	settings, err := a.settings(cmd)
	if err != nil {
		return err
	}
	projects, err := collectProjects(root)
	if err != nil {
		return err
	}
	roots := make([]string, 0, len(projects))
	for _, p := range projects {
		roots = append(roots, p.Root())
	}

	runner := &toolchain.TestRunner{Settings: settings, Runner: a.runner}
	output, err := runner.Run(commandContext(cmd), root.Root(), roots)
	if output != "" {
		fmt.Fprint(cmd.OutOrStdout(), output)
	}
	return err
}
