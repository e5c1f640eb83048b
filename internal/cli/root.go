package cli

import (
	"fmt"
	"time"

	"github.com/richardkriesman/batterypack/internal/toolchain"
	"github.com/spf13/cobra"
)

// app carries what every subcommand shares.
type app struct {
	version string
	runner  toolchain.CommandRunner
}

func NewRootCommand(version string) *cobra.Command {
	return newRootCommand(&app{version: version, runner: toolchain.ExecRunner})
}

func newRootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "batterypack",
		Short: "Build, test and configure TypeScript monorepos",
		Long: `batterypack builds TypeScript projects and their subprojects in
dependency order, skipping anything whose sources have not changed.

Tool configuration files (tsconfig.json, jest.config.js, .yarnrc.yml and
ignore files) are generated from batterypack.yml by "batterypack sync".`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.PersistentFlags().StringP("project", "p", "", "Project directory (default: current directory)")
	rootCmd.PersistentFlags().BoolP("time", "t", false, "Print how long the command took")

	// Build Commands
	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Format, check and compile every out-of-date project",
		Args:  cobra.NoArgs,
		RunE:  a.runBuild,
	}
	buildCmd.Flags().Bool("assert-format", false, "Fail on unformatted files instead of rewriting them")

	cleanCmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove build output and forget source fingerprints",
		Args:  cobra.NoArgs,
		RunE:  a.runClean,
	}

	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Regenerate tool configuration files",
		Args:  cobra.NoArgs,
		RunE:  a.runSync,
	}

	testCmd := &cobra.Command{
		Use:   "test",
		Short: "Run unit tests for every project at once",
		Args:  cobra.NoArgs,
		RunE:  a.runTest,
	}

	// Inspect Commands
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show which projects would be rebuilt",
		Args:  cobra.NoArgs,
		RunE:  a.runStatus,
	}
	statusCmd.Flags().Bool("json", false, "Print machine-readable status output")

	subprojectCmd := &cobra.Command{
		Use:   "subproject",
		Short: "Inspect subprojects",
	}
	treeCmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the subproject tree",
		Args:  cobra.NoArgs,
		RunE:  a.runSubprojectTree,
	}
	treeCmd.Flags().IntP("max-depth", "d", 1, "Maximum depth to descend")
	subprojectCmd.AddCommand(treeCmd)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "batterypack %s\n", a.version)
		},
	}

	rootCmd.AddCommand(
		buildCmd,
		cleanCmd,
		syncCmd,
		testCmd,
		statusCmd,
		subprojectCmd,
		newCredentialsCommand(a),
		versionCmd,
	)
	timed(rootCmd)

	return rootCmd
}

// timed wraps every runnable command so --time reports the elapsed time
// whether or not the command fails.
func timed(cmd *cobra.Command) {
	for _, child := range cmd.Commands() {
		timed(child)
	}
	run := cmd.RunE
	if run == nil && cmd.Run != nil {
		plain := cmd.Run
		run = func(cmd *cobra.Command, args []string) error {
			plain(cmd, args)
			return nil
		}
		cmd.Run = nil
	}
	if run == nil {
		return
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		defer reportTime(cmd, start)
		return run(cmd, args)
	}
}

func reportTime(cmd *cobra.Command, start time.Time) {
	showTime, err := cmd.Flags().GetBool("time")
	if err != nil || !showTime {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Command ran for %.2fs\n", time.Since(start).Seconds())
}
