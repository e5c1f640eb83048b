package toolchain

import (
	"context"

	"github.com/richardkriesman/batterypack/internal/errs"
)

// TestRunner runs jest over several project roots at once.
type TestRunner struct {
	Settings Settings
	Runner   CommandRunner
}

// Run executes the unit tests of every root from dir. The runner's output is
// returned even when tests fail.
func (r *TestRunner) Run(ctx context.Context, dir string, roots []string) (string, error) {
	args := []string{"--passWithNoTests"}
	if len(roots) > 0 {
		args = append(args, "--projects")
		args = append(args, roots...)
	}
	run := runnerOrDefault(r.Runner)
	output, err := run(ctx, dir, r.Settings.Jest, args...)
	if err != nil {
		return output, errs.Wrap(commandFailure(r.Settings.Jest, "", err), errs.KindTask, "Unit tests failed")
	}
	return output, nil
}
