package toolchain

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CommandRunner runs name in dir and returns its combined output.
type CommandRunner func(ctx context.Context, dir string, name string, args ...string) (string, error)

// ExecRunner runs commands as subprocesses.
func ExecRunner(ctx context.Context, dir string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func runnerOrDefault(runner CommandRunner) CommandRunner {
	if runner == nil {
		return ExecRunner
	}
	return runner
}

// commandFailure describes a failed command, keeping its output.
func commandFailure(name string, output string, err error) error {
	var exitErr *exec.ExitError
	output = strings.TrimSpace(output)
	switch {
	case errors.As(err, &exitErr) && output != "":
		return fmt.Errorf("%s exited with status %d:\n%s", name, exitErr.ExitCode(), output)
	case errors.As(err, &exitErr):
		return fmt.Errorf("%s exited with status %d", name, exitErr.ExitCode())
	case output != "":
		return fmt.Errorf("%s failed: %w:\n%s", name, err, output)
	default:
		return fmt.Errorf("%s failed: %w", name, err)
	}
}
