package main

import (
	"fmt"
	"io"
	"os"

	"github.com/richardkriesman/batterypack/internal/cli"
	"github.com/richardkriesman/batterypack/internal/errs"
)

var version = "0.9.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := cli.NewRootCommand(version)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderr, errs.Message(err))
		return 1
	}
	return 0
}
