package cli

import (
	"fmt"
	"io"

	"github.com/richardkriesman/batterypack/internal/project"
	"github.com/spf13/cobra"
)

func (a *app) runSubprojectTree(cmd *cobra.Command, args []string) error {
	maxDepth, err := cmd.Flags().GetInt("max-depth")
	if err != nil {
		return fmt.Errorf("failed to read --max-depth flag: %w", err)
	}
	if maxDepth < 0 {
		return fmt.Errorf("--max-depth must be >= 0")
	}

	root, err := a.open(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s)\n", root.Name(), displayPath(root, root))
	return printSubprojects(out, root, root, "", maxDepth)
}

// printSubprojects renders p's children below it. Depth bounds the output,
// so subproject cycles only repeat until the limit is reached.
func printSubprojects(w io.Writer, root, p *project.Project, prefix string, depth int) error {
	if depth == 0 {
		return nil
	}
	children, err := p.Subprojects()
	if err != nil {
		return err
	}
	for i, child := range children {
		branch, next := "├── ", "│   "
		if i == len(children)-1 {
			branch, next = "└── ", "    "
		}
		fmt.Fprintf(w, "%s%s%s (%s)\n", prefix, branch, child.Name(), displayPath(root, child))
		if err := printSubprojects(w, root, child, prefix+next, depth-1); err != nil {
			return err
		}
	}
	return nil
}
