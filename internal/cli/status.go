package cli

import (
	"fmt"
	"time"

	"github.com/richardkriesman/batterypack/internal/toolchain"
	"github.com/spf13/cobra"
)

func (a *app) runStatus(cmd *cobra.Command, args []string) error {
	start := time.Now()
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to read --json flag: %w", err)
	}

	root, err := a.open(cmd)
	if err != nil {
		return err
	}
	projects, err := collectProjects(root)
	if err != nil {
		return err
	}

	summary := StatusSummary{
		Mode:     "status",
		RootPath: root.Root(),
		Projects: make([]ProjectStatus, 0, len(projects)),
	}
	for _, p := range projects {
		hasEntrypoint, err := p.HasSourceEntrypoint()
		if err != nil {
			return err
		}
		upToDate, current, err := p.IsUpToDate()
		if err != nil {
			return fmt.Errorf("failed to fingerprint %s: %w", p.Root(), err)
		}
		files, err := toolchain.SourceFiles(p)
		if err != nil {
			return fmt.Errorf("failed to scan %s: %w", p.Root(), err)
		}

		status := ProjectStatus{
			Path:               displayPath(root, p),
			Name:               p.Name(),
			HasEntrypoint:      hasEntrypoint,
			UpToDate:           upToDate,
			SourceFiles:        len(files),
			StoredFingerprint:  p.Internal.Data.SourceFingerprint,
			CurrentFingerprint: current,
		}
		if hasEntrypoint && !upToDate {
			summary.Stale++
		}
		summary.Projects = append(summary.Projects, status)
	}
	summary.DurationMS = time.Since(start).Milliseconds()

	return PrintStatusSummary(cmd.OutOrStdout(), summary, asJSON)
}
