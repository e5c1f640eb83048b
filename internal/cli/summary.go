package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/richardkriesman/batterypack/internal/fileutil"
)

// StatusSummary is the machine-readable form of "batterypack status".
type StatusSummary struct {
	Mode       string          `json:"mode"`
	RootPath   string          `json:"root_path"`
	Projects   []ProjectStatus `json:"projects"`
	Stale      int             `json:"stale"`
	DurationMS int64           `json:"duration_ms"`
}

type ProjectStatus struct {
	Path               string `json:"path"`
	Name               string `json:"name"`
	HasEntrypoint      bool   `json:"has_entrypoint"`
	UpToDate           bool   `json:"up_to_date"`
	SourceFiles        int    `json:"source_files"`
	StoredFingerprint  string `json:"stored_fingerprint,omitempty"`
	CurrentFingerprint string `json:"current_fingerprint"`
}

func (s ProjectStatus) state() string {
	switch {
	case !s.HasEntrypoint:
		return "no entrypoint"
	case s.UpToDate:
		return "up-to-date"
	case s.StoredFingerprint == "":
		return "never built"
	default:
		return "stale"
	}
}

func PrintStatusSummary(w io.Writer, summary StatusSummary, asJSON bool) error {
	if asJSON {
		return fileutil.PrintJSON(w, summary)
	}

	fmt.Fprintf(w, "status: projects=%d stale=%d duration=%dms\n", len(summary.Projects), summary.Stale, summary.DurationMS)
	for _, p := range summary.Projects {
		fmt.Fprintf(w, "  %s (%s): %s, %s source %s\n",
			p.Name, p.Path, p.state(), humanize.Comma(int64(p.SourceFiles)), plural(p.SourceFiles, "file", "files"))
	}
	if summary.Stale > 0 {
		fmt.Fprintf(w, "stale projects (%d): %s\n", summary.Stale, SummarizePaths(stalePaths(summary.Projects), 8))
	}
	return nil
}

func SummarizePaths(paths []string, max int) string {
	if len(paths) <= max {
		return strings.Join(paths, ", ")
	}
	return fmt.Sprintf("%s ... (+%d more)", strings.Join(paths[:max], ", "), len(paths)-max)
}

func stalePaths(projects []ProjectStatus) []string {
	paths := make([]string, 0)
	for _, p := range projects {
		if p.HasEntrypoint && !p.UpToDate {
			paths = append(paths, p.Path)
		}
	}
	return paths
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
