package toolchain

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/richardkriesman/batterypack/internal/fileutil"
	"github.com/richardkriesman/batterypack/internal/paths"
	"github.com/richardkriesman/batterypack/internal/project"
)

var (
	sourceExtensions    = []string{".ts", ".tsx"}
	prettierWarnPattern = regexp.MustCompile(`^\[warn\] (.+)$`)
)

// Formatter runs prettier over a project's source files.
type Formatter struct {
	Settings Settings
	Runner   CommandRunner
}

// SourceFiles lists the project's source files relative to its root,
// leaving out anything its gitignore rules exclude.
func SourceFiles(p *project.Project) ([]string, error) {
	sourceDir, err := p.Resolver.Resolve(paths.SourceDir)
	if err != nil {
		return nil, err
	}
	files, err := fileutil.ScanFiles(p.Root(), sourceDir, sourceExtensions, p.Config.Data.GitIgnore)
	if err != nil {
		return nil, err
	}
	rel := make([]string, 0, len(files))
	for _, file := range files {
		rel = append(rel, relativeTo(p.Root(), file))
	}
	return rel, nil
}

// Format rewrites unformatted files in place.
func (f *Formatter) Format(ctx context.Context, p *project.Project) error {
	files, err := SourceFiles(p)
	if err != nil || len(files) == 0 {
		return err
	}
	run := runnerOrDefault(f.Runner)
	args := append([]string{"--write"}, nativePaths(files)...)
	if output, err := run(ctx, p.Root(), f.Settings.Prettier, args...); err != nil {
		return commandFailure(f.Settings.Prettier, output, err)
	}
	return nil
}

// Assert fails with a *FormatAssertionError when any file needs formatting.
func (f *Formatter) Assert(ctx context.Context, p *project.Project) error {
	files, err := SourceFiles(p)
	if err != nil || len(files) == 0 {
		return err
	}
	run := runnerOrDefault(f.Runner)
	args := append([]string{"--check"}, nativePaths(files)...)
	output, err := run(ctx, p.Root(), f.Settings.Prettier, args...)
	if err == nil {
		return nil
	}
	if unformatted := parseUnformatted(output); len(unformatted) > 0 {
		return &FormatAssertionError{Files: unformatted}
	}
	return commandFailure(f.Settings.Prettier, output, err)
}

func parseUnformatted(output string) []string {
	files := make([]string, 0)
	for _, line := range strings.Split(output, "\n") {
		match := prettierWarnPattern.FindStringSubmatch(strings.TrimSpace(line))
		if len(match) != 2 {
			continue
		}
		if strings.HasPrefix(match[1], "Code style issues") {
			continue
		}
		files = append(files, filepath.ToSlash(match[1]))
	}
	return files
}

func nativePaths(files []string) []string {
	out := make([]string, len(files))
	for i, file := range files {
		out[i] = filepath.FromSlash(file)
	}
	return out
}
