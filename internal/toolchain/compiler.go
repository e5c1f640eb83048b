package toolchain

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/richardkriesman/batterypack/internal/fileutil"
	"github.com/richardkriesman/batterypack/internal/paths"
	"github.com/richardkriesman/batterypack/internal/project"
)

var (
	diagnosticPattern       = regexp.MustCompile(`^(.+?)\(([0-9]+),([0-9]+)\): error TS([0-9]+): (.*)$`)
	globalDiagnosticPattern = regexp.MustCompile(`^error TS([0-9]+): (.*)$`)
)

// Compiler type-checks and emits a project with tsc.
type Compiler struct {
	Settings Settings
	Runner   CommandRunner
}

// Compile writes the build tsconfig for p and compiles it. Diagnostics are
// returned as a *CompilerError.
func (c *Compiler) Compile(ctx context.Context, p *project.Project) error {
	config, err := TypeScriptConfig(p, ConfigOptions{ExcludeTests: true, Incremental: true})
	if err != nil {
		return err
	}
	data, err := fileutil.MarshalJSON(config)
	if err != nil {
		return fmt.Errorf("failed to encode compiler config: %w", err)
	}
	configPath, err := p.Resolver.Resolve(paths.BuildConfig)
	if err != nil {
		return err
	}
	if err := fileutil.WriteIfChanged(configPath, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	run := runnerOrDefault(c.Runner)
	output, err := run(ctx, p.Root(), c.Settings.TSC, "--pretty", "false", "-p", configPath)
	if err == nil {
		return nil
	}
	if diagnostics := ParseDiagnostics(p.Root(), output); len(diagnostics) > 0 {
		return &CompilerError{Diagnostics: diagnostics}
	}
	return commandFailure(c.Settings.TSC, output, err)
}

// ParseDiagnostics reads tsc's plain output. Indented lines continue the
// previous diagnostic's message. File paths are made relative to rootPath.
func ParseDiagnostics(rootPath string, output string) []Diagnostic {
	diagnostics := make([]Diagnostic, 0)
	for _, raw := range strings.Split(output, "\n") {
		line := strings.TrimRight(raw, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if match := diagnosticPattern.FindStringSubmatch(line); len(match) == 6 {
			lineNo, _ := strconv.Atoi(match[2])
			col, _ := strconv.Atoi(match[3])
			code, _ := strconv.Atoi(match[4])
			diagnostics = append(diagnostics, Diagnostic{
				Code:    code,
				File:    relativeTo(rootPath, match[1]),
				Line:    lineNo,
				Column:  col,
				Message: match[5],
			})
			continue
		}
		if match := globalDiagnosticPattern.FindStringSubmatch(line); len(match) == 3 {
			code, _ := strconv.Atoi(match[1])
			diagnostics = append(diagnostics, Diagnostic{Code: code, Message: match[2]})
			continue
		}
		if (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")) && len(diagnostics) > 0 {
			last := &diagnostics[len(diagnostics)-1]
			last.Message += "\n" + strings.TrimSpace(line)
		}
	}
	return diagnostics
}

func relativeTo(rootPath, path string) string {
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(rootPath, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
