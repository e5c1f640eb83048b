package derivation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/richardkriesman/batterypack/internal/fileutil"
	"github.com/richardkriesman/batterypack/internal/paths"
	"github.com/richardkriesman/batterypack/internal/project"
	"github.com/richardkriesman/batterypack/internal/toolchain"
)

const generatedWarning = "This file is automatically generated by batterypack. Changes will be overwritten!"

// TypeScript generates tsconfig.json for editors. Tests are included so
// editors resolve imports inside __tests__.
type TypeScript struct{}

func (TypeScript) ToolID() string   { return "typescript" }
func (TypeScript) FilePath() string { return "tsconfig.json" }

func (TypeScript) Make(ctx context.Context, p *project.Project) ([]byte, error) {
	subprojects, err := p.Subprojects()
	if err != nil {
		return nil, err
	}
	config, err := toolchain.TypeScriptConfig(p, toolchain.ConfigOptions{Subprojects: subprojects})
	if err != nil {
		return nil, err
	}
	config["_warning"] = generatedWarning
	return fileutil.MarshalJSON(config)
}

// Jest generates jest.config.js.
type Jest struct{}

func (Jest) ToolID() string   { return "jest" }
func (Jest) FilePath() string { return "jest.config.js" }

func (Jest) Make(ctx context.Context, p *project.Project) ([]byte, error) {
	buildDir, err := p.Resolver.Resolve(paths.BuildDir)
	if err != nil {
		return nil, err
	}
	coverage := p.Config.Data.UnitTest.Coverage

	displayName := p.Name()
	if displayName == "" {
		displayName = p.Root()
	}
	config := map[string]any{
		"clearMocks":      true,
		"displayName":     displayName,
		"rootDir":         buildDir,
		"testEnvironment": "node",
		"testMatch":       []string{"**/__tests__/**/*.js"},
		"collectCoverage": coverage.Enabled,
	}
	if len(coverage.Ignore) > 0 {
		config["coveragePathIgnorePatterns"] = coverage.Ignore
	}
	if rules := coverage.Rules; rules != nil {
		config["coverageThreshold"] = map[string]any{
			"global": map[string]float64{
				"branches":   rules.MinBranchCoverage,
				"functions":  rules.MinFunctionCoverage,
				"lines":      rules.MinLineCoverage,
				"statements": rules.MinStatementCoverage,
			},
		}
	}
	for key, value := range p.Config.Data.Overrides.Jest {
		config[key] = value
	}

	body, err := fileutil.MarshalJSON(config)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString("module.exports = ")
	buf.Write(bytes.TrimRight(body, "\n"))
	buf.WriteString(";\n")
	return buf.Bytes(), nil
}

// Prettier generates an empty .prettierrc.json so prettier uses its
// defaults regardless of parent directories.
type Prettier struct{}

func (Prettier) ToolID() string   { return "prettier" }
func (Prettier) FilePath() string { return ".prettierrc.json" }

func (Prettier) Make(ctx context.Context, p *project.Project) ([]byte, error) {
	return json.Marshal(struct{}{})
}

// YarnCompat replaces yarn's bundled compat plugin with a no-op.
type YarnCompat struct{}

func (YarnCompat) ToolID() string   { return "yarn" }
func (YarnCompat) FilePath() string { return ".yarn/plugins/@yarnpkg/plugin-compat.cjs" }

func (YarnCompat) Make(ctx context.Context, p *project.Project) ([]byte, error) {
	return []byte(fmt.Sprintf(`/*
  STOP! %s
*/
module.exports = {
  name: `+"`@yarnpkg/plugin-compat`"+`,
  factory: (require) => {
    // no-op in place of the built-in plugin
    return {}
  },
};
`, generatedWarning)), nil
}
