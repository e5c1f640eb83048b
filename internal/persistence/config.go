package persistence

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/richardkriesman/batterypack/internal/errs"
)

// Build targets accepted by build.target.
var Targets = []string{"ES2015", "ES2016", "ES2017", "ES2018", "ES2019", "ES2020", "ES2021", "ESNext"}

const DefaultTarget = "ES2020"

// Config is the contents of batterypack.yml.
type Config struct {
	Batterypack  ToolConfig       `yaml:"batterypack"`
	Name         string           `yaml:"name"`
	Build        BuildConfig      `yaml:"build,omitempty"`
	Entrypoint   *Entrypoint      `yaml:"entrypoint,omitempty"`
	Overrides    Overrides        `yaml:"overrides,omitempty"`
	GitIgnore    []string         `yaml:"gitignore,omitempty"`
	DockerIgnore []string         `yaml:"dockerignore,omitempty"`
	Scopes       map[string]Scope `yaml:"scopes,omitempty"`
	Subprojects  []string         `yaml:"subprojects,omitempty"`
	UnitTest     UnitTestConfig   `yaml:"unitTest,omitempty"`
}

type ToolConfig struct {
	Version string `yaml:"version"`
}

type BuildConfig struct {
	Target   string        `yaml:"target,omitempty"`
	Features BuildFeatures `yaml:"features,omitempty"`
}

type BuildFeatures struct {
	RequireExplicitOverride bool `yaml:"requireExplicitOverride,omitempty"`
}

// Entrypoint overrides the default source and build entrypoints.
type Entrypoint struct {
	Build  string `yaml:"build"`
	Source string `yaml:"source"`
}

type Overrides struct {
	TypeScript map[string]any `yaml:"typescript,omitempty"`
	Jest       map[string]any `yaml:"jest,omitempty"`
}

// Scope maps an npm scope to a registry origin.
type Scope struct {
	Origin     string `yaml:"origin"`
	Credential string `yaml:"credential,omitempty"`
}

type UnitTestConfig struct {
	Coverage CoverageConfig `yaml:"coverage,omitempty"`
}

type CoverageConfig struct {
	Enabled bool           `yaml:"enabled,omitempty"`
	Rules   *CoverageRules `yaml:"rules,omitempty"`
	Ignore  []string       `yaml:"ignore,omitempty"`
}

// CoverageRules are minimum percentages, each between 0 and 100.
type CoverageRules struct {
	MinBranchCoverage    float64 `yaml:"minBranchCoverage"`
	MinFunctionCoverage  float64 `yaml:"minFunctionCoverage"`
	MinLineCoverage      float64 `yaml:"minLineCoverage"`
	MinStatementCoverage float64 `yaml:"minStatementCoverage"`
}

// BuildTarget returns the configured target or the default.
func (c *Config) BuildTarget() string {
	if c.Build.Target == "" {
		return DefaultTarget
	}
	return c.Build.Target
}

// Validate checks c against the configuration schema. All violations are
// reported together.
func (c *Config) Validate(path string) error {
	problems := make([]string, 0)

	if strings.TrimSpace(c.Batterypack.Version) == "" {
		problems = append(problems, "batterypack.version is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		problems = append(problems, "name is required")
	}
	if c.Build.Target != "" && !validTarget(c.Build.Target) {
		problems = append(problems, fmt.Sprintf("build.target must be one of %s", strings.Join(Targets, ", ")))
	}
	if c.Entrypoint != nil {
		if c.Entrypoint.Build == "" {
			problems = append(problems, "entrypoint.build is required")
		}
		if c.Entrypoint.Source == "" {
			problems = append(problems, "entrypoint.source is required")
		}
	}
	for i, sub := range c.Subprojects {
		if strings.TrimSpace(sub) == "" {
			problems = append(problems, fmt.Sprintf("subprojects[%d] must not be empty", i))
		}
	}

	scopeNames := make([]string, 0, len(c.Scopes))
	for name := range c.Scopes {
		scopeNames = append(scopeNames, name)
	}
	sort.Strings(scopeNames)
	for _, name := range scopeNames {
		origin := c.Scopes[name].Origin
		if origin == "" {
			problems = append(problems, fmt.Sprintf("scopes.%s.origin is required", name))
			continue
		}
		if u, err := url.Parse(origin); err != nil || u.Scheme == "" || u.Host == "" {
			problems = append(problems, fmt.Sprintf("scopes.%s.origin must be an absolute URL", name))
		}
	}

	for i, pattern := range c.UnitTest.Coverage.Ignore {
		if _, err := regexp.Compile(pattern); err != nil {
			problems = append(problems, fmt.Sprintf("unitTest.coverage.ignore[%d] is not a valid regular expression", i))
		}
	}
	if rules := c.UnitTest.Coverage.Rules; rules != nil {
		checks := []struct {
			name  string
			value float64
		}{
			{"minBranchCoverage", rules.MinBranchCoverage},
			{"minFunctionCoverage", rules.MinFunctionCoverage},
			{"minLineCoverage", rules.MinLineCoverage},
			{"minStatementCoverage", rules.MinStatementCoverage},
		}
		for _, check := range checks {
			if check.value < 0 || check.value > 100 {
				problems = append(problems, fmt.Sprintf("unitTest.coverage.rules.%s must be between 0 and 100", check.name))
			}
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return errs.Minimalf(errs.KindConfigSchema, "Configuration file at %s is invalid:\n  - %s", path, strings.Join(problems, "\n  - "))
}

func validTarget(target string) bool {
	for _, t := range Targets {
		if t == target {
			return true
		}
	}
	return false
}
