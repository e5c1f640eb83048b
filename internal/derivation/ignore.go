package derivation

import (
	"context"
	"strings"

	"github.com/richardkriesman/batterypack/internal/ignore"
	"github.com/richardkriesman/batterypack/internal/project"
	"github.com/richardkriesman/batterypack/internal/toolchain"
)

const ignoreHeader = "STOP! This file is automatically generated by batterypack.\n" +
	"Add your own rules to batterypack.yml, then run \"batterypack sync\"."

// IgnoreFile generates an ignore file listing the batterypack defaults, the
// nominal paths of Siblings, and the project's own rules.
type IgnoreFile struct {
	Path     string
	Defaults []string
	Siblings []Derivation
	Rules    func(p *project.Project) []string
}

func (f *IgnoreFile) ToolID() string   { return strings.TrimPrefix(f.Path, ".") }
func (f *IgnoreFile) FilePath() string { return f.Path }

func (f *IgnoreFile) Make(ctx context.Context, p *project.Project) ([]byte, error) {
	generated := make([]string, 0, len(f.Siblings)+1)
	for _, d := range f.Siblings {
		generated = append(generated, "/"+d.FilePath())
	}

	var rules []string
	if f.Rules != nil {
		rules = f.Rules(p)
	}
	content := ignore.Compose(ignoreHeader,
		ignore.Section{Title: "batterypack", Rules: f.Defaults},
		ignore.Section{Title: "generated", Rules: generated},
		ignore.Section{Title: "project", Rules: rules},
	)
	return []byte(content), nil
}

// GitIgnore lists generated files, build output and local state.
func GitIgnore(siblings []Derivation) *IgnoreFile {
	return &IgnoreFile{
		Path: ".gitignore",
		Defaults: []string{
			"/.batterypack/",
			"/build/",
			"/coverage/",
			"node_modules/",
			"/.yarn/*",
			"!/.yarn/releases/",
			".env",
		},
		Siblings: siblings,
		Rules: func(p *project.Project) []string {
			return p.Config.Data.GitIgnore
		},
	}
}

// DockerIgnore keeps sources, local state and generated files out of image
// build contexts. Build output is kept.
func DockerIgnore(siblings []Derivation) *IgnoreFile {
	return &IgnoreFile{
		Path: ".dockerignore",
		Defaults: []string{
			"/.batterypack/",
			"/.git/",
			"/coverage/",
			"node_modules/",
			".env",
		},
		Siblings: siblings,
		Rules: func(p *project.Project) []string {
			return p.Config.Data.DockerIgnore
		},
	}
}

// Defaults returns every derivation sync generates. The ignore files are
// built last from the full list before them.
func Defaults(tokens toolchain.TokenSource) []Derivation {
	base := []Derivation{
		Jest{},
		Prettier{},
		TypeScript{},
		Yarn{Tokens: tokens},
		YarnCompat{},
	}
	docker := DockerIgnore(base)
	all := append(append([]Derivation{}, base...), docker)
	git := GitIgnore(append(append([]Derivation{}, base...), docker))
	return append(all, git)
}
