package toolchain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/richardkriesman/batterypack/internal/graph"
	"github.com/richardkriesman/batterypack/internal/languages"
	"github.com/richardkriesman/batterypack/internal/parser"
	"github.com/richardkriesman/batterypack/internal/paths"
	"github.com/richardkriesman/batterypack/internal/project"
)

const (
	DefaultParseCacheSize = 4096
	projectImportPrefix   = "@project/"
)

var moduleExtensions = []string{".ts", ".tsx", ".js", ".jsx"}

// Inspector looks for import cycles reachable from a project's entrypoint.
// Parsed imports are cached by file and content, so one Inspector can be
// shared by every project of a run.
type Inspector struct {
	registry *parser.Registry
	cache    *lru.Cache[string, []string]
}

func NewInspector(cacheSize int) (*Inspector, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultParseCacheSize
	}
	cache, err := lru.New[string, []string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create parse cache: %w", err)
	}
	return &Inspector{
		registry: languages.NewDefaultRegistry(),
		cache:    cache,
	}, nil
}

// ImportGraph follows local imports from the source entrypoint. Nodes are
// file paths relative to the project root.
func (i *Inspector) ImportGraph(ctx context.Context, p *project.Project) (*graph.Graph, error) {
	g := graph.NewGraph()
	entrypoint, err := p.SourceEntrypoint()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(entrypoint); err != nil {
		if os.IsNotExist(err) {
			return g, nil
		}
		return nil, err
	}
	sourceDir, err := p.Resolver.Resolve(paths.SourceDir)
	if err != nil {
		return nil, err
	}

	queue := []string{entrypoint}
	seen := map[string]bool{entrypoint: true}
	g.AddFile(relativeTo(p.Root(), entrypoint))

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		file := queue[0]
		queue = queue[1:]

		imports, err := i.imports(file)
		if err != nil {
			return nil, err
		}
		for _, specifier := range imports {
			target, ok := resolveImport(file, specifier, sourceDir)
			if !ok {
				continue
			}
			g.AddEdge(relativeTo(p.Root(), file), relativeTo(p.Root(), target))
			if !seen[target] {
				seen[target] = true
				queue = append(queue, target)
			}
		}
	}
	return g, nil
}

// AssertNoCircularDependencies fails with a *CircularDependencyError when
// the import graph has cycles.
func (i *Inspector) AssertNoCircularDependencies(ctx context.Context, p *project.Project) error {
	g, err := i.ImportGraph(ctx, p)
	if err != nil {
		return err
	}
	if cycles := g.Cycles(); len(cycles) > 0 {
		return &CircularDependencyError{Cycles: cycles}
	}
	return nil
}

func (i *Inspector) imports(file string) ([]string, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}
	key := file + "|" + parser.HashContent(content)
	if cached, ok := i.cache.Get(key); ok {
		return cached, nil
	}

	parsed, err := i.registry.ParseContent(file, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file, err)
	}
	var imports []string
	if parsed != nil {
		imports = parsed.Imports
	}
	i.cache.Add(key, imports)
	return imports, nil
}

// resolveImport maps a relative or @project/ specifier to an existing file.
// Package imports are not followed.
func resolveImport(from, specifier, sourceDir string) (string, bool) {
	var base string
	switch {
	case strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../") || specifier == "." || specifier == "..":
		base = filepath.Join(filepath.Dir(from), filepath.FromSlash(specifier))
	case strings.HasPrefix(specifier, projectImportPrefix):
		base = filepath.Join(sourceDir, filepath.FromSlash(strings.TrimPrefix(specifier, projectImportPrefix)))
	default:
		return "", false
	}

	candidates := make([]string, 0, 8)
	ext := filepath.Ext(base)
	if containsExt(moduleExtensions, ext) {
		candidates = append(candidates, base)
		// compiled-extension imports point at their TypeScript source
		if ext == ".js" || ext == ".jsx" {
			stem := strings.TrimSuffix(base, ext)
			candidates = append(candidates, stem+".ts", stem+".tsx")
		}
	}
	for _, e := range moduleExtensions {
		candidates = append(candidates, base+e)
	}
	for _, e := range moduleExtensions {
		candidates = append(candidates, filepath.Join(base, "index"+e))
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, true
		}
	}
	return "", false
}

func containsExt(exts []string, ext string) bool {
	for _, e := range exts {
		if e == ext {
			return true
		}
	}
	return false
}
