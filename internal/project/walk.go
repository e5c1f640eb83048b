package project

import (
	"iter"
	"path/filepath"
	"strings"

	"github.com/richardkriesman/batterypack/internal/errs"
)

// Walk yields every project in the tree rooted at p, dependencies first and
// p last. Each distinct subproject directory is yielded once even when it is
// declared by several parents. A subproject that declares one of its own
// ancestors is reported as an error.
func (p *Project) Walk() iter.Seq2[*Project, error] {
	return func(yield func(*Project, error) bool) {
		w := &walker{
			visited: make(map[string]bool),
			yield:   yield,
		}
		w.walk(p, []string{p.root})
	}
}

type walker struct {
	visited map[string]bool
	yield   func(*Project, error) bool
}

// walk returns false when the walk must stop.
func (w *walker) walk(p *Project, stack []string) bool {
	for _, rel := range p.Config.Data.Subprojects {
		path := p.subprojectPath(rel)

		if i := indexOf(stack, path); i >= 0 {
			cycle := append(append([]string{}, stack[i:]...), path)
			w.yield(nil, errs.Minimalf(errs.KindSubprojectCycle,
				"Detected a subproject cycle: %s", strings.Join(cycle, " -> ")))
			return false
		}
		if w.visited[path] {
			continue
		}
		w.visited[path] = true

		sub, err := Open(path, p.toolVersion)
		if err != nil {
			w.yield(nil, err)
			return false
		}
		if !w.walk(sub, append(stack, path)) {
			return false
		}
	}
	return w.yield(p, nil)
}

// Subprojects opens the projects p declares directly, in declaration order.
func (p *Project) Subprojects() ([]*Project, error) {
	subs := make([]*Project, 0, len(p.Config.Data.Subprojects))
	for _, rel := range p.Config.Data.Subprojects {
		sub, err := Open(p.subprojectPath(rel), p.toolVersion)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

func (p *Project) subprojectPath(rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(p.root, filepath.FromSlash(rel))
}

func indexOf(items []string, target string) int {
	for i, item := range items {
		if item == target {
			return i
		}
	}
	return -1
}
