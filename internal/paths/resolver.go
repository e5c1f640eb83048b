package paths

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/richardkriesman/batterypack/internal/errs"
)

// Resolver turns catalog paths into absolute filesystem paths under a
// bound project root.
type Resolver struct {
	root string
}

// Entry is a single item produced by Walk.
type Entry struct {
	Path  string
	IsDir bool
}

// NewResolver binds a resolver to root. A leading "~" is expanded to the
// user's home directory.
func NewResolver(root string) (*Resolver, error) {
	expanded, err := expandHome(root)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root %s: %w", root, err)
	}
	return &Resolver{root: filepath.Clean(abs)}, nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to expand %s: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Root returns the bound root, creating it if needed.
func (r *Resolver) Root() (string, error) {
	return r.Resolve(Root)
}

// Resolve returns the absolute path of p. Non-hoistable paths have their
// directory chain created. Hoistable paths are looked up in each ancestor of
// the root first and fall back to the root when no ancestor has them.
func (r *Resolver) Resolve(p Path) (string, error) {
	if p.Hoist {
		found, ok, err := r.searchAncestors(p)
		if err != nil {
			return "", err
		}
		if ok {
			return found, nil
		}
	}
	return r.ensure(filepath.Join(r.root, p.Rel), p.Kind)
}

// Lookup returns the absolute path of p under the root without creating
// anything.
func (r *Resolver) Lookup(p Path) string {
	return filepath.Join(r.root, p.Rel)
}

func (r *Resolver) ensure(path string, kind Kind) (string, error) {
	path = filepath.Clean(path)
	dir := path
	if kind == KindFile {
		dir = filepath.Dir(path)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return path, nil
}

func (r *Resolver) searchAncestors(p Path) (string, bool, error) {
	dir := r.root
	for {
		candidate := filepath.Join(dir, p.Rel)
		info, err := os.Stat(candidate)
		switch {
		case err == nil:
			if info.IsDir() == (p.Kind == KindDirectory) {
				return candidate, true, nil
			}
		case !errs.IsNotExist(err):
			return "", false, fmt.Errorf("failed to inspect %s: %w", candidate, err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Walk enumerates everything under base depth-first, yielding each
// directory before its contents. Entries within a directory are visited in
// lexical order. Entries that disappear mid-walk are skipped.
func (r *Resolver) Walk(base string) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		walkDir(base, yield)
	}
}

// walkDir returns false once the consumer has stopped or an error was yielded.
func walkDir(dir string, yield func(Entry, error) bool) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errs.IsNotExist(err) {
			return true
		}
		yield(Entry{}, fmt.Errorf("failed to read %s: %w", dir, err))
		return false
	}
	// os.ReadDir sorts by name
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if !yield(Entry{Path: path, IsDir: true}, nil) {
				return false
			}
			if !walkDir(path, yield) {
				return false
			}
			continue
		}

		// symlinked files count, symlinked directories are not followed
		info, err := os.Stat(path)
		if err != nil {
			if errs.IsNotExist(err) {
				continue
			}
			yield(Entry{}, fmt.Errorf("failed to inspect %s: %w", path, err))
			return false
		}

		if info.Mode().IsRegular() {
			if !yield(Entry{Path: path}, nil) {
				return false
			}
		}
	}
	return true
}
