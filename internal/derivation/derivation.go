package derivation

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/richardkriesman/batterypack/internal/fileutil"
	"github.com/richardkriesman/batterypack/internal/paths"
	"github.com/richardkriesman/batterypack/internal/project"
)

// Derivation is a generated file. Make must depend only on the project's
// current state.
type Derivation interface {
	// ToolID names the tool the file configures. It scopes the store path.
	ToolID() string
	// FilePath is the nominal path relative to the project root, using
	// forward slashes.
	FilePath() string
	Make(ctx context.Context, p *project.Project) ([]byte, error)
}

// Builder materializes derivations for one project.
type Builder struct {
	project *project.Project
}

func NewBuilder(p *project.Project) *Builder {
	return &Builder{project: p}
}

// StorePath returns where d's content is kept.
func (b *Builder) StorePath(d Derivation) (string, error) {
	return b.project.Resolver.Resolve(paths.File(filepath.ToSlash(filepath.Join(
		paths.DerivationsDir.Rel, d.ToolID(), filepath.FromSlash(d.FilePath()),
	))))
}

// NominalPath returns the path tools read d from.
func (b *Builder) NominalPath(d Derivation) (string, error) {
	return b.project.Resolver.Resolve(paths.File(d.FilePath()))
}

// MakeDerivations generates each derivation in order, writes it to the store
// and links its nominal path to the stored copy. The first failure stops
// the run; earlier derivations stay written.
func (b *Builder) MakeDerivations(ctx context.Context, derivations []Derivation) error {
	for _, d := range derivations {
		if err := b.make(ctx, d); err != nil {
			return fmt.Errorf("failed to make %s: %w", d.FilePath(), err)
		}
	}
	return nil
}

func (b *Builder) make(ctx context.Context, d Derivation) error {
	content, err := d.Make(ctx, b.project)
	if err != nil {
		return err
	}
	storePath, err := b.StorePath(d)
	if err != nil {
		return err
	}
	if err := fileutil.WriteIfChanged(storePath, content); err != nil {
		return err
	}
	nominalPath, err := b.NominalPath(d)
	if err != nil {
		return err
	}
	return fileutil.ReplaceWithSymlink(storePath, nominalPath)
}
