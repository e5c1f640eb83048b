package tasktree

import (
	"context"

	"github.com/richardkriesman/batterypack/internal/project"
	"golang.org/x/sync/errgroup"
)

// BuildFunc turns a project into a task tree. It must be deterministic:
// the engine calls it twice and both trees must have the same shape.
type BuildFunc func(ctx context.Context, p *project.Project) ([]*Task, error)

// Engine runs a task tree on a background worker while a foreground
// follower renders progress from the worker's events.
type Engine struct {
	Open     func() (*project.Project, error)
	Build    BuildFunc
	Renderer Renderer
}

// Run opens the project twice, builds one tree for each side, then runs
// them in lockstep. It returns the first task failure.
func (e *Engine) Run(ctx context.Context) error {
	foreground, err := e.tree(ctx)
	if err != nil {
		return err
	}
	background, err := e.tree(ctx)
	if err != nil {
		return err
	}

	renderer := e.Renderer
	if renderer == nil {
		renderer = discardRenderer{}
	}

	events := make(chan Event)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(events)
		return Execute(gctx, background, func(ev Event) error {
			select {
			case events <- ev:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	})
	g.Go(func() error {
		return Follow(gctx, foreground, events, renderer)
	})
	return g.Wait()
}

func (e *Engine) tree(ctx context.Context) ([]*Task, error) {
	p, err := e.Open()
	if err != nil {
		return nil, err
	}
	return e.Build(ctx, p)
}

type discardRenderer struct{}

func (discardRenderer) Start(Row)        {}
func (discardRenderer) Skip(Row, string) {}
func (discardRenderer) Expand(Row)       {}
func (discardRenderer) Complete(Row)     {}
func (discardRenderer) Fail(Row, error)  {}
