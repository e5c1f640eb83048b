package tasktree

import (
	"context"
	"fmt"
	"slices"
)

// Row is what a renderer knows about a task.
type Row struct {
	Path        []int
	Depth       int
	Description string
	HasChildren bool
}

// Renderer draws task progress. Calls for one row always begin with Start
// and end with exactly one of Skip, Complete or Fail.
type Renderer interface {
	Start(row Row)
	Skip(row Row, reason string)
	Expand(row Row)
	Complete(row Row)
	Fail(row Row, err error)
}

// Follow walks its own copy of the task tree and advances one row per event
// read from events. It never runs task bodies. It returns the error carried
// by an error event, or a protocol error if the worker's events do not
// match the tree.
func Follow(ctx context.Context, tasks []*Task, events <-chan Event, r Renderer) error {
	return follow(ctx, tasks, nil, events, r)
}

func follow(ctx context.Context, tasks []*Task, prefix []int, events <-chan Event, r Renderer) error {
	for i, task := range tasks {
		row := Row{
			Path:        childPath(prefix, i),
			Depth:       len(prefix),
			Description: task.Description,
			HasChildren: len(task.Tasks) > 0,
		}
		r.Start(row)

		ev, err := next(ctx, events, row)
		if err != nil {
			return err
		}
		switch ev.Kind {
		case EventError:
			r.Fail(row, ev.Err)
			return ev.Err
		case EventShouldSkip:
			if ev.Skip.Skip {
				r.Skip(row, ev.Skip.Reason)
				continue
			}
		default:
			return fmt.Errorf("task %s: expected %s event, got %s", PathString(row.Path), EventShouldSkip, ev.Kind)
		}

		if task.Fn != nil {
			ev, err := next(ctx, events, row)
			if err != nil {
				return err
			}
			switch ev.Kind {
			case EventCompleted:
			case EventError:
				r.Fail(row, ev.Err)
				return ev.Err
			default:
				return fmt.Errorf("task %s: expected %s event, got %s", PathString(row.Path), EventCompleted, ev.Kind)
			}
		}

		if row.HasChildren {
			r.Expand(row)
			if err := follow(ctx, task.Tasks, row.Path, events, r); err != nil {
				return err
			}
		}
		r.Complete(row)
	}
	return nil
}

func next(ctx context.Context, events <-chan Event, row Row) (Event, error) {
	select {
	case <-ctx.Done():
		return Event{}, ctx.Err()
	case ev, ok := <-events:
		if !ok {
			return Event{}, fmt.Errorf("task %s: worker stopped before %q finished", PathString(row.Path), row.Description)
		}
		if !slices.Equal(ev.Path, row.Path) {
			return Event{}, fmt.Errorf("task %s: received event for task %s", PathString(row.Path), PathString(ev.Path))
		}
		return ev, nil
	}
}
