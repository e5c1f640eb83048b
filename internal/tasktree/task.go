package tasktree

import (
	"context"
	"fmt"
	"strings"

	"github.com/richardkriesman/batterypack/internal/errs"
)

// Skip is the outcome of a skip check.
type Skip struct {
	Skip   bool
	Reason string
}

// Proceed is the skip result of a task that should run.
var Proceed = Skip{}

// SkipBecause returns a skip result carrying reason.
func SkipBecause(reason string) Skip {
	return Skip{Skip: true, Reason: reason}
}

// Task is one node of a task tree. A task with Tasks runs its own body
// first, then its children in order.
type Task struct {
	Description string

	// ShouldSkip defaults to proceeding when nil.
	ShouldSkip func(ctx context.Context) (Skip, error)

	Fn func(ctx context.Context) error

	// FormatError may turn a known failure into a terse message. Returning
	// false keeps the full error.
	FormatError func(err error) (string, bool)

	Tasks []*Task
}

// EventKind identifies a worker event.
type EventKind int

const (
	EventShouldSkip EventKind = iota
	EventCompleted
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventShouldSkip:
		return "should-skip"
	case EventCompleted:
		return "fn-completed"
	case EventError:
		return "fn-error"
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event reports progress for the task at Path, the index path of the task
// from the top of the tree.
type Event struct {
	Path []int
	Kind EventKind
	Skip Skip
	Err  error
}

// PathString renders an index path as "0.2.1".
func PathString(path []int) string {
	parts := make([]string, len(path))
	for i, index := range path {
		parts[i] = fmt.Sprint(index)
	}
	return strings.Join(parts, ".")
}

func childPath(prefix []int, index int) []int {
	path := make([]int, len(prefix)+1)
	copy(path, prefix)
	path[len(prefix)] = index
	return path
}

// Execute runs tasks depth-first in declaration order and reports each step
// through emit. A skipped task's children are not visited. The first failure
// is emitted and returned and nothing after it runs.
func Execute(ctx context.Context, tasks []*Task, emit func(Event) error) error {
	return execute(ctx, tasks, nil, emit)
}

func execute(ctx context.Context, tasks []*Task, prefix []int, emit func(Event) error) error {
	for i, task := range tasks {
		path := childPath(prefix, i)

		skip := Proceed
		if task.ShouldSkip != nil {
			result, err := task.ShouldSkip(ctx)
			if err != nil {
				return fail(task, path, err, emit)
			}
			skip = result
		}
		if err := emit(Event{Path: path, Kind: EventShouldSkip, Skip: skip}); err != nil {
			return err
		}
		if skip.Skip {
			continue
		}

		if task.Fn != nil {
			if err := task.Fn(ctx); err != nil {
				return fail(task, path, err, emit)
			}
			if err := emit(Event{Path: path, Kind: EventCompleted}); err != nil {
				return err
			}
		}

		if err := execute(ctx, task.Tasks, path, emit); err != nil {
			return err
		}
	}
	return nil
}

func fail(task *Task, path []int, err error, emit func(Event) error) error {
	err = classify(task, err)
	if emitErr := emit(Event{Path: path, Kind: EventError, Err: err}); emitErr != nil {
		return emitErr
	}
	return err
}

func classify(task *Task, err error) error {
	if task.FormatError != nil {
		if msg, ok := task.FormatError(err); ok {
			kind := errs.KindOf(err)
			if kind == errs.KindUnknown {
				kind = errs.KindTask
			}
			return errs.Minimalf(kind, "%s", msg)
		}
	}
	if errs.IsMinimal(err) {
		return err
	}
	return errs.Wrap(err, errs.KindTask, "%s failed", task.Description)
}
