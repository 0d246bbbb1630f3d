// Package apply executes write commands produced by the scheduling core.
package apply

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/javiermolinar/bnapp/internal/event"
)

// ErrEmptyCommand is returned for a set command without a value.
var ErrEmptyCommand = errors.New("set command has no record")

// Failure is a command that could not be executed.
type Failure struct {
	Command event.Command
	Err     error
}

// Report summarizes a run.
type Report struct {
	Applied  int
	Failures []Failure
}

// Failed returns the number of commands that failed.
func (r Report) Failed() int {
	return len(r.Failures)
}

// Err joins every failure into one error, or returns nil.
func (r Report) Err() error {
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, fmt.Errorf("%s: %w", f.Command, f.Err))
	}
	return errors.Join(errs...)
}

// Runner executes commands against a store. Each command is attempted once;
// a failure is logged and the remaining commands still run.
type Runner struct {
	store event.Writer
	log   zerolog.Logger
}

// NewRunner creates a Runner.
func NewRunner(store event.Writer, log zerolog.Logger) *Runner {
	return &Runner{store: store, log: log.With().Str("component", "apply").Logger()}
}

// Run executes cmds in order.
func (r *Runner) Run(ctx context.Context, cmds []event.Command) Report {
	var report Report
	for _, cmd := range cmds {
		if err := r.exec(ctx, cmd); err != nil {
			r.log.Error().Err(err).Str("op", string(cmd.Op)).Str("path", cmd.Path).Msg("write failed")
			report.Failures = append(report.Failures, Failure{Command: cmd, Err: err})
			continue
		}
		r.log.Debug().Str("op", string(cmd.Op)).Str("path", cmd.Path).Msg("write applied")
		report.Applied++
	}
	return report
}

// Go executes cmds in the background. The returned channel receives the
// report once; callers may ignore it.
func (r *Runner) Go(ctx context.Context, cmds []event.Command) <-chan Report {
	done := make(chan Report, 1)
	ctx = context.WithoutCancel(ctx)
	go func() {
		done <- r.Run(ctx, cmds)
		close(done)
	}()
	return done
}

func (r *Runner) exec(ctx context.Context, cmd event.Command) error {
	switch cmd.Op {
	case event.OpSet:
		switch {
		case cmd.Record != nil:
			return r.store.Set(ctx, cmd.Path, *cmd.Record)
		case cmd.Goal != nil:
			return r.store.Set(ctx, cmd.Path, *cmd.Goal)
		default:
			return ErrEmptyCommand
		}
	case event.OpUpdate:
		return r.store.Update(ctx, cmd.Path, cmd.Fields)
	case event.OpRemove:
		return r.store.Remove(ctx, cmd.Path)
	default:
		return fmt.Errorf("unknown op %q", cmd.Op)
	}
}
