package state

import (
	"context"
	"errors"
	"io"
)

// Simulation is an entity that consumes one action at a time.
type Simulation[A any] interface {
	Step(action A) error
	Done() bool
}

// Source produces actions for the driver loop. It returns io.EOF when there
// is no more input.
type Source[A any] interface {
	Next(ctx context.Context) (A, error)
}

// Drive is the driver loop: read an action, apply it, check for a terminal
// condition, repeat. It stops when the simulation is done, the source is
// exhausted (not an error), a step fails, or ctx is cancelled. It returns the
// number of actions applied.
func Drive[A any](ctx context.Context, sim Simulation[A], src Source[A]) (int, error) {
	steps := 0
	for !sim.Done() {
		if err := ctx.Err(); err != nil {
			return steps, err
		}

		action, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return steps, nil
		}
		if err != nil {
			return steps, err
		}

		if err := sim.Step(action); err != nil {
			return steps, err
		}
		steps++
	}
	return steps, nil
}

// Script replays a fixed list of actions.
type Script[A any] struct {
	actions []A
	pos     int
}

func NewScript[A any](actions ...A) *Script[A] {
	return &Script[A]{actions: actions}
}

func (s *Script[A]) Next(context.Context) (A, error) {
	var zero A
	if s.pos >= len(s.actions) {
		return zero, io.EOF
	}
	a := s.actions[s.pos]
	s.pos++
	return a, nil
}

// Remaining reports how many actions have not been consumed.
func (s *Script[A]) Remaining() int {
	return len(s.actions) - s.pos
}

// Chan reads actions from a channel; a closed channel is the end of input.
type Chan[A any] <-chan A

func (c Chan[A]) Next(ctx context.Context) (A, error) {
	var zero A
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case a, ok := <-c:
		if !ok {
			return zero, io.EOF
		}
		return a, nil
	}
}

// SourceFunc adapts a function to Source.
type SourceFunc[A any] func(ctx context.Context) (A, error)

func (f SourceFunc[A]) Next(ctx context.Context) (A, error) {
	return f(ctx)
}
