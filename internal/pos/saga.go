package pos

import (
	"context"
	"errors"
	"fmt"
)

type compensation struct {
	name string
	undo func(ctx context.Context) error
}

// saga records the undo action of every write that landed so a failed commit can
// be rolled back in reverse order.
type saga struct {
	steps []compensation
}

func (s *saga) push(name string, undo func(ctx context.Context) error) {
	s.steps = append(s.steps, compensation{name: name, undo: undo})
}

// rollback runs every compensation, newest first, even after the request context
// is cancelled. It keeps going past failures and returns them joined.
func (s *saga) rollback(ctx context.Context) error {
	ctx = context.WithoutCancel(ctx)

	var errs []error
	for i := len(s.steps) - 1; i >= 0; i-- {
		step := s.steps[i]
		if err := step.undo(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", step.name, err))
		}
	}
	s.steps = nil

	return errors.Join(errs...)
}
