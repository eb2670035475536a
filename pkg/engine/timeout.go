package engine

import (
	"context"
	"fmt"
	"time"
)

// EvalTimeout is the default limit for a single Sample call.
const EvalTimeout = 5 * time.Second

// evalResult is the internal type used to pass evaluation results through channels.
type evalResult struct {
	values []float64
	errors []EvalError
	err    error
}

// waitWithTimeout waits for a result from ch, but returns an error once ctx
// is done. On timeout the evaluating goroutine may still be running; it
// stops at its next sample and its result is dropped into the buffered
// channel.
func waitWithTimeout(ctx context.Context, ch <-chan evalResult) ([]float64, []EvalError, error) {
	select {
	case res := <-ch:
		return res.values, res.errors, res.err
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("engine: evaluation stopped: %w", ctx.Err())
	}
}
