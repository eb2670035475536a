// Package engine evaluates user-supplied profile expressions. A profile
// expression is a zygomys Lisp program computing a radius from the height z;
// it runs in a fresh sandbox for every sample, so evaluations are
// deterministic and cannot touch the filesystem.
package engine

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine evaluates profile expressions. It is safe for concurrent use.
type Engine struct {
	timeout time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout bounds the total time spent in one Sample call.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// NewEngine creates a new Engine instance.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{timeout: EvalTimeout}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// preludeLines is the number of lines prepended to user source.
const preludeLines = 1

// Sample evaluates source once per value of zs, with the symbol z bound to
// that value, and returns the resulting radii.
//
// Return semantics:
//   - On success: returns radii + nil errors + nil error
//   - On parse/eval failure: returns nil radii + eval errors + nil error
//   - On fatal failure (timeout, cancellation, panic): returns nil + nil + error
func (e *Engine) Sample(ctx context.Context, source string, zs []float64) ([]float64, []EvalError, error) {
	if strings.TrimSpace(source) == "" {
		return nil, []EvalError{{Message: "empty profile expression"}}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	ch := make(chan evalResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("engine: panic during evaluation: %v", r)}
			}
		}()
		ch <- e.sampleAll(ctx, source, zs)
	}()

	return waitWithTimeout(ctx, ch)
}

func (e *Engine) sampleAll(ctx context.Context, source string, zs []float64) evalResult {
	out := make([]float64, len(zs))
	for i, z := range zs {
		if err := ctx.Err(); err != nil {
			return evalResult{err: fmt.Errorf("engine: %w", err)}
		}
		r, evalErrs := e.evaluate(source, z)
		if len(evalErrs) > 0 {
			return evalResult{errors: evalErrs}
		}
		out[i] = r
	}
	return evalResult{values: out}
}

// evaluate runs source in a fresh sandbox with z bound.
func (e *Engine) evaluate(source string, z float64) (float64, []EvalError) {
	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env)

	prelude := fmt.Sprintf("(def z %s)\n", floatLiteral(z))
	if err := env.LoadString(prelude + source); err != nil {
		return 0, parseZygomysError(err, preludeLines)
	}
	v, err := env.Run()
	if err != nil {
		return 0, parseZygomysError(err, preludeLines)
	}

	r, err := toFloat64(v)
	if err != nil {
		return 0, []EvalError{{Message: fmt.Sprintf("z=%g: %v", z, err)}}
	}
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, []EvalError{{Message: fmt.Sprintf("z=%g: radius is not finite (%g)", z, r)}}
	}
	return r, nil
}

// floatLiteral renders z as a zygomys float expression. Negative values are
// written as a subtraction so the reader never sees a leading minus sign.
func floatLiteral(z float64) string {
	s := strconv.FormatFloat(math.Abs(z), 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	if z < 0 {
		return "(- 0.0 " + s + ")"
	}
	return s
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError
// values. Line numbers are shifted by offset lines of generated prelude and
// reported as 0 when they point into it.
func parseZygomysError(err error, offset int) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			line -= offset
			if line < 0 {
				line = 0
			}
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}

	// Fallback: no line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
