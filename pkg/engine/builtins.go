package engine

import (
	"fmt"
	"math"

	zygo "github.com/glycerine/zygomys/zygo"
)

// unary math functions available to profile expressions.
var unary = map[string]func(float64) float64{
	"sqrt":  math.Sqrt,
	"abs":   math.Abs,
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"exp":   math.Exp,
	"log":   math.Log,
	"floor": math.Floor,
	"ceil":  math.Ceil,
}

// binary math functions available to profile expressions.
var binary = map[string]func(float64, float64) float64{
	"pow":   math.Pow,
	"hypot": math.Hypot,
}

// registerBuiltins installs the math helpers and the constant pi.
func registerBuiltins(env *zygo.Zlisp) {
	for name, fn := range unary {
		env.AddFunction(name, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 1 {
				return zygo.SexpNull, fmt.Errorf("%s requires exactly 1 argument, got %d", name, len(args))
			}
			x, err := toFloat64(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			return &zygo.SexpFloat{Val: fn(x)}, nil
		})
	}
	for name, fn := range binary {
		env.AddFunction(name, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires exactly 2 arguments, got %d", name, len(args))
			}
			x, err := toFloat64(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: x: %w", name, err)
			}
			y, err := toFloat64(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: y: %w", name, err)
			}
			return &zygo.SexpFloat{Val: fn(x, y)}, nil
		})
	}
	env.AddFunction("pi", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &zygo.SexpFloat{Val: math.Pi}, nil
	})
}

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	if s == nil {
		return 0, fmt.Errorf("expected number, got nothing")
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}
