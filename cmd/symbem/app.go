package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/chazu/symbem/pkg/assemble"
	"github.com/chazu/symbem/pkg/config"
	"github.com/chazu/symbem/pkg/design"
	"github.com/chazu/symbem/pkg/kernel"
	"github.com/chazu/symbem/pkg/matrix"
	"github.com/chazu/symbem/pkg/mesh"
	"github.com/chazu/symbem/pkg/symmetry"
	"github.com/chazu/symbem/pkg/tessellate"
	"go.uber.org/zap"
)

// Tolerances used when comparing against brute-force assembly.
const (
	checkRTol = 1e-5
	checkATol = 1e-8
)

// App wires a body builder, a base kernel and the symmetry-aware assembler.
type App struct {
	builder     *design.Builder
	base        kernel.Evaluator
	log         *zap.Logger
	concurrency int
}

// Report summarizes one assembly run.
type Report struct {
	Body          string       `json:"body"`
	Symmetry      string       `json:"symmetry"`
	Panels        int          `json:"panels"`
	Leaves        int          `json:"leaves"`
	KernelCalls   int64        `json:"kernelCalls"`
	LeafPairs     int          `json:"leafPairs"`
	Rows          int          `json:"rows"`
	Cols          int          `json:"cols"`
	StoredEntries int          `json:"storedEntries"`
	Compression   float64      `json:"compression"`
	Check         *CheckResult `json:"check,omitempty"`
}

// CheckResult compares the structured matrices against brute force.
type CheckResult struct {
	MaxAbsDiffS float64 `json:"maxAbsDiffS"`
	MaxAbsDiffV float64 `json:"maxAbsDiffV"`
	OK          bool    `json:"ok"`
}

// NewApp creates an App from a validated configuration.
func NewApp(cfg *config.Config, log *zap.Logger) (*App, error) {
	base, err := kernel.Lookup(cfg.Kernel.Name)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &App{
		builder:     design.NewBuilder(),
		base:        base,
		log:         log,
		concurrency: cfg.Assembly.Concurrency,
	}, nil
}

// LoadBody reads a body description from path, or falls back to the body of
// cfg when path is empty.
func LoadBody(cfg *config.Config, path string) (*design.Node, error) {
	if path == "" {
		if cfg.Body == nil {
			return nil, fmt.Errorf("no body: pass a design file or set body in the config")
		}
		return cfg.Body, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open design: %w", err)
	}
	defer f.Close()
	return design.Decode(f)
}

// Build validates n, logs its warnings and builds the shape.
func (a *App) Build(ctx context.Context, n *design.Node) (mesh.Shape, error) {
	res := design.Validate(n)
	for _, w := range res.Warnings {
		a.log.Warn("design warning", zap.String("path", w.Path), zap.String("message", w.Message))
	}
	return a.builder.Build(ctx, n)
}

// Assemble builds the body and assembles its self-influence matrices. With
// check set, the result is also compared against brute-force assembly.
func (a *App) Assemble(ctx context.Context, n *design.Node, check bool) (*Report, error) {
	body, err := a.Build(ctx, n)
	if err != nil {
		return nil, err
	}

	counting := kernel.NewCounting(a.base)
	asm := assemble.New(counting,
		assemble.WithLogger(a.log),
		assemble.WithConcurrency(a.concurrency),
	)

	S, V, err := asm.BuildMatrices(ctx, nil, body, body)
	if err != nil {
		return nil, err
	}

	leaves := len(tessellate.Leaves(body))
	r := &Report{
		Body:          body.Name(),
		Symmetry:      symmetry.KindOf(body).String(),
		Panels:        body.NbFaces(),
		Leaves:        leaves,
		KernelCalls:   counting.Calls(),
		LeafPairs:     leaves * leaves,
		Rows:          S.Rows(),
		Cols:          S.Cols(),
		StoredEntries: matrix.StoredEntries(S),
		Compression:   matrix.Compression(S),
	}
	a.log.Info("assembled",
		zap.String("body", r.Body),
		zap.Int("panels", r.Panels),
		zap.Int64("kernel_calls", r.KernelCalls),
		zap.Float64("compression", r.Compression),
	)

	if check {
		c, err := a.check(ctx, body, S, V)
		if err != nil {
			return nil, err
		}
		r.Check = c
	}
	return r, nil
}

func (a *App) check(ctx context.Context, body mesh.Shape, S, V matrix.Matrix) (*CheckResult, error) {
	refS, refV, err := assemble.BruteForce(ctx, a.base, nil, body, body)
	if err != nil {
		return nil, fmt.Errorf("brute force: %w", err)
	}
	ds, err := matrix.MaxAbsDiff(S, refS)
	if err != nil {
		return nil, err
	}
	dv, err := matrix.MaxAbsDiff(V, refV)
	if err != nil {
		return nil, err
	}
	return &CheckResult{
		MaxAbsDiffS: ds,
		MaxAbsDiffV: dv,
		OK:          matrix.AllClose(S, refS, checkRTol, checkATol) && matrix.AllClose(V, refV, checkRTol, checkATol),
	}, nil
}

// Describe builds the body and writes its symmetry tree and a summary to w.
func (a *App) Describe(ctx context.Context, w io.Writer, n *design.Node) error {
	body, err := a.Build(ctx, n)
	if err != nil {
		return err
	}
	if err := tessellate.Describe(w, body); err != nil {
		return err
	}
	s := tessellate.Summarize(body)
	_, err = fmt.Fprintf(w, "\nnodes=%d leaves=%d faces=%d depth=%d reflection=%d translation=%d rotation=%d\n",
		s.Nodes, s.Leaves, s.Faces, s.MaxDepth,
		s.ByKind[symmetry.KindReflection], s.ByKind[symmetry.KindTranslation], s.ByKind[symmetry.KindAxial])
	return err
}

// WriteText prints r in a human-readable layout.
func (r *Report) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, `body:           %s
symmetry:       %s
panels:         %d (%d leaf meshes)
matrix:         %d x %d
kernel calls:   %d (brute force: %d)
stored entries: %d
compression:    %.2fx
`, r.Body, r.Symmetry, r.Panels, r.Leaves, r.Rows, r.Cols, r.KernelCalls, r.LeafPairs, r.StoredEntries, r.Compression)
	if err != nil || r.Check == nil {
		return err
	}
	status := "ok"
	if !r.Check.OK {
		status = "MISMATCH"
	}
	_, err = fmt.Fprintf(w, "check:          %s (max |dS|=%.3g, max |dV|=%.3g)\n", status, r.Check.MaxAbsDiffS, r.Check.MaxAbsDiffV)
	return err
}
