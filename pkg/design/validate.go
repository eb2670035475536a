package design

import (
	"fmt"
	"strings"
)

// Severity indicates whether a finding blocks building or is merely
// informational.
type Severity int

const (
	SeverityError   Severity = iota // blocks building
	SeverityWarning                 // informational
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Finding describes a single validation result.
type Finding struct {
	Path     string // location of the node, such as body.child.children[1]
	Message  string
	Severity Severity
}

func (f Finding) Error() string {
	return fmt.Sprintf("[%s] %s: %s", f.Severity, f.Path, f.Message)
}

// Result bundles errors (blocking) and warnings (advisory).
type Result struct {
	Errors   []Finding
	Warnings []Finding
}

// OK reports whether there are no errors.
func (r Result) OK() bool { return len(r.Errors) == 0 }

// Err returns nil when r has no errors, and otherwise ErrInvalidDesign
// listing them.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	msgs := make([]string, len(r.Errors))
	for i, f := range r.Errors {
		msgs[i] = f.Path + ": " + f.Message
	}
	return fmt.Errorf("%w: %s", ErrInvalidDesign, strings.Join(msgs, "; "))
}

func (r *Result) errorf(path, format string, args ...any) {
	r.Errors = append(r.Errors, Finding{Path: path, Message: fmt.Sprintf(format, args...), Severity: SeverityError})
}

func (r *Result) warnf(path, format string, args ...any) {
	r.Warnings = append(r.Warnings, Finding{Path: path, Message: fmt.Sprintf(format, args...), Severity: SeverityWarning})
}

// Validate checks the whole tree under n, reachable from the root path
// "body". It is read-only.
func Validate(n *Node) Result {
	var r Result
	if n == nil {
		r.errorf("body", "missing body")
		return r
	}
	validateNode(&r, "body", n)
	return r
}

func validateNode(r *Result, path string, n *Node) {
	switch n.Kind {
	case NodeGrid:
		validateGrid(r, path, n)
	case NodeProfile:
		validateProfile(r, path, n)
	case NodeCollection:
		validateCollection(r, path, n)
	case NodeReflection:
		validateReflection(r, path, n)
	case NodeTranslation:
		validateTranslation(r, path, n)
	case NodeRotation:
		validateRotation(r, path, n)
	default:
		r.errorf(path, "unknown node kind")
		return
	}

	if n.Kind == NodeGrid || n.Kind == NodeProfile || n.Kind == NodeCollection {
		if n.Child != nil {
			r.warnf(path, "%s node ignores child", n.Kind)
		}
	}
	if n.Kind != NodeCollection && len(n.Children) > 0 {
		r.warnf(path, "%s node ignores children", n.Kind)
	}
}

func validateGrid(r *Result, path string, n *Node) {
	if n.U == nil || n.V == nil {
		r.errorf(path, "grid needs edge vectors u and v")
	} else if n.U.Vec().Cross(n.V.Vec()).Length() == 0 {
		r.errorf(path, "grid edge vectors u and v are parallel")
	}
	if n.NU < 0 || n.NV < 0 {
		r.errorf(path, "grid panel counts must be positive, got nu=%d nv=%d", n.NU, n.NV)
	}
}

func validateProfile(r *Result, path string, n *Node) {
	switch {
	case len(n.Points) > 0 && n.Expr != "":
		r.errorf(path, "profile takes either points or expr, not both")
	case len(n.Points) == 0 && n.Expr == "":
		r.errorf(path, "profile needs points or expr")
	case len(n.Points) == 1:
		r.errorf(path, "profile needs at least 2 points")
	}
	if n.Z != nil {
		if n.Expr == "" {
			r.warnf(path, "z range is only used with expr")
		}
		if n.Z.N < 2 {
			r.errorf(path, "z range needs at least 2 samples, got %d", n.Z.N)
		}
	}
	if n.NPhi != 0 && n.NPhi < 2 {
		r.errorf(path, "nphi must be at least 2, got %d", n.NPhi)
	} else if n.NPhi == 2 || n.NPhi == 3 {
		r.warnf(path, "nphi=%d gives a very coarse ring", n.NPhi)
	}
}

func validateCollection(r *Result, path string, n *Node) {
	if len(n.Children) == 0 {
		r.errorf(path, "collection needs children")
	}
	seen := make(map[string]bool)
	for i, c := range n.Children {
		p := fmt.Sprintf("%s.children[%d]", path, i)
		if c == nil {
			r.errorf(p, "empty child")
			continue
		}
		if c.Name != "" {
			if seen[c.Name] {
				r.warnf(p, "duplicate name %q", c.Name)
			}
			seen[c.Name] = true
		}
		validateNode(r, p, c)
	}
}

func validateChild(r *Result, path string, n *Node) {
	if n.Child == nil {
		r.errorf(path, "%s needs a child", n.Kind)
		return
	}
	validateNode(r, path+".child", n.Child)
}

func validateReflection(r *Result, path string, n *Node) {
	switch {
	case n.Plane == nil:
		r.errorf(path, "reflection needs a plane")
	case n.Plane.Normal.Vec().Length() == 0:
		r.errorf(path, "reflection plane normal is zero")
	case n.Plane.Normal[2] != 0:
		r.errorf(path, "reflection plane must be vertical (normal z == 0)")
	}
	validateChild(r, path, n)
}

func validateTranslation(r *Result, path string, n *Node) {
	switch {
	case n.Translation == nil:
		r.errorf(path, "translation needs a vector")
	case n.Translation[2] != 0:
		r.errorf(path, "translation must be horizontal (z == 0)")
	case n.Translation.Vec().Length() == 0:
		r.warnf(path, "zero translation stacks every copy in place")
	}
	validateRepetitions(r, path, n)
	validateChild(r, path, n)
}

func validateRotation(r *Result, path string, n *Node) {
	validateRepetitions(r, path, n)
	validateChild(r, path, n)
}

func validateRepetitions(r *Result, path string, n *Node) {
	if n.Repetitions < 1 {
		r.errorf(path, "%s needs repetitions >= 1, got %d", n.Kind, n.Repetitions)
	}
}
