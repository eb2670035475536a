// Package design describes bodies as YAML trees of mesh and symmetry nodes,
// validates them and builds them into mesh shapes.
//
//	kind: translation
//	name: barge
//	translation: [2, 0, 0]
//	repetitions: 3
//	child:
//	  kind: reflection
//	  plane: {normal: [0, 1, 0], c: 0}
//	  child:
//	    kind: grid
//	    origin: [-0.5, 1, -1]
//	    u: [1, 0, 0]
//	    v: [0, 0, 1]
package design

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"gopkg.in/yaml.v3"
)

// ErrInvalidDesign is returned when a design fails validation or cannot be
// built.
var ErrInvalidDesign = errors.New("design: invalid design")

// NodeKind enumerates the kinds of design nodes.
type NodeKind int

const (
	NodeUnknown     NodeKind = iota
	NodeGrid                 // rectangular panel grid
	NodeProfile              // body of revolution from a profile
	NodeCollection           // plain list of children
	NodeReflection           // child plus its mirror image
	NodeTranslation          // child repeated along a vector
	NodeRotation             // child repeated around a vertical axis
)

var kindNames = map[NodeKind]string{
	NodeGrid:        "grid",
	NodeProfile:     "profile",
	NodeCollection:  "collection",
	NodeReflection:  "reflection",
	NodeTranslation: "translation",
	NodeRotation:    "rotation",
}

func (k NodeKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseKind maps a kind name to its NodeKind.
func ParseKind(s string) (NodeKind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return NodeUnknown, false
}

// UnmarshalYAML decodes a kind name. Unknown names decode to NodeUnknown and
// are reported by Validate.
func (k *NodeKind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("line %d: kind: %w", value.Line, err)
	}
	*k, _ = ParseKind(s)
	return nil
}

// MarshalYAML encodes the kind name.
func (k NodeKind) MarshalYAML() (any, error) {
	return k.String(), nil
}

// Vec3 is a point or vector written as a three element YAML sequence.
type Vec3 [3]float64

// UnmarshalYAML decodes [x, y, z].
func (v *Vec3) UnmarshalYAML(value *yaml.Node) error {
	var xs []float64
	if err := value.Decode(&xs); err != nil {
		return fmt.Errorf("line %d: vector: %w", value.Line, err)
	}
	if len(xs) != 3 {
		return fmt.Errorf("line %d: vector needs 3 components, got %d", value.Line, len(xs))
	}
	copy(v[:], xs)
	return nil
}

// MarshalYAML encodes [x, y, z].
func (v Vec3) MarshalYAML() (any, error) {
	return v[:], nil
}

// Vec converts to an sdfx vector.
func (v Vec3) Vec() v3.Vec { return v3.Vec{X: v[0], Y: v[1], Z: v[2]} }

// PlaneSpec is the plane normal·p == c.
type PlaneSpec struct {
	Normal Vec3    `yaml:"normal"`
	C      float64 `yaml:"c"`
}

// Range is n evenly spaced heights from min to max.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
	N   int     `yaml:"n"`
}

// Node is one element of the body tree. Which fields apply depends on Kind.
type Node struct {
	Kind NodeKind `yaml:"kind"`
	Name string   `yaml:"name,omitempty"`

	// grid
	Origin *Vec3 `yaml:"origin,omitempty"`
	U      *Vec3 `yaml:"u,omitempty"`
	V      *Vec3 `yaml:"v,omitempty"`
	NU     int   `yaml:"nu,omitempty"`
	NV     int   `yaml:"nv,omitempty"`

	// profile
	Points []Vec3 `yaml:"points,omitempty"`
	Expr   string `yaml:"expr,omitempty"`
	Z      *Range `yaml:"z,omitempty"`
	NPhi   int    `yaml:"nphi,omitempty"`

	// reflection
	Plane *PlaneSpec `yaml:"plane,omitempty"`

	// translation
	Translation *Vec3 `yaml:"translation,omitempty"`

	// translation, rotation
	Repetitions int `yaml:"repetitions,omitempty"`

	// profile, rotation
	Axis *Vec3 `yaml:"axis,omitempty"`

	// reflection, translation, rotation
	Child *Node `yaml:"child,omitempty"`

	// collection
	Children []*Node `yaml:"children,omitempty"`

	// Offset moves the built shape; it applies to every kind.
	Offset *Vec3 `yaml:"offset,omitempty"`
}

// Parse decodes a YAML body tree. Unknown fields are rejected.
func Parse(data []byte) (*Node, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads a YAML body tree from r.
func Decode(r io.Reader) (*Node, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var n Node
	if err := dec.Decode(&n); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDesign, err)
	}
	return &n, nil
}
