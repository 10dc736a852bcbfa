package ik

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/unitycoder/walker-tank-experiment/math3d"
)

// Node is one joint of a chain: a rest frame relative to its parent node, an
// optional hinge axis (in its own local space), and the rotation found by the
// solver.
type Node struct {
	Name     string
	Local    math3d.Frame
	Axis     *math3d.Vector3
	Rotation mgl64.Quat
}

// NewNode returns a node at the given rest frame. A nil axis makes the node a
// fixed offset which the solver never rotates.
func NewNode(name string, rest math3d.Frame, axis *math3d.Vector3) *Node {
	n := &Node{
		Name:     name,
		Local:    rest,
		Rotation: mgl64.QuatIdent(),
	}

	if axis != nil {
		a := axis.Unit()
		if !a.Zero() {
			n.Axis = &a
		}
	}

	return n
}

func (n *Node) String() string {
	return fmt.Sprintf("&Node{%s: %v angle=%+.2f°}", n.Name, n.Local.Position, n.Angle())
}

// Rebase re-expresses the node's rest frame in the local space of the parent.
// Both must be in the same space beforehand, so rebase from the tip towards
// the root.
func (n *Node) Rebase(parent *Node) {
	n.Local = n.Local.RelativeTo(parent.Local)
}

// Frame returns the solved frame of the node, relative to its parent.
func (n *Node) Frame() math3d.Frame {
	return n.Local.Rotate(n.Rotation)
}

// Angle returns the signed rotation (in degrees) of the node about its axis,
// in (-180, 180]. Nodes without an axis always return zero.
func (n *Node) Angle() float64 {
	if n.Axis == nil {
		return 0
	}

	q := n.Rotation
	twist := q.V.Dot(mgl64.Vec3{n.Axis.X, n.Axis.Y, n.Axis.Z})
	a := math3d.Deg(2 * math.Atan2(twist, q.W))

	if a > 180 {
		a -= 360
	} else if a <= -180 {
		a += 360
	}

	return a
}
