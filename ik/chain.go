package ik

import (
	"github.com/unitycoder/walker-tank-experiment/math3d"
)

// Chain is an ordered list of nodes, root to tip. The root's frame is
// relative to the chain's space; every other frame is relative to the node
// before it.
type Chain []*Node

// NewChain builds a chain from nodes whose rest frames are all given in the
// same (usually world) space, re-expressing them relative to ref and then to
// each other.
func NewChain(ref math3d.Frame, nodes ...*Node) Chain {
	for _, n := range nodes {
		n.Local = n.Local.RelativeTo(ref)
	}

	for i := len(nodes) - 1; i > 0; i-- {
		nodes[i].Rebase(nodes[i-1])
	}

	return Chain(nodes)
}

// Forward returns the solved frame of every node, in the chain's space.
func (c Chain) Forward() []math3d.Frame {
	frames := make([]math3d.Frame, len(c))

	f := math3d.IdentityFrame
	for i, n := range c {
		f = f.Mul(n.Frame())
		frames[i] = f
	}

	return frames
}

// Tip returns the position of the last node, in the chain's space.
func (c Chain) Tip() math3d.Vector3 {
	if len(c) == 0 {
		return math3d.ZeroVector3
	}

	frames := c.Forward()
	return frames[len(frames)-1].Position
}

// Reach returns the sum of the distances between consecutive nodes, which is
// as far as the tip can get from the root.
func (c Chain) Reach() float64 {
	r := 0.0
	for _, n := range c[min(1, len(c)):] {
		r += n.Local.Position.Magnitude()
	}

	return r
}
