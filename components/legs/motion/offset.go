// Package motion composes the per-leg foot targets of the walker from a fixed,
// ordered list of weighted offset generators.
package motion

import (
	"fmt"

	"github.com/unitycoder/walker-tank-experiment/math3d"
	"github.com/unitycoder/walker-tank-experiment/rig"
)

// LegOffset is a weighted set of foot offsets, one per leg, in the body-local
// basis (X right, Y up, Z forward).
type LegOffset struct {
	Legs   [rig.NumLegs]math3d.Vector3
	Weight float64
}

// NewLegOffset returns an offset with every leg at zero and a weight of one.
func NewLegOffset() LegOffset {
	return LegOffset{Weight: 1}
}

// Stance returns the offset of a symmetric stance: feet spread sideways by
// side, forwards by front (front legs) or back (back legs), at height.
func Stance(side, front, back, height float64) LegOffset {
	o := NewLegOffset()
	for _, id := range rig.AllLegs {
		x := side
		if id.Left() {
			x = -side
		}

		z := back
		if id.Front() {
			z = front
		}

		o.Legs[id] = math3d.MakeVector3(x, height, z)
	}

	return o
}

func (o LegOffset) String() string {
	return fmt.Sprintf("LegOffset{w=%0.2f LF=%v RF=%v LB=%v RB=%v}", o.Weight, o.Legs[rig.LF], o.Legs[rig.RF], o.Legs[rig.LB], o.Legs[rig.RB])
}

func (o *LegOffset) Set(id rig.LegID, v math3d.Vector3) {
	o.Legs[id] = v
}

// SetAll sets every leg to the same vector.
func (o *LegOffset) SetAll(v math3d.Vector3) {
	for i := range o.Legs {
		o.Legs[i] = v
	}
}

// Scaled returns the vector of the given leg, multiplied by the weight.
func (o LegOffset) Scaled(id rig.LegID) math3d.Vector3 {
	return o.Legs[id].MultiplyByScalar(o.Weight)
}

// Add returns the sum of this offset and the weighted vectors of another. The
// weight of the result is one.
func (o LegOffset) Add(oo LegOffset) LegOffset {
	r := NewLegOffset()
	for _, id := range rig.AllLegs {
		r.Legs[id] = o.Scaled(id).Add(oo.Scaled(id))
	}

	return r
}
