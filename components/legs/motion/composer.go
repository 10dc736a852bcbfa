package motion

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/unitycoder/walker-tank-experiment/math3d"
	"github.com/unitycoder/walker-tank-experiment/rig"
)

// Composer holds one generator of each kind, in the fixed order of Kinds, and
// folds them into the combined foot offsets.
type Composer struct {
	gens *orderedmap.OrderedMap[Kind, *Generator]
}

// NewComposer returns a composer with the given stance, and every other
// generator zeroed with a weight of one.
func NewComposer(stance LegOffset) *Composer {
	c := &Composer{
		gens: orderedmap.NewOrderedMap[Kind, *Generator](),
	}

	for _, k := range Kinds {
		c.gens.Set(k, NewGenerator(k))
	}

	c.Get(KindStance).Offset = stance
	return c
}

// Get returns the generator of the given kind.
func (c *Composer) Get(k Kind) *Generator {
	g, ok := c.gens.Get(k)
	if !ok {
		return nil
	}

	return g
}

// Generators returns every generator, in order.
func (c *Composer) Generators() []*Generator {
	out := make([]*Generator, 0, c.gens.Len())
	for el := c.gens.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}

	return out
}

// Combine returns the weighted sum of every generator.
func (c *Composer) Combine() LegOffset {
	return c.CombineUntil("")
}

// CombineUntil returns the weighted sum of the generators which precede the
// given kind. An unknown kind includes them all.
func (c *Composer) CombineUntil(k Kind) LegOffset {
	out := LegOffset{Weight: 1}
	for el := c.gens.Front(); el != nil; el = el.Next() {
		if el.Key == k {
			break
		}

		out = out.Add(el.Value.Offset)
	}

	return out
}

// Update steps every generator's ease by dt seconds, and returns true if any
// of them are still running.
func (c *Composer) Update(dt float64) bool {
	busy := false
	for _, g := range c.Generators() {
		if g.Update(dt) {
			busy = true
		}
	}

	return busy
}

// ToWorld maps a body-local offset into a world position, relative to the
// given body frame.
func ToWorld(body math3d.Frame, off math3d.Vector3) math3d.Vector3 {
	return body.Position.
		Add(body.Right().MultiplyByScalar(off.X)).
		Add(body.Up().MultiplyByScalar(off.Y)).
		Add(body.Forward().MultiplyByScalar(off.Z))
}

// Targets maps every leg of an offset into world space.
func Targets(body math3d.Frame, o LegOffset) [rig.NumLegs]math3d.Vector3 {
	var out [rig.NumLegs]math3d.Vector3
	for _, id := range rig.AllLegs {
		out[id] = ToWorld(body, o.Scaled(id))
	}

	return out
}
