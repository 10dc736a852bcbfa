package motion

import (
	"github.com/unitycoder/walker-tank-experiment/math3d"
)

// Kind names a generator. Each kind appears at most once in a Composer.
type Kind string

const (
	KindStance Kind = "stance"
	KindHeight Kind = "height"
	KindSway   Kind = "sway"
	KindRaise  Kind = "raise"
	KindStep   Kind = "step"
)

// Kinds is the fixed order in which generators are combined.
var Kinds = []Kind{
	KindStance,
	KindHeight,
	KindSway,
	KindRaise,
	KindStep,
}

// Generator is a named LegOffset, optionally driven over time by an ease.
type Generator struct {
	Kind   Kind
	Offset LegOffset

	ease *Ease
}

func NewGenerator(kind Kind) *Generator {
	return &Generator{
		Kind:   kind,
		Offset: NewLegOffset(),
	}
}

// ShiftY eases the Y component of every leg by delta over dur seconds. Any
// ease already in progress is replaced.
func (g *Generator) ShiftY(delta, dur float64) {
	start := g.Offset.Legs
	g.ease = NewEase(0, delta, dur, func(v float64) {
		for i := range g.Offset.Legs {
			g.Offset.Legs[i] = start[i].Add(math3d.MakeVector3(0, v, 0))
		}
	})
}

// RampWeight raises the weight by rate*dt, clamped to one, and returns true
// once it has reached one.
func (g *Generator) RampWeight(rate, dt float64) bool {
	if g.Offset.Weight < 1 {
		g.Offset.Weight = math3d.Clamp01(g.Offset.Weight + rate*dt)
	}

	return g.Offset.Weight >= 1
}

// Update steps the current ease (if any) by dt seconds, and returns true while
// it's still running.
func (g *Generator) Update(dt float64) bool {
	if g.ease == nil {
		return false
	}

	if g.ease.Step(dt) {
		g.ease = nil
		return false
	}

	return true
}

// Busy returns true while an ease is in progress.
func (g *Generator) Busy() bool {
	return g.ease != nil
}
