// Package rig binds the walker's body parts to objects of the host scene.
package rig

import (
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/unitycoder/walker-tank-experiment/math3d"
	"github.com/unitycoder/walker-tank-experiment/scene"
)

const (
	BodyName   = "body"
	TurretName = "turret"
	BarrelName = "barrels"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "rig",
})

// Table is the immutable set of bindings made at startup.
type Table struct {
	Body   Segment
	Turret Segment
	Barrel Segment
	Legs   [NumLegs]Leg
}

// Bind resolves every segment by name. Missing objects are logged and left
// absent; binding never fails.
func Bind(g scene.Graph) *Table {
	t := &Table{
		Body:   bindSegment(g, BodyName),
		Turret: bindSegment(g, TurretName),
		Barrel: bindSegment(g, BarrelName),
	}

	for _, id := range AllLegs {
		t.Legs[id] = bindLeg(g, id)
	}

	return t
}

func bindSegment(g scene.Graph, name string) Segment {
	obj := scene.Find(g, name)
	if obj == nil {
		log.Warnf("segment %s not found", name)
	}

	return NewSegment(name, obj)
}

func bindLeg(g scene.Graph, id LegID) Leg {
	sfx := id.Suffix()
	return Leg{
		ID:    id,
		Hip:   bindSegment(g, "hip"+sfx),
		Upper: bindSegment(g, "upperleg"+sfx),
		Lower: bindSegment(g, "lowerleg"+sfx),
		Tip:   bindSegment(g, "tip"+sfx),
		Right: !id.Left(),
		Front: id.Front(),
	}
}

// Segments returns every bound segment, present or not.
func (t *Table) Segments() []Segment {
	segs := []Segment{t.Body, t.Turret, t.Barrel}
	for _, l := range t.Legs {
		s := l.Segments()
		segs = append(segs, s[:]...)
	}

	return segs
}

// Missing returns the names of the segments which could not be bound.
func (t *Table) Missing() []string {
	return lo.FilterMap(t.Segments(), func(s Segment, _ int) (string, bool) {
		return s.Name, !s.Present()
	})
}

// CenterOfMass aggregates the mass of the given segments. Segments without
// bodies are skipped. If the total mass is zero, the zero vector is returned
// rather than dividing by it.
func CenterOfMass(segs []Segment) (math3d.Vector3, float64) {
	center := math3d.ZeroVector3
	total := 0.0

	for _, s := range segs {
		m, c := s.Mass()
		center = center.Add(c.MultiplyByScalar(m))
		total += m
	}

	if total == 0 {
		return math3d.ZeroVector3, 0
	}

	return center.MultiplyByScalar(1 / total), total
}

// Massive returns the segments which contribute to the center of mass: the
// body, turret, barrels and every leg segment except the tips.
func (t *Table) Massive() []Segment {
	segs := []Segment{t.Turret, t.Barrel, t.Body}
	for _, l := range t.Legs {
		segs = append(segs, l.Hip, l.Upper, l.Lower)
	}

	return lo.Filter(segs, func(s Segment, _ int) bool {
		return s.HasBody()
	})
}
