package motion

import (
	"github.com/unitycoder/walker-tank-experiment/math3d"
	"github.com/unitycoder/walker-tank-experiment/rig"
)

// Stepper plans each foot's travel between footfalls. A leg moves from its
// previous footfall to the next one while its sweep rises from -1 to 0, and
// drifts back over the rest of the period while the sweep rises from 0 to 1.
type Stepper struct {
	// Distance (forwards and backwards of the base) between footfalls.
	Length float64

	// Sideways and forwards extent of the base footfall of each leg.
	ExtentX float64
	ExtentZ float64

	prev    [rig.NumLegs]math3d.Vector3
	next    [rig.NumLegs]math3d.Vector3
	planned [rig.NumLegs]bool
	lastSaw [rig.NumLegs]float64
}

func NewStepper(length, extX, extZ float64) *Stepper {
	return &Stepper{
		Length:  length,
		ExtentX: extX,
		ExtentZ: extZ,
	}
}

// Base returns the base footfall of the given leg, mirrored to its corner.
func (s *Stepper) Base(id rig.LegID) math3d.Vector3 {
	x := s.ExtentX
	if id.Left() {
		x = -x
	}

	z := -s.ExtentZ
	if id.Front() {
		z = s.ExtentZ
	}

	return math3d.MakeVector3(x, 0, z)
}

// Step consumes the leg's current sweep value and returns its step offset.
func (s *Stepper) Step(id rig.LegID, saw float64) math3d.Vector3 {
	base := s.Base(id)
	fwd := math3d.ForwardVector3.MultiplyByScalar(s.Length)
	last := s.lastSaw[id]

	// The sweep crossed zero on the way up: the foot has landed.
	if last < 0 && saw >= 0 {
		if s.planned[id] {
			s.prev[id] = base.Subtract(fwd)
		} else {
			s.prev[id] = s.next[id]
		}
	}

	// The sweep wrapped: plan the next footfall.
	if last > 0 && saw <= 0 {
		s.next[id] = base.Add(fwd)
		s.planned[id] = true
	}

	s.lastSaw[id] = saw

	f := math3d.Repeat(saw+1, 1)
	if saw < 0 {
		return s.prev[id].Lerp(s.next[id], f)
	}

	return s.next[id].Lerp(s.prev[id], f)
}

// Offsets steps every leg. The clock's sectors map to legs via sectorLeg.
func (s *Stepper) Offsets(lerp [rig.NumLegs]float64, sectorLeg [rig.NumLegs]rig.LegID) [rig.NumLegs]math3d.Vector3 {
	var out [rig.NumLegs]math3d.Vector3
	for sec, id := range sectorLeg {
		out[id] = s.Step(id, lerp[sec])
	}

	return out
}
