package rig

import (
	"github.com/unitycoder/walker-tank-experiment/math3d"
	"github.com/unitycoder/walker-tank-experiment/scene"
)

// Segment is a named body part, bound once at startup. Any of its handles may
// be absent; use the capability tests before touching them.
type Segment struct {
	Name    string
	obj     scene.Object
	joint   scene.Joint
	body    scene.Body
	rest    math3d.Frame
	hasRest bool
}

// NewSegment wraps a scene object. A nil object gives an absent segment.
func NewSegment(name string, obj scene.Object) Segment {
	s := Segment{Name: name}
	if obj == nil {
		return s
	}

	s.obj = obj
	s.joint = obj.Joint()
	s.body = obj.Body()
	s.rest, s.hasRest = obj.Rest()
	return s
}

// Present returns true if the segment was found in the scene.
func (s Segment) Present() bool {
	return s.obj != nil
}

func (s Segment) HasActuator() bool {
	return s.joint != nil
}

func (s Segment) HasRestPose() bool {
	return s.obj != nil && s.hasRest
}

func (s Segment) HasBody() bool {
	return s.body != nil
}

// Frame returns the live world frame of the segment, or the identity if it's
// absent.
func (s Segment) Frame() math3d.Frame {
	if s.obj == nil {
		return math3d.IdentityFrame
	}

	return s.obj.Frame()
}

func (s Segment) Position() math3d.Vector3 {
	return s.Frame().Position
}

// Rest returns the stored reference frame. Check HasRestPose first.
func (s Segment) Rest() math3d.Frame {
	return s.rest
}

// Axis returns the local joint axis, and false if there's no joint.
func (s Segment) Axis() (math3d.Vector3, bool) {
	if s.joint == nil {
		return math3d.ZeroVector3, false
	}

	return s.joint.Axis(), true
}

// SetAngle sends the target angle (in degrees) to the segment's actuator, if
// it has one.
func (s Segment) SetAngle(deg float64) {
	if s.joint == nil {
		return
	}

	s.joint.SetTarget(deg)
}

// Mass returns the mass and world center of mass of the segment's body. Both
// are zero without a body.
func (s Segment) Mass() (float64, math3d.Vector3) {
	if s.body == nil {
		return 0, math3d.ZeroVector3
	}

	return s.body.Mass(), s.body.WorldCenterOfMass()
}
