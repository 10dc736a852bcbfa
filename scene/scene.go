// Package scene is the boundary between the walker and whatever hosts its
// body: a game engine, a simulator, or real hardware. Objects are looked up
// once by name and then driven through narrow capability interfaces.
package scene

import (
	"strings"

	"github.com/unitycoder/walker-tank-experiment/math3d"
)

// Actuator accepts a target angle (in degrees) for a single revolute joint.
// The actuator is expected to close the loop itself; nothing is read back.
type Actuator interface {
	SetTarget(deg float64)
}

// Joint is a revolute joint with one rotation axis, given in the local space
// of the object which owns it.
type Joint interface {
	Actuator
	Axis() math3d.Vector3
}

// Body exposes the mass properties of a rigid body.
type Body interface {
	Mass() float64
	WorldCenterOfMass() math3d.Vector3
}

// Object is a named node of the host's scene graph.
type Object interface {
	Name() string

	// Frame returns the live world frame of the object.
	Frame() math3d.Frame

	// Joint returns nil if the object has no revolute actuator.
	Joint() Joint

	// Body returns nil if the object has no rigid body.
	Body() Body

	// Rest returns the stored reference frame (in world space) of the object,
	// which is distinct from its live frame. The second return value is false
	// if no reference frame was stored.
	Rest() (math3d.Frame, bool)
}

type Graph interface {
	Objects() []Object
}

// Find returns the object with the given name, ignoring case, or nil if the
// graph has no such object.
func Find(g Graph, name string) Object {
	if g == nil {
		return nil
	}

	for _, o := range g.Objects() {
		if strings.EqualFold(o.Name(), name) {
			return o
		}
	}

	return nil
}
