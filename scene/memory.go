package scene

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"
	"github.com/unitycoder/walker-tank-experiment/math3d"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "scene",
})

// Memory is a kinematic scene held in memory. Joint targets are applied to the
// live frames immediately, as if every actuator were infinitely stiff. It is
// not safe for concurrent use.
type Memory struct {
	objects []*MemoryObject
	byName  map[string]*MemoryObject
}

// MemoryObject is a single node of a Memory scene.
type MemoryObject struct {
	name   string
	parent *MemoryObject

	// Relative to the parent, or to the world for roots.
	local math3d.Frame

	axis   *math3d.Vector3
	target float64

	mass float64
	com  math3d.Vector3
	body bool

	rest    math3d.Frame
	hasRest bool

	outputs []Actuator
}

// NewMemory builds a scene from the given rig. Reference frames are captured
// from the initial pose, with every joint at zero.
func NewMemory(rs RigSpec) (*Memory, error) {
	if err := rs.Validate(); err != nil {
		return nil, err
	}

	m := &Memory{
		byName: map[string]*MemoryObject{},
	}

	for _, spec := range rs.Objects {
		o := &MemoryObject{
			name:  spec.Name,
			local: spec.Frame.frame(),
		}

		if spec.Parent != "" {
			o.parent = m.byName[strings.ToLower(spec.Parent)]
		}

		if spec.Axis != nil {
			a := vec(*spec.Axis).Unit()
			o.axis = &a
		}

		if spec.Body != nil {
			o.body = true
			o.mass = spec.Body.Mass
			o.com = vec(spec.Body.CenterOfMass)
		}

		o.hasRest = !spec.NoRest
		if o.hasRest {
			o.rest = o.Frame()
		}

		m.objects = append(m.objects, o)
		m.byName[strings.ToLower(spec.Name)] = o
	}

	log.Debugf("built scene with %d objects", len(m.objects))
	return m, nil
}

// Objects implements Graph.
func (m *Memory) Objects() []Object {
	objs := make([]Object, len(m.objects))
	for i, o := range m.objects {
		objs[i] = o
	}

	return objs
}

// Lookup returns the named object (ignoring case), or nil.
func (m *Memory) Lookup(name string) *MemoryObject {
	return m.byName[strings.ToLower(name)]
}

// Attach mirrors every target sent to the named joint onto another actuator,
// e.g. a servo.
func (m *Memory) Attach(name string, a Actuator) error {
	o := m.Lookup(name)
	if o == nil {
		return fmt.Errorf("no such object: %s", name)
	}

	if o.axis == nil {
		return fmt.Errorf("object %s has no joint", name)
	}

	o.outputs = append(o.outputs, a)
	return nil
}

func (o *MemoryObject) Name() string {
	return o.name
}

// Frame returns the live world frame, including the rotation of this
// object's own joint.
func (o *MemoryObject) Frame() math3d.Frame {
	f := o.local
	if o.parent != nil {
		f = o.parent.Frame().Mul(o.local)
	}

	if o.axis != nil && o.target != 0 {
		f = f.Rotate(mgl64.QuatRotate(math3d.Rad(o.target), mgl64.Vec3{o.axis.X, o.axis.Y, o.axis.Z}))
	}

	return f
}

// SetFrame moves the object, relative to its parent (or the world, for
// roots). Reference frames are left alone.
func (o *MemoryObject) SetFrame(f math3d.Frame) {
	o.local = f
}

func (o *MemoryObject) Rest() (math3d.Frame, bool) {
	return o.rest, o.hasRest
}

// Target returns the last angle (in degrees) commanded to the joint.
func (o *MemoryObject) Target() float64 {
	return o.target
}

func (o *MemoryObject) Joint() Joint {
	if o.axis == nil {
		return nil
	}

	return memoryJoint{o}
}

func (o *MemoryObject) Body() Body {
	if !o.body {
		return nil
	}

	return memoryBody{o}
}

type memoryJoint struct {
	o *MemoryObject
}

func (j memoryJoint) Axis() math3d.Vector3 {
	return *j.o.axis
}

func (j memoryJoint) SetTarget(deg float64) {
	j.o.target = deg
	for _, a := range j.o.outputs {
		a.SetTarget(deg)
	}
}

type memoryBody struct {
	o *MemoryObject
}

func (b memoryBody) Mass() float64 {
	return b.o.mass
}

func (b memoryBody) WorldCenterOfMass() math3d.Vector3 {
	return b.o.Frame().TransformPoint(b.o.com)
}
