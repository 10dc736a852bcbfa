package math3d

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Frame is a rigid transform: a position and an orientation, with no scale.
// It maps points from its own (local) space into its parent space, which is
// the world space for frames read from the scene.
type Frame struct {
	Position Vector3
	Rotation mgl64.Quat
}

var IdentityFrame = Frame{Rotation: mgl64.QuatIdent()}

func MakeFrame(pos Vector3, ea EulerAngles) Frame {
	return Frame{Position: pos, Rotation: ea.Quat()}
}

func (f Frame) String() string {
	return fmt.Sprintf("Frame{pos=%v rot=[%+.3f %+.3f %+.3f %+.3f]}", f.Position, f.Rotation.W, f.Rotation.V[0], f.Rotation.V[1], f.Rotation.V[2])
}

// rot returns the rotation, treating the zero quaternion (an uninitialized
// Frame) as the identity.
func (f Frame) rot() mgl64.Quat {
	if f.Rotation.W == 0 && f.Rotation.V == (mgl64.Vec3{}) {
		return mgl64.QuatIdent()
	}

	return f.Rotation
}

// TransformPoint maps a point in this frame's local space into its parent
// space.
func (f Frame) TransformPoint(p Vector3) Vector3 {
	return f.Position.Add(f.TransformDirection(p))
}

// InverseTransformPoint maps a point in the parent space into this frame's
// local space.
func (f Frame) InverseTransformPoint(p Vector3) Vector3 {
	return f.InverseTransformDirection(p.Subtract(f.Position))
}

// TransformDirection rotates (but does not translate) a local vector.
func (f Frame) TransformDirection(d Vector3) Vector3 {
	return fromVec(f.rot().Rotate(d.vec()))
}

func (f Frame) InverseTransformDirection(d Vector3) Vector3 {
	return fromVec(f.rot().Conjugate().Rotate(d.vec()))
}

// Mul composes a child frame (expressed in this frame's local space) into this
// frame's parent space.
func (f Frame) Mul(child Frame) Frame {
	return Frame{
		Position: f.TransformPoint(child.Position),
		Rotation: f.rot().Mul(child.rot()).Normalize(),
	}
}

// Inverse returns the frame which undoes this one.
func (f Frame) Inverse() Frame {
	inv := f.rot().Conjugate().Normalize()
	return Frame{
		Position: fromVec(inv.Rotate(f.Position.vec())).MultiplyByScalar(-1),
		Rotation: inv,
	}
}

// InverseTransformFrame re-expresses a frame given in the parent space as a
// frame in this frame's local space.
func (f Frame) InverseTransformFrame(ff Frame) Frame {
	return f.Inverse().Mul(ff)
}

// RelativeTo returns this frame re-expressed as a child of parent. Both frames
// must be in the same space.
func (f Frame) RelativeTo(parent Frame) Frame {
	return parent.InverseTransformFrame(f)
}

// Rotate returns the frame with an extra local rotation applied about its own
// origin.
func (f Frame) Rotate(q mgl64.Quat) Frame {
	return Frame{
		Position: f.Position,
		Rotation: f.rot().Mul(q).Normalize(),
	}
}

func (f Frame) Right() Vector3 {
	return f.TransformDirection(RightVector3)
}

func (f Frame) Up() Vector3 {
	return f.TransformDirection(UpVector3)
}

func (f Frame) Forward() Vector3 {
	return f.TransformDirection(ForwardVector3)
}

// ApproxEqual returns true if both frames place every point within roughly
// eps of each other.
func (f Frame) ApproxEqual(ff Frame, eps float64) bool {
	if f.Position.Distance(ff.Position) > eps {
		return false
	}

	// q and -q are the same rotation.
	d := f.rot().Dot(ff.rot())
	if d < 0 {
		d = -d
	}

	return 1-d <= eps
}
