package math3d

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type Vector3 struct {
	X float64
	Y float64
	Z float64
}

var (
	ZeroVector3    = Vector3{}
	RightVector3   = Vector3{X: 1}
	UpVector3      = Vector3{Y: 1}
	ForwardVector3 = Vector3{Z: 1}
)

// MakeVector3 returns a new Vector3.
func MakeVector3(x float64, y float64, z float64) Vector3 {
	return Vector3{x, y, z}
}

func (v Vector3) String() string {
	return fmt.Sprintf("&Vec3{x=%0.2f y=%0.2f z=%0.2f}", v.X, v.Y, v.Z)
}

// Zero returns true if the vector is at 0,0,0.
func (v Vector3) Zero() bool {
	return (v.X == 0) && (v.Y == 0) && (v.Z == 0)
}

// Add adds two vectors, and returns the result.
func (v Vector3) Add(vv Vector3) Vector3 {
	return Vector3{
		(v.X + vv.X),
		(v.Y + vv.Y),
		(v.Z + vv.Z),
	}
}

// Subtract returns the vector from vv to v.
func (v Vector3) Subtract(vv Vector3) Vector3 {
	return Vector3{
		(v.X - vv.X),
		(v.Y - vv.Y),
		(v.Z - vv.Z),
	}
}

func (v Vector3) MultiplyByScalar(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vector3) Dot(vv Vector3) float64 {
	return (v.X * vv.X) + (v.Y * vv.Y) + (v.Z * vv.Z)
}

func (v Vector3) Cross(vv Vector3) Vector3 {
	return fromVec(v.vec().Cross(vv.vec()))
}

// Magnitude returns the length of the vector.
func (v Vector3) Magnitude() float64 {
	return math.Sqrt(v.Dot(v))
}

// Distance calculates and returns the distance between this vector and another,
// as a float64.
func (v Vector3) Distance(vv Vector3) float64 {
	return v.Subtract(vv).Magnitude()
}

// Unit returns the vector scaled to a length of one. The zero vector has no
// direction, so is returned unchanged.
func (v Vector3) Unit() Vector3 {
	m := v.Magnitude()
	if m == 0 {
		return ZeroVector3
	}

	return Vector3{v.X / m, v.Y / m, v.Z / m}
}

// Lerp interpolates linearly from v (at t=0) to vv (at t=1). The factor is
// clamped, like every lerp the gait code uses.
func (v Vector3) Lerp(vv Vector3, t float64) Vector3 {
	t = Clamp01(t)
	return v.Add(vv.Subtract(v).MultiplyByScalar(t))
}

// Project returns the component of v which lies along the given direction.
func (v Vector3) Project(dir Vector3) Vector3 {
	d := dir.Dot(dir)
	if d == 0 {
		return ZeroVector3
	}

	return dir.MultiplyByScalar(v.Dot(dir) / d)
}

// ProjectOnPlane removes the component of v along the plane normal.
func (v Vector3) ProjectOnPlane(normal Vector3) Vector3 {
	return v.Subtract(v.Project(normal))
}

func (v Vector3) vec() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromVec(v mgl64.Vec3) Vector3 {
	return Vector3{v.X(), v.Y(), v.Z()}
}
