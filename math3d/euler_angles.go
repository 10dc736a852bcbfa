package math3d

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// EulerAngles are stored in radians, applied heading first, then pitch, then
// bank (intrinsic Y-X-Z).
type EulerAngles struct {
	Heading float64 // y
	Pitch   float64 // x
	Bank    float64 // z
}

type rotation int

const (
	RotationHeading rotation = iota
	RotationPitch
	RotationBank
)

var (
	IdentityOrientation = EulerAngles{}
)

func MakeSingularEulerAngle(rot rotation, angle float64) EulerAngles {
	ea := EulerAngles{}

	switch rot {
	case RotationHeading:
		ea.Heading = Rad(angle)

	case RotationPitch:
		ea.Pitch = Rad(angle)

	case RotationBank:
		ea.Bank = Rad(angle)

	default:
		panic("invalid rotation")
	}

	return ea
}

// Euler builds EulerAngles from degrees.
func Euler(h float64, p float64, b float64) EulerAngles {
	return EulerAngles{Rad(h), Rad(p), Rad(b)}
}

// Quat returns the orientation as a unit quaternion.
func (ea EulerAngles) Quat() mgl64.Quat {
	qh := mgl64.QuatRotate(ea.Heading, mgl64.Vec3{0, 1, 0})
	qp := mgl64.QuatRotate(ea.Pitch, mgl64.Vec3{1, 0, 0})
	qb := mgl64.QuatRotate(ea.Bank, mgl64.Vec3{0, 0, 1})
	return qh.Mul(qp).Mul(qb).Normalize()
}

func (ea EulerAngles) String() string {
	return fmt.Sprintf("&Euler{h=%+.2f° p=%+.2f° b=%+.2f°}", Deg(ea.Heading), Deg(ea.Pitch), Deg(ea.Bank))
}
