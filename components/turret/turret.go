// Package turret aims the turret and barrels at the walker's look-at point.
package turret

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"
	"github.com/unitycoder/walker-tank-experiment"
	"github.com/unitycoder/walker-tank-experiment/config"
	"github.com/unitycoder/walker-tank-experiment/math3d"
	"github.com/unitycoder/walker-tank-experiment/rig"
	"github.com/unitycoder/walker-tank-experiment/scene"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "turret",
})

type Turret struct {
	w      *walker.Walker
	g      scene.Graph
	limits config.TurretConfig

	body   rig.Segment
	turret rig.Segment
	barrel rig.Segment
}

func New(w *walker.Walker, g scene.Graph, limits config.TurretConfig) *Turret {
	return &Turret{
		w:      w,
		g:      g,
		limits: limits,
	}
}

func (t *Turret) Boot() error {
	t.body = rig.NewSegment(rig.BodyName, scene.Find(t.g, rig.BodyName))
	t.turret = rig.NewSegment(rig.TurretName, scene.Find(t.g, rig.TurretName))
	t.barrel = rig.NewSegment(rig.BarrelName, scene.Find(t.g, rig.BarrelName))

	if !t.body.HasRestPose() || !t.turret.HasRestPose() {
		log.Warnf("no turret to aim")
	}

	if p := t.limits.LookAt; p != nil {
		v := math3d.MakeVector3(p[0], p[1], p[2])
		log.Infof("looking at %v", v)
		t.w.LookAt = &v
	}

	return nil
}

// Tick turns the look-at point (if any) into turret and barrel commands. The
// commands are clamped to the limits either way, since the gamepad can also
// nudge them.
func (t *Turret) Tick(dt time.Duration) error {
	yaw, pitch := t.w.TurretAngle, -t.w.BarrelAngle

	if t.w.LookAt != nil {
		if !t.body.HasRestPose() || !t.turret.HasRestPose() {
			return nil
		}

		yaw, pitch = t.Aim(*t.w.LookAt)
	}

	yaw = mgl64.Clamp(yaw, t.limits.MinYaw, t.limits.MaxYaw)
	pitch = mgl64.Clamp(pitch, t.limits.MinPitch, t.limits.MaxPitch)

	// The barrels pitch about +X, which tips their muzzle downwards, so the
	// elevation is negated.
	t.w.Aim(yaw, -pitch)
	return nil
}

// Aim returns the yaw and elevation (in degrees, unclamped) which point the
// barrels at p, given in world space.
func (t *Turret) Aim(p math3d.Vector3) (float64, float64) {
	body := t.body.Frame()

	// Where the turret would be with its joint at zero.
	base := body.Mul(t.turret.Rest().RelativeTo(t.body.Rest()))

	v := base.InverseTransformPoint(p)
	yaw := math3d.Deg(math.Atan2(v.X, v.Z))

	if !t.barrel.HasRestPose() {
		return yaw, math3d.Deg(math.Atan2(v.Y, math.Hypot(v.X, v.Z)))
	}

	axis := math3d.UpVector3
	if a, ok := t.turret.Axis(); ok {
		axis = a
	}

	yawed := base.Rotate(mgl64.QuatRotate(math3d.Rad(yaw), mgl64.Vec3{axis.X, axis.Y, axis.Z}))
	muzzle := yawed.Mul(t.barrel.Rest().RelativeTo(t.turret.Rest()))

	vb := muzzle.InverseTransformPoint(p)
	pitch := math3d.Deg(math.Atan2(vb.Y, vb.Z))

	log.Debugf("aim=%v yaw=%0.2f pitch=%0.2f", p, yaw, pitch)
	return yaw, pitch
}
