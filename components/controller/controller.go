package controller

import (
	"io"
	"time"

	"github.com/adammck/sixaxis"
	"github.com/sirupsen/logrus"
	"github.com/unitycoder/walker-tank-experiment"
	"github.com/unitycoder/walker-tank-experiment/rig"
)

const (

	// The maximum speed to aim (i.e. when the right stick is fully pressed),
	// in degrees per second.
	aimSpeed = 60.0
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "controller",
})

// Targets is the part of the legs which the gamepad can freeze.
type Targets interface {
	SetTargetEnabled(id rig.LegID, enabled bool)
	TargetEnabled(id rig.LegID) bool
}

type Controller struct {
	w       *walker.Walker
	targets Targets
	sa      *sixaxis.SA

	freeze Latch
}

// input is the gamepad state which the controller cares about, read once per
// tick.
type input struct {
	aimX     float64 // -1 (left) to 1 (right)
	aimY     float64 // -1 (down) to 1 (up)
	freeze   bool
	shutdown bool
}

func New(w *walker.Walker, t Targets, r io.Reader) *Controller {
	return &Controller{
		w:       w,
		targets: t,
		sa:      sixaxis.New(r),
	}
}

func (c *Controller) Boot() error {
	log.Info("reading gamepad")
	go c.sa.Run()
	return nil
}

func (c *Controller) Tick(dt time.Duration) error {
	c.apply(c.read(), dt)
	return nil
}

func (c *Controller) read() input {
	return input{
		aimX:     float64(c.sa.RightStick.X) / 127.0,
		aimY:     float64(-c.sa.RightStick.Y) / 127.0,
		freeze:   c.sa.Square > 0,
		shutdown: c.sa.Start,
	}
}

func (c *Controller) apply(in input, dt time.Duration) {

	// Aiming by hand drops the look-at point.
	if in.aimX != 0 || in.aimY != 0 {
		c.w.LookAt = nil

		d := aimSpeed * dt.Seconds()
		c.w.Aim(c.w.TurretAngle+in.aimX*d, c.w.BarrelAngle-in.aimY*d)
	}

	// Pressing square freezes (or unfreezes) every leg in its current pose.
	if c.freeze.Run(in.freeze) && c.targets != nil {
		enable := !c.targets.TargetEnabled(rig.LF)
		for _, id := range rig.AllLegs {
			c.targets.SetTargetEnabled(id, enable)
		}

		log.Infof("frozen=%v", !enable)
	}

	// At any time, pressing start shuts down the walker.
	if in.shutdown && !c.w.Shutdown {
		log.Info("pressed START, shutting down")
		c.w.Shutdown = true
	}
}
