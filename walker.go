package walker

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/unitycoder/walker-tank-experiment/math3d"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "walker",
})

// Walker owns the components of the tank, and the little state they share.
type Walker struct {
	Components []Component

	// The point (in world space) which the turret should aim at, or nil to
	// hold the current aim.
	LookAt *math3d.Vector3

	// Commanded turret yaw and barrel pitch, in degrees. Written by whichever
	// component aims, and sent to the actuators by the legs along with the
	// rest of the joints.
	TurretAngle float64
	BarrelAngle float64

	// Components can set this to true to indicate that the walker should shut
	// down.
	Shutdown bool

	last time.Time
}

// Component is ticked once per frame, in the order it was added.
type Component interface {
	Boot() error
	Tick(dt time.Duration) error
}

func New() *Walker {
	return &Walker{
		Components: []Component{},
	}
}

// Add registers a component to receive ticks every frame.
func (w *Walker) Add(c Component) {
	w.Components = append(w.Components, c)
}

// Boot calls Boot on each component.
func (w *Walker) Boot() error {
	for _, c := range w.Components {
		err := c.Boot()
		if err != nil {
			return fmt.Errorf("%w (while booting %T)", err, c)
		}
	}

	return nil
}

// Tick advances every component to the given wall time. The first tick has a
// delta of zero.
func (w *Walker) Tick(now time.Time) error {
	var dt time.Duration
	if !w.last.IsZero() {
		dt = now.Sub(w.last)
	}

	w.last = now
	return w.Step(dt)
}

// Step advances every component by dt.
func (w *Walker) Step(dt time.Duration) error {
	if dt < 0 {
		log.Warnf("clock went backwards by %v", -dt)
		dt = 0
	}

	for _, c := range w.Components {
		err := c.Tick(dt)
		if err != nil {
			return fmt.Errorf("%w (while ticking %T)", err, c)
		}
	}

	return nil
}

// Aim sets the turret and barrel commands, in degrees.
func (w *Walker) Aim(turret, barrel float64) {
	w.TurretAngle = turret
	w.BarrelAngle = barrel
}
