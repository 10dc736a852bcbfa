package voltage

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/unitycoder/walker-tank-experiment"
)

const (

	// The time between voltage checks. These are pretty quick, but not
	// instant. Running at low voltage for too long will damage the battery,
	// so it should be checked pretty regularly.
	defaultInterval = 5 * time.Second

	// The voltage at which the walker should shut down.
	defaultMinimum = 9.6
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "voltage",
})

type HasVoltage interface {
	Voltage() (float64, error)
}

type VoltageCheck struct {
	HasVoltage
	w *walker.Walker

	Interval time.Duration
	Minimum  float64

	since time.Duration
}

func New(w *walker.Walker, servo HasVoltage) *VoltageCheck {
	return &VoltageCheck{
		HasVoltage: servo,
		w:          w,
		Interval:   defaultInterval,
		Minimum:    defaultMinimum,
	}
}

// Boot checks the voltage once, so a flat battery is caught before anything
// moves.
func (vc *VoltageCheck) Boot() error {
	return vc.CheckVoltage()
}

func (vc *VoltageCheck) Tick(dt time.Duration) error {
	vc.since += dt
	if vc.since < vc.Interval {
		return nil
	}

	vc.since = 0
	return vc.CheckVoltage()
}

// CheckVoltage fetches the voltage level of an arbitrary servo. If it's too
// low, the walker is asked to shut down as soon as possible to preserve the
// battery. Failing to read it at all is only logged.
func (vc *VoltageCheck) CheckVoltage() error {
	val, err := vc.Voltage()
	if err != nil {
		log.Warnf("%s (while reading voltage)", err)
		return nil
	}

	log.Infof("voltage: %.2fv", val)

	if val < vc.Minimum {
		vc.w.Shutdown = true
		return fmt.Errorf("low voltage: %.2fv", val)
	}

	return nil
}
