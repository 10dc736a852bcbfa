// Package servos drives the walker's joints with Dynamixel AX servos.
package servos

import (
	"fmt"
	"sync"

	"github.com/adammck/dynamixel/network"
	"github.com/adammck/dynamixel/servo"
	"github.com/adammck/dynamixel/servo/ax"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "servos",
})

type Pool []*servo.Servo

var (
	mu     sync.Mutex
	servos Pool
)

// New adds a Servo (with sensible defaults) to the pool.
func New(n *network.Network, ID int) (*servo.Servo, error) {
	s, err := ax.New(n, ID)
	if err != nil {
		return nil, err
	}

	// Don't bother sending ACKs for writes. We must do this first, to ensure
	// that the servos are in the expected state before sending other commands.
	err = s.SetReturnLevel(1)
	if err != nil {
		return nil, fmt.Errorf("%w (while setting return level of #%d)", err, ID)
	}

	err = s.Ping()
	if err != nil {
		return nil, fmt.Errorf("%w (while pinging #%d)", err, ID)
	}

	// Add to the pool as soon as we know the servo is available, to ensure that
	// we power it down at shutdown even if the next lines fail.
	mu.Lock()
	servos = append(servos, s)
	mu.Unlock()

	err = s.SetReturnDelayTime(0)
	if err != nil {
		return nil, fmt.Errorf("%w (while setting return delay of #%d)", err, ID)
	}

	err = s.SetTorqueEnable(true)
	if err != nil {
		return nil, fmt.Errorf("%w (while enabling torque of #%d)", err, ID)
	}

	err = s.SetMovingSpeed(1023)
	if err != nil {
		return nil, fmt.Errorf("%w (while setting move speed of #%d)", err, ID)
	}

	// Buffer all subsequent instructions. The ACTION command is issued at the
	// end of each tick. Note that this is just an attribute of the servo; it
	// doesn't affect the actual control table, so doesn't need un-setting.
	s.SetBuffered(true)

	return s, nil
}

// Mover is the part of a servo which an Actuator needs.
type Mover interface {
	MoveTo(deg float64) error
}

// Actuator adapts a servo to a joint of the scene. Angles are offset and
// optionally inverted, to match how the servo is mounted.
type Actuator struct {
	Name   string
	Servo  Mover
	Offset float64
	Invert bool
}

// SetTarget moves the servo. Errors are logged, not returned; the next frame
// will try again.
func (a *Actuator) SetTarget(deg float64) {
	if a.Invert {
		deg = -deg
	}

	deg += a.Offset
	if err := a.Servo.MoveTo(deg); err != nil {
		log.Warnf("%s (while moving %s to %0.2f)", err, a.Name, deg)
	}
}

// Sync runs the given function while the network is in buffered mode, then
// initiates any movements at once by sending ACTION.
func Sync(n *network.Network, f func()) error {
	n.SetBuffered(true)
	f()
	n.SetBuffered(false)

	if err := n.Action(); err != nil {
		return fmt.Errorf("%w (while sending ACTION)", err)
	}

	return nil
}

// Shutdown powers off all servos in the pool. This should be called before
// terminating the program, to ensure that servos don't stay powered up
// indefinitely.
func Shutdown() {
	mu.Lock()
	defer mu.Unlock()

	log.Infof("relaxing %d servos", len(servos))
	for _, s := range servos {
		s.SetTorqueEnable(false)
		s.SetLED(false)
	}
}
