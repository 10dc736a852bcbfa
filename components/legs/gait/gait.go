// Package gait provides the phase clock which paces the walker's legs.
package gait

import (
	"math"

	"github.com/unitycoder/walker-tank-experiment/math3d"
)

const (

	// The number of sectors the period is divided into; one per leg.
	NumSectors = 4

	sectorDuration = 1.0 / NumSectors

	DefaultPeriod = 4.0
)

// Clock is a free-running periodic timer. Each sector of its period belongs
// to one leg, which is raised (see Raise) while its sector is current, and
// swept (see Lerp) over the whole period.
type Clock struct {
	period float64
	timer  float64

	// Phase within the period, in [0, 1).
	relT float64

	// Phase within the current sector, in [0, 1).
	RelSectorT float64

	// Phase as an angle around the circle, in degrees and radians.
	AngleDeg float64
	AngleRad float64

	// The point on the unit circle at the current angle.
	CircleX float64
	CircleY float64

	CurrentSector int

	// Half-sine bump for each sector, nonzero only while it's current.
	Raise [NumSectors]float64

	// Sawtooth for each sector: from -1 to 0 over its own sector, then from 0
	// to 1 over the rest of the period.
	Lerp [NumSectors]float64
}

// NewClock returns a clock with the given period (in seconds). Non-positive
// periods are replaced by the default.
func NewClock(period float64) *Clock {
	if period <= 0 {
		period = DefaultPeriod
	}

	c := &Clock{period: period}
	c.update()
	return c
}

func (c *Clock) Period() float64 {
	return c.period
}

// Timer returns the seconds elapsed in the current period, in [0, period).
func (c *Clock) Timer() float64 {
	return c.timer
}

// Phase returns the phase within the period, in [0, 1).
func (c *Clock) Phase() float64 {
	return c.relT
}

// Advance moves the clock on by dt seconds and recomputes every pulse.
func (c *Clock) Advance(dt float64) {
	c.timer = math3d.Repeat(c.timer+dt, c.period)
	c.update()
}

func (c *Clock) update() {
	c.relT = c.timer / c.period

	c.AngleDeg = c.relT * 360
	c.AngleRad = math3d.Rad(c.AngleDeg)
	c.CircleX = math.Cos(c.AngleRad)
	c.CircleY = math.Sin(c.AngleRad)

	pulse := math.Abs(math.Sin(c.AngleRad * 0.5 * NumSectors))

	c.RelSectorT = math3d.Repeat(c.relT/sectorDuration, 1)
	c.CurrentSector = clampSector(int(math.Floor(c.relT / sectorDuration)))

	for i := 0; i < NumSectors; i++ {
		if i == c.CurrentSector {
			c.Raise[i] = pulse
		} else {
			c.Raise[i] = 0
		}

		c.Lerp[i] = Saw(c.relT - sectorDuration*float64(i))
	}
}

func clampSector(s int) int {
	if s < 0 {
		return 0
	}

	if s > NumSectors-1 {
		return NumSectors - 1
	}

	return s
}

// Saw returns the sweep value for phase t: from -1 to 0 over the first sector,
// then from 0 to 1 over the rest. Phases outside [0, 1) wrap.
func Saw(t float64) float64 {
	t = math3d.Repeat(t, 1)
	if t < sectorDuration {
		return math3d.Lerp(-1, 0, t/sectorDuration)
	}

	return math3d.Lerp(0, 1, (t-sectorDuration)/(1-sectorDuration))
}
