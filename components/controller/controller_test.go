package controller

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/unitycoder/walker-tank-experiment"
	"github.com/unitycoder/walker-tank-experiment/math3d"
	"github.com/unitycoder/walker-tank-experiment/rig"
)

type targets [rig.NumLegs]bool

func (t *targets) SetTargetEnabled(id rig.LegID, enabled bool) {
	t[id] = enabled
}

func (t *targets) TargetEnabled(id rig.LegID) bool {
	return t[id]
}

func TestLatch(t *testing.T) {
	l := Latch{}

	in := []bool{false, true, true, false, true, false, false}
	out := []bool{false, true, false, false, true, false, false}

	for i, v := range in {
		assert.Equal(t, out[i], l.Run(v), "step %d", i)
	}
}

func TestAim(t *testing.T) {
	w := walker.New()
	p := math3d.MakeVector3(1, 2, 3)
	w.LookAt = &p
	c := &Controller{w: w}

	// Centered sticks leave the look-at point alone.
	c.apply(input{}, time.Second)
	assert.NotNil(t, w.LookAt)

	c.apply(input{aimX: 1, aimY: 0.5}, time.Second/2)
	assert.Nil(t, w.LookAt)
	assert.InDelta(t, 30, w.TurretAngle, 1e-9)
	assert.InDelta(t, -15, w.BarrelAngle, 1e-9)
}

func TestFreeze(t *testing.T) {
	w := walker.New()
	tt := &targets{true, true, true, true}
	c := &Controller{w: w, targets: tt}

	// Holding the button only toggles once.
	c.apply(input{freeze: true}, 0)
	c.apply(input{freeze: true}, 0)
	assert.Equal(t, targets{}, *tt)

	c.apply(input{}, 0)
	c.apply(input{freeze: true}, 0)
	assert.Equal(t, targets{true, true, true, true}, *tt)
}

func TestShutdown(t *testing.T) {
	w := walker.New()
	c := &Controller{w: w}

	c.apply(input{}, 0)
	assert.False(t, w.Shutdown)

	c.apply(input{shutdown: true}, 0)
	assert.True(t, w.Shutdown)
}
