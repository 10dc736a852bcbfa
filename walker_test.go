package walker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	booted bool
	ticks  []time.Duration
	err    error
}

func (r *recorder) Boot() error {
	r.booted = true
	return r.err
}

func (r *recorder) Tick(dt time.Duration) error {
	r.ticks = append(r.ticks, dt)
	return r.err
}

func TestTick(t *testing.T) {
	w := New()
	a := &recorder{}
	b := &recorder{}
	w.Add(a)
	w.Add(b)

	require.NoError(t, w.Boot())
	assert.True(t, a.booted)
	assert.True(t, b.booted)

	t0 := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, w.Tick(t0))
	require.NoError(t, w.Tick(t0.Add(20*time.Millisecond)))
	require.NoError(t, w.Tick(t0.Add(10*time.Millisecond)))

	expected := []time.Duration{0, 20 * time.Millisecond, 0}
	assert.Equal(t, expected, a.ticks)
	assert.Equal(t, expected, b.ticks)
}

func TestTickError(t *testing.T) {
	w := New()
	a := &recorder{err: errors.New("boom")}
	b := &recorder{}
	w.Add(a)
	w.Add(b)

	err := w.Step(time.Second)
	assert.ErrorContains(t, err, "boom")
	assert.Empty(t, b.ticks)

	assert.ErrorContains(t, w.Boot(), "while booting")
}

func TestAim(t *testing.T) {
	w := New()
	w.Aim(30, -5)
	assert.Equal(t, 30.0, w.TurretAngle)
	assert.Equal(t, -5.0, w.BarrelAngle)
}
