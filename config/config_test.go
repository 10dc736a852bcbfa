package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
gait:
  period_sec: 2
choreography:
  crouch_height: -3
targets:
  rb: false
`))
	require.NoError(t, err)

	assert.Equal(t, 2.0, cfg.Gait.PeriodSec)
	assert.Equal(t, -3.0, cfg.Choreography.CrouchHeight)
	assert.Equal(t, [4]bool{true, true, true, false}, cfg.Targets.Enabled())

	// Untouched fields keep their defaults.
	assert.Equal(t, Default().Choreography.StepLength, cfg.Choreography.StepLength)
	assert.Equal(t, Default().IK, cfg.IK)
}

func TestParseServos(t *testing.T) {
	cfg, err := Parse([]byte(`
servos:
  - joint: hiplf
    id: 11
    offset: 150
  - joint: upperleglf
    id: 12
    invert: true
`))
	require.NoError(t, err)

	expected := []ServoConfig{
		{Joint: "hiplf", ID: 11, Offset: 150},
		{Joint: "upperleglf", ID: 12, Invert: true},
	}

	assert.Equal(t, expected, cfg.Servos)
}

func TestParseLookAt(t *testing.T) {
	cfg, err := Parse([]byte(`
turret:
  look_at: [0, 10, 20]
`))
	require.NoError(t, err)

	require.NotNil(t, cfg.Turret.LookAt)
	assert.Equal(t, [3]float64{0, 10, 20}, *cfg.Turret.LookAt)
	assert.Equal(t, Default().Turret.MaxPitch, cfg.Turret.MaxPitch)
	assert.Nil(t, Default().Turret.LookAt)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseErrors(t *testing.T) {
	examples := []string{
		"gait:\n  period: 2\n",
		"gait:\n  period_sec: 0\n",
		"ik:\n  iterations: -1\n",
		"turret:\n  min_yaw: 10\n  max_yaw: -10\n",
		"logging:\n  level: loud\n",
		"choreography:\n  spin_up_rate: 0\n",
		"gait: [",
		"servos:\n  - joint: hiplf\n    id: 300\n",
		"servos:\n  - joint: hiplf\n    id: 1\n  - joint: hiprf\n    id: 1\n",
		"servos:\n  - id: 1\n",
		"debug:\n  com_scale: 1\n",
	}

	for _, x := range examples {
		_, err := Parse([]byte(x))
		assert.Error(t, err, x)
	}
}

func TestDumpRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Choreography.StepHeight = 4.5

	buf := &bytes.Buffer{}
	require.NoError(t, cfg.Dump(buf))

	path := filepath.Join(t.TempDir(), "walker.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)

	_, err = Load("")
	assert.Error(t, err)
}
