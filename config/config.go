// Package config holds the walker's configuration: one value, built once at
// startup from defaults and an optional YAML file, and never mutated after.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Gait         GaitConfig         `yaml:"gait"`
	Choreography ChoreographyConfig `yaml:"choreography"`
	IK           IKConfig           `yaml:"ik"`
	Targets      TargetsConfig      `yaml:"targets"`
	Turret       TurretConfig       `yaml:"turret"`
	Logging      LoggingConfig      `yaml:"logging"`
	Debug        DebugConfig        `yaml:"debug"`
	Servos       []ServoConfig      `yaml:"servos,omitempty"`
}

type GaitConfig struct {
	// Seconds per full cycle, i.e. one step of every leg.
	PeriodSec float64 `yaml:"period_sec"`
}

// ChoreographyConfig shapes the startup sequence and the steady gait. Lengths
// are in scene units, in the body-local basis.
type ChoreographyConfig struct {
	SettleDelaySec    float64 `yaml:"settle_delay_sec"`
	CrouchHeight      float64 `yaml:"crouch_height"`
	CrouchDurationSec float64 `yaml:"crouch_duration_sec"`

	SwayRadiusX float64 `yaml:"sway_radius_x"`
	SwayRadiusZ float64 `yaml:"sway_radius_z"`

	// Weight per second gained by the sway and raise generators while spinning
	// up.
	SpinUpRate float64 `yaml:"spin_up_rate"`

	StepHeight float64 `yaml:"step_height"`
	StepLength float64 `yaml:"step_length"`

	StanceExtensionX float64 `yaml:"stance_extension_x"`
	StanceExtensionZ float64 `yaml:"stance_extension_z"`
}

type IKConfig struct {
	Iterations  int     `yaml:"iterations"`
	Tolerance   float64 `yaml:"tolerance"`
	Constrained bool    `yaml:"constrained"`
}

// TargetsConfig enables solving per leg. Disabled legs hold their last pose.
type TargetsConfig struct {
	LF bool `yaml:"lf"`
	RF bool `yaml:"rf"`
	LB bool `yaml:"lb"`
	RB bool `yaml:"rb"`
}

// TurretConfig limits the turret's yaw and the barrels' pitch, in degrees.
type TurretConfig struct {
	MinYaw   float64 `yaml:"min_yaw"`
	MaxYaw   float64 `yaml:"max_yaw"`
	MinPitch float64 `yaml:"min_pitch"`
	MaxPitch float64 `yaml:"max_pitch"`

	// A point (in world space) to aim at from boot. Without one, the turret
	// holds its aim until the gamepad moves it.
	LookAt *[3]float64 `yaml:"look_at,omitempty"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type DebugConfig struct {
	// Listen address of the overlay websocket; empty disables it.
	Addr       string `yaml:"addr"`
	IntervalMS int    `yaml:"interval_ms"`
}

// ServoConfig maps a joint of the scene onto a Dynamixel servo. Offset (in
// degrees) and Invert correct for how the servo is mounted.
type ServoConfig struct {
	Joint  string  `yaml:"joint"`
	ID     int     `yaml:"id"`
	Offset float64 `yaml:"offset,omitempty"`
	Invert bool    `yaml:"invert,omitempty"`
}

// Default returns a fully-populated Config.
func Default() Config {
	return Config{
		Gait: GaitConfig{
			PeriodSec: 4,
		},
		Choreography: ChoreographyConfig{
			SettleDelaySec:    1,
			CrouchHeight:      -5,
			CrouchDurationSec: 2,
			SwayRadiusX:       1,
			SwayRadiusZ:       1,
			SpinUpRate:        0.5,
			StepHeight:        3,
			StepLength:        3,
			StanceExtensionX:  2,
			StanceExtensionZ:  2,
		},
		IK: IKConfig{
			Iterations:  64,
			Tolerance:   1e-3,
			Constrained: true,
		},
		Targets: TargetsConfig{
			LF: true,
			RF: true,
			LB: true,
			RB: true,
		},
		Turret: TurretConfig{
			MinYaw:   -180,
			MaxYaw:   180,
			MinPitch: -10,
			MaxPitch: 45,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Debug: DebugConfig{
			Addr:       "",
			IntervalMS: 100,
		},
	}
}

// Load reads the YAML file at path over the defaults. Unknown fields are
// rejected.
func Load(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config path is empty")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w (while reading config)", err)
	}

	return Parse(b)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(b []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w (while decoding config)", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Dump writes the config as YAML.
func (c Config) Dump(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("%w (while encoding config)", err)
	}

	return enc.Close()
}

func (c Config) Validate() error {
	if c.Gait.PeriodSec <= 0 {
		return fmt.Errorf("gait.period_sec must be positive, got %v", c.Gait.PeriodSec)
	}

	ch := c.Choreography
	if ch.SettleDelaySec < 0 || ch.CrouchDurationSec < 0 {
		return errors.New("choreography durations must not be negative")
	}

	if ch.SpinUpRate <= 0 {
		return fmt.Errorf("choreography.spin_up_rate must be positive, got %v", ch.SpinUpRate)
	}

	if ch.StepHeight < 0 || ch.StepLength < 0 {
		return errors.New("choreography step height and length must not be negative")
	}

	if c.IK.Iterations <= 0 {
		return fmt.Errorf("ik.iterations must be positive, got %d", c.IK.Iterations)
	}

	if c.IK.Tolerance <= 0 {
		return fmt.Errorf("ik.tolerance must be positive, got %v", c.IK.Tolerance)
	}

	if c.Turret.MinYaw > c.Turret.MaxYaw || c.Turret.MinPitch > c.Turret.MaxPitch {
		return errors.New("turret limits are inverted")
	}

	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w (while validating logging.level)", err)
	}

	if c.Debug.IntervalMS <= 0 {
		return fmt.Errorf("debug.interval_ms must be positive, got %d", c.Debug.IntervalMS)
	}

	ids := map[int]bool{}
	for _, sc := range c.Servos {
		if sc.Joint == "" {
			return fmt.Errorf("servo #%d has no joint", sc.ID)
		}

		if sc.ID < 0 || sc.ID > 253 {
			return fmt.Errorf("servo %s: invalid id %d", sc.Joint, sc.ID)
		}

		if ids[sc.ID] {
			return fmt.Errorf("servo %s: duplicate id %d", sc.Joint, sc.ID)
		}

		ids[sc.ID] = true
	}

	return nil
}

// Enabled returns the per-leg target flags, in leg order (LF, RF, LB, RB).
func (t TargetsConfig) Enabled() [4]bool {
	return [4]bool{t.LF, t.RF, t.LB, t.RB}
}
