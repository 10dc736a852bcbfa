package scene

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/unitycoder/walker-tank-experiment/math3d"
	"gopkg.in/yaml.v3"
)

// RigSpec describes a body as a hierarchy of objects. Parents must be listed
// before their children.
type RigSpec struct {
	Objects []ObjectSpec `yaml:"objects"`
}

type FrameSpec struct {
	Position [3]float64 `yaml:"position"`

	// Heading, pitch and bank, in degrees.
	Rotation [3]float64 `yaml:"rotation,omitempty"`
}

type BodySpec struct {
	Mass         float64    `yaml:"mass"`
	CenterOfMass [3]float64 `yaml:"center_of_mass,omitempty"`
}

type ObjectSpec struct {
	Name   string `yaml:"name"`
	Parent string `yaml:"parent,omitempty"`

	// Relative to the parent, or to the world for root objects.
	Frame FrameSpec `yaml:"frame"`

	// Local hinge axis. Objects without one have no joint.
	Axis *[3]float64 `yaml:"axis,omitempty"`

	Body *BodySpec `yaml:"body,omitempty"`

	// Set to skip storing a reference frame for the object.
	NoRest bool `yaml:"no_rest,omitempty"`
}

func (fs FrameSpec) frame() math3d.Frame {
	p := fs.Position
	r := fs.Rotation
	return math3d.MakeFrame(math3d.MakeVector3(p[0], p[1], p[2]), math3d.Euler(r[0], r[1], r[2]))
}

func vec(a [3]float64) math3d.Vector3 {
	return math3d.MakeVector3(a[0], a[1], a[2])
}

// ParseRig decodes a YAML rig description.
func ParseRig(data []byte) (RigSpec, error) {
	var spec RigSpec

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil {
		return RigSpec{}, fmt.Errorf("%w (while parsing rig)", err)
	}

	return spec, nil
}

// LoadRig reads a YAML rig description from disk.
func LoadRig(path string) (RigSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RigSpec{}, fmt.Errorf("%w (while reading rig %s)", err, path)
	}

	return ParseRig(data)
}

// Validate checks that names are unique and every parent precedes its
// children.
func (rs RigSpec) Validate() error {
	seen := map[string]bool{}

	for i, o := range rs.Objects {
		if o.Name == "" {
			return fmt.Errorf("object #%d has no name", i)
		}

		n := strings.ToLower(o.Name)
		if seen[n] {
			return fmt.Errorf("duplicate object name: %s", o.Name)
		}

		if o.Parent != "" && !seen[strings.ToLower(o.Parent)] {
			return fmt.Errorf("object %s: parent %s is not declared before it", o.Name, o.Parent)
		}

		if o.Axis != nil && vec(*o.Axis).Zero() {
			return fmt.Errorf("object %s: zero joint axis", o.Name)
		}

		if o.Body != nil && o.Body.Mass < 0 {
			return fmt.Errorf("object %s: negative mass %.2f", o.Name, o.Body.Mass)
		}

		seen[n] = true
	}

	return nil
}

// DefaultRig returns the walker tank: a body carrying a turret and barrels,
// and four legs of hip (yaw), upper leg and lower leg (pitch) and tip.
func DefaultRig() RigSpec {
	yAxis := [3]float64{0, 1, 0}
	xAxis := [3]float64{1, 0, 0}
	zAxis := [3]float64{0, 0, 1}

	rs := RigSpec{
		Objects: []ObjectSpec{
			{
				Name:  "Body",
				Frame: FrameSpec{Position: [3]float64{0, 8, 0}},
				Body:  &BodySpec{Mass: 20},
			},
			{
				Name:   "Turret",
				Parent: "Body",
				Frame:  FrameSpec{Position: [3]float64{0, 1.5, 0}},
				Axis:   &yAxis,
				Body:   &BodySpec{Mass: 5},
			},
			{
				Name:   "Barrels",
				Parent: "Turret",
				Frame:  FrameSpec{Position: [3]float64{0, 0.5, 1.5}},
				Axis:   &xAxis,
				Body:   &BodySpec{Mass: 1, CenterOfMass: [3]float64{0, 0, 1}},
			},
		},
	}

	legs := []struct {
		suffix string
		sx, sz float64
	}{
		{"RF", 1, 1},
		{"LF", -1, 1},
		{"RB", 1, -1},
		{"LB", -1, -1},
	}

	for _, l := range legs {
		hip := "Hip" + l.suffix
		upper := "UpperLeg" + l.suffix
		lower := "LowerLeg" + l.suffix

		rs.Objects = append(rs.Objects,
			ObjectSpec{
				Name:   hip,
				Parent: "Body",
				Frame:  FrameSpec{Position: [3]float64{l.sx * 2.5, 0, l.sz * 3}},
				Axis:   &yAxis,
				Body:   &BodySpec{Mass: 2},
			},
			ObjectSpec{
				Name:   upper,
				Parent: hip,
				Frame:  FrameSpec{Position: [3]float64{l.sx * 1, 0, 0}},
				Axis:   &zAxis,
				Body:   &BodySpec{Mass: 1.5, CenterOfMass: [3]float64{l.sx * 2, 2, 0}},
			},
			ObjectSpec{
				Name:   lower,
				Parent: upper,
				Frame:  FrameSpec{Position: [3]float64{l.sx * 4, 4, 0}},
				Axis:   &zAxis,
				Body:   &BodySpec{Mass: 1, CenterOfMass: [3]float64{0, -6, 0}},
			},
			ObjectSpec{
				Name:   "Tip" + l.suffix,
				Parent: lower,
				Frame:  FrameSpec{Position: [3]float64{0, -12, 0}},
			},
		)
	}

	return rs
}
