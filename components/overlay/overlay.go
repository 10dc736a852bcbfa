// Package overlay builds snapshots of the walker's geometry for debugging:
// the skeleton, the centers of mass and the support polygon of the feet. It
// only ever reads from the scene.
package overlay

import (
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/unitycoder/walker-tank-experiment/math3d"
	"github.com/unitycoder/walker-tank-experiment/rig"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "overlay",
})

type Line struct {
	From math3d.Vector3 `json:"from"`
	To   math3d.Vector3 `json:"to"`
}

type Marker struct {
	Name     string         `json:"name"`
	Position math3d.Vector3 `json:"position"`
	Mass     float64        `json:"mass"`
}

// Overlay is a snapshot of one frame. The mass fields are only set when the
// walker has any mass at all.
type Overlay struct {
	State   string                      `json:"state"`
	Bones   []Line                      `json:"bones"`
	Masses  []Marker                    `json:"masses"`
	Targets [rig.NumLegs]math3d.Vector3 `json:"targets"`

	Mass float64 `json:"mass"`

	// Aggregate center of mass, the same dropped to the height of the body,
	// and projected onto the ground.
	CenterOfMass *math3d.Vector3 `json:"center_of_mass,omitempty"`
	BodyLevelCOM *math3d.Vector3 `json:"body_level_com,omitempty"`
	GroundCOM    *math3d.Vector3 `json:"ground_com,omitempty"`

	// Feet projected onto the ground, and the edges between them.
	Feet    []math3d.Vector3 `json:"feet,omitempty"`
	Support []Line           `json:"support,omitempty"`
}

// The edges of the support polygon: around the outside, then both diagonals.
var supportEdges = [][2]rig.LegID{
	{rig.LB, rig.RB},
	{rig.LF, rig.RF},
	{rig.LB, rig.LF},
	{rig.RB, rig.RF},
	{rig.LB, rig.RF},
	{rig.LF, rig.RB},
}

// Build returns the overlay of the given bindings. A nil table gives an empty
// overlay.
func Build(t *rig.Table) Overlay {
	o := Overlay{}
	if t == nil {
		return o
	}

	for _, l := range t.Legs {
		o.Bones = append(o.Bones, bones(t.Body, l.Hip, l.Upper, l.Lower, l.Tip)...)
	}

	o.Bones = append(o.Bones, bones(t.Body, t.Turret, t.Barrel)...)

	massive := t.Massive()
	o.Masses = lo.Map(massive, func(s rig.Segment, _ int) Marker {
		m, c := s.Mass()
		return Marker{Name: s.Name, Position: c, Mass: m}
	})

	com, mass := rig.CenterOfMass(massive)
	o.Mass = mass
	if mass == 0 {
		return o
	}

	up := math3d.UpVector3
	level := com.Subtract(com.Subtract(t.Body.Position()).Project(up))
	ground := com.ProjectOnPlane(up)

	o.CenterOfMass = &com
	o.BodyLevelCOM = &level
	o.GroundCOM = &ground

	var feet [rig.NumLegs]*math3d.Vector3
	for _, id := range rig.AllLegs {
		tip := t.Legs[id].Tip
		if !tip.Present() {
			continue
		}

		f := tip.Position().ProjectOnPlane(up)
		feet[id] = &f
		o.Feet = append(o.Feet, f)
	}

	for _, e := range supportEdges {
		a, b := feet[e[0]], feet[e[1]]
		if a != nil && b != nil {
			o.Support = append(o.Support, Line{*a, *b})
		}
	}

	return o
}

// bones returns a line between each consecutive pair of present segments.
// Pairs with a missing end are skipped, not bridged.
func bones(segs ...rig.Segment) []Line {
	lines := []Line{}
	for i := 1; i < len(segs); i++ {
		a, b := segs[i-1], segs[i]
		if a.Present() && b.Present() {
			lines = append(lines, Line{a.Position(), b.Position()})
		}
	}

	return lines
}

// Source is what the overlay reads each frame; the legs satisfy it.
type Source interface {
	Bindings() *rig.Table
	Targets() [rig.NumLegs]math3d.Vector3
}

// Publisher receives overlays, e.g. to send them to a browser.
type Publisher interface {
	Publish(typ string, data any)
}

// Component publishes an overlay every interval.
type Component struct {
	src      Source
	pub      Publisher
	interval time.Duration
	state    func() string

	since time.Duration
	count int
}

func New(src Source, pub Publisher, interval time.Duration) *Component {
	return &Component{
		src:      src,
		pub:      pub,
		interval: interval,
	}
}

// WithState sets a function which labels each overlay with a state.
func (c *Component) WithState(f func() string) *Component {
	c.state = f
	return c
}

func (c *Component) Boot() error {
	return nil
}

func (c *Component) Tick(dt time.Duration) error {
	c.since += dt
	if c.since < c.interval {
		return nil
	}

	c.since = 0
	c.Publish()
	return nil
}

// Publish builds and publishes an overlay right now.
func (c *Component) Publish() {
	o := Build(c.src.Bindings())
	o.Targets = c.src.Targets()
	if c.state != nil {
		o.State = c.state()
	}

	c.count++
	log.Debugf("publishing overlay #%d: %d bones, mass=%0.2f", c.count, len(o.Bones), o.Mass)
	c.pub.Publish("overlay", o)
}
