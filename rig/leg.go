package rig

import (
	"fmt"
	"strings"
)

// LegID indexes the four legs. The order is fixed: front left, front right,
// back left, back right.
type LegID int

const (
	LF LegID = iota
	RF
	LB
	RB

	NumLegs = 4
)

var AllLegs = [NumLegs]LegID{LF, RF, LB, RB}

func (id LegID) String() string {
	switch id {
	case LF:
		return "LF"
	case RF:
		return "RF"
	case LB:
		return "LB"
	case RB:
		return "RB"
	default:
		return fmt.Sprintf("LegID(%d)", int(id))
	}
}

// Suffix returns the suffix of the leg's segment names in the scene.
func (id LegID) Suffix() string {
	return strings.ToLower(id.String())
}

func (id LegID) Left() bool {
	return id == LF || id == LB
}

func (id LegID) Front() bool {
	return id == LF || id == RF
}

// Leg is four segments, ordered root to tip.
type Leg struct {
	ID    LegID
	Hip   Segment
	Upper Segment
	Lower Segment
	Tip   Segment
	Right bool
	Front bool
}

// Segments returns the segments of the leg, root to tip.
func (l Leg) Segments() [4]Segment {
	return [4]Segment{l.Hip, l.Upper, l.Lower, l.Tip}
}

// Complete returns true if every segment of the leg is present and has a
// reference frame, which is what solving it needs.
func (l Leg) Complete() bool {
	for _, s := range l.Segments() {
		if !s.HasRestPose() {
			return false
		}
	}

	return true
}

// JointCommand holds the angles (in degrees) commanded to the three actuated
// joints of a leg.
type JointCommand struct {
	Yaw   float64 // hip
	Upper float64 // upper leg pitch
	Lower float64 // lower leg pitch
}

// Apply writes the command to the leg's actuators. Absent actuators are
// skipped.
func (l Leg) Apply(cmd JointCommand) {
	l.Hip.SetAngle(cmd.Yaw)
	l.Upper.SetAngle(cmd.Upper)
	l.Lower.SetAngle(cmd.Lower)
}
