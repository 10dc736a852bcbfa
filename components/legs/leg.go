package legs

import (
	"math"

	"github.com/unitycoder/walker-tank-experiment/ik"
	"github.com/unitycoder/walker-tank-experiment/math3d"
	"github.com/unitycoder/walker-tank-experiment/rig"
)

// leg is one leg's binding, its world target, and the last good command.
type leg struct {
	rig.Leg

	// The reference frame of the body, which every solve starts from.
	bodyRest math3d.Frame

	// False if the leg (or the body) couldn't be fully bound; such legs are
	// never solved.
	solvable bool

	target math3d.Vector3
	cmd    rig.JointCommand
	result ik.Result
}

func newLeg(l rig.Leg, body rig.Segment) *leg {
	lg := &leg{Leg: l}

	if !body.HasRestPose() || !l.Complete() {
		log.Warnf("leg %s is incomplete, and will not be solved", l.ID)
		return lg
	}

	lg.bodyRest = body.Rest()
	lg.solvable = true
	return lg
}

// chain builds a fresh chain from the rest frames of the leg's segments, in
// the body's reference space. Nothing carries over from the previous solve.
func (lg *leg) chain() ik.Chain {
	segs := lg.Segments()
	nodes := make([]*ik.Node, len(segs))
	for i, s := range segs {
		var axis *math3d.Vector3
		if a, ok := s.Axis(); ok {
			axis = &a
		}

		nodes[i] = ik.NewNode(s.Name, s.Rest(), axis)
	}

	return ik.NewChain(lg.bodyRest, nodes...)
}

// solve moves the leg towards the target, given the live body frame. If the
// solution is unusable, the previous command is kept.
func (lg *leg) solve(body math3d.Frame, opts ik.Options) {
	if !lg.solvable {
		return
	}

	c := lg.chain()
	local := body.InverseTransformPoint(lg.target)
	if d := local.Distance(c[0].Local.Position); d > c.Reach() {
		log.Debugf("%s target=%v is out of reach (%0.2f > %0.2f)", lg.ID, local, d, c.Reach())
	}

	lg.result = ik.Solve(c, local, opts)

	cmd := rig.JointCommand{
		Yaw:   c[0].Angle(),
		Upper: c[1].Angle(),
		Lower: c[2].Angle(),
	}

	if math.IsNaN(cmd.Yaw) || math.IsNaN(cmd.Upper) || math.IsNaN(cmd.Lower) {
		log.Errorf("invalid %s command: %+v (target=%v)", lg.ID, cmd, local)
		return
	}

	lg.cmd = cmd
	log.Debugf("%s target=%v dist=%0.4f iter=%d cmd=%+v", lg.ID, local, lg.result.Distance, lg.result.Iterations, cmd)
}

func (lg *leg) actuate() {
	if !lg.solvable {
		return
	}

	lg.Apply(lg.cmd)
}
