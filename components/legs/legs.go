// Package legs is the locomotion controller: it binds the legs, runs the
// startup choreography and then the steady gait, and solves and actuates the
// joints of every leg each frame.
package legs

import (
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/unitycoder/walker-tank-experiment"
	"github.com/unitycoder/walker-tank-experiment/components/legs/gait"
	"github.com/unitycoder/walker-tank-experiment/components/legs/motion"
	"github.com/unitycoder/walker-tank-experiment/config"
	"github.com/unitycoder/walker-tank-experiment/ik"
	"github.com/unitycoder/walker-tank-experiment/math3d"
	"github.com/unitycoder/walker-tank-experiment/rig"
	"github.com/unitycoder/walker-tank-experiment/scene"
)

type State string

const (
	sBind       State = "sBind"
	sSettle     State = "sSettle"
	sCrouch     State = "sCrouch"
	sSpinUp     State = "sSpinUp"
	sSteadyGait State = "sSteadyGait"
)

// The clock's sectors, in order, belong to these legs.
var sectorLeg = [rig.NumLegs]rig.LegID{rig.RF, rig.LF, rig.LB, rig.RB}

var log = logrus.WithFields(logrus.Fields{
	"pkg": "legs",
})

type Legs struct {
	w     *walker.Walker
	graph scene.Graph
	cfg   config.Config
	opts  ik.Options

	// The state that the legs are currently in.
	state        State
	stateCounter int
	stateTime    float64

	table    *rig.Table
	clock    *gait.Clock
	composer *motion.Composer
	stepper  *motion.Stepper
	legs     [rig.NumLegs]*leg
	enabled  [rig.NumLegs]bool
}

func New(w *walker.Walker, g scene.Graph, cfg config.Config) *Legs {
	ch := cfg.Choreography

	return &Legs{
		w:       w,
		graph:   g,
		cfg:     cfg,
		state:   sBind,
		clock:   gait.NewClock(cfg.Gait.PeriodSec),
		stepper: motion.NewStepper(ch.StepLength, ch.StanceExtensionX, ch.StanceExtensionZ),
		enabled: cfg.Targets.Enabled(),
		opts: ik.Options{
			Iterations:  cfg.IK.Iterations,
			Tolerance:   cfg.IK.Tolerance,
			Constrained: cfg.IK.Constrained,
		},
	}
}

// Boot does nothing. Binding happens on the first tick, so that the scene has
// a chance to settle into its initial pose first.
func (l *Legs) Boot() error {
	return nil
}

func (l *Legs) SetState(s State) {
	log.Infof("state=%v (after %d ticks in %v)", s, l.stateCounter, l.state)
	l.stateCounter = 0
	l.stateTime = 0
	l.state = s
}

func (l *Legs) State() State {
	return l.state
}

// Tick runs one frame: the gait clock advances, the choreography updates the
// foot targets, then every enabled leg is solved and every joint actuated.
func (l *Legs) Tick(dt time.Duration) error {
	secs := dt.Seconds()
	ch := l.cfg.Choreography

	l.stateCounter += 1
	l.stateTime += secs
	l.clock.Advance(secs)

	switch l.state {
	case sBind:
		l.bind()
		l.SetState(sSettle)

	// Hold the stance for a moment before moving.
	case sSettle:
		l.compose()
		if l.stateTime >= ch.SettleDelaySec {
			l.composer.Get(motion.KindHeight).ShiftY(ch.CrouchHeight, ch.CrouchDurationSec)
			l.SetState(sCrouch)
		}

	case sCrouch:
		if !l.composer.Update(secs) {
			l.SetState(sSpinUp)
		}

		l.compose()

	// Fade in the sway, then the raising of the feet, one after the other.
	case sSpinUp:
		l.sway()
		l.raise()

		sway := l.composer.Get(motion.KindSway)
		raise := l.composer.Get(motion.KindRaise)

		if sway.Offset.Weight < 1 {
			sway.RampWeight(ch.SpinUpRate, secs)
		} else if raise.Offset.Weight < 1 {
			raise.RampWeight(ch.SpinUpRate, secs)
		} else {
			l.SetState(sSteadyGait)
			l.step()
		}

		l.compose()

	case sSteadyGait:
		l.sway()
		l.raise()
		l.step()
		l.compose()

	default:
		return fmt.Errorf("unknown state: %#v", l.state)
	}

	l.solve()
	l.actuate()
	return nil
}

// bind resolves the scene objects, and derives the stance from wherever the
// feet are right now.
func (l *Legs) bind() {
	l.table = rig.Bind(l.graph)

	for _, id := range rig.AllLegs {
		l.legs[id] = newLeg(l.table.Legs[id], l.table.Body)
		l.legs[id].target = l.table.Legs[id].Tip.Position()
	}

	l.composer = motion.NewComposer(l.stance())
	l.composer.Get(motion.KindSway).Offset.Weight = 0
	l.composer.Get(motion.KindRaise).Offset.Weight = 0

	log.Infof("stance=%v", l.composer.Get(motion.KindStance).Offset)
}

// stance averages the present tips (relative to the body) into a symmetric
// stance: sideways spread, forward and back reach, and height.
func (l *Legs) stance() motion.LegOffset {
	body := l.table.Body.Frame()

	present := lo.Filter(l.table.Legs[:], func(lg rig.Leg, _ int) bool {
		return lg.Tip.Present()
	})

	rel := func(lg rig.Leg) math3d.Vector3 {
		return body.InverseTransformPoint(lg.Tip.Position())
	}

	front := lo.Filter(present, func(lg rig.Leg, _ int) bool { return lg.Front })
	back := lo.Filter(present, func(lg rig.Leg, _ int) bool { return !lg.Front })

	side := mean(lo.Map(present, func(lg rig.Leg, _ int) float64 { return abs(rel(lg).X) }))
	height := mean(lo.Map(present, func(lg rig.Leg, _ int) float64 { return rel(lg).Y }))
	fwd := mean(lo.Map(front, func(lg rig.Leg, _ int) float64 { return rel(lg).Z }))
	bwd := mean(lo.Map(back, func(lg rig.Leg, _ int) float64 { return rel(lg).Z }))

	return motion.Stance(side, fwd, bwd, height)
}

func (l *Legs) sway() {
	ch := l.cfg.Choreography
	g := l.composer.Get(motion.KindSway)
	g.Offset.SetAll(math3d.MakeVector3(l.clock.CircleX*ch.SwayRadiusX, 0, l.clock.CircleY*ch.SwayRadiusZ))
}

func (l *Legs) raise() {
	g := l.composer.Get(motion.KindRaise)
	for sec, id := range sectorLeg {
		g.Offset.Set(id, math3d.MakeVector3(0, l.clock.Raise[sec]*l.cfg.Choreography.StepHeight, 0))
	}
}

func (l *Legs) step() {
	g := l.composer.Get(motion.KindStep)
	g.Offset.Legs = l.stepper.Offsets(l.clock.Lerp, sectorLeg)
}

// compose folds the generators into world-space foot targets.
func (l *Legs) compose() {
	targets := motion.Targets(l.table.Body.Frame(), l.composer.Combine())
	for _, id := range rig.AllLegs {
		l.legs[id].target = targets[id]
	}
}

func (l *Legs) solve() {
	body := l.table.Body.Frame()
	for _, id := range rig.AllLegs {
		if l.enabled[id] {
			l.legs[id].solve(body, l.opts)
		}
	}
}

// actuate sends the last good command of every leg, and the turret aim.
func (l *Legs) actuate() {
	for _, lg := range l.legs {
		lg.actuate()
	}

	l.table.Turret.SetAngle(l.w.TurretAngle)
	l.table.Barrel.SetAngle(l.w.BarrelAngle)
}

// SetTargetEnabled stops (or resumes) solving the given leg. A stopped leg
// holds its last pose.
func (l *Legs) SetTargetEnabled(id rig.LegID, enabled bool) {
	log.Infof("leg=%v enabled=%v", id, enabled)
	l.enabled[id] = enabled
}

func (l *Legs) TargetEnabled(id rig.LegID) bool {
	return l.enabled[id]
}

// Bindings returns the binding table, or nil before the first tick.
func (l *Legs) Bindings() *rig.Table {
	return l.table
}

// Targets returns the world-space foot target of every leg.
func (l *Legs) Targets() [rig.NumLegs]math3d.Vector3 {
	var out [rig.NumLegs]math3d.Vector3
	for i, lg := range l.legs {
		if lg != nil {
			out[i] = lg.target
		}
	}

	return out
}

// Commands returns the joint angles last sent to every leg.
func (l *Legs) Commands() [rig.NumLegs]rig.JointCommand {
	var out [rig.NumLegs]rig.JointCommand
	for i, lg := range l.legs {
		if lg != nil {
			out[i] = lg.cmd
		}
	}

	return out
}

// Results returns the outcome of the last solve of every leg.
func (l *Legs) Results() [rig.NumLegs]ik.Result {
	var out [rig.NumLegs]ik.Result
	for i, lg := range l.legs {
		if lg != nil {
			out[i] = lg.result
		}
	}

	return out
}

// Composer returns the motion composer, or nil before the first tick.
func (l *Legs) Composer() *motion.Composer {
	return l.composer
}

func (l *Legs) Clock() *gait.Clock {
	return l.clock
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}

	return lo.Sum(vs) / float64(len(vs))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}

	return v
}
