package legs

import (
	"math"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unitycoder/walker-tank-experiment"
	"github.com/unitycoder/walker-tank-experiment/components/legs/motion"
	"github.com/unitycoder/walker-tank-experiment/config"
	"github.com/unitycoder/walker-tank-experiment/ik"
	"github.com/unitycoder/walker-tank-experiment/math3d"
	"github.com/unitycoder/walker-tank-experiment/rig"
	"github.com/unitycoder/walker-tank-experiment/scene"
)

const frame = time.Second / 60

func fixture(t *testing.T, drop ...string) (*Legs, *scene.Memory, *walker.Walker) {
	t.Helper()

	rs := scene.DefaultRig()
	rs.Objects = lo.Reject(rs.Objects, func(o scene.ObjectSpec, _ int) bool {
		return lo.Contains(drop, o.Name)
	})

	return rigFixture(t, rs)
}

func rigFixture(t *testing.T, rs scene.RigSpec) (*Legs, *scene.Memory, *walker.Walker) {
	t.Helper()

	m, err := scene.NewMemory(rs)
	require.NoError(t, err)

	w := walker.New()
	l := New(w, m, config.Default())
	w.Add(l)
	require.NoError(t, w.Boot())

	return l, m, w
}

// runUntil steps the walker until the legs reach the given state, and returns
// the number of frames it took.
func runUntil(t *testing.T, w *walker.Walker, l *Legs, s State, limit int) int {
	t.Helper()

	for i := 1; i <= limit; i++ {
		require.NoError(t, w.Step(frame))
		if l.State() == s {
			return i
		}
	}

	require.Failf(t, "state not reached", "wanted %v, still in %v after %d frames", s, l.State(), limit)
	return 0
}

func TestStateSequence(t *testing.T) {
	l, _, w := fixture(t)
	assert.Equal(t, sBind, l.State())

	order := []State{sBind, sSettle, sCrouch, sSpinUp, sSteadyGait}
	seen := []State{l.State()}

	for i := 0; i < 60*10; i++ {
		require.NoError(t, w.Step(frame))
		if s := l.State(); s != seen[len(seen)-1] {
			seen = append(seen, s)
		}
	}

	// Every state is visited once, in order, and the gait never ends.
	assert.Equal(t, order, seen)
}

func TestBindStance(t *testing.T) {
	l, m, w := fixture(t)
	require.NoError(t, w.Step(frame))

	assert.Equal(t, sSettle, l.State())
	require.NotNil(t, l.Bindings())
	assert.Empty(t, l.Bindings().Missing())

	// The default rig stands on tips 7.5 to the side and 3 forwards or
	// backwards of the body, which is 8 above them.
	st := l.Composer().Get(motion.KindStance).Offset
	assert.InDelta(t, 7.5, st.Legs[rig.RF].X, 1e-9)
	assert.InDelta(t, -7.5, st.Legs[rig.LB].X, 1e-9)
	assert.InDelta(t, 3, st.Legs[rig.LF].Z, 1e-9)
	assert.InDelta(t, -3, st.Legs[rig.RB].Z, 1e-9)
	assert.InDelta(t, -8, st.Legs[rig.LF].Y, 1e-9)

	// The targets start where the feet are.
	tip := m.Lookup("TipLB").Frame().Position
	assert.InDelta(t, 0, tip.Distance(l.Targets()[rig.LB]), 1e-9)
}

func TestCrouch(t *testing.T) {
	l, m, w := fixture(t)
	cfg := config.Default()

	n := runUntil(t, w, l, sSpinUp, 60*5)

	// Binding, settling and crouching all took their time.
	elapsed := time.Duration(n) * frame
	assert.GreaterOrEqual(t, elapsed.Seconds(), cfg.Choreography.SettleDelaySec+cfg.Choreography.CrouchDurationSec)

	h := l.Composer().Get(motion.KindHeight).Offset
	for _, id := range rig.AllLegs {
		assert.InDelta(t, cfg.Choreography.CrouchHeight, h.Legs[id].Y, 1e-9)

		// The body is 8 above the ground, so the crouched feet are 5 below it.
		target := l.Targets()[id]
		assert.InDelta(t, -5, target.Y, 1e-9)

		// And the feet got there.
		tip := m.Lookup("Tip" + id.String()).Frame().Position
		assert.InDelta(t, 0, tip.Distance(target), 0.01, "leg %v", id)
		assert.True(t, l.Results()[id].Reached, "leg %v", id)
	}
}

func TestCommandsReachScene(t *testing.T) {
	l, m, w := fixture(t)
	runUntil(t, w, l, sSpinUp, 60*5)

	for _, id := range rig.AllLegs {
		cmd := l.Commands()[id]
		sfx := id.String()

		assert.Equal(t, cmd.Yaw, m.Lookup("Hip"+sfx).Target())
		assert.Equal(t, cmd.Upper, m.Lookup("UpperLeg"+sfx).Target())
		assert.Equal(t, cmd.Lower, m.Lookup("LowerLeg"+sfx).Target())

		// Crouching bends the knees, without turning the hips.
		assert.InDelta(t, 0, cmd.Yaw, 1e-3)
		assert.NotZero(t, cmd.Upper)
	}
}

func TestMissingHip(t *testing.T) {

	// Hang the front right upper leg straight from the body, so that only its
	// hip is missing.
	rs := scene.DefaultRig()
	rs.Objects = lo.FilterMap(rs.Objects, func(o scene.ObjectSpec, _ int) (scene.ObjectSpec, bool) {
		if o.Name == "UpperLegRF" {
			o.Parent = "Body"
			o.Frame.Position = [3]float64{3.5, 0, 3}
		}

		return o, o.Name != "HipRF"
	})

	l, m, w := rigFixture(t, rs)

	assert.NotPanics(t, func() {
		runUntil(t, w, l, sSteadyGait, 60*10)
	})

	assert.Equal(t, []string{"hiprf"}, l.Bindings().Missing())

	// The leg is never solved, so its remaining joints are never moved.
	assert.Equal(t, rig.JointCommand{}, l.Commands()[rig.RF])
	assert.Equal(t, ik.Result{}, l.Results()[rig.RF])
	assert.Equal(t, 0.0, m.Lookup("UpperLegRF").Target())
	assert.Equal(t, 0.0, m.Lookup("LowerLegRF").Target())

	// But the others are.
	assert.NotEqual(t, rig.JointCommand{}, l.Commands()[rig.LF])
	assert.True(t, l.Results()[rig.LF].Reached)
}

func TestMissingLeg(t *testing.T) {
	l, m, w := fixture(t, "HipRF", "UpperLegRF", "LowerLegRF", "TipRF")

	assert.NotPanics(t, func() {
		runUntil(t, w, l, sSteadyGait, 60*10)
	})

	assert.Equal(t, rig.JointCommand{}, l.Commands()[rig.RF])
	assert.NotEqual(t, rig.JointCommand{}, l.Commands()[rig.LF])
	assert.Nil(t, m.Lookup("HipRF"))

	// The stance comes from the three remaining feet.
	st := l.Composer().Get(motion.KindStance).Offset
	assert.InDelta(t, 7.5, st.Legs[rig.RF].X, 1e-9)
}

func TestMissingBody(t *testing.T) {
	rs := scene.DefaultRig()
	for i, o := range rs.Objects {
		if o.Name == "Body" {
			rs.Objects[i].Name = "Hull"
		}

		if o.Parent == "Body" {
			rs.Objects[i].Parent = "Hull"
		}
	}

	m, err := scene.NewMemory(rs)
	require.NoError(t, err)

	w := walker.New()
	l := New(w, m, config.Default())
	w.Add(l)

	for i := 0; i < 60; i++ {
		assert.NoError(t, w.Step(frame))
	}

	// Without a body there's no reference frame to solve in, so nothing moves.
	assert.Equal(t, sSettle, l.State())
	assert.False(t, l.Bindings().Body.Present())
	for _, id := range rig.AllLegs {
		assert.Equal(t, rig.JointCommand{}, l.Commands()[id])
	}
}

func TestDisabledTarget(t *testing.T) {
	l, m, w := fixture(t)
	require.NoError(t, w.Step(frame))
	l.SetTargetEnabled(rig.LF, false)
	assert.False(t, l.TargetEnabled(rig.LF))

	runUntil(t, w, l, sSpinUp, 60*5)

	assert.Equal(t, rig.JointCommand{}, l.Commands()[rig.LF])
	assert.Equal(t, 0.0, m.Lookup("UpperLegLF").Target())
	assert.NotEqual(t, rig.JointCommand{}, l.Commands()[rig.RF])
}

func TestTurretActuated(t *testing.T) {
	l, m, w := fixture(t)
	w.Aim(30, -5)

	require.NoError(t, w.Step(frame))
	assert.Equal(t, sSettle, l.State())
	assert.Equal(t, 30.0, m.Lookup("Turret").Target())
	assert.Equal(t, -5.0, m.Lookup("Barrels").Target())
}

func TestSteadyGait(t *testing.T) {
	l, m, w := fixture(t)
	cfg := config.Default()

	last := [rig.NumLegs]float64{}
	prev := l.Targets()
	prevCmd := l.Commands()

	for i := 0; i < 60*20; i++ {
		require.NoError(t, w.Step(frame))
		targets := l.Targets()
		cmds := l.Commands()

		for _, id := range rig.AllLegs {

			// Feet never jump between frames, and neither do the joints.
			if i > 0 {
				assert.Less(t, targets[id].Distance(prev[id]), 0.3, "frame %d leg %v", i, id)
				assert.Less(t, turn(prevCmd[id].Yaw, cmds[id].Yaw), 5.0, "frame %d leg %v", i, id)
				assert.Less(t, turn(prevCmd[id].Upper, cmds[id].Upper), 5.0, "frame %d leg %v", i, id)
				assert.Less(t, turn(prevCmd[id].Lower, cmds[id].Lower), 5.0, "frame %d leg %v", i, id)
			}

			// Every foot gets where it's going.
			res := l.Results()[id]
			assert.True(t, res.Reached, "frame %d leg %v: dist=%0.4f", i, id, res.Distance)
			tip := m.Lookup("Tip" + id.String()).Frame().Position
			assert.InDelta(t, 0, tip.Distance(targets[id]), 0.01, "frame %d leg %v", i, id)

			// The knees always bend the same way. The left legs are mirrored,
			// so their angles are too.
			side := 1.0
			if id.Left() {
				side = -1
			}

			assert.LessOrEqual(t, side*cmds[id].Upper, 0.0, "frame %d leg %v", i, id)
			assert.GreaterOrEqual(t, side*cmds[id].Lower, 0.0, "frame %d leg %v", i, id)
		}

		prev = targets
		prevCmd = cmds

		if l.State() != sSteadyGait {
			continue
		}

		// Only the leg which owns the current sector is raised.
		raise := l.Composer().Get(motion.KindRaise).Offset
		for sec, id := range sectorLeg {
			assert.InDelta(t, l.Clock().Raise[sec]*cfg.Choreography.StepHeight, raise.Legs[id].Y, 1e-9)
			last[id] = max(last[id], raise.Legs[id].Y)
		}
	}

	assert.Equal(t, sSteadyGait, l.State())

	// And every leg got its turn.
	for _, id := range rig.AllLegs {
		assert.Greater(t, last[id], 2.9, "leg %v", id)
	}
}

// The same target always gives the same command, whatever was solved before.
func TestSolveIsStateless(t *testing.T) {
	l, _, w := fixture(t)
	runUntil(t, w, l, sSteadyGait, 60*10)

	target := l.Targets()[rig.LB]
	lg := l.legs[rig.LB]
	body := l.Bindings().Body.Frame()

	lg.solve(body, l.opts)
	exp := lg.cmd

	lg.target = target.Add(math3d.MakeVector3(-2, 3, 4))
	lg.solve(body, l.opts)
	require.NotEqual(t, exp, lg.cmd)

	lg.target = target
	lg.solve(body, l.opts)
	assert.Equal(t, exp, lg.cmd)
}

// turn returns the absolute difference between two angles, in degrees, the
// short way around.
func turn(a, b float64) float64 {
	return math.Abs(math.Mod(b-a+540, 360) - 180)
}

func TestSectorLegs(t *testing.T) {
	assert.Equal(t, [rig.NumLegs]rig.LegID{rig.RF, rig.LF, rig.LB, rig.RB}, sectorLeg)
	assert.ElementsMatch(t, rig.AllLegs[:], sectorLeg[:])
}
