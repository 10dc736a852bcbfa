// Package ik solves chains of single-axis revolute joints for a target
// position using cyclic coordinate descent, polished by damped least squares.
package ik

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"
	"github.com/unitycoder/walker-tank-experiment/math3d"
)

const (

	// Vectors shorter than this (from a pivot to the tip or target) give no
	// usable direction, so the joint is skipped for that pass.
	minLever = 1e-9

	// An iteration which improves the distance by less than this fraction
	// means the solver has settled, usually against an unreachable target.
	minProgress = 1e-9

	// Damping of the least squares step. Keeps the step bounded when the chain
	// is stretched straight, where the Jacobian loses rank.
	damping = 0.1
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "ik",
})

type Options struct {
	Iterations int
	Tolerance  float64

	// When false, jointed nodes may rotate freely rather than only about
	// their axis. Nodes without an axis never rotate either way.
	Constrained bool
}

var DefaultOptions = Options{
	Iterations:  64,
	Tolerance:   1e-3,
	Constrained: true,
}

type Result struct {
	Iterations int
	Distance   float64
	Tip        math3d.Vector3
	Reached    bool
}

// Solve rotates the nodes of the chain so that its tip approaches the target,
// which is given in the chain's space. Unreachable targets are not an error:
// the chain ends up as close as it can get.
//
// Each iteration sweeps the joints from the tip to the root, then (when
// constrained) moves them all at once along the damped least squares step.
// The sweep finds the right bend from the rest pose; the step converges
// quickly once it is close.
func Solve(c Chain, target math3d.Vector3, opts Options) Result {
	res := Result{}
	if len(c) < 2 {
		return res
	}

	dist := c.Tip().Distance(target)

	for res.Iterations < opts.Iterations && dist > opts.Tolerance {
		res.Iterations++

		for i := len(c) - 2; i >= 0; i-- {
			if c[i].Axis == nil {
				continue
			}

			if opts.Constrained {
				rotateAboutAxis(c, i, target)
			} else {
				rotateFreely(c, i, target)
			}
		}

		if opts.Constrained {
			dampedStep(c, target)
		}

		prev := dist
		dist = c.Tip().Distance(target)
		if prev-dist < minProgress*math.Max(1, prev) {
			break
		}
	}

	res.Tip = c.Tip()
	res.Distance = res.Tip.Distance(target)
	res.Reached = res.Distance <= opts.Tolerance

	log.Debugf("solved in %d iterations, dist=%0.4f", res.Iterations, res.Distance)
	return res
}

// rotateAboutAxis turns node i about its own axis to swing the tip as close to
// the target as it can get.
func rotateAboutAxis(c Chain, i int, target math3d.Vector3) {
	frames := c.Forward()
	n := c[i]

	pivot := frames[i].Position
	axis := frames[i].TransformDirection(*n.Axis).Unit()

	toTip := frames[len(frames)-1].Position.Subtract(pivot).ProjectOnPlane(axis)
	toTarget := target.Subtract(pivot).ProjectOnPlane(axis)

	if toTip.Magnitude() < minLever || toTarget.Magnitude() < minLever {
		return
	}

	angle := math.Atan2(toTip.Cross(toTarget).Dot(axis), toTip.Dot(toTarget))
	n.Rotation = n.Rotation.Mul(mgl64.QuatRotate(angle, vec(*n.Axis))).Normalize()
}

// rotateFreely turns node i by the shortest arc which points the tip at the
// target.
func rotateFreely(c Chain, i int, target math3d.Vector3) {
	frames := c.Forward()
	n := c[i]

	pivot := frames[i].Position
	toTip := frames[len(frames)-1].Position.Subtract(pivot)
	toTarget := target.Subtract(pivot)

	if toTip.Magnitude() < minLever || toTarget.Magnitude() < minLever {
		return
	}

	world := mgl64.QuatBetweenVectors(vec(toTip.Unit()), vec(toTarget.Unit()))
	r := frames[i].Rotation
	local := r.Conjugate().Mul(world).Mul(r)
	n.Rotation = n.Rotation.Mul(local).Normalize()
}

// dampedStep turns every jointed node about its axis at once, by the damped
// least squares solution for the tip's error. The step is undone if it moves
// the tip further away.
func dampedStep(c Chain, target math3d.Vector3) {
	frames := c.Forward()
	tip := frames[len(frames)-1].Position
	before := tip.Distance(target)

	type column struct {
		n *Node
		j mgl64.Vec3
	}

	cols := []column{}
	jjt := mgl64.Ident3().Mul(damping * damping)

	for i, n := range c[:len(c)-1] {
		if n.Axis == nil {
			continue
		}

		axis := frames[i].TransformDirection(*n.Axis).Unit()
		j := vec(axis.Cross(tip.Subtract(frames[i].Position)))
		cols = append(cols, column{n, j})
		jjt = jjt.Add(j.OuterProd3(j))
	}

	if len(cols) == 0 {
		return
	}

	y := jjt.Inv().Mul3x1(vec(target.Subtract(tip)))

	saved := make([]mgl64.Quat, len(cols))
	for k, col := range cols {
		saved[k] = col.n.Rotation
		col.n.Rotation = col.n.Rotation.Mul(mgl64.QuatRotate(col.j.Dot(y), vec(*col.n.Axis))).Normalize()
	}

	if c.Tip().Distance(target) > before {
		for k, col := range cols {
			col.n.Rotation = saved[k]
		}
	}
}

func vec(v math3d.Vector3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}
