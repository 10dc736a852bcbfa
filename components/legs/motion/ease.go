package motion

import (
	"github.com/unitycoder/walker-tank-experiment/math3d"
)

// Ease moves a value linearly from From to To over Duration seconds, calling
// OnStep with the new value every step. The final step always delivers To
// exactly.
type Ease struct {
	From     float64
	To       float64
	Duration float64
	OnStep   func(v float64)

	elapsed float64
	done    bool
}

func NewEase(from, to, duration float64, onStep func(float64)) *Ease {
	return &Ease{
		From:     from,
		To:       to,
		Duration: duration,
		OnStep:   onStep,
	}
}

// Step advances the ease by dt seconds, and returns true once it has finished.
func (e *Ease) Step(dt float64) bool {
	if e.done {
		return true
	}

	e.elapsed += dt

	v := e.To
	if e.Duration > 0 && e.elapsed < e.Duration {
		v = math3d.Lerp(e.From, e.To, e.elapsed/e.Duration)
	} else {
		e.done = true
	}

	if e.OnStep != nil {
		e.OnStep(v)
	}

	return e.done
}

func (e *Ease) Done() bool {
	return e.done
}
