package math3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

func Deg(rads float64) float64 {
	return mgl64.RadToDeg(rads)
}

func Rad(degrees float64) float64 {
	return mgl64.DegToRad(degrees)
}

func Clamp01(t float64) float64 {
	return mgl64.Clamp(t, 0, 1)
}

// Lerp interpolates between a and b by the (clamped) factor t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*Clamp01(t)
}

// Repeat wraps t into [0, length). Unlike math.Mod, negative inputs wrap
// around to the top of the range.
func Repeat(t, length float64) float64 {
	r := t - math.Floor(t/length)*length
	if r >= length || r < 0 {
		return 0
	}

	return r
}
