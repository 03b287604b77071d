package common

import "math"

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func Dist(ax, ay, bx, by float64) float64 {
	return math.Hypot(ax-bx, ay-by)
}
