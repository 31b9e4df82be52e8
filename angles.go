package main

import "math"

// degreesDifference returns the minimal angular separation between two angles
// given in degrees, both assumed normalized to [0, 360). When one angle lies in
// the first quadrant and the other in the fourth the short arc crosses the
// 0/360 boundary, so both angles are folded toward zero before summing; a plain
// subtraction would report the long arc instead. The result is in [0, 180].
func degreesDifference(a, b float64) float64 {
	betweenFirstAndFourth := (a < 90 && b > 270) || (b < 90 && a > 270)
	if betweenFirstAndFourth {
		if a > 270 {
			a = 360 - a
		}
		if b > 270 {
			b = 360 - b
		}
		return a + b
	}
	diff := math.Abs(a - b)
	if diff > 180 {
		diff = 360 - diff
	}
	return diff
}

// normalizeDegrees wraps an angle into [0, 360).
func normalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// normalizeRadians wraps an angle into [0, 2π).
func normalizeRadians(r float64) float64 {
	r = math.Mod(r, 2*math.Pi)
	if r < 0 {
		r += 2 * math.Pi
	}
	return r
}

func toDegrees(rad float64) float64 { return rad * 180 / math.Pi }

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }
