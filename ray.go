package main

// ray is a directed energy-carrying path leg. Values are immutable once
// constructed by the generator; the scheduler discards rays whose energy drops
// to zero or below.
//
// angleFromSonar records the departure angle at the sonar in degrees and is
// carried unchanged through reflections and re-emissions so the original
// heading stays recoverable anywhere in the cascade.
type ray struct {
	angleFromSonar   float64
	vector           unitVector
	energy           float64
	traveledDistance float64
	bounces          int
}

// heading returns the ray's current direction in degrees, [0, 360).
func (r ray) heading() float64 {
	return toDegrees(r.vector.angle)
}
