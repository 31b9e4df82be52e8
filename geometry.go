package main

import (
	"math"
	"math/rand"
)

const geomEpsilon = 1e-9

// point is a position on the simulation plane, in pixels.
type point struct {
	x, y float64
}

// distanceTo returns the Euclidean distance to another point.
func (p point) distanceTo(o point) float64 {
	return math.Hypot(o.x-p.x, o.y-p.y)
}

// angleTo returns the bearing from p toward o in radians, wrapped to [0, 2π).
func (p point) angleTo(o point) float64 {
	angle := math.Atan2(o.y-p.y, o.x-p.x)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle
}

// unitVector is a direction anchored at an origin point. The angle is in
// radians, normalized to [0, 2π).
type unitVector struct {
	origin point
	angle  float64
}

func newUnitVector(origin point, angle float64) unitVector {
	return unitVector{origin: origin, angle: normalizeRadians(angle)}
}

// pointAt returns the point reached by traveling dist pixels along the vector.
func (v unitVector) pointAt(dist float64) point {
	return point{
		x: v.origin.x + math.Cos(v.angle)*dist,
		y: v.origin.y + math.Sin(v.angle)*dist,
	}
}

// angleRange is an arc between two angles in radians. When max < min the arc
// wraps past 0/2π.
type angleRange struct {
	min, max float64
}

// sample draws one uniformly distributed angle from the arc using the provided
// random source. The result is normalized to [0, 2π).
func (r angleRange) sample(rng *rand.Rand) float64 {
	span := r.max - r.min
	if span < 0 {
		span += 2 * math.Pi
	}
	return normalizeRadians(r.min + rng.Float64()*span)
}

// width returns the angular extent of the arc in radians.
func (r angleRange) width() float64 {
	span := r.max - r.min
	if span < 0 {
		span += 2 * math.Pi
	}
	return span
}

// wallSegment is a reflecting obstacle between two endpoints. absorption is the
// fraction of incident energy the surface swallows on each bounce.
type wallSegment struct {
	p1, p2     point
	absorption float64
}

// intersection returns the point where the vector's forward ray crosses the
// segment. ok is false when the ray is parallel to the segment, points away
// from it, or misses it entirely.
func (s wallSegment) intersection(v unitVector) (point, bool) {
	dx := math.Cos(v.angle)
	dy := math.Sin(v.angle)
	ex := s.p2.x - s.p1.x
	ey := s.p2.y - s.p1.y
	den := dx*ey - dy*ex
	if math.Abs(den) < geomEpsilon {
		return point{}, false
	}
	ox := s.p1.x - v.origin.x
	oy := s.p1.y - v.origin.y
	t := (ox*ey - oy*ex) / den
	u := (ox*dy - oy*dx) / den
	if t <= geomEpsilon || u < 0 || u > 1 {
		return point{}, false
	}
	return point{x: v.origin.x + dx*t, y: v.origin.y + dy*t}, true
}

// reflectedVector mirrors the incoming direction across the segment's line,
// anchored at the reflection point. Mirroring across a line at angle φ maps a
// direction θ to 2φ-θ.
func (s wallSegment) reflectedVector(at point, incoming unitVector) unitVector {
	lineAngle := math.Atan2(s.p2.y-s.p1.y, s.p2.x-s.p1.x)
	return newUnitVector(at, 2*lineAngle-incoming.angle)
}

// energyWithAbsorptionLoss returns the energy remaining after the surface
// absorbs its share.
func (s wallSegment) energyWithAbsorptionLoss(energy float64) float64 {
	return energy * (1 - s.absorption)
}
