package main

import "math/rand"

// rayPath is one resolved leg of a cascade. startDist and endDist are measured
// in cumulative traveled distance from the sonar, so the expanding front can
// reveal the leg progressively.
type rayPath struct {
	source    ray
	end       point
	startDist float64
	endDist   float64
	hitWall   bool
	returning bool
}

// cascade is the finite ray tree produced by one ping, flattened into path
// legs. maxDist bounds the front animation; echoes drive the audio schedule.
type cascade struct {
	origin  point
	paths   []rayPath
	echoes  []echo
	maxDist float64
}

// echo is a returning ray's arrival back at the listening side: a delay in
// traveled pixels and the distance-attenuated energy left on arrival.
type echo struct {
	distance float64
	energy   float64
}

// queuedRay pairs a ray with its scatter eligibility. Secondary scatter rays
// reset their bounce count, so without the flag they would re-scatter on every
// bounce and the tree could keep branching long past the bounce cap.
type queuedRay struct {
	r          ray
	canScatter bool
}

// rayScheduler drives the generator: it owns the propagation policy (bounce
// cap, max range, scatter behavior) that the pure generator deliberately does
// not decide.
type rayScheduler struct {
	gen        *rayGenerator
	walls      []wallSegment
	maxBounces int
	maxRange   float64
	scatter    bool
}

func newRayScheduler(gen *rayGenerator, walls []wallSegment, scatter bool) *rayScheduler {
	return &rayScheduler{
		gen:        gen,
		walls:      walls,
		maxBounces: maxBounces,
		maxRange:   maxRayRange,
		scatter:    scatter,
	}
}

// ping resolves the full cascade for one sonar emission: primaries across the
// field-of-view arc, spotlight fans, then breadth-first reflection until every
// branch terminates on energy depletion, the bounce cap, or open water.
func (s *rayScheduler) ping(origin point, headingRad, fovDeg float64, rng *rand.Rand) *cascade {
	half := toRadians(fovDeg) / 2
	fov := angleRange{
		min: normalizeRadians(headingRad - half),
		max: normalizeRadians(headingRad + half),
	}

	primaries := s.gen.initialRays(origin, fov, rng)
	queue := make([]queuedRay, 0, len(primaries)*(1+s.gen.tuning.spotlightRayCount))
	for _, primary := range primaries {
		queue = append(queue, queuedRay{r: primary, canScatter: true})
		for _, spot := range s.gen.spotlightRays(primary, rng) {
			queue = append(queue, queuedRay{r: spot, canScatter: true})
		}
	}

	c := &cascade{origin: origin}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		queue = s.propagate(c, next, false, queue, rng)
	}
	return c
}

// reach returns how many more pixels the ray can travel before distance loss
// depletes it, capped at the scheduler's max range.
func (s *rayScheduler) reach(r ray) float64 {
	remaining := r.energy/s.gen.tuning.distanceLossRate - r.traveledDistance
	if remaining > s.maxRange {
		remaining = s.maxRange
	}
	return remaining
}

// nearestWall returns the closest segment the ray's forward direction strikes
// within limit pixels.
func (s *rayScheduler) nearestWall(v unitVector, limit float64) (wallSegment, float64, bool) {
	var best wallSegment
	bestDist := limit
	found := false
	for _, seg := range s.walls {
		at, ok := seg.intersection(v)
		if !ok {
			continue
		}
		d := at.distanceTo(v.origin)
		if d < bestDist {
			best = seg
			bestDist = d
			found = true
		}
	}
	return best, bestDist, found
}

// propagate records the ray's path leg and, on a wall strike, feeds the next
// generation back into the queue. Returning rays travel but never branch
// again; their arrival becomes an audible echo.
func (s *rayScheduler) propagate(c *cascade, q queuedRay, returning bool, queue []queuedRay, rng *rand.Rand) []queuedRay {
	r := q.r
	if r.energy <= 0 {
		return queue
	}
	remaining := s.reach(r)
	if remaining <= 0 {
		return queue
	}

	seg, hitDist, hit := s.nearestWall(r.vector, remaining)
	legLen := remaining
	if hit {
		legLen = hitDist
	}
	path := rayPath{
		source:    r,
		end:       r.vector.pointAt(legLen),
		startDist: r.traveledDistance,
		endDist:   r.traveledDistance + legLen,
		hitWall:   hit,
		returning: returning,
	}
	c.paths = append(c.paths, path)
	if path.endDist > c.maxDist {
		c.maxDist = path.endDist
	}

	if returning {
		// The echo is heard once the front has covered the full out-and-back
		// path; its loudness is the arrival energy after distance loss. A wall
		// on the way back swallows the echo, though the leg still renders up
		// to the strike point.
		if !hit {
			arrival := s.gen.energyWithDistanceLoss(r.energy, path.endDist)
			if arrival > 0 {
				c.echoes = append(c.echoes, echo{distance: path.endDist, energy: arrival})
			}
		}
		return queue
	}
	if !hit || r.bounces >= s.maxBounces {
		return queue
	}

	reflected := s.gen.reflect(r, seg)
	ret := s.gen.returningRay(reflected, r)
	queue = s.propagate(c, queuedRay{r: ret}, true, queue, rng)
	if reflected.energy > 0 {
		queue = append(queue, queuedRay{r: reflected, canScatter: q.canScatter})
		if s.scatter && q.canScatter {
			arc := arcAround(reflected.vector.angle, scatterArcDegrees)
			for _, sec := range s.gen.secondaryRays(reflected, arc, rng) {
				queue = append(queue, queuedRay{r: sec})
			}
		}
	}
	return queue
}

// arcAround builds an arc of the given total width in degrees centered on a
// heading in radians.
func arcAround(headingRad, widthDeg float64) angleRange {
	half := toRadians(widthDeg) / 2
	return angleRange{
		min: normalizeRadians(headingRad - half),
		max: normalizeRadians(headingRad + half),
	}
}
