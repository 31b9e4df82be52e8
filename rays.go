package main

import "math/rand"

// sonarTuning carries the generator constants. Instances are immutable; two
// generators with different tuning can coexist.
type sonarTuning struct {
	// secondaryRayCount is the number of rays created per sonar ping or
	// re-emission event.
	secondaryRayCount int
	// spotlightRayCount is the number of companion rays fanned around a
	// primary ray.
	spotlightRayCount int
	// spotlightEnergyFactor is the share of the source ray's energy passed to
	// each spotlight candidate before angle loss.
	spotlightEnergyFactor float64
	// spotlightDegreesRange is the half-width of the spotlight fan in degrees.
	spotlightDegreesRange float64
	// angleLossRate is the energy lost per degree of deviation from a
	// reference heading.
	angleLossRate float64
	// distanceLossRate is the energy lost per pixel traveled, applied when a
	// ray's arrival energy is evaluated.
	distanceLossRate float64
	// initialEnergy is the energy assigned to primary rays.
	initialEnergy float64
}

func defaultSonarTuning() sonarTuning {
	return sonarTuning{
		secondaryRayCount:     defaultSecondaryRayCount,
		spotlightRayCount:     defaultSpotlightRayCount,
		spotlightEnergyFactor: defaultSpotlightEnergyFactor,
		spotlightDegreesRange: defaultSpotlightDegreesRange,
		angleLossRate:         defaultAngleLossRate,
		distanceLossRate:      defaultDistanceLossRate,
		initialEnergy:         defaultRayEnergy,
	}
}

// rayGenerator constructs the rays of a sonar cascade and applies the layered
// energy model: angular deviation loss, surface absorption loss, and distance
// loss. All methods are pure; randomness comes from the *rand.Rand handed to
// each call, so concurrent cascades can use independent sources.
type rayGenerator struct {
	tuning sonarTuning
}

func newRayGenerator(tuning sonarTuning) *rayGenerator {
	return &rayGenerator{tuning: tuning}
}

// energyWithAngleLoss attenuates sourceEnergy by the angular separation between
// the two headings, given in degrees. The result may be negative; culling is
// the caller's responsibility.
func (g *rayGenerator) energyWithAngleLoss(sourceEnergy, sourceDegrees, rayDegrees float64) float64 {
	return sourceEnergy - degreesDifference(sourceDegrees, rayDegrees)*g.tuning.angleLossRate
}

// energyWithDistanceLoss attenuates sourceEnergy linearly by the distance
// traveled in pixels.
func (g *rayGenerator) energyWithDistanceLoss(sourceEnergy, traveledDistance float64) float64 {
	return sourceEnergy - traveledDistance*g.tuning.distanceLossRate
}

// initialRays seeds the primary rays of a ping from the sonar origin. Each ray
// samples its own angle from the field-of-view arc and starts at full energy
// with zero distance and zero bounces. Primary rays are never culled.
func (g *rayGenerator) initialRays(origin point, fov angleRange, rng *rand.Rand) []ray {
	rays := make([]ray, 0, g.tuning.secondaryRayCount)
	for i := 0; i < g.tuning.secondaryRayCount; i++ {
		angle := fov.sample(rng)
		rays = append(rays, ray{
			angleFromSonar: toDegrees(angle),
			vector:         newUnitVector(origin, angle),
			energy:         g.tuning.initialEnergy,
		})
	}
	return rays
}

// fanRays is the shared spawn step used by the spotlight and secondary
// generators: sample an angle from the arc, attenuate baseEnergy by the
// deviation from the source ray's heading, and keep the candidate only while
// its energy stays positive.
func (g *rayGenerator) fanRays(source ray, arc angleRange, count int, baseEnergy float64, bounces int, rng *rand.Rand) []ray {
	heading := source.heading()
	origin := source.vector.origin
	rays := make([]ray, 0, count)
	for i := 0; i < count; i++ {
		angle := arc.sample(rng)
		energy := g.energyWithAngleLoss(baseEnergy, heading, toDegrees(angle))
		if energy <= 0 {
			continue
		}
		rays = append(rays, ray{
			angleFromSonar:   source.angleFromSonar,
			vector:           newUnitVector(origin, angle),
			energy:           energy,
			traveledDistance: source.traveledDistance,
			bounces:          bounces,
		})
	}
	return rays
}

// spotlightRays fans low-energy companion rays around the primary ray's
// heading, simulating beam spread. Spotlight rays are siblings of the primary:
// they inherit its sonar angle, traveled distance, and bounce count.
func (g *rayGenerator) spotlightRays(primary ray, rng *rand.Rand) []ray {
	minDeg := primary.heading() - g.tuning.spotlightDegreesRange
	maxDeg := primary.heading() + g.tuning.spotlightDegreesRange
	if minDeg < 0 {
		minDeg += 360
	}
	if maxDeg > 360 {
		maxDeg -= 360
	}
	arc := angleRange{min: toRadians(minDeg), max: toRadians(maxDeg)}
	baseEnergy := primary.energy * g.tuning.spotlightEnergyFactor
	return g.fanRays(primary, arc, g.tuning.spotlightRayCount, baseEnergy, primary.bounces, rng)
}

// secondaryRays re-emits rays from the source ray's position into a caller
// supplied arc. Unlike spotlight rays the bounce count resets to zero: a
// secondary emission is a fresh event, not a continuation. Traveled distance is
// inherited unchanged.
func (g *rayGenerator) secondaryRays(source ray, arc angleRange, rng *rand.Rand) []ray {
	return g.fanRays(source, arc, g.tuning.secondaryRayCount, source.energy, 0, rng)
}

// reflect returns the ray continuing after source strikes the segment. The
// caller guarantees the segment actually intersects the ray. Reflection always
// produces a ray, possibly with non-positive energy; culling stays with the
// caller.
//
// Energy loss on a bounce is measured against the bearing from the reflection
// point back to the incoming ray's origin rather than the sonar-relative
// heading.
func (g *rayGenerator) reflect(source ray, segment wallSegment) ray {
	at, _ := segment.intersection(source.vector)
	reflected := segment.reflectedVector(at, source.vector)
	traveled := source.traveledDistance + at.distanceTo(source.vector.origin)

	backDegrees := toDegrees(at.angleTo(source.vector.origin))
	energy := segment.energyWithAbsorptionLoss(source.energy)
	energy = g.energyWithAngleLoss(energy, backDegrees, toDegrees(reflected.angle))

	return ray{
		angleFromSonar:   source.angleFromSonar,
		vector:           reflected,
		energy:           energy,
		traveledDistance: traveled,
		bounces:          source.bounces + 1,
	}
}

// returningRay builds the echo ray that heads from the reflection point back
// toward the source ray's origin. It shares the reflected ray's position in the
// distance/bounce timeline but keeps the sonar identity of the pre-bounce
// source.
func (g *rayGenerator) returningRay(reflected, source ray) ray {
	angle := reflected.vector.origin.angleTo(source.vector.origin)
	energy := g.energyWithAngleLoss(reflected.energy, toDegrees(angle), toDegrees(reflected.vector.angle))
	return ray{
		angleFromSonar:   source.angleFromSonar,
		vector:           newUnitVector(reflected.vector.origin, angle),
		energy:           energy,
		traveledDistance: reflected.traveledDistance,
		bounces:          reflected.bounces,
	}
}
