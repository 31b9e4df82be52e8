package main

import (
	"math"
	"math/rand"
	"testing"
)

func testGenerator() *rayGenerator {
	return newRayGenerator(defaultSonarTuning())
}

func TestEnergyWithAngleLossZeroDeviation(t *testing.T) {
	g := testGenerator()
	rng := rand.New(rand.NewSource(6))
	for i := 0; i < 100; i++ {
		deg := rng.Float64() * 360
		if got := g.energyWithAngleLoss(80, deg, deg); got != 80 {
			t.Fatalf("zero deviation at %.6f changed energy: %.12f", deg, got)
		}
	}
}

func TestEnergyWithAngleLossMonotonic(t *testing.T) {
	g := testGenerator()
	prev := g.energyWithAngleLoss(100, 0, 0)
	for deg := 10.0; deg <= 180; deg += 10 {
		e := g.energyWithAngleLoss(100, 0, deg)
		if e >= prev {
			t.Fatalf("energy not decreasing at deviation %.0f: %.6f >= %.6f", deg, e, prev)
		}
		prev = e
	}
}

func TestEnergyWithDistanceLoss(t *testing.T) {
	g := testGenerator()
	if got := g.energyWithDistanceLoss(100, 0); got != 100 {
		t.Fatalf("zero distance changed energy: %.12f", got)
	}
	prev := 100.0
	for d := 50.0; d <= 500; d += 50 {
		e := g.energyWithDistanceLoss(100, d)
		if e >= prev {
			t.Fatalf("energy not decreasing at distance %.0f: %.6f >= %.6f", d, e, prev)
		}
		prev = e
	}
}

func TestInitialRays(t *testing.T) {
	g := testGenerator()
	rng := rand.New(rand.NewSource(7))
	fov := angleRange{min: 0, max: math.Pi / 2}
	rays := g.initialRays(point{x: 0, y: 0}, fov, rng)
	if len(rays) != g.tuning.secondaryRayCount {
		t.Fatalf("got %d primary rays, want %d", len(rays), g.tuning.secondaryRayCount)
	}
	for _, r := range rays {
		if r.bounces != 0 {
			t.Fatalf("primary ray has %d bounces", r.bounces)
		}
		if r.traveledDistance != 0 {
			t.Fatalf("primary ray has traveled %.6f", r.traveledDistance)
		}
		if r.energy != g.tuning.initialEnergy {
			t.Fatalf("primary ray energy = %.6f, want %.6f", r.energy, g.tuning.initialEnergy)
		}
		if r.heading() < 0 || r.heading() > 90+1e-9 {
			t.Fatalf("primary heading %.6f outside [0, 90]", r.heading())
		}
		if absFloat(r.angleFromSonar-r.heading()) > 1e-9 {
			t.Fatalf("angleFromSonar %.6f does not match heading %.6f", r.angleFromSonar, r.heading())
		}
	}
}

func TestSpotlightRaysStayInCone(t *testing.T) {
	g := testGenerator()
	rng := rand.New(rand.NewSource(8))
	// Heading near 0 exercises the wrapped spotlight arc.
	for _, headingDeg := range []float64{10, 95, 200, 355} {
		primary := ray{
			angleFromSonar:   42,
			vector:           newUnitVector(point{x: 100, y: 100}, toRadians(headingDeg)),
			energy:           100,
			traveledDistance: 37,
			bounces:          2,
		}
		rays := g.spotlightRays(primary, rng)
		if len(rays) > g.tuning.spotlightRayCount {
			t.Fatalf("heading %.0f: got %d spotlight rays, cap is %d",
				headingDeg, len(rays), g.tuning.spotlightRayCount)
		}
		for _, r := range rays {
			if dev := degreesDifference(r.heading(), headingDeg); dev > g.tuning.spotlightDegreesRange+1e-9 {
				t.Fatalf("heading %.0f: spotlight ray deviates %.6f degrees", headingDeg, dev)
			}
			if r.energy <= 0 {
				t.Fatalf("heading %.0f: spotlight ray kept with energy %.6f", headingDeg, r.energy)
			}
			if r.energy > primary.energy*g.tuning.spotlightEnergyFactor {
				t.Fatalf("spotlight energy %.6f above base share", r.energy)
			}
			if r.angleFromSonar != primary.angleFromSonar {
				t.Fatalf("spotlight ray lost sonar angle: %.6f", r.angleFromSonar)
			}
			if r.traveledDistance != primary.traveledDistance || r.bounces != primary.bounces {
				t.Fatal("spotlight ray is not a sibling of its primary")
			}
			if r.vector.origin != primary.vector.origin {
				t.Fatal("spotlight ray moved away from the primary origin")
			}
		}
	}
}

func TestSecondaryRays(t *testing.T) {
	g := testGenerator()
	rng := rand.New(rand.NewSource(9))
	source := ray{
		angleFromSonar:   15,
		vector:           newUnitVector(point{x: 50, y: 60}, toRadians(30)),
		energy:           90,
		traveledDistance: 120,
		bounces:          3,
	}
	arc := arcAround(toRadians(30), 60)
	rays := g.secondaryRays(source, arc, rng)
	if len(rays) > g.tuning.secondaryRayCount {
		t.Fatalf("got %d secondary rays, cap is %d", len(rays), g.tuning.secondaryRayCount)
	}
	if len(rays) == 0 {
		t.Fatal("expected surviving secondary rays for a narrow arc")
	}
	for _, r := range rays {
		if r.energy <= 0 {
			t.Fatalf("secondary ray kept with energy %.6f", r.energy)
		}
		if r.bounces != 0 {
			t.Fatalf("secondary ray bounces = %d, want reset to 0", r.bounces)
		}
		if r.traveledDistance != source.traveledDistance {
			t.Fatalf("secondary ray distance = %.6f, want inherited %.6f",
				r.traveledDistance, source.traveledDistance)
		}
		if r.angleFromSonar != source.angleFromSonar {
			t.Fatalf("secondary ray lost sonar angle: %.6f", r.angleFromSonar)
		}
	}
}

func TestReflectHeadOn(t *testing.T) {
	g := testGenerator()
	source := ray{
		angleFromSonar:   33,
		vector:           newUnitVector(point{x: 0, y: 0}, 0),
		energy:           100,
		traveledDistance: 10,
		bounces:          1,
	}
	// Non-absorbing vertical mirror at x=50; a head-on strike reflects straight
	// back along the incoming direction, so the bounce loses no energy at all.
	mirror := wallSegment{p1: point{x: 50, y: -50}, p2: point{x: 50, y: 50}}
	reflected := g.reflect(source, mirror)

	if reflected.bounces != source.bounces+1 {
		t.Fatalf("bounces = %d, want %d", reflected.bounces, source.bounces+1)
	}
	if absFloat(reflected.traveledDistance-60) > 1e-9 {
		t.Fatalf("traveled = %.9f, want 60", reflected.traveledDistance)
	}
	if absFloat(reflected.energy-100) > 1e-9 {
		t.Fatalf("head-on mirror bounce energy = %.9f, want 100", reflected.energy)
	}
	if got := toDegrees(reflected.vector.angle); absFloat(got-180) > 1e-9 {
		t.Fatalf("reflected heading = %.9f, want 180", got)
	}
	if reflected.angleFromSonar != source.angleFromSonar {
		t.Fatalf("reflection changed angleFromSonar to %.6f", reflected.angleFromSonar)
	}
}

func TestReflectAppliesAbsorptionAndAngleLoss(t *testing.T) {
	g := testGenerator()
	source := ray{
		vector: newUnitVector(point{x: 0, y: 0}, toRadians(45)),
		energy: 100,
	}
	seg := wallSegment{p1: point{x: 0, y: 10}, p2: point{x: 100, y: 10}, absorption: 0.3}
	reflected := g.reflect(source, seg)
	// Back-bearing from (10,10) to (0,0) is 225; the reflected heading is 315,
	// a 90 degree deviation on top of the 30% surface absorption.
	want := 100*0.7 - 90*g.tuning.angleLossRate
	if absFloat(reflected.energy-want) > 1e-9 {
		t.Fatalf("reflected energy = %.9f, want %.9f", reflected.energy, want)
	}
}

func TestReturningRayInheritance(t *testing.T) {
	g := testGenerator()
	source := ray{
		angleFromSonar:   77,
		vector:           newUnitVector(point{x: 0, y: 0}, 0),
		energy:           100,
		traveledDistance: 0,
	}
	mirror := wallSegment{p1: point{x: 50, y: -50}, p2: point{x: 50, y: 50}}
	reflected := g.reflect(source, mirror)
	returning := g.returningRay(reflected, source)

	if returning.angleFromSonar != source.angleFromSonar {
		t.Fatalf("returning ray angleFromSonar = %.6f, want source's %.6f",
			returning.angleFromSonar, source.angleFromSonar)
	}
	if returning.traveledDistance != reflected.traveledDistance {
		t.Fatalf("returning ray distance = %.6f, want reflected's %.6f",
			returning.traveledDistance, reflected.traveledDistance)
	}
	if returning.bounces != reflected.bounces {
		t.Fatalf("returning ray bounces = %d, want reflected's %d",
			returning.bounces, reflected.bounces)
	}
	// The echo heads from the reflection point back toward the source origin.
	if got := toDegrees(returning.vector.angle); absFloat(got-180) > 1e-9 {
		t.Fatalf("returning heading = %.9f, want 180", got)
	}
	if returning.vector.origin != reflected.vector.origin {
		t.Fatal("returning ray does not start at the reflection point")
	}
	// Head-on: the echo travels exactly along the reflected heading, no loss.
	if absFloat(returning.energy-reflected.energy) > 1e-9 {
		t.Fatalf("head-on returning energy = %.9f, want %.9f", returning.energy, reflected.energy)
	}
}
