package main

import (
	"math"
	"math/rand"
	"testing"
)

func TestPointDistanceAndBearing(t *testing.T) {
	a := point{x: 0, y: 0}
	b := point{x: 3, y: 4}
	if d := a.distanceTo(b); absFloat(d-5) > 1e-12 {
		t.Fatalf("distanceTo = %.12f, want 5", d)
	}
	if got := a.angleTo(point{x: 10, y: 0}); absFloat(got) > 1e-12 {
		t.Fatalf("bearing east = %.12f, want 0", got)
	}
	if got := a.angleTo(point{x: -10, y: 0}); absFloat(got-math.Pi) > 1e-12 {
		t.Fatalf("bearing west = %.12f, want pi", got)
	}
	// Bearings are normalized to [0, 2pi).
	if got := a.angleTo(point{x: 0, y: -10}); absFloat(got-3*math.Pi/2) > 1e-12 {
		t.Fatalf("bearing up = %.12f, want 3pi/2", got)
	}
}

func TestUnitVectorPointAt(t *testing.T) {
	v := newUnitVector(point{x: 1, y: 2}, math.Pi/2)
	p := v.pointAt(10)
	if absFloat(p.x-1) > 1e-9 || absFloat(p.y-12) > 1e-9 {
		t.Fatalf("pointAt = (%.9f, %.9f), want (1, 12)", p.x, p.y)
	}
}

func TestAngleRangeSample(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	arc := angleRange{min: toRadians(30), max: toRadians(60)}
	for i := 0; i < 1000; i++ {
		deg := toDegrees(arc.sample(rng))
		if deg < 30-1e-9 || deg > 60+1e-9 {
			t.Fatalf("sample %.6f outside [30, 60]", deg)
		}
	}
}

func TestAngleRangeSampleWrapped(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	arc := angleRange{min: toRadians(350), max: toRadians(10)}
	if w := toDegrees(arc.width()); absFloat(w-20) > 1e-9 {
		t.Fatalf("wrapped arc width = %.6f, want 20", w)
	}
	for i := 0; i < 1000; i++ {
		deg := toDegrees(arc.sample(rng))
		if degreesDifference(deg, 0) > 10+1e-9 {
			t.Fatalf("wrapped sample %.6f more than 10 degrees from 0", deg)
		}
	}
}

func TestSegmentIntersection(t *testing.T) {
	seg := wallSegment{p1: point{x: 50, y: -50}, p2: point{x: 50, y: 50}}

	at, ok := seg.intersection(newUnitVector(point{x: 0, y: 0}, 0))
	if !ok {
		t.Fatal("expected head-on intersection")
	}
	if absFloat(at.x-50) > 1e-9 || absFloat(at.y) > 1e-9 {
		t.Fatalf("intersection at (%.9f, %.9f), want (50, 0)", at.x, at.y)
	}

	// Pointing away from the segment.
	if _, ok := seg.intersection(newUnitVector(point{x: 0, y: 0}, math.Pi)); ok {
		t.Fatal("intersection reported behind the ray origin")
	}

	// Parallel to the segment.
	if _, ok := seg.intersection(newUnitVector(point{x: 0, y: 0}, math.Pi/2)); ok {
		t.Fatal("intersection reported for a parallel ray")
	}

	// Aimed past the segment's end.
	if _, ok := seg.intersection(newUnitVector(point{x: 0, y: 100}, 0)); ok {
		t.Fatal("intersection reported beyond the segment extent")
	}
}

func TestReflectedVector(t *testing.T) {
	// Horizontal mirror: a ray going down-right reflects to up-right.
	seg := wallSegment{p1: point{x: 0, y: 10}, p2: point{x: 100, y: 10}}
	incoming := newUnitVector(point{x: 0, y: 0}, toRadians(45))
	at, ok := seg.intersection(incoming)
	if !ok {
		t.Fatal("expected intersection with mirror")
	}
	reflected := seg.reflectedVector(at, incoming)
	if got := toDegrees(reflected.angle); absFloat(got-315) > 1e-9 {
		t.Fatalf("reflected angle = %.9f, want 315", got)
	}
	if reflected.origin != at {
		t.Fatalf("reflected vector not anchored at the intersection point")
	}
}

func TestEnergyWithAbsorptionLoss(t *testing.T) {
	seg := wallSegment{p1: point{}, p2: point{x: 1}, absorption: 0.25}
	if got := seg.energyWithAbsorptionLoss(100); absFloat(got-75) > 1e-12 {
		t.Fatalf("absorption result = %.12f, want 75", got)
	}
	mirror := wallSegment{p1: point{}, p2: point{x: 1}}
	if got := mirror.energyWithAbsorptionLoss(100); got != 100 {
		t.Fatalf("non-absorbing segment changed energy: %.12f", got)
	}
}
