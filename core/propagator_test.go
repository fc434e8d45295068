package core

import (
	"math"
	"testing"

	"github.com/heliosworks/orrery-simulator/kb"
	"github.com/heliosworks/orrery-simulator/model"
)

const posTolerance = 1e-9

func vecClose(a, b model.Vec3, tol float64) bool {
	return math.Abs(a.X-b.X) < tol && math.Abs(a.Y-b.Y) < tol && math.Abs(a.Z-b.Z) < tol
}

func TestOrbitalPositionCircularQuarters(t *testing.T) {
	// Unit circular orbit with a one-second period: quarter turns land on
	// the cardinal axes.
	orbit := model.CircularOrbit(1.0, 2*math.Pi)

	tests := []struct {
		elapsed float64
		want    model.Vec3
	}{
		{0, model.Vec3{X: 1}},
		{0.25, model.Vec3{Y: 1}},
		{0.5, model.Vec3{X: -1}},
		{0.75, model.Vec3{Y: -1}},
		{1.0, model.Vec3{X: 1}},
	}

	for _, tt := range tests {
		got := OrbitalPosition(orbit, tt.elapsed)
		if !vecClose(got, tt.want, posTolerance) {
			t.Fatalf("OrbitalPosition(t=%v) = %+v, want %+v", tt.elapsed, got, tt.want)
		}
	}
}

func TestOrbitalPositionStateless(t *testing.T) {
	orbit := model.KeplerOrbit{
		Eccentricity:              0.3,
		SemiMajorAxisAU:           2.0,
		InclinationRad:            0.2,
		LongitudeAscendingNodeRad: 1.1,
		ArgumentOfPeriapsisRad:    0.7,
		MeanAnomalyEpochRad:       0.5,
		MeanMotionRadPerSec:       1e-5,
	}

	// Same elapsed time must give a bit-identical position no matter how
	// many other queries happened in between, including backwards jumps.
	want := OrbitalPosition(orbit, 1e6)
	_ = OrbitalPosition(orbit, 5e6)
	_ = OrbitalPosition(orbit, 0)
	got := OrbitalPosition(orbit, 1e6)

	if got != want {
		t.Fatalf("repeat query drifted: %+v vs %+v", got, want)
	}
}

func TestOrbitalPositionZeroMeanMotionFreezes(t *testing.T) {
	orbit := model.KeplerOrbit{
		Eccentricity:        0.1,
		SemiMajorAxisAU:     1.5,
		MeanAnomalyEpochRad: 0.9,
	}

	at0 := OrbitalPosition(orbit, 0)
	at1e9 := OrbitalPosition(orbit, 1e9)

	if at0 != at1e9 {
		t.Fatalf("zero mean motion moved the body: %+v vs %+v", at0, at1e9)
	}
}

func TestOrbitalPositionInclinationLiftsZ(t *testing.T) {
	orbit := model.CircularOrbit(1.0, 2*math.Pi)
	orbit.InclinationRad = math.Pi / 4

	got := OrbitalPosition(orbit, 0.25)
	if math.Abs(got.Z) < 0.1 {
		t.Fatalf("Z = %v, want non-zero for an inclined orbit away from the node", got.Z)
	}
}

func newTestSystem(t *testing.T) *kb.KnowledgeBase {
	t.Helper()
	store := kb.NewKnowledgeBase()
	if err := store.AddSystem(&model.StarSystem{ID: "sys", Name: "Test System"}); err != nil {
		t.Fatalf("AddSystem: %v", err)
	}
	return store
}

func TestPropagateSystemParentBeforeChild(t *testing.T) {
	store := newTestSystem(t)

	if err := store.AddBody(&model.CelestialBody{
		ID: "star", Name: "Star", Type: model.BodyTypeStar, SystemID: "sys",
	}); err != nil {
		t.Fatalf("AddBody(star): %v", err)
	}

	planetOrbit := model.CircularOrbit(1.0, 2*math.Pi)
	if err := store.AddBody(&model.CelestialBody{
		ID: "planet", Name: "Planet", Type: model.BodyTypePlanet, SystemID: "sys",
		Orbit: &planetOrbit, OrbitCenterID: "star",
	}); err != nil {
		t.Fatalf("AddBody(planet): %v", err)
	}

	moonOrbit := model.CircularOrbit(0.01, 4*math.Pi)
	if err := store.AddBody(&model.CelestialBody{
		ID: "moon", Name: "Moon", Type: model.BodyTypeMoon, SystemID: "sys",
		Orbit: &moonOrbit, OrbitCenterID: "planet",
	}); err != nil {
		t.Fatalf("AddBody(moon): %v", err)
	}

	p := NewPropagator(store)
	moved := p.PropagateSystem("sys", 0.25)

	if moved != 2 {
		t.Fatalf("moved = %d, want 2 (star has no orbit)", moved)
	}

	planet := store.GetBody("planet")
	if want := (model.Vec3{Y: 1}); !vecClose(planet.Position, want, posTolerance) {
		t.Fatalf("planet at %+v, want %+v", planet.Position, want)
	}

	// Moon completes half its orbit in 0.25s, so it sits at -0.01 along X
	// relative to the planet.
	moon := store.GetBody("moon")
	want := model.Vec3{X: -0.01, Y: 1}
	if !vecClose(moon.Position, want, posTolerance) {
		t.Fatalf("moon at %+v, want %+v", moon.Position, want)
	}
}

func TestPropagateSystemIdempotentPerTime(t *testing.T) {
	store := newTestSystem(t)
	orbit := model.CircularOrbit(1.0, 1e-3)
	if err := store.AddBody(&model.CelestialBody{
		ID: "b", Name: "B", Type: model.BodyTypePlanet, SystemID: "sys", Orbit: &orbit,
	}); err != nil {
		t.Fatalf("AddBody: %v", err)
	}

	p := NewPropagator(store)
	p.PropagateSystem("sys", 500)
	first := store.GetBody("b").Position

	// Jump far ahead, then back: scrubbing must reproduce the exact pose.
	p.PropagateSystem("sys", 1e8)
	p.PropagateSystem("sys", 500)
	second := store.GetBody("b").Position

	if first != second {
		t.Fatalf("time scrub drifted: %+v vs %+v", first, second)
	}
}

func TestPropagateBodyResolvesParentChain(t *testing.T) {
	store := newTestSystem(t)

	baryOrbit := model.CircularOrbit(2.0, 2*math.Pi)
	if err := store.AddBody(&model.CelestialBody{
		ID: "bary", Name: "Barycenter", Type: model.BodyTypeBarycenter, SystemID: "sys",
		Orbit: &baryOrbit,
	}); err != nil {
		t.Fatalf("AddBody(bary): %v", err)
	}
	starOrbit := model.CircularOrbit(0.5, 2*math.Pi)
	if err := store.AddBody(&model.CelestialBody{
		ID: "star-a", Name: "Star A", Type: model.BodyTypeStar, SystemID: "sys",
		Orbit: &starOrbit, OrbitCenterID: "bary",
	}); err != nil {
		t.Fatalf("AddBody(star-a): %v", err)
	}

	p := NewPropagator(store)
	got, err := p.PropagateBody("star-a", 0)
	if err != nil {
		t.Fatalf("PropagateBody: %v", err)
	}
	want := model.Vec3{X: 2.5}
	if !vecClose(got, want, posTolerance) {
		t.Fatalf("star-a at %+v, want %+v", got, want)
	}
}

func TestPropagateBodyUnknown(t *testing.T) {
	store := newTestSystem(t)
	p := NewPropagator(store)

	if _, err := p.PropagateBody("ghost", 0); err == nil {
		t.Fatal("PropagateBody(ghost) error = nil, want not-found")
	}
}
