package kb

import (
	"errors"
	"testing"

	"github.com/heliosworks/orrery-simulator/model"
)

func newStoreWithSystem(t *testing.T) *KnowledgeBase {
	t.Helper()
	store := NewKnowledgeBase()
	if err := store.AddSystem(&model.StarSystem{ID: "sys", Name: "Test System"}); err != nil {
		t.Fatalf("AddSystem: %v", err)
	}
	return store
}

func TestAddSystemDuplicate(t *testing.T) {
	store := newStoreWithSystem(t)
	err := store.AddSystem(&model.StarSystem{ID: "sys", Name: "Again"})
	if !errors.Is(err, ErrSystemExists) {
		t.Fatalf("err = %v, want ErrSystemExists", err)
	}
}

func TestListSystemsSorted(t *testing.T) {
	store := NewKnowledgeBase()
	for _, id := range []string{"charlie", "alpha", "bravo"} {
		if err := store.AddSystem(&model.StarSystem{ID: id, Name: id}); err != nil {
			t.Fatalf("AddSystem(%s): %v", id, err)
		}
	}

	systems := store.ListSystems()
	want := []string{"alpha", "bravo", "charlie"}
	for i, sys := range systems {
		if sys.ID != want[i] {
			t.Fatalf("ListSystems()[%d] = %q, want %q", i, sys.ID, want[i])
		}
	}
}

func TestAddBodyUnknownSystem(t *testing.T) {
	store := NewKnowledgeBase()
	err := store.AddBody(&model.CelestialBody{ID: "b", Name: "B", SystemID: "ghost"})
	if !errors.Is(err, ErrSystemNotFound) {
		t.Fatalf("err = %v, want ErrSystemNotFound", err)
	}
}

func TestAddBodyDuplicate(t *testing.T) {
	store := newStoreWithSystem(t)
	body := &model.CelestialBody{ID: "b", Name: "B", SystemID: "sys"}
	if err := store.AddBody(body); err != nil {
		t.Fatalf("AddBody: %v", err)
	}
	err := store.AddBody(&model.CelestialBody{ID: "b", Name: "B2", SystemID: "sys"})
	if !errors.Is(err, ErrBodyExists) {
		t.Fatalf("err = %v, want ErrBodyExists", err)
	}
}

func TestAddBodyRejectsInvalidOrbit(t *testing.T) {
	store := newStoreWithSystem(t)

	hyperbolic := model.KeplerOrbit{Eccentricity: 1.4, SemiMajorAxisAU: 1.0}
	err := store.AddBody(&model.CelestialBody{
		ID: "b", Name: "B", SystemID: "sys", Orbit: &hyperbolic,
	})
	if !errors.Is(err, model.ErrOrbitEccentricity) {
		t.Fatalf("err = %v, want ErrOrbitEccentricity", err)
	}
	if store.GetBody("b") != nil {
		t.Fatal("invalid body was stored")
	}
}

func TestAddBodyAllowsForwardParentReference(t *testing.T) {
	// Loaders may insert a body before its orbit center exists; only
	// cycles among stored bodies are rejected.
	store := newStoreWithSystem(t)

	orbit := model.CircularOrbit(1.0, 1e-7)
	err := store.AddBody(&model.CelestialBody{
		ID: "b", Name: "B", SystemID: "sys",
		Orbit: &orbit, OrbitCenterID: "later",
	})
	if err != nil {
		t.Fatalf("AddBody with pending parent: %v", err)
	}
}

func TestAddBodyRejectsOrbitCycleChain(t *testing.T) {
	store := newStoreWithSystem(t)

	orbit := model.CircularOrbit(1.0, 1e-7)
	a := orbit
	if err := store.AddBody(&model.CelestialBody{
		ID: "a", Name: "A", SystemID: "sys", Orbit: &a, OrbitCenterID: "b",
	}); err != nil {
		t.Fatalf("AddBody(a): %v", err)
	}

	b := orbit
	err := store.AddBody(&model.CelestialBody{
		ID: "b", Name: "B", SystemID: "sys", Orbit: &b, OrbitCenterID: "a",
	})
	if !errors.Is(err, ErrOrbitCycle) {
		t.Fatalf("err = %v, want ErrOrbitCycle", err)
	}
}

func TestAddBodyRejectsOrbitCycleSelf(t *testing.T) {
	store := newStoreWithSystem(t)

	orbit := model.CircularOrbit(1.0, 1e-7)
	err := store.AddBody(&model.CelestialBody{
		ID: "b", Name: "B", SystemID: "sys",
		Orbit: &orbit, OrbitCenterID: "b",
	})
	if !errors.Is(err, ErrOrbitCycle) {
		t.Fatalf("err = %v, want ErrOrbitCycle", err)
	}
}

func TestAddBodyIncrementsCount(t *testing.T) {
	store := newStoreWithSystem(t)

	for _, id := range []string{"a", "b", "c"} {
		if err := store.AddBody(&model.CelestialBody{ID: id, Name: id, SystemID: "sys"}); err != nil {
			t.Fatalf("AddBody(%s): %v", id, err)
		}
	}
	if got := store.GetSystem("sys").BodyCount; got != 3 {
		t.Fatalf("BodyCount = %d, want 3", got)
	}
}

func TestBodiesInSystemInsertionOrder(t *testing.T) {
	store := newStoreWithSystem(t)
	want := []string{"star", "planet", "moon"}
	for _, id := range want {
		if err := store.AddBody(&model.CelestialBody{ID: id, Name: id, SystemID: "sys"}); err != nil {
			t.Fatalf("AddBody(%s): %v", id, err)
		}
	}

	bodies := store.BodiesInSystem("sys")
	if len(bodies) != len(want) {
		t.Fatalf("got %d bodies, want %d", len(bodies), len(want))
	}
	for i, b := range bodies {
		if b.ID != want[i] {
			t.Fatalf("BodiesInSystem()[%d] = %q, want %q", i, b.ID, want[i])
		}
	}
}

func TestSetSystemStateEmitsEvent(t *testing.T) {
	store := newStoreWithSystem(t)

	var events []Event
	unsubscribe := store.Subscribe(func(ev Event) { events = append(events, ev) })
	defer unsubscribe()

	if err := store.SetSystemState("sys", model.StateActive); err != nil {
		t.Fatalf("SetSystemState: %v", err)
	}

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ev := events[0]
	if ev.Type != EventSystemStateChanged || ev.SystemID != "sys" {
		t.Fatalf("event = %+v", ev)
	}
	if ev.OldState != model.StateDormant || ev.NewState != model.StateActive {
		t.Fatalf("event states = %v -> %v, want dormant -> active", ev.OldState, ev.NewState)
	}
}

func TestSetSystemStateUnknown(t *testing.T) {
	store := NewKnowledgeBase()
	err := store.SetSystemState("ghost", model.StateActive)
	if !errors.Is(err, ErrSystemNotFound) {
		t.Fatalf("err = %v, want ErrSystemNotFound", err)
	}
}

func TestUnsubscribeStopsEvents(t *testing.T) {
	store := newStoreWithSystem(t)

	count := 0
	unsubscribe := store.Subscribe(func(Event) { count++ })

	if err := store.SetSystemState("sys", model.StateActive); err != nil {
		t.Fatalf("SetSystemState: %v", err)
	}
	unsubscribe()
	if err := store.SetSystemState("sys", model.StateBackground); err != nil {
		t.Fatalf("SetSystemState: %v", err)
	}

	if count != 1 {
		t.Fatalf("events after unsubscribe = %d, want 1", count)
	}
}

func TestUnsubscribeKeepsOtherSubscribers(t *testing.T) {
	store := newStoreWithSystem(t)

	var first, second, third int
	unsubFirst := store.Subscribe(func(Event) { first++ })
	unsubSecond := store.Subscribe(func(Event) { second++ })
	unsubThird := store.Subscribe(func(Event) { third++ })

	// Removing an earlier subscriber must not shift which callbacks the
	// remaining unsubscribe functions remove.
	unsubFirst()
	unsubFirst() // idempotent

	if err := store.SetSystemState("sys", model.StateActive); err != nil {
		t.Fatalf("SetSystemState: %v", err)
	}
	if first != 0 || second != 1 || third != 1 {
		t.Fatalf("events = (%d, %d, %d), want (0, 1, 1)", first, second, third)
	}

	unsubSecond()
	if err := store.SetSystemState("sys", model.StateBackground); err != nil {
		t.Fatalf("SetSystemState: %v", err)
	}
	if second != 1 {
		t.Fatalf("second subscriber fired after unsubscribe: %d events", second)
	}
	if third != 2 {
		t.Fatalf("third subscriber events = %d, want 2", third)
	}
	unsubThird()
}

func TestAddBodyEmitsEvent(t *testing.T) {
	store := newStoreWithSystem(t)

	var got []Event
	unsubscribe := store.Subscribe(func(ev Event) { got = append(got, ev) })
	defer unsubscribe()

	if err := store.AddBody(&model.CelestialBody{ID: "b", Name: "B", SystemID: "sys"}); err != nil {
		t.Fatalf("AddBody: %v", err)
	}

	if len(got) != 1 || got[0].Type != EventBodyAdded || got[0].BodyID != "b" {
		t.Fatalf("events = %+v, want one EventBodyAdded for b", got)
	}
}
