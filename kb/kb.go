package kb

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/heliosworks/orrery-simulator/model"
)

var (
	ErrSystemExists   = errors.New("star system already exists")
	ErrSystemNotFound = errors.New("star system not found")
	ErrBodyExists     = errors.New("body already exists")
	ErrBodyNotFound   = errors.New("body not found")
	ErrBodyBadInput   = errors.New("invalid body")
	ErrOrbitCycle     = errors.New("orbit center chain forms a cycle")
)

// EventType indicates what kind of change happened in the KB.
type EventType int

const (
	EventSystemStateChanged EventType = iota
	EventBodyAdded
)

// Event is emitted to subscribers when something interesting happens.
type Event struct {
	Type     EventType
	SystemID string
	BodyID   string
	// For EventSystemStateChanged: the states before and after.
	OldState model.SimulationState
	NewState model.SimulationState
}

// KnowledgeBase is an in-memory, thread-safe store for star systems and
// their celestial bodies.
//
// Bodies are stored by pointer so the propagator can rewrite Position in
// place each tick; callers that want a stable copy must take one.
type KnowledgeBase struct {
	mu sync.RWMutex

	systems        map[string]*model.StarSystem
	bodies         map[string]*model.CelestialBody
	bodiesBySystem map[string][]*model.CelestialBody

	subs      []subscriber
	nextSubID uint64
}

// subscriber pairs a callback with a stable key so unsubscribing one
// subscriber never disturbs the others.
type subscriber struct {
	id uint64
	fn func(Event)
}

// NewKnowledgeBase constructs an empty KB.
func NewKnowledgeBase() *KnowledgeBase {
	return &KnowledgeBase{
		systems:        make(map[string]*model.StarSystem),
		bodies:         make(map[string]*model.CelestialBody),
		bodiesBySystem: make(map[string][]*model.CelestialBody),
	}
}

// AddSystem registers a new star system. It returns an error if the ID
// already exists.
func (kb *KnowledgeBase) AddSystem(s *model.StarSystem) error {
	if s == nil || s.ID == "" {
		return fmt.Errorf("nil or empty star system")
	}

	kb.mu.Lock()
	defer kb.mu.Unlock()

	if _, exists := kb.systems[s.ID]; exists {
		return fmt.Errorf("%w: %q", ErrSystemExists, s.ID)
	}
	kb.systems[s.ID] = s
	return nil
}

// GetSystem returns the system with the given ID, or nil if not found.
func (kb *KnowledgeBase) GetSystem(id string) *model.StarSystem {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	return kb.systems[id]
}

// ListSystems returns a snapshot slice of all systems, ordered by ID so
// per-tick scheduling is deterministic.
func (kb *KnowledgeBase) ListSystems() []*model.StarSystem {
	kb.mu.RLock()
	defer kb.mu.RUnlock()

	res := make([]*model.StarSystem, 0, len(kb.systems))
	for _, s := range kb.systems {
		res = append(res, s)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

// AddBody registers a body with its owning system. Orbital elements are
// validated here, once, so propagation never has to check them. A body
// whose OrbitCenterID chain would loop back on itself is rejected.
func (kb *KnowledgeBase) AddBody(b *model.CelestialBody) error {
	if b == nil || b.ID == "" {
		return fmt.Errorf("%w: nil or empty ID", ErrBodyBadInput)
	}
	if b.Orbit != nil {
		if err := b.Orbit.Validate(); err != nil {
			return fmt.Errorf("%w: body %q: %w", ErrBodyBadInput, b.ID, err)
		}
	}

	kb.mu.Lock()

	if _, exists := kb.bodies[b.ID]; exists {
		kb.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrBodyExists, b.ID)
	}
	sys, ok := kb.systems[b.SystemID]
	if !ok {
		kb.mu.Unlock()
		return fmt.Errorf("%w: %q (for body %q)", ErrSystemNotFound, b.SystemID, b.ID)
	}
	if err := kb.checkOrbitChainLocked(b); err != nil {
		kb.mu.Unlock()
		return err
	}

	kb.bodies[b.ID] = b
	kb.bodiesBySystem[b.SystemID] = append(kb.bodiesBySystem[b.SystemID], b)
	sys.BodyCount++

	event := Event{Type: EventBodyAdded, SystemID: b.SystemID, BodyID: b.ID}
	subs := kb.snapshotSubsLocked()
	kb.mu.Unlock()

	for _, sub := range subs {
		sub(event)
	}
	return nil
}

// checkOrbitChainLocked walks the OrbitCenterID chain starting at b and
// fails if it revisits a body (a cycle among already-stored bodies). In
// practice chains are one or two levels deep.
func (kb *KnowledgeBase) checkOrbitChainLocked(b *model.CelestialBody) error {
	seen := map[string]bool{b.ID: true}
	cur := b.OrbitCenterID
	for cur != "" {
		if seen[cur] {
			return fmt.Errorf("%w: via %q", ErrOrbitCycle, cur)
		}
		seen[cur] = true
		parent, ok := kb.bodies[cur]
		if !ok {
			// Parent not yet inserted; nothing stored can close a cycle
			// through it.
			return nil
		}
		cur = parent.OrbitCenterID
	}
	return nil
}

// GetBody returns the body with the given ID, or nil if not found.
func (kb *KnowledgeBase) GetBody(id string) *model.CelestialBody {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	return kb.bodies[id]
}

// BodiesInSystem returns a snapshot slice of the bodies belonging to one
// system, in insertion order (parents are inserted before children, so the
// order is safe for a single propagation pass).
func (kb *KnowledgeBase) BodiesInSystem(systemID string) []*model.CelestialBody {
	kb.mu.RLock()
	defer kb.mu.RUnlock()

	src := kb.bodiesBySystem[systemID]
	res := make([]*model.CelestialBody, len(src))
	copy(res, src)
	return res
}

// SetSystemState updates a system's fidelity state and notifies
// subscribers when it actually changes.
func (kb *KnowledgeBase) SetSystemState(id string, state model.SimulationState) error {
	kb.mu.Lock()
	s, ok := kb.systems[id]
	if !ok {
		kb.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrSystemNotFound, id)
	}
	old := s.State
	if old == state {
		kb.mu.Unlock()
		return nil
	}
	s.State = state
	event := Event{
		Type:     EventSystemStateChanged,
		SystemID: id,
		OldState: old,
		NewState: state,
	}
	subs := kb.snapshotSubsLocked()
	kb.mu.Unlock()

	// Notify subscribers outside the lock to avoid deadlocks.
	for _, sub := range subs {
		sub(event)
	}
	return nil
}

// Subscribe registers a callback for KB events. It returns an unsubscribe
// function; unsubscribing is idempotent and removal is keyed, so earlier
// unsubscribes never shift which callback a later unsubscribe removes.
func (kb *KnowledgeBase) Subscribe(fn func(Event)) (unsubscribe func()) {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	kb.nextSubID++
	id := kb.nextSubID
	kb.subs = append(kb.subs, subscriber{id: id, fn: fn})

	return func() {
		kb.mu.Lock()
		defer kb.mu.Unlock()
		for i, s := range kb.subs {
			if s.id == id {
				kb.subs = append(kb.subs[:i], kb.subs[i+1:]...)
				return
			}
		}
	}
}

// snapshotSubsLocked copies the subscriber callbacks so events can be
// delivered after releasing the lock. Callers must hold kb.mu.
func (kb *KnowledgeBase) snapshotSubsLocked() []func(Event) {
	subs := make([]func(Event), len(kb.subs))
	for i, s := range kb.subs {
		subs[i] = s.fn
	}
	return subs
}
