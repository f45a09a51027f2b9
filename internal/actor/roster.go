package actor

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Static is a simple Actor whose pose is set by its owner.
// Thread-safe for concurrent use.
type Static struct {
	mu      sync.RWMutex
	handle  Handle
	pose    Transform
	removed bool
}

// NewStatic creates an actor at the origin.
func NewStatic(h Handle) *Static {
	return &Static{handle: h}
}

func (s *Static) Identity() Handle {
	return s.handle
}

func (s *Static) Transform() (Transform, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.removed {
		return Transform{}, false
	}
	return s.pose, true
}

// Move sets the actor's pose.
func (s *Static) Move(pos, rot mgl64.Vec3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pose = Transform{Position: pos, Rotation: rot}
}

// Remove marks the actor as gone from the scene. Later transform queries
// report it as unresolvable.
func (s *Static) Remove() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = true
}

// Roster is an ordered, in-memory Source.
type Roster struct {
	mu     sync.RWMutex
	actors []Actor
}

// NewRoster creates a roster holding actors in the given order.
func NewRoster(actors ...Actor) *Roster {
	return &Roster{actors: append([]Actor(nil), actors...)}
}

// Add appends an actor. Recordings already in progress do not see it.
func (r *Roster) Add(a Actor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actors = append(r.actors, a)
}

// ListActors returns a copy of the roster in registration order.
func (r *Roster) ListActors() []Actor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Actor, len(r.actors))
	copy(out, r.actors)
	return out
}

// Len returns the number of registered actors.
func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.actors)
}
