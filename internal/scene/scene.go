// Package scene is a small synthetic city used to drive recordings
// without an engine: vehicles drive straight through a crossroads and are
// destroyed when they cross the edge of the map, and a participant stands
// at the kerb.
package scene

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"github.com/SmitUplenchwar2687/Replica/internal/actor"
	"github.com/SmitUplenchwar2687/Replica/internal/intersection"
	"github.com/SmitUplenchwar2687/Replica/internal/logging"
)

// Bounds is the axis-aligned destructor volume. Vehicles leaving it are
// destroyed.
type Bounds struct {
	Min, Max mgl64.Vec3
}

// Contains reports whether p lies inside b, edges included.
func (b Bounds) Contains(p mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// DefaultBounds is a 200m square around the crossroads.
var DefaultBounds = Bounds{Min: mgl64.Vec3{-100, -10, -100}, Max: mgl64.Vec3{100, 50, 100}}

// Scene owns the city's actors. It implements actor.Source.
type Scene struct {
	mu       sync.RWMutex
	bounds   Bounds
	actors   []actor.Actor
	vehicles []*Vehicle
	nextID   int
	elapsed  float64
	log      *logrus.Logger
}

// New creates an empty scene.
func New(bounds Bounds, log *logrus.Logger) *Scene {
	return &Scene{bounds: bounds, nextID: 1, log: logging.OrDiscard(log)}
}

func (s *Scene) handle(name, repr string) actor.Handle {
	h := actor.Handle{ID: s.nextID, Name: name, Representation: repr}
	s.nextID++
	return h
}

// AddVehicle places a vehicle and returns it. Vehicles start stationary.
func (s *Scene) AddVehicle(name string, pos mgl64.Vec3, heading float64) *Vehicle {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := NewVehicle(s.handle(name, "Vehicles/Titan"), pos, heading)
	s.vehicles = append(s.vehicles, v)
	s.actors = append(s.actors, v)
	return v
}

// AddPedestrian places a participant that only moves when told to.
func (s *Scene) AddPedestrian(name string, pos mgl64.Vec3) *actor.Static {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := actor.NewStatic(s.handle(name, "People/Participant"))
	p.Move(pos, mgl64.Vec3{})
	s.actors = append(s.actors, p)
	return p
}

// ListActors returns every actor ever added, destroyed ones included, in
// creation order.
func (s *Scene) ListActors() []actor.Actor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]actor.Actor, len(s.actors))
	copy(out, s.actors)
	return out
}

// Vehicles returns the scene's vehicles.
func (s *Scene) Vehicles() []*Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*Vehicle(nil), s.vehicles...)
}

// Elapsed returns the simulated seconds stepped so far.
func (s *Scene) Elapsed() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.elapsed
}

// Step advances the scene by dt seconds.
func (s *Scene) Step(dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elapsed += dt
	for _, v := range s.vehicles {
		if v.step(dt, s.bounds) {
			s.log.WithFields(logrus.Fields{
				"actor": v.handle.ID,
				"name":  v.handle.Name,
				"time":  s.elapsed,
			}).Debug("vehicle left the map")
		}
	}
}

// City builds the default crossroads: one vehicle per approach, all
// driving, a participant on the north-east kerb and a controller with a
// light on each approach.
func City(log *logrus.Logger) (*Scene, *intersection.Controller) {
	s := New(DefaultBounds, log)

	approaches := []struct {
		name    string
		pos     mgl64.Vec3
		heading float64
	}{
		{"northbound", mgl64.Vec3{2, 0, 90}, 90},
		{"southbound", mgl64.Vec3{-2, 0, -90}, 270},
		{"eastbound", mgl64.Vec3{-90, 0, 2}, 0},
		{"westbound", mgl64.Vec3{90, 0, -2}, 180},
	}
	for _, a := range approaches {
		s.AddVehicle(a.name, a.pos, a.heading).SetMoving(true)
	}
	s.AddPedestrian("participant", mgl64.Vec3{6, 0, 6})

	var ns, ew []*intersection.StopLight
	for _, dir := range []string{"north", "south"} {
		ns = append(ns, intersection.NewStopLight(fmt.Sprintf("%s approach", dir), intersection.Red))
	}
	for _, dir := range []string{"east", "west"} {
		ew = append(ew, intersection.NewStopLight(fmt.Sprintf("%s approach", dir), intersection.Red))
	}
	return s, intersection.NewController(ns, ew, log)
}
