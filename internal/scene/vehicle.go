package scene

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/SmitUplenchwar2687/Replica/internal/actor"
)

// DefaultSpeed is 30 mph in metres per second.
const DefaultSpeed = 13.4

// Vehicle drives along its local +X axis. Heading is a yaw in degrees.
// Thread-safe for concurrent use.
type Vehicle struct {
	mu        sync.RWMutex
	handle    actor.Handle
	position  mgl64.Vec3
	heading   float64
	speed     float64
	moving    bool
	destroyed bool
}

// NewVehicle places a stationary vehicle at pos facing heading.
func NewVehicle(h actor.Handle, pos mgl64.Vec3, heading float64) *Vehicle {
	return &Vehicle{handle: h, position: pos, heading: heading, speed: DefaultSpeed}
}

func (v *Vehicle) Identity() actor.Handle {
	return v.handle
}

func (v *Vehicle) Transform() (actor.Transform, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.destroyed {
		return actor.Transform{}, false
	}
	return actor.Transform{Position: v.position, Rotation: mgl64.Vec3{0, v.heading, 0}}, true
}

// SetSpeed sets the driving speed in metres per second.
func (v *Vehicle) SetSpeed(mps float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.speed = mps
}

// SetMoving starts or stops the vehicle.
func (v *Vehicle) SetMoving(moving bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.moving = moving
}

// Moving reports whether the vehicle is driving.
func (v *Vehicle) Moving() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.moving
}

// Destroyed reports whether the vehicle has left the scene.
func (v *Vehicle) Destroyed() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.destroyed
}

// Forward returns the unit direction of travel.
func (v *Vehicle) Forward() mgl64.Vec3 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return forward(v.heading)
}

func forward(heading float64) mgl64.Vec3 {
	return mgl64.Rotate3DY(mgl64.DegToRad(heading)).Mul3x1(mgl64.Vec3{1, 0, 0})
}

// step moves the vehicle dt seconds and destroys it once it is outside
// bounds. It reports whether the vehicle was destroyed by this step.
func (v *Vehicle) step(dt float64, bounds Bounds) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.destroyed || !v.moving {
		return false
	}
	v.position = v.position.Add(forward(v.heading).Mul(v.speed * dt))
	if !bounds.Contains(v.position) {
		v.destroyed = true
		return true
	}
	return false
}
