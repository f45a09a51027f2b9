// Package actor defines what the recorder needs from a scene object: a
// stable identity and a transform snapshot.
package actor

import "github.com/go-gl/mathgl/mgl64"

// Handle identifies an actor for the lifetime of a recording.
type Handle struct {
	ID             int    `json:"id" yaml:"id"`
	Name           string `json:"name" yaml:"name"`
	Representation string `json:"representation" yaml:"representation"` // asset used to stand in for the actor during playback
}

// Transform is a world-space pose. Rotation holds Euler angles in degrees.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Vec3
}

// Actor is any scene entity whose transform is sampled into a recording.
type Actor interface {
	// Identity returns the actor's handle. It must not change once the
	// actor has been handed to a recorder.
	Identity() Handle
	// Transform returns the current pose. ok is false once the underlying
	// scene object no longer exists.
	Transform() (t Transform, ok bool)
}

// Source supplies the recordable actors present in a scene.
type Source interface {
	ListActors() []Actor
}

// SourceFunc adapts a function to a Source.
type SourceFunc func() []Actor

func (f SourceFunc) ListActors() []Actor { return f() }
