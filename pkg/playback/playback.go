// Package playback exposes recording replay for embedding in a host scene.
package playback

import (
	internalplayback "github.com/SmitUplenchwar2687/Replica/internal/playback"
	"github.com/SmitUplenchwar2687/Replica/internal/recording"
)

// Dispatcher replays one recording onto spawned representations.
type Dispatcher = internalplayback.Dispatcher

// Representation is the replay-side stand-in for a recorded actor.
type Representation = internalplayback.Representation

// Spawner creates a Representation per recorded actor.
type Spawner = internalplayback.Spawner

// SpawnerFunc adapts a function to a Spawner.
type SpawnerFunc = internalplayback.SpawnerFunc

// EventHandler receives replayed events.
type EventHandler = internalplayback.EventHandler

// HandlerFunc adapts a function to an EventHandler.
type HandlerFunc = internalplayback.HandlerFunc

// Filter selects the frames and events that are replayed.
type Filter = internalplayback.Filter

// Step reports what one Advance applied.
type Step = internalplayback.Step

// Summary aggregates a whole run.
type Summary = internalplayback.Summary

// Option configures a Dispatcher.
type Option = internalplayback.Option

var (
	WithFilter = internalplayback.WithFilter
	WithLogger = internalplayback.WithLogger
	OnAdvance  = internalplayback.OnAdvance
)

// New spawns one representation per actor in rec.
func New(rec *recording.Recording, spawner Spawner, opts ...Option) (*Dispatcher, error) {
	return internalplayback.New(rec, spawner, opts...)
}
