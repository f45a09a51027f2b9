// Package recording exposes the recorded-session data model.
package recording

import (
	"context"

	"github.com/SmitUplenchwar2687/Replica/internal/actor"
	"github.com/SmitUplenchwar2687/Replica/internal/archive"
	"github.com/SmitUplenchwar2687/Replica/internal/export"
	internalrecording "github.com/SmitUplenchwar2687/Replica/internal/recording"
)

// Recording is a named sequence of frames and events.
type Recording = internalrecording.Recording

// Frame is one sample of every recorded actor.
type Frame = internalrecording.Frame

// Event is a named, timestamped string logged during recording.
type Event = internalrecording.Event

// Format is an on-disk recording format.
type Format = internalrecording.Format

// Handle identifies an actor in a recording.
type Handle = actor.Handle

const (
	FormatXML = internalrecording.FormatXML
	FormatCSV = internalrecording.FormatCSV
)

// New creates an empty recording for the given roster.
func New(name string, fps float64, roster []Handle) *Recording {
	return internalrecording.New(name, fps, roster)
}

// Load reads the XML recording called name from a directory.
func Load(ctx context.Context, dir, name string) (*Recording, error) {
	return export.Load(ctx, archive.NewDir(dir), name)
}
