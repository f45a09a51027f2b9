package playback

import (
	"slices"

	"github.com/SmitUplenchwar2687/Replica/internal/recording"
)

// Filter selects what part of a recording is replayed.
type Filter struct {
	Events []string // Only deliver these event names (empty = all)
	After  float64  // Skip frames and events before this time (zero = no limit)
	Before float64  // Skip frames and events at or after this time (zero = no limit)
}

func (f *Filter) inWindow(t float64) bool {
	if f.After != 0 && t < f.After {
		return false
	}
	if f.Before != 0 && t >= f.Before {
		return false
	}
	return true
}

// MatchFrame reports whether a frame is replayed.
func (f *Filter) MatchFrame(fr recording.Frame) bool {
	return f.inWindow(fr.Timestamp)
}

// MatchEvent reports whether an event is delivered.
func (f *Filter) MatchEvent(e recording.Event) bool {
	if len(f.Events) > 0 && !slices.Contains(f.Events, e.Name) {
		return false
	}
	return f.inWindow(e.Time)
}
