// Package recording holds the data captured by a recording session: the
// actor roster, the ordered frames, and the ordered event log.
package recording

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/SmitUplenchwar2687/Replica/internal/actor"
)

const (
	MinFPS     = 1
	MaxFPS     = 1000
	DefaultFPS = 30
)

// Sentinel is the position recorded for an actor that could not be found
// in the scene at capture time. It means "unknown", never a coordinate.
var Sentinel = mgl64.Vec3{666, 666, 666}

// IsSentinel reports whether v is the unresolvable-actor marker.
func IsSentinel(v mgl64.Vec3) bool {
	return v == Sentinel
}

// ClampFPS limits fps to [MinFPS, MaxFPS].
func ClampFPS(fps float64) float64 {
	if math.IsNaN(fps) || fps < MinFPS {
		return MinFPS
	}
	if fps > MaxFPS {
		return MaxFPS
	}
	return fps
}

// Frame is one timestamped snapshot of every tracked actor.
// ActorIDs, Positions and Rotations are index aligned.
type Frame struct {
	Timestamp float64
	ActorIDs  []int
	Positions []mgl64.Vec3
	Rotations []mgl64.Vec3 // Euler degrees
}

// PositionOf returns the position recorded for id.
func (f Frame) PositionOf(id int) (mgl64.Vec3, bool) {
	for i, v := range f.ActorIDs {
		if v == id {
			return f.Positions[i], true
		}
	}
	return Sentinel, false
}

// RotationOf returns the rotation recorded for id.
func (f Frame) RotationOf(id int) (mgl64.Vec3, bool) {
	for i, v := range f.ActorIDs {
		if v == id {
			return f.Rotations[i], true
		}
	}
	return mgl64.Vec3{}, false
}

// Event is a named occurrence logged during a recording. The format of
// Contents is agreed between whoever logs the event and whoever handles it
// during playback.
type Event struct {
	Time     float64
	Name     string
	Contents string
}

// Recording is the full aggregate of metadata, frames and events for one
// session.
type Recording struct {
	Name                 string
	FPS                  float64
	ActorIDs             []int
	ActorNames           []string
	ActorRepresentations []string
	Frames               []Frame
	Events               []Event
}

// New allocates a recording for the given roster.
func New(name string, fps float64, roster []actor.Handle) *Recording {
	r := &Recording{
		Name:                 name,
		FPS:                  ClampFPS(fps),
		ActorIDs:             make([]int, len(roster)),
		ActorNames:           make([]string, len(roster)),
		ActorRepresentations: make([]string, len(roster)),
	}
	for i, h := range roster {
		r.ActorIDs[i] = h.ID
		r.ActorNames[i] = h.Name
		r.ActorRepresentations[i] = h.Representation
	}
	return r
}

// AddFrame appends a captured frame.
func (r *Recording) AddFrame(f Frame) {
	r.Frames = append(r.Frames, f)
}

// LogEvent appends an event at time t.
func (r *Recording) LogEvent(t float64, name, contents string) {
	r.Events = append(r.Events, Event{Time: t, Name: name, Contents: contents})
}

// Handles returns the roster as actor handles in registration order.
func (r *Recording) Handles() []actor.Handle {
	out := make([]actor.Handle, len(r.ActorIDs))
	for i, id := range r.ActorIDs {
		out[i] = actor.Handle{ID: id, Name: r.ActorNames[i], Representation: r.ActorRepresentations[i]}
	}
	return out
}

func (r *Recording) indexOf(id int) int {
	for i, v := range r.ActorIDs {
		if v == id {
			return i
		}
	}
	return -1
}

// ActorName returns the display name registered for id, or "" if id is
// not part of the roster.
func (r *Recording) ActorName(id int) string {
	if i := r.indexOf(id); i >= 0 {
		return r.ActorNames[i]
	}
	return ""
}

// ActorRepresentation returns the playback asset registered for id.
func (r *Recording) ActorRepresentation(id int) string {
	if i := r.indexOf(id); i >= 0 {
		return r.ActorRepresentations[i]
	}
	return ""
}

// Shift moves every frame timestamp and event time forward by d seconds.
func (r *Recording) Shift(d float64) {
	for i := range r.Frames {
		r.Frames[i].Timestamp += d
	}
	for i := range r.Events {
		r.Events[i].Time += d
	}
}

// Duration returns the time between the first and last frame.
func (r *Recording) Duration() float64 {
	if len(r.Frames) < 2 {
		return 0
	}
	return r.Frames[len(r.Frames)-1].Timestamp - r.Frames[0].Timestamp
}

// Clone returns a deep copy.
func (r *Recording) Clone() *Recording {
	if r == nil {
		return nil
	}
	out := &Recording{
		Name:                 r.Name,
		FPS:                  r.FPS,
		ActorIDs:             append([]int(nil), r.ActorIDs...),
		ActorNames:           append([]string(nil), r.ActorNames...),
		ActorRepresentations: append([]string(nil), r.ActorRepresentations...),
		Events:               append([]Event(nil), r.Events...),
	}
	if r.Frames != nil {
		out.Frames = make([]Frame, len(r.Frames))
		for i, f := range r.Frames {
			out.Frames[i] = Frame{
				Timestamp: f.Timestamp,
				ActorIDs:  append([]int(nil), f.ActorIDs...),
				Positions: append([]mgl64.Vec3(nil), f.Positions...),
				Rotations: append([]mgl64.Vec3(nil), f.Rotations...),
			}
		}
	}
	return out
}
