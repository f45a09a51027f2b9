// Package playback replays a recording onto actor representations and
// redelivers its events to handlers registered by name.
package playback

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"github.com/SmitUplenchwar2687/Replica/internal/actor"
	"github.com/SmitUplenchwar2687/Replica/internal/clock"
	"github.com/SmitUplenchwar2687/Replica/internal/logging"
	"github.com/SmitUplenchwar2687/Replica/internal/recording"
)

// ErrNoRecording is returned by New when given a nil recording.
var ErrNoRecording = errors.New("playback: no recording")

// ErrBadTimestamp is returned by New for a frame or event whose time is
// NaN or infinite. Such an entry can never become due.
var ErrBadTimestamp = errors.New("playback: non-finite timestamp")

func finite(t float64) bool {
	return !math.IsNaN(t) && !math.IsInf(t, 0)
}

// Representation is the replay-side stand-in for a recorded actor.
type Representation interface {
	SetTransform(pos, rot mgl64.Vec3)
}

// Spawner creates the representation for a recorded actor.
type Spawner interface {
	Spawn(h actor.Handle) (Representation, error)
}

// SpawnerFunc adapts a function to Spawner.
type SpawnerFunc func(h actor.Handle) (Representation, error)

func (f SpawnerFunc) Spawn(h actor.Handle) (Representation, error) {
	return f(h)
}

// EventHandler receives replayed events.
type EventHandler interface {
	HandleEvent(name, contents string)
}

// HandlerFunc adapts a function to EventHandler.
type HandlerFunc func(name, contents string)

func (f HandlerFunc) HandleEvent(name, contents string) {
	f(name, contents)
}

// Step reports what one Advance call did.
type Step struct {
	Time       float64 `json:"time"`
	Frames     int     `json:"frames"`     // frames applied
	Events     int     `json:"events"`     // events delivered to at least one handler
	Dropped    int     `json:"dropped"`    // events with no registered handler
	Suppressed int     `json:"suppressed"` // actor updates skipped for the sentinel position
}

// Summary aggregates a full run.
type Summary struct {
	Recording    string        `json:"recording"`
	TotalFrames  int           `json:"total_frames"`
	TotalEvents  int           `json:"total_events"`
	Frames       int           `json:"frames"`
	Events       int           `json:"events"`
	Dropped      int           `json:"dropped"`
	Suppressed   int           `json:"suppressed"`
	Duration     time.Duration `json:"duration"`      // recorded time span replayed
	WallDuration time.Duration `json:"wall_duration"` // time the run took on its clock
}

func (s *Summary) add(step Step) {
	s.Frames += step.Frames
	s.Events += step.Events
	s.Dropped += step.Dropped
	s.Suppressed += step.Suppressed
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithFilter restricts what is replayed.
func WithFilter(f Filter) Option {
	return func(d *Dispatcher) { d.filter = f }
}

// OnAdvance registers fn to be called with the target time at the start of
// every Advance, before any frame or event is applied. Handlers that keep
// their own timers use it to stay in step with playback.
func OnAdvance(fn func(t float64)) Option {
	return func(d *Dispatcher) { d.onAdvance = fn }
}

// WithLogger sets the logger.
func WithLogger(lg *logrus.Logger) Option {
	return func(d *Dispatcher) { d.log = logging.OrDiscard(lg) }
}

// Dispatcher walks a recording's frames and events in time order.
// It is not safe for concurrent use.
type Dispatcher struct {
	name     string
	reps     *orderedmap.OrderedMap[int, Representation]
	frames   []recording.Frame
	events   []recording.Event
	nFrames  int
	nEvents  int
	handlers map[string][]EventHandler
	filter   Filter
	log      *logrus.Logger

	onAdvance func(t float64)

	frameCur int
	eventCur int
}

// New prepares rec for playback and spawns one representation per
// recorded actor.
func New(rec *recording.Recording, spawner Spawner, opts ...Option) (*Dispatcher, error) {
	if rec == nil {
		return nil, ErrNoRecording
	}
	if spawner == nil {
		return nil, fmt.Errorf("playback: spawner is required")
	}

	d := &Dispatcher{
		name:     rec.Name,
		reps:     orderedmap.NewOrderedMap[int, Representation](),
		handlers: make(map[string][]EventHandler),
		log:      logging.Discard(),
		nFrames:  len(rec.Frames),
		nEvents:  len(rec.Events),
	}
	for _, opt := range opts {
		opt(d)
	}

	for _, h := range rec.Handles() {
		if _, ok := d.reps.Get(h.ID); ok {
			continue
		}
		rep, err := spawner.Spawn(h)
		if err != nil {
			return nil, fmt.Errorf("spawning actor %d (%s): %w", h.ID, h.Name, err)
		}
		d.reps.Set(h.ID, rep)
	}

	for i, f := range rec.Frames {
		if !finite(f.Timestamp) {
			return nil, fmt.Errorf("%w: frame %d at %v", ErrBadTimestamp, i, f.Timestamp)
		}
		if d.filter.MatchFrame(f) {
			d.frames = append(d.frames, f)
		}
	}
	sort.SliceStable(d.frames, func(i, j int) bool {
		return d.frames[i].Timestamp < d.frames[j].Timestamp
	})
	for i, e := range rec.Events {
		if !finite(e.Time) {
			return nil, fmt.Errorf("%w: event %d (%s) at %v", ErrBadTimestamp, i, e.Name, e.Time)
		}
		if d.filter.MatchEvent(e) {
			d.events = append(d.events, e)
		}
	}
	sort.SliceStable(d.events, func(i, j int) bool {
		return d.events[i].Time < d.events[j].Time
	})

	return d, nil
}

// Handle registers h for events named name. Several handlers may share a
// name; they are called in registration order.
func (d *Dispatcher) Handle(name string, h EventHandler) {
	d.handlers[name] = append(d.handlers[name], h)
}

// Representation returns the representation spawned for actor id.
func (d *Dispatcher) Representation(id int) (Representation, bool) {
	return d.reps.Get(id)
}

// ActorIDs returns the ids of spawned representations in roster order.
func (d *Dispatcher) ActorIDs() []int {
	ids := make([]int, 0, d.reps.Len())
	for el := d.reps.Front(); el != nil; el = el.Next() {
		ids = append(ids, el.Key)
	}
	return ids
}

// Done reports whether every frame and event has been replayed.
func (d *Dispatcher) Done() bool {
	return d.frameCur >= len(d.frames) && d.eventCur >= len(d.events)
}

// Reset rewinds playback to the start.
func (d *Dispatcher) Reset() {
	d.frameCur = 0
	d.eventCur = 0
}

// Advance applies every frame with a timestamp at or before t and
// delivers every event logged at or before t that has not been replayed
// yet. Within one call frames are applied before events.
func (d *Dispatcher) Advance(t float64) Step {
	step := Step{Time: t}
	if math.IsNaN(t) {
		return step
	}
	if d.onAdvance != nil {
		d.onAdvance(t)
	}

	for d.frameCur < len(d.frames) && d.frames[d.frameCur].Timestamp <= t {
		step.Suppressed += d.apply(d.frames[d.frameCur])
		step.Frames++
		d.frameCur++
	}

	for d.eventCur < len(d.events) && d.events[d.eventCur].Time <= t {
		e := d.events[d.eventCur]
		d.eventCur++

		hs := d.handlers[e.Name]
		if len(hs) == 0 {
			d.log.WithFields(logrus.Fields{"recording": d.name, "event": e.Name}).Debug("no handler for event, dropping")
			step.Dropped++
			continue
		}
		for _, h := range hs {
			h.HandleEvent(e.Name, e.Contents)
		}
		step.Events++
	}
	return step
}

func (d *Dispatcher) apply(f recording.Frame) (suppressed int) {
	for i, id := range f.ActorIDs {
		rep, ok := d.reps.Get(id)
		if !ok {
			continue
		}
		if recording.IsSentinel(f.Positions[i]) {
			suppressed++
			continue
		}
		rep.SetTransform(f.Positions[i], f.Rotations[i])
	}
	return suppressed
}

// next returns the earliest time still to be replayed.
func (d *Dispatcher) next() (float64, bool) {
	switch {
	case d.frameCur < len(d.frames) && d.eventCur < len(d.events):
		return min(d.frames[d.frameCur].Timestamp, d.events[d.eventCur].Time), true
	case d.frameCur < len(d.frames):
		return d.frames[d.frameCur].Timestamp, true
	case d.eventCur < len(d.events):
		return d.events[d.eventCur].Time, true
	}
	return 0, false
}

// Run replays from the current position to the end. speed scales the
// recorded gaps (1.0 = real time, 10.0 = 10x); zero replays instantly.
// Waiting is done on clk so runs can be driven by a virtual clock.
// cb, if not nil, is called after each step.
func (d *Dispatcher) Run(ctx context.Context, clk clock.Clock, speed float64, cb func(Step)) (*Summary, error) {
	if !(speed > 0) {
		speed = 0
	}

	summary := &Summary{
		Recording:   d.name,
		TotalFrames: d.nFrames,
		TotalEvents: d.nEvents,
	}
	wallStart := clk.Now()

	first, ok := d.next()
	if !ok {
		return summary, nil
	}
	prev := first

	for {
		t, ok := d.next()
		if !ok {
			break
		}

		if gap := t - prev; gap > 0 && speed > 0 {
			scaled := clock.Duration(gap / speed)
			if scaled > time.Millisecond {
				select {
				case <-ctx.Done():
					return summary, ctx.Err()
				case <-clk.After(scaled):
				}
			}
		}
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		step := d.Advance(t)
		summary.add(step)
		summary.Duration = clock.Duration(t - first)
		prev = t

		if cb != nil {
			cb(step)
		}
	}

	summary.WallDuration = clk.Since(wallStart)
	d.log.WithFields(logrus.Fields{
		"recording": d.name,
		"frames":    summary.Frames,
		"events":    summary.Events,
		"dropped":   summary.Dropped,
	}).Info("playback finished")
	return summary, nil
}
