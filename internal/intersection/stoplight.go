package intersection

import "math"

// Color is the lit aspect of a stop light.
type Color int

const (
	Green Color = iota
	Yellow
	Red
)

func (c Color) String() string {
	switch c {
	case Green:
		return "green"
	case Yellow:
		return "yellow"
	case Red:
		return "red"
	default:
		return "unknown"
	}
}

type change struct {
	at    float64
	color Color
}

// StopLight is a single signal head with a queue of timed changes.
type StopLight struct {
	Name   string
	color  Color
	queued []change
}

// NewStopLight creates a light showing c.
func NewStopLight(name string, c Color) *StopLight {
	return &StopLight{Name: name, color: c}
}

// Color returns the aspect currently shown.
func (l *StopLight) Color() Color {
	return l.color
}

// Set changes the light immediately.
func (l *StopLight) Set(c Color) {
	l.color = c
}

// SetAfter queues a change to c once |delay| seconds have passed since now.
func (l *StopLight) SetAfter(c Color, now, delay float64) {
	l.queued = append(l.queued, change{at: now + math.Abs(delay), color: c})
}

// Pending returns the number of queued changes.
func (l *StopLight) Pending() int {
	return len(l.queued)
}

// Update applies every queued change due at now, in the order they were
// queued.
func (l *StopLight) Update(now float64) {
	keep := l.queued[:0]
	for _, ch := range l.queued {
		if ch.at <= now {
			l.color = ch.color
			continue
		}
		keep = append(keep, ch)
	}
	l.queued = keep
}
