package intersection

import "fmt"

// EventLogger records named events at a simulation time. The recorder
// Service satisfies it.
type EventLogger interface {
	LogEvent(name, contents string, now float64) error
}

// Cycle toggles a controller on a fixed period and logs each change so a
// recording can reproduce the signal timing.
type Cycle struct {
	Controller *Controller
	Events     EventLogger // optional
	Period     float64     // seconds between toggles
	Change     Change

	last    float64
	started bool
}

// DefaultCycle toggles every six seconds with two seconds of yellow and
// half a second of clearance.
func DefaultCycle(c *Controller, events EventLogger) *Cycle {
	return &Cycle{
		Controller: c,
		Events:     events,
		Period:     6,
		Change:     Change{Tag: "toggle", Yellow: 2, Clearance: 0.5},
	}
}

// Tick updates the lights and toggles once a full period has passed since
// the previous toggle. The first call toggles immediately. It reports
// whether a toggle happened.
func (cy *Cycle) Tick(now float64) (bool, error) {
	cy.Controller.Update(now)
	if cy.started && now-cy.last < cy.Period {
		return false, nil
	}
	cy.started = true
	cy.last = now

	cy.Controller.Toggle(cy.Change.Yellow, cy.Change.Clearance)
	if cy.Events == nil {
		return true, nil
	}
	if err := cy.Events.LogEvent(EventName, cy.Change.String(), now); err != nil {
		return true, fmt.Errorf("logging light change: %w", err)
	}
	return true, nil
}
