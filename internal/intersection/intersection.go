// Package intersection models a signalised crossroads whose phase changes
// are recorded as events and replayed from them.
package intersection

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/SmitUplenchwar2687/Replica/internal/logging"
)

// EventName is the event logged for every phase change.
const EventName = "Traffic Light Change"

// maxDelay bounds yellow and clearance durations, in seconds.
const maxDelay = 100000

// Change is the payload of a phase change event.
type Change struct {
	Tag       string
	Yellow    float64 // seconds the stopping road shows yellow
	Clearance float64 // extra seconds before the other road turns green
}

// String formats c as event contents: "<tag>,<yellow>,<clearance>".
func (c Change) String() string {
	return fmt.Sprintf("%s,%s,%s", c.Tag,
		strconv.FormatFloat(c.Yellow, 'f', -1, 64),
		strconv.FormatFloat(c.Clearance, 'f', -1, 64))
}

// ParseChange parses event contents written by Change.String.
func ParseChange(contents string) (Change, error) {
	parts := strings.Split(contents, ",")
	if len(parts) < 3 {
		return Change{}, fmt.Errorf("parsing %q: want tag,yellow,clearance", contents)
	}
	yellow, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Change{}, fmt.Errorf("parsing yellow duration: %w", err)
	}
	clearance, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err != nil {
		return Change{}, fmt.Errorf("parsing clearance duration: %w", err)
	}
	return Change{Tag: parts[0], Yellow: yellow, Clearance: clearance}, nil
}

// Controller drives two groups of lights, north/south and east/west, so
// that exactly one group is released at a time. North/south starts green.
//
// The controller keeps the simulation time of its latest Update and uses
// it for changes requested through HandleEvent, which carries no time.
type Controller struct {
	northSouth []*StopLight
	eastWest   []*StopLight
	nsGreen    bool
	now        float64
	log        *logrus.Logger
}

// NewController creates a controller over the given light groups.
func NewController(northSouth, eastWest []*StopLight, log *logrus.Logger) *Controller {
	c := &Controller{
		northSouth: northSouth,
		eastWest:   eastWest,
		log:        logging.OrDiscard(log),
	}
	c.release(c.northSouth, 0)
	c.hold(c.eastWest, 0)
	c.nsGreen = true
	return c
}

// NorthSouthGreen reports whether the north/south road is the released one.
func (c *Controller) NorthSouthGreen() bool {
	return c.nsGreen
}

// Lights returns both groups.
func (c *Controller) Lights() (northSouth, eastWest []*StopLight) {
	return c.northSouth, c.eastWest
}

// Update advances every light to simulation time now.
func (c *Controller) Update(now float64) {
	c.now = now
	for _, l := range c.northSouth {
		l.Update(now)
	}
	for _, l := range c.eastWest {
		l.Update(now)
	}
}

// Toggle swaps the released road. The released road goes yellow, then red
// after yellow seconds; the held road goes green after yellow+clearance.
func (c *Controller) Toggle(yellow, clearance float64) {
	if c.nsGreen {
		c.hold(c.northSouth, yellow)
		c.release(c.eastWest, yellow+clearance)
	} else {
		c.hold(c.eastWest, yellow)
		c.release(c.northSouth, yellow+clearance)
	}
	c.nsGreen = !c.nsGreen
	c.log.WithFields(logrus.Fields{
		"yellow":      yellow,
		"clearance":   clearance,
		"north_south": c.nsGreen,
	}).Debug("toggled intersection")
}

func clampDelay(d float64) float64 {
	return min(max(d, 0), maxDelay)
}

func (c *Controller) hold(lights []*StopLight, delay float64) {
	for _, l := range lights {
		if delay == 0 {
			l.Set(Red)
			continue
		}
		l.Set(Yellow)
		l.SetAfter(Red, c.now, clampDelay(delay))
	}
}

func (c *Controller) release(lights []*StopLight, delay float64) {
	for _, l := range lights {
		if delay == 0 {
			l.Set(Green)
			continue
		}
		l.SetAfter(Green, c.now, clampDelay(delay))
	}
}

// HandleEvent applies replayed phase change events. Malformed contents are
// logged and ignored.
func (c *Controller) HandleEvent(name, contents string) {
	if name != EventName {
		return
	}
	ch, err := ParseChange(contents)
	if err != nil {
		c.log.WithError(err).WithField("event", name).Warn("ignoring malformed event")
		return
	}
	c.Toggle(ch.Yellow, ch.Clearance)
}
