// Package recorder implements the recording service: a fixed-rate sampler
// of actor transforms with start, pause, resume and stop controls.
//
// The service is step driven. The owner calls Tick once per simulation
// step with the current simulation time in seconds; every other operation
// also takes the time explicitly. A Service is not safe for concurrent use.
package recorder

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/SmitUplenchwar2687/Replica/internal/actor"
	"github.com/SmitUplenchwar2687/Replica/internal/export"
	"github.com/SmitUplenchwar2687/Replica/internal/logging"
	"github.com/SmitUplenchwar2687/Replica/internal/recording"
)

// Service owns a Recording while it is being built.
type Service struct {
	source    actor.Source
	fps       float64
	exporters map[recording.Format]export.Exporter
	autosave  []recording.Format
	log       *logrus.Logger
	report    func(error)

	state       State
	current     *recording.Recording
	roster      []actor.Actor
	ids         []int
	lastCapture float64
	pausedAt    float64
	closed      bool
}

// Option configures a Service.
type Option func(*Service)

// WithFPS sets the capture rate. Values are clamped to [1, 1000].
func WithFPS(fps float64) Option {
	return func(s *Service) { s.fps = recording.ClampFPS(fps) }
}

// WithExporter registers the exporter used for its format.
func WithExporter(e export.Exporter) Option {
	return func(s *Service) { s.exporters[e.Format()] = e }
}

// WithExporters registers several exporters.
func WithExporters(es ...export.Exporter) Option {
	return func(s *Service) {
		for _, e := range es {
			s.exporters[e.Format()] = e
		}
	}
}

// WithAutosaveFormats sets the formats Close saves an unfinished recording
// in. The default is the round-trip format only.
func WithAutosaveFormats(formats ...recording.Format) Option {
	return func(s *Service) { s.autosave = append([]recording.Format(nil), formats...) }
}

// WithLogger sets the logger.
func WithLogger(lg *logrus.Logger) Option {
	return func(s *Service) { s.log = logging.OrDiscard(lg) }
}

// WithReporter sets a callback for internal inconsistency errors, e.g. to
// forward them to an error tracker.
func WithReporter(fn func(error)) Option {
	return func(s *Service) { s.report = fn }
}

// New creates a stopped Service that records the actors src lists.
func New(src actor.Source, opts ...Option) *Service {
	s := &Service{
		source:    src,
		fps:       recording.DefaultFPS,
		exporters: make(map[recording.Format]export.Exporter),
		autosave:  []recording.Format{recording.FormatXML},
		log:       logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current lifecycle state.
func (s *Service) State() State {
	return s.state
}

// IsRecording reports whether frames are currently being captured.
func (s *Service) IsRecording() bool {
	return s.state == Recording
}

// FPS returns the effective capture rate.
func (s *Service) FPS() float64 {
	return s.fps
}

// SetFPS changes the capture rate. It fails with ErrServiceBusy while a
// recording is in progress, leaving the previous rate in place.
func (s *Service) SetFPS(fps float64) error {
	if s.state != Stopped {
		return s.stateErr("set fps", ErrServiceBusy)
	}
	s.fps = recording.ClampFPS(fps)
	return nil
}

// Snapshot returns a deep copy of the recording being built, or nil when
// stopped.
func (s *Service) Snapshot() *recording.Recording {
	return s.current.Clone()
}

func (s *Service) stateErr(op string, err error) error {
	return &StateError{Op: op, State: s.state, Err: err}
}

func (s *Service) entry() *logrus.Entry {
	e := s.log.WithField("state", s.state)
	if s.current != nil {
		e = e.WithField("recording", s.current.Name)
	}
	return e
}

// Start begins a new recording named name at time now. The actor roster
// is read from the source once, here, and frame 0 is captured before
// Start returns.
func (s *Service) Start(name string, now float64) error {
	if name == "" {
		return ErrInvalidName
	}
	if s.state != Stopped {
		return s.stateErr("start", ErrAlreadyRecording)
	}

	s.roster = s.source.ListActors()
	handles := make([]actor.Handle, len(s.roster))
	s.ids = make([]int, len(s.roster))
	for i, a := range s.roster {
		if a != nil {
			handles[i] = a.Identity()
		}
		s.ids[i] = handles[i].ID
	}

	s.current = recording.New(name, s.fps, handles)
	s.state = Recording
	s.capture(now)

	s.entry().WithFields(logrus.Fields{"actors": len(handles), "fps": s.fps}).Info("recording started")
	return nil
}

// Pause suspends capture at time now.
func (s *Service) Pause(now float64) error {
	if s.state != Recording {
		return s.stateErr("pause", ErrNotRecording)
	}
	s.pausedAt = now
	s.state = Paused
	s.entry().Debug("recording paused")
	return nil
}

// Resume continues a paused recording at time now. Everything recorded so
// far is shifted later by the time spent paused, as is the last capture
// time, so the next capture falls due as if no time had passed.
func (s *Service) Resume(now float64) error {
	if s.state != Paused {
		return s.stateErr("resume", ErrNotPaused)
	}

	paused := now - s.pausedAt
	s.current.Shift(paused)
	s.lastCapture += paused
	s.state = Recording

	s.entry().WithField("paused", paused).Debug("recording resumed")
	return nil
}

// Tick captures a frame if at least 1/fps seconds have passed since the
// last capture. It reports whether a frame was captured. Ticks outside
// the Recording state do nothing.
func (s *Service) Tick(now float64) bool {
	if s.state != Recording {
		return false
	}
	if now-s.lastCapture < 1/s.fps {
		return false
	}
	s.capture(now)
	return true
}

func (s *Service) capture(now float64) {
	s.lastCapture = now
	s.current.AddFrame(CaptureFrame(s.roster, s.ids, now))
}

// LogEvent appends a named event at time now.
func (s *Service) LogEvent(name, contents string, now float64) error {
	if s.state != Recording {
		return s.stateErr("log event", ErrNotRecording)
	}
	s.current.LogEvent(now, name, contents)
	return nil
}

func (s *Service) checkStoppable(op string) error {
	if s.state != Recording && s.state != Paused {
		return s.stateErr(op, ErrNotRecording)
	}
	if s.current == nil {
		err := s.stateErr(op, ErrInternalInconsistency)
		s.log.WithError(err).Error("no recording held while active")
		if s.report != nil {
			s.report(err)
		}
		return err
	}
	return nil
}

// StopAndSave ends the recording and exports it in each requested format,
// or the round-trip format when none are given. Ownership of the returned
// Recording passes to the caller.
//
// If an export fails the error is returned and the service is left as it
// was, still holding the recording, so the caller can retry or trash it.
func (s *Service) StopAndSave(ctx context.Context, formats ...recording.Format) (*recording.Recording, error) {
	if err := s.checkStoppable("stop and save"); err != nil {
		return nil, err
	}
	if len(formats) == 0 {
		formats = []recording.Format{recording.FormatXML}
	}

	var plan []export.Exporter
	seen := make(map[recording.Format]bool, len(formats))
	for _, f := range formats {
		if seen[f] {
			continue
		}
		seen[f] = true
		e, ok := s.exporters[f]
		if !ok {
			return nil, fmt.Errorf("recorder: stop and save: %w: %q", ErrUnknownFormat, f)
		}
		plan = append(plan, e)
	}

	for _, e := range plan {
		err := e.Export(ctx, s.current)
		if errors.Is(err, export.ErrSerializationTargetMissing) {
			s.entry().WithField("format", e.Format()).Warn("exporter had nothing to save")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("recorder: stop and save: %w", err)
		}
	}

	rec := s.release()
	s.log.WithFields(logrus.Fields{
		"recording": rec.Name,
		"frames":    len(rec.Frames),
		"events":    len(rec.Events),
	}).Info("recording stopped and saved")
	return rec, nil
}

// StopAndTrash ends the recording without saving it. The discarded
// Recording is still returned.
func (s *Service) StopAndTrash() (*recording.Recording, error) {
	if err := s.checkStoppable("stop and trash"); err != nil {
		return nil, err
	}
	rec := s.release()
	s.log.WithField("recording", rec.Name).Info("recording stopped and trashed")
	return rec, nil
}

func (s *Service) release() *recording.Recording {
	rec := s.current
	s.current = nil
	s.roster = nil
	s.ids = nil
	s.state = Stopped
	return rec
}

// Close is the teardown hook for the service's owner. A recording still
// in progress is stopped and saved in the autosave formats so it is not
// lost. If that save fails the service keeps the recording and a later
// Close tries again. Once Close has succeeded further calls do nothing.
func (s *Service) Close() error {
	if s.closed {
		return nil
	}
	if s.state != Stopped {
		s.entry().Warn("service closed while recording, saving")
		if _, err := s.StopAndSave(context.Background(), s.autosave...); err != nil {
			return err
		}
	}
	s.closed = true
	return nil
}
