// Package report forwards programming-error class failures to Sentry.
// Without a DSN it only logs them.
package report

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"

	"github.com/SmitUplenchwar2687/Replica/internal/logging"
)

const flushTimeout = 5 * time.Second

// Config selects the Sentry project.
type Config struct {
	DSN         string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
	Environment string `json:"environment,omitempty" yaml:"environment,omitempty"`
}

// Reporter logs errors and, when configured, sends them to Sentry.
type Reporter struct {
	hub *sentry.Hub
	log *logrus.Logger
}

// New creates a Reporter. An empty DSN yields a log-only reporter.
func New(cfg Config, log *logrus.Logger) (*Reporter, error) {
	r := &Reporter{log: logging.OrDiscard(log)}
	if cfg.DSN == "" {
		return r, nil
	}

	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
	})
	if err != nil {
		return nil, fmt.Errorf("initialising sentry: %w", err)
	}
	r.hub = sentry.NewHub(client, sentry.NewScope())
	return r, nil
}

// NewWithClient creates a Reporter sending through client.
func NewWithClient(client *sentry.Client, log *logrus.Logger) *Reporter {
	return &Reporter{hub: sentry.NewHub(client, sentry.NewScope()), log: logging.OrDiscard(log)}
}

// Enabled reports whether errors are sent to Sentry.
func (r *Reporter) Enabled() bool {
	return r != nil && r.hub != nil
}

// Capture logs err at error level and sends it with tags.
func (r *Reporter) Capture(err error, tags map[string]string) {
	if r == nil || err == nil {
		return
	}
	entry := r.log.WithError(err)
	for k, v := range tags {
		entry = entry.WithField(k, v)
	}
	entry.Error("reporting error")

	if r.hub == nil {
		return
	}
	hub := r.hub.Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
	})
	hub.CaptureException(err)
}

// Recover reports a panic in the calling goroutine and lets it continue
// unwinding. It must be called directly by defer.
func (r *Reporter) Recover() {
	v := recover()
	if v == nil {
		return
	}
	r.log.Errorf("panic: %v", v)
	if r.hub != nil {
		hub := r.hub.Clone()
		hub.Recover(v)
		hub.Flush(flushTimeout)
	}
	panic(v)
}

// Flush waits for queued events to be delivered.
func (r *Reporter) Flush() bool {
	if !r.Enabled() {
		return true
	}
	return r.hub.Flush(flushTimeout)
}
