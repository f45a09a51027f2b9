// Package logging builds the logrus loggers shared by the recorder,
// exporters and playback.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Config selects the log level and output format.
type Config struct {
	Level  string `json:"level" yaml:"level"`   // logrus level name, e.g. "info"
	Format string `json:"format" yaml:"format"` // "text" or "json"
}

// New builds a logger writing to stderr.
func New(cfg Config) (*logrus.Logger, error) {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter builds a logger writing to w.
func NewWithWriter(cfg Config, w io.Writer) (*logrus.Logger, error) {
	lg := logrus.New()
	lg.Out = w

	level := cfg.Level
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	lg.Level = lvl

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		lg.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	case "json":
		lg.Formatter = &logrus.JSONFormatter{}
	default:
		return nil, fmt.Errorf("unknown log format %q, must be one of: text, json", cfg.Format)
	}
	return lg, nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	lg := logrus.New()
	lg.Out = io.Discard
	lg.Level = logrus.PanicLevel
	return lg
}

// OrDiscard returns lg, or a discarding logger when lg is nil.
func OrDiscard(lg *logrus.Logger) *logrus.Logger {
	if lg == nil {
		return Discard()
	}
	return lg
}
