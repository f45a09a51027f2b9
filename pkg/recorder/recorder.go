// Package recorder exposes the recording service for embedding in a host
// scene.
package recorder

import (
	"github.com/SmitUplenchwar2687/Replica/internal/actor"
	"github.com/SmitUplenchwar2687/Replica/internal/archive"
	"github.com/SmitUplenchwar2687/Replica/internal/export"
	internalrecorder "github.com/SmitUplenchwar2687/Replica/internal/recorder"
)

// Service samples actors at a fixed rate and saves the result.
type Service = internalrecorder.Service

// Option configures a Service.
type Option = internalrecorder.Option

// State is the recorder lifecycle state.
type State = internalrecorder.State

// Actor is a recordable scene entity.
type Actor = actor.Actor

// Source lists the actors to record.
type Source = actor.Source

const (
	Stopped   = internalrecorder.Stopped
	Recording = internalrecorder.Recording
	Paused    = internalrecorder.Paused
)

var (
	WithFPS             = internalrecorder.WithFPS
	WithAutosaveFormats = internalrecorder.WithAutosaveFormats
	WithLogger          = internalrecorder.WithLogger
	WithReporter        = internalrecorder.WithReporter
)

// New creates a stopped recorder over src.
func New(src Source, opts ...Option) *Service {
	return internalrecorder.New(src, opts...)
}

// WithDirectory saves recordings in every supported format under dir.
func WithDirectory(dir string) Option {
	return internalrecorder.WithExporters(export.All(archive.NewDir(dir), nil)...)
}
