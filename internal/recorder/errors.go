package recorder

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidName is returned by Start when the recording name is empty.
	ErrInvalidName = errors.New("recording name is required")
	// ErrAlreadyRecording is returned by Start unless the service is stopped.
	ErrAlreadyRecording = errors.New("already recording")
	// ErrNotRecording is returned when an operation needs an active recording.
	ErrNotRecording = errors.New("not recording")
	// ErrNotPaused is returned by Resume unless the service is paused.
	ErrNotPaused = errors.New("not paused")
	// ErrServiceBusy is returned when configuration changes are attempted
	// while a recording is in progress.
	ErrServiceBusy = errors.New("recording in progress")
	// ErrUnknownFormat is returned when no exporter is registered for a
	// requested format.
	ErrUnknownFormat = errors.New("no exporter registered for format")
	// ErrInternalInconsistency means the service is in a state it should
	// never reach. It indicates a bug, not a caller mistake.
	ErrInternalInconsistency = errors.New("internal inconsistency: no recording in progress")
)

// StateError reports an operation attempted in a state that does not
// allow it. It unwraps to one of the sentinel errors above.
type StateError struct {
	Op    string
	State State
	Err   error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("recorder: %s while %s: %v", e.Op, e.State, e.Err)
}

func (e *StateError) Unwrap() error {
	return e.Err
}
