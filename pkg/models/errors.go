package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the orchestration layer. Transient single-call
// failures from the engine are ordinary wrapped errors; these cover the
// cases callers branch on.
var (
	// ErrNotFound marks a missing clip, track, project path, or checkpoint.
	ErrNotFound = errors.New("not found")

	// ErrOutOfRange marks a fail-fast ordinal validation failure.
	ErrOutOfRange = errors.New("out of range")

	// ErrNoNewClip means a bin snapshot diff produced no new clip ID after
	// an import: either the import silently failed or the file was already
	// in the bin. The diff cannot tell the two apart.
	ErrNoNewClip = errors.New("no new clip appeared in bin")

	// ErrNoTrack means no track of the requested kind exists.
	ErrNoTrack = errors.New("no track of requested kind")
)

// PartialStateError reports that a destructive step succeeded but its
// follow-up failed, leaving the timeline in a state we cannot repair
// automatically. It must reach the caller verbatim, never be retried.
type PartialStateError struct {
	// Lost describes what the destructive step removed.
	Lost string
	// Err is the follow-up failure.
	Err error
}

func (e *PartialStateError) Error() string {
	return fmt.Sprintf("irreversible partial state: %s lost, follow-up failed: %v", e.Lost, e.Err)
}

func (e *PartialStateError) Unwrap() error { return e.Err }
