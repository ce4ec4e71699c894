package wizard

import (
	"errors"
	"fmt"
)

var (
	// ErrStepLocked is returned when a sub-record is edited outside its owning step
	ErrStepLocked = errors.New("step is read-only")

	// ErrIndexOutOfRange is returned when a list operation addresses a missing entry
	ErrIndexOutOfRange = errors.New("entry index out of range")

	// ErrSubmissionInFlight is returned when an action arrives while a submission is outstanding
	ErrSubmissionInFlight = errors.New("submission already in progress")

	// ErrSessionNotFound is returned when no live wizard session matches the id and owner
	ErrSessionNotFound = errors.New("wizard session not found")

	// ErrAttachmentNotFound is returned when removing an attachment the draft does not hold
	ErrAttachmentNotFound = errors.New("attachment not found")
)

// SubmissionError wraps a failure reported by the submission service
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
