package service

import (
	"errors"
	"fmt"
)

// Error taxonomy for the extraction pipeline. Everything that can go wrong
// past the request boundary is converted to one of these kinds so the job
// state machine can record a meaningful failure reason.

// ErrEmptyContent is returned when a file reads cleanly but contains no
// usable text.
var ErrEmptyContent = errors.New("no text content could be extracted from the file")

// ErrZeroQuestions is returned when parsing succeeded but no valid question
// survived validation and persistence. The upload flow treats this as fatal
// and rolls the questionnaire back; other callers may treat it as a valid
// empty result.
var ErrZeroQuestions = errors.New("no questions were found or created from the file")

// ErrNotClaimable is returned when an extraction run is requested while the
// questionnaire is not in a claimable status, either because a run is in
// flight or because it already completed.
var ErrNotClaimable = errors.New("extraction is already running or completed for this questionnaire")

// UnsupportedFormatError is a file type outside the accepted set.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %s", e.Format)
}

// ReadFailureError wraps a format library failure on a corrupt or otherwise
// unreadable file. The original library message is preserved for the user.
type ReadFailureError struct {
	Format string
	Err    error
}

func (e *ReadFailureError) Error() string {
	return fmt.Sprintf("failed to read %s file: %v", e.Format, e.Err)
}

func (e *ReadFailureError) Unwrap() error { return e.Err }

// ParseFailureError means the AI response could not be converted into any
// valid candidate, even after the salvage pass. Preview carries a bounded
// slice of the raw response for diagnostics.
type ParseFailureError struct {
	Preview string
	Err     error
}

func (e *ParseFailureError) Error() string {
	return fmt.Sprintf("could not parse AI response: %v (preview: %s)", e.Err, e.Preview)
}

func (e *ParseFailureError) Unwrap() error { return e.Err }
