package quiz

import "errors"

var (
	// ErrNoResults means the source answered with zero questions.
	ErrNoResults         = errors.New("no questions found for these parameters")
	ErrInvalidParams     = errors.New("invalid quiz parameters")
	ErrIncompleteAnswers = errors.New("every question must be answered before submitting")
	ErrInvalidState      = errors.New("operation not allowed in current phase")
	ErrOutOfRange        = errors.New("selection out of range")
	// ErrSuperseded is returned by Start when a newer Start or Reset
	// replaced the session before the fetch resolved.
	ErrSuperseded        = errors.New("quiz start superseded")
)

// TransportError wraps a network or decoding failure talking to the question source.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "fetch questions: " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport reports whether err is, or wraps, a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
