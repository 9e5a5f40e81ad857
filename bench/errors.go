package bench

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRange is returned when a key is sampled from an empty range.
	ErrInvalidRange = errors.New("key range must be greater than zero")

	// ErrColumnMismatch signals a row whose width differs from the
	// result-set metadata the executor observed.
	ErrColumnMismatch = errors.New("column count mismatch")
)

// ConnectionError wraps a failure to establish a session.
type ConnectionError struct {
	Driver string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s connect: %v", e.Driver, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// QueryError is a driver-reported failure of one query. It never aborts a run.
type QueryError struct {
	Code    string
	Message string
	Err     error
}

func (e *QueryError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Classifier turns a native driver error into a QueryError.
type Classifier func(err error) *QueryError

// AsQueryError classifies err with fn, falling back to a code-less
// QueryError carrying the error text.
func AsQueryError(err error, fn Classifier) *QueryError {
	if err == nil {
		return nil
	}
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe
	}
	if fn != nil {
		if qe = fn(err); qe != nil {
			return qe
		}
	}
	return &QueryError{Message: err.Error(), Err: err}
}
