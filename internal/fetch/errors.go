package fetch

import (
	"github.com/cockroachdb/errors"
)

// ErrRequestFailed is returned for any non-success HTTP status.
var ErrRequestFailed = errors.New("Something went wrong :/")

// ErrCancelled matches every *CancelledError via errors.Is.
var ErrCancelled = errors.New("fetch cancelled")

// CancelledError reports that the handle was aborted before the fetch completed.
type CancelledError struct {
	Reason string
	cause  error
}

func (e *CancelledError) Error() string {
	return "fetch cancelled: " + e.Reason
}

func (e *CancelledError) Unwrap() error { return e.cause }

func (e *CancelledError) Is(target error) bool { return target == ErrCancelled }

// IsCancelled returns the abort reason when err is a cancellation.
func IsCancelled(err error) (string, bool) {
	var cancelled *CancelledError
	if errors.As(err, &cancelled) {
		return cancelled.Reason, true
	}
	return "", false
}
