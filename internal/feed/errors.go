package feed

import "fmt"

// ErrorKind classifies a fetch failure.
type ErrorKind string

// Fetch failure kinds
const (
	// ErrorKindNetwork covers unreachable hosts and timeouts. Retryable
	// on the next cycle.
	ErrorKindNetwork ErrorKind = "network"

	// ErrorKindParse covers malformed feed documents. Not retryable for
	// this cycle.
	ErrorKindParse ErrorKind = "parse"

	// ErrorKindHTTPStatus covers non-success HTTP responses. Retryable
	// for 5xx, terminal for the source on 4xx.
	ErrorKindHTTPStatus ErrorKind = "http-status"
)

// FetchError describes a failed fetch of one feed source.
type FetchError struct {
	Kind   ErrorKind
	Source string
	Status int // HTTP status code, set for ErrorKindHTTPStatus
	Err    error
}

func (e *FetchError) Error() string {
	if e.Kind == ErrorKindHTTPStatus {
		return fmt.Sprintf("fetch %s: %s %d", e.Source, e.Kind, e.Status)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.Source, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the next scheduled cycle may reasonably retry
// this source.
func (e *FetchError) Retryable() bool {
	switch e.Kind {
	case ErrorKindNetwork:
		return true
	case ErrorKindHTTPStatus:
		return e.Status >= 500
	}
	return false
}
