package agent

import "errors"

// Dispatch failure categories. These stay inside the manager boundary:
// they select the apologetic agent message and the failed task state, and
// are never surfaced as transport errors.
var (
	// ErrUpstreamUnavailable indicates the generation service call failed.
	ErrUpstreamUnavailable = errors.New("generation service unavailable")

	// ErrEmptyContext indicates a data-dependent skill found no ingested
	// items to work with.
	ErrEmptyContext = errors.New("no ingested items available")

	// ErrTaskNotFound indicates the requested task does not exist in the
	// manager's registry.
	ErrTaskNotFound = errors.New("task not found")
)
