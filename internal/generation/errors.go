package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when a generation call fails for any
	// general reason after retries are exhausted.
	ErrGenerationFailed = errors.New("generation service call failed")

	// ErrInvalidResponse is returned when the model response is empty or
	// cannot be used.
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the model blocks the content due
	// to safety filters. Not retryable.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrInvalidConfig is returned when the generator configuration is invalid.
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
