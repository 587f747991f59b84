// Package gemini implements the generation.Generator interface using
// Google's Gemini API. Calls are bounded by a per-request timeout and
// retried with exponential backoff and jitter on transient failures;
// safety blocks and empty responses are permanent and fail immediately.
package gemini
