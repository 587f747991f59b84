// Package generation provides the boundary between the agent core and the
// external text-generation service. It defines a narrow capability
// interface (summarize, sentiment analysis, free-form answering over
// recent items) so the core never depends on a specific vendor API
// surface; any implementation satisfying the interface is substitutable,
// including the deterministic stub used in tests.
package generation
