// Package api contains the HTTP-facing handlers: the JSON-RPC A2A
// protocol surface for conversational tasks and the administrative
// boundary for triggering and inspecting ingestion. Handlers validate
// request shape, delegate to the agent and ingest packages, and translate
// outcomes into wire responses; skill failures arrive here already folded
// into the task's state and are never converted into transport errors.
package api
