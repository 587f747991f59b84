package api

import (
	"newsagent/internal/domain"
)

// JSON-RPC 2.0 error codes used by the A2A surface.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInternalError  = -32603
	codeTaskNotFound   = -32001
)

// JSONRPCRequest is the request envelope for the A2A endpoint.
type JSONRPCRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      any           `json:"id"`
	Method  string        `json:"method"`
	Params  RequestParams `json:"params"`
}

// RequestParams carries the union of parameters across the supported
// methods: message/send sends a single message, execute continues an
// existing conversation with a message batch.
type RequestParams struct {
	Message   *IncomingMessage  `json:"message,omitempty"`
	Messages  []IncomingMessage `json:"messages,omitempty"`
	ContextID string            `json:"contextId,omitempty"`
	TaskID    string            `json:"taskId,omitempty"`
}

// IncomingMessage is the wire shape of a message sent by a client.
type IncomingMessage struct {
	Kind      string         `json:"kind,omitempty"`
	Role      string         `json:"role" validate:"required,oneof=user agent"`
	Parts     []IncomingPart `json:"parts" validate:"required,min=1,dive"`
	MessageID string         `json:"messageId,omitempty"`
}

// IncomingPart is the wire shape of one message part.
type IncomingPart struct {
	Kind string `json:"kind" validate:"required,oneof=text data"`
	Text string `json:"text,omitempty"`
}

// JSONRPCResponse is the response envelope for the A2A endpoint.
type JSONRPCResponse struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      any           `json:"id"`
	Result  any           `json:"result,omitempty"`
	Error   *JSONRPCError `json:"error,omitempty"`
}

// JSONRPCError is the structured error object for protocol-level failures
// (malformed request shape, unknown method, internal dispatch failure).
type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// TaskStatus is the wire shape of a task's state plus its latest agent
// message.
type TaskStatus struct {
	State   domain.TaskState `json:"state"`
	Message *domain.Message  `json:"message,omitempty"`
}

// TaskResult is the task snapshot returned by both A2A methods.
type TaskResult struct {
	ID        string            `json:"id"`
	ContextID string            `json:"contextId"`
	Status    TaskStatus        `json:"status"`
	Artifacts []domain.Artifact `json:"artifacts"`
	History   []domain.Message  `json:"history"`
}

// newTaskResult builds the snapshot for a finalized task.
func newTaskResult(task *domain.Task, history []domain.Message) TaskResult {
	result := TaskResult{
		ID:        task.ID.String(),
		ContextID: task.ContextID.String(),
		Status:    TaskStatus{State: task.State, Message: task.LastMessage()},
		Artifacts: task.Artifacts,
		History:   history,
	}
	if result.Artifacts == nil {
		result.Artifacts = []domain.Artifact{}
	}
	return result
}
