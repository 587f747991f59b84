package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskState represents the lifecycle state of a conversational task.
type TaskState string

// Possible task state values
const (
	TaskStateSubmitted     TaskState = "submitted"
	TaskStateWorking       TaskState = "working"
	TaskStateInputRequired TaskState = "input-required"
	TaskStateCompleted     TaskState = "completed"
	TaskStateFailed        TaskState = "failed"
)

// Message roles
const (
	RoleUser  = "user"
	RoleAgent = "agent"
)

// Message part kinds
const (
	PartKindText = "text"
	PartKindData = "data"
)

// Common task errors
var (
	ErrTaskIDEmpty        = errors.New("task ID cannot be empty")
	ErrTaskContextIDEmpty = errors.New("task context ID cannot be empty")
	ErrTaskNoMessages     = errors.New("task must carry at least one message")
	ErrInvalidTaskState   = errors.New("invalid task state")
	ErrInvalidStateChange = errors.New("invalid task state transition")
)

// Part is one piece of a message or artifact: either text or a structured
// data payload.
type Part struct {
	Kind string `json:"kind"`
	Text string `json:"text,omitempty"`
	Data any    `json:"data,omitempty"`
}

// TextPart builds a text part.
func TextPart(text string) Part {
	return Part{Kind: PartKindText, Text: text}
}

// DataPart builds a structured data part.
func DataPart(data any) Part {
	return Part{Kind: PartKindData, Data: data}
}

// Message is one entry in a task's conversation, from either the user or
// the agent.
type Message struct {
	Role      string `json:"role"`
	Parts     []Part `json:"parts"`
	MessageID string `json:"messageId,omitempty"`
}

// Text concatenates the message's text parts, separated by single spaces.
func (m Message) Text() string {
	var texts []string
	for _, p := range m.Parts {
		if p.Kind == PartKindText && p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, " ")
}

// Artifact is a named structured payload attached to a completed task.
type Artifact struct {
	Name  string `json:"name"`
	Parts []Part `json:"parts"`
}

// Task represents one tracked unit of conversational work. Tasks are
// ephemeral: they live in the task manager's registry for the lifetime of
// the process and are reconstructible from the request.
type Task struct {
	ID        uuid.UUID  `json:"id"`
	ContextID uuid.UUID  `json:"contextId"`
	State     TaskState  `json:"state"`
	Messages  []Message  `json:"messages"`
	Artifacts []Artifact `json:"artifacts"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// validTransitions encodes the task state machine: submitted → working →
// {completed | failed | input-required}. The three right-hand states are
// terminal for a request/response cycle.
var validTransitions = map[TaskState][]TaskState{
	TaskStateSubmitted: {TaskStateWorking},
	TaskStateWorking:   {TaskStateCompleted, TaskStateFailed, TaskStateInputRequired},
}

// NewTask creates a new Task in the submitted state carrying the incoming
// user message. The context ID groups related tasks into one conversation;
// pass uuid.Nil to mint a fresh one.
func NewTask(contextID uuid.UUID, incoming Message) (*Task, error) {
	if contextID == uuid.Nil {
		contextID = uuid.New()
	}
	now := time.Now().UTC()

	task := &Task{
		ID:        uuid.New(),
		ContextID: contextID,
		State:     TaskStateSubmitted,
		Messages:  []Message{incoming},
		Artifacts: nil,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}
	if t.ContextID == uuid.Nil {
		return ErrTaskContextIDEmpty
	}
	if len(t.Messages) == 0 {
		return ErrTaskNoMessages
	}
	if !isValidTaskState(t.State) {
		return ErrInvalidTaskState
	}
	return nil
}

// Transition moves the task to the given state, enforcing the state
// machine. Returns ErrInvalidStateChange for any edge the machine does not
// allow, including transitions out of terminal states.
func (t *Task) Transition(to TaskState) error {
	if !isValidTaskState(to) {
		return ErrInvalidTaskState
	}
	for _, allowed := range validTransitions[t.State] {
		if allowed == to {
			t.State = to
			t.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidStateChange, t.State, to)
}

// AppendMessage adds a message to the task's conversation.
func (t *Task) AppendMessage(msg Message) {
	t.Messages = append(t.Messages, msg)
	t.UpdatedAt = time.Now().UTC()
}

// AddArtifact attaches a named structured payload to the task.
func (t *Task) AddArtifact(artifact Artifact) {
	t.Artifacts = append(t.Artifacts, artifact)
	t.UpdatedAt = time.Now().UTC()
}

// LastMessage returns the most recent message, or nil for an empty task.
func (t *Task) LastMessage() *Message {
	if len(t.Messages) == 0 {
		return nil
	}
	return &t.Messages[len(t.Messages)-1]
}

// Terminal reports whether the task has reached a state that ends the
// current request/response cycle.
func (t *Task) Terminal() bool {
	switch t.State {
	case TaskStateCompleted, TaskStateFailed, TaskStateInputRequired:
		return true
	}
	return false
}

func isValidTaskState(s TaskState) bool {
	switch s {
	case TaskStateSubmitted, TaskStateWorking, TaskStateInputRequired,
		TaskStateCompleted, TaskStateFailed:
		return true
	}
	return false
}
