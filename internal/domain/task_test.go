package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func userMessage(text string) Message {
	return Message{
		Role:      RoleUser,
		Parts:     []Part{TextPart(text)},
		MessageID: uuid.NewString(),
	}
}

func TestNewTask(t *testing.T) {
	t.Parallel()

	task, err := NewTask(uuid.Nil, userMessage("fetch news"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.ID == uuid.Nil {
		t.Error("Expected non-nil task ID")
	}

	if task.ContextID == uuid.Nil {
		t.Error("Expected a fresh context ID to be minted for uuid.Nil")
	}

	if task.State != TaskStateSubmitted {
		t.Errorf("Expected state %s, got %s", TaskStateSubmitted, task.State)
	}

	if len(task.Messages) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(task.Messages))
	}

	// An explicit context ID is preserved.
	contextID := uuid.New()
	task, err = NewTask(contextID, userMessage("hello"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if task.ContextID != contextID {
		t.Errorf("Expected context ID %s, got %s", contextID, task.ContextID)
	}
}

func TestTaskTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		from    TaskState
		to      TaskState
		wantErr bool
	}{
		{"submitted to working", TaskStateSubmitted, TaskStateWorking, false},
		{"working to completed", TaskStateWorking, TaskStateCompleted, false},
		{"working to failed", TaskStateWorking, TaskStateFailed, false},
		{"working to input-required", TaskStateWorking, TaskStateInputRequired, false},
		{"submitted to completed", TaskStateSubmitted, TaskStateCompleted, true},
		{"submitted to failed", TaskStateSubmitted, TaskStateFailed, true},
		{"completed is terminal", TaskStateCompleted, TaskStateWorking, true},
		{"failed is terminal", TaskStateFailed, TaskStateWorking, true},
		{"input-required is terminal", TaskStateInputRequired, TaskStateCompleted, true},
		{"working to submitted", TaskStateWorking, TaskStateSubmitted, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			task, err := NewTask(uuid.New(), userMessage("hi"))
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			task.State = tt.from

			err = task.Transition(tt.to)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidStateChange) {
					t.Errorf("Expected ErrInvalidStateChange, got %v", err)
				}
				if task.State != tt.from {
					t.Errorf("Rejected transition mutated state to %s", task.State)
				}
			} else {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				if task.State != tt.to {
					t.Errorf("Expected state %s, got %s", tt.to, task.State)
				}
			}
		})
	}
}

func TestMessageText(t *testing.T) {
	t.Parallel()

	msg := Message{
		Role: RoleUser,
		Parts: []Part{
			TextPart("fetch"),
			DataPart(map[string]string{"k": "v"}),
			TextPart("news"),
		},
	}

	if got := msg.Text(); got != "fetch news" {
		t.Errorf("Expected %q, got %q", "fetch news", got)
	}

	empty := Message{Role: RoleUser, Parts: []Part{DataPart(42)}}
	if got := empty.Text(); got != "" {
		t.Errorf("Expected empty text, got %q", got)
	}
}

func TestTaskTerminal(t *testing.T) {
	t.Parallel()

	task, err := NewTask(uuid.New(), userMessage("hi"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.Terminal() {
		t.Error("Submitted task should not be terminal")
	}

	task.State = TaskStateWorking
	if task.Terminal() {
		t.Error("Working task should not be terminal")
	}

	for _, s := range []TaskState{TaskStateCompleted, TaskStateFailed, TaskStateInputRequired} {
		task.State = s
		if !task.Terminal() {
			t.Errorf("State %s should be terminal", s)
		}
	}
}

func TestTaskAppendAndArtifacts(t *testing.T) {
	t.Parallel()

	task, err := NewTask(uuid.New(), userMessage("summarize"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	reply := Message{Role: RoleAgent, Parts: []Part{TextPart("Here you go.")}}
	task.AppendMessage(reply)

	last := task.LastMessage()
	if last == nil || last.Role != RoleAgent {
		t.Fatalf("Expected agent reply as last message, got %+v", last)
	}

	task.AddArtifact(Artifact{Name: "headlines.json", Parts: []Part{DataPart([]string{"a"})}})
	if len(task.Artifacts) != 1 || task.Artifacts[0].Name != "headlines.json" {
		t.Errorf("Unexpected artifacts %+v", task.Artifacts)
	}
}
