package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"newsagent/internal/domain"
	"newsagent/internal/generation"
	"newsagent/internal/store"
)

// Listing and context-window caps for the skills.
const (
	maxHeadlines    = 15
	summarizeWindow = 20
	sentimentWindow = 25
	answerWindow    = 20
)

// Manager owns the lifecycle of conversational tasks. Tasks are ephemeral:
// they live in an in-process registry keyed by task ID, with conversations
// grouped by context ID. Manager is safe for concurrent use; operations on
// distinct tasks proceed independently.
type Manager struct {
	items     store.ItemStore
	generator generation.Generator
	logger    *slog.Logger

	mu            sync.RWMutex
	tasks         map[uuid.UUID]*domain.Task
	conversations map[uuid.UUID][]domain.Message
}

// NewManager creates a task manager backed by the given item store and
// generation service.
func NewManager(items store.ItemStore, generator generation.Generator, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		items:         items,
		generator:     generator,
		logger:        logger.With("component", "task_manager"),
		tasks:         make(map[uuid.UUID]*domain.Task),
		conversations: make(map[uuid.UUID][]domain.Message),
	}
}

// CreateTask registers a new task for the incoming user message. The
// context ID groups related tasks into one conversation; pass uuid.Nil to
// mint a fresh one. The task is returned already in the working state,
// ready for Dispatch.
func (m *Manager) CreateTask(contextID uuid.UUID, incoming domain.Message) (*domain.Task, error) {
	task, err := domain.NewTask(contextID, incoming)
	if err != nil {
		return nil, err
	}
	if err := task.Transition(domain.TaskStateWorking); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.tasks[task.ID] = task
	m.conversations[task.ContextID] = append(m.conversations[task.ContextID], incoming)
	m.mu.Unlock()

	m.logger.Debug("task created",
		"task_id", task.ID,
		"context_id", task.ContextID)

	return task, nil
}

// GetTask returns the task with the given ID, or ErrTaskNotFound.
func (m *Manager) GetTask(id uuid.UUID) (*domain.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	task, ok := m.tasks[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return task, nil
}

// History returns the accumulated conversation for a context ID.
func (m *Manager) History(contextID uuid.UUID) []domain.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]domain.Message(nil), m.conversations[contextID]...)
}

// Dispatch classifies the task's user command, runs the matching skill,
// and finalizes the task. The task always leaves in a terminal state:
// completed, input-required (sentiment without a topic), or failed with an
// apologetic agent message. Skill errors are absorbed here, never returned.
func (m *Manager) Dispatch(ctx context.Context, task *domain.Task) *domain.Task {
	userText := latestUserText(task)
	intent := domain.Classify(userText)

	m.logger.Info("dispatching task",
		"task_id", task.ID,
		"intent", string(intent.Kind),
		"topic", intent.Topic)

	reply, artifacts, state, err := m.runSkill(ctx, intent)
	if err != nil {
		m.logger.Error("skill failed",
			"task_id", task.ID,
			"intent", string(intent.Kind),
			"error", err)
		reply = failureReply(intent, err)
		state = domain.TaskStateFailed
		artifacts = nil
	}

	agentMsg := domain.Message{
		Role:      domain.RoleAgent,
		Parts:     []domain.Part{domain.TextPart(reply)},
		MessageID: latestMessageID(task),
	}

	task.AppendMessage(agentMsg)
	for _, artifact := range artifacts {
		task.AddArtifact(artifact)
	}
	if terr := task.Transition(state); terr != nil {
		// The state machine only rejects this if the task was already
		// terminal, which Dispatch callers never arrange.
		m.logger.Error("task transition rejected",
			"task_id", task.ID,
			"state", string(state),
			"error", terr)
	}

	m.mu.Lock()
	m.conversations[task.ContextID] = append(m.conversations[task.ContextID], agentMsg)
	m.mu.Unlock()

	return task
}

// runSkill routes the intent to its handler.
func (m *Manager) runSkill(ctx context.Context, intent domain.Intent) (string, []domain.Artifact, domain.TaskState, error) {
	switch intent.Kind {
	case domain.IntentFetch:
		return m.fetchHeadlines(ctx)
	case domain.IntentSummarize:
		return m.summarize(ctx)
	case domain.IntentSentiment:
		return m.analyzeSentiment(ctx, intent.Topic)
	case domain.IntentHelp:
		return helpText, nil, domain.TaskStateCompleted, nil
	default:
		return m.answer(ctx, intent.Text)
	}
}

// headline is the artifact row emitted by the fetch skill.
type headline struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

func (m *Manager) fetchHeadlines(ctx context.Context) (string, []domain.Artifact, domain.TaskState, error) {
	items, err := m.items.ListRecent(ctx, maxHeadlines)
	if err != nil {
		return "", nil, "", fmt.Errorf("%w: listing items: %v", ErrUpstreamUnavailable, err)
	}
	if len(items) == 0 {
		return "", nil, "", ErrEmptyContext
	}

	lines := make([]string, 0, len(items))
	rows := make([]headline, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("- %s (%s)", item.Title, item.Link))
		rows = append(rows, headline{Title: item.Title, Link: item.Link})
	}

	text := "Latest headlines:\n\n"
	for _, line := range lines {
		text += line + "\n"
	}

	artifact := domain.Artifact{
		Name:  "headlines.json",
		Parts: []domain.Part{domain.DataPart(rows)},
	}

	return text, []domain.Artifact{artifact}, domain.TaskStateCompleted, nil
}

func (m *Manager) summarize(ctx context.Context) (string, []domain.Artifact, domain.TaskState, error) {
	items, err := m.items.ListRecent(ctx, summarizeWindow)
	if err != nil {
		return "", nil, "", fmt.Errorf("%w: listing items: %v", ErrUpstreamUnavailable, err)
	}
	if len(items) == 0 {
		return "", nil, "", ErrEmptyContext
	}

	summary, err := m.generator.Summarize(ctx, items)
	if err != nil {
		return "", nil, "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	return summary, nil, domain.TaskStateCompleted, nil
}

func (m *Manager) analyzeSentiment(ctx context.Context, topic string) (string, []domain.Artifact, domain.TaskState, error) {
	if topic == "" {
		// Keep the conversation open: the caller can follow up on the
		// same context ID with a topic.
		prompt := "Which topic should I analyze? For example: 'analyze sentiment on artificial intelligence'."
		return prompt, nil, domain.TaskStateInputRequired, nil
	}

	items, err := m.items.ListRecent(ctx, sentimentWindow)
	if err != nil {
		return "", nil, "", fmt.Errorf("%w: listing items: %v", ErrUpstreamUnavailable, err)
	}
	if len(items) == 0 {
		return "", nil, "", ErrEmptyContext
	}

	matched := filterByTopic(items, topic)
	if len(matched) == 0 {
		text := fmt.Sprintf("No recent headlines mention %q. Try a different topic, or fetch the latest headlines to see what's available.", topic)
		return text, nil, domain.TaskStateCompleted, nil
	}

	analysis, err := m.generator.AnalyzeSentiment(ctx, topic, matched)
	if err != nil {
		return "", nil, "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	return analysis, nil, domain.TaskStateCompleted, nil
}

func (m *Manager) answer(ctx context.Context, question string) (string, []domain.Artifact, domain.TaskState, error) {
	// Free-form answers are grounded on whatever recent items exist; an
	// empty window is acceptable here.
	items, err := m.items.ListRecent(ctx, answerWindow)
	if err != nil {
		return "", nil, "", fmt.Errorf("%w: listing items: %v", ErrUpstreamUnavailable, err)
	}

	reply, err := m.generator.Answer(ctx, question, items)
	if err != nil {
		return "", nil, "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	return reply, nil, domain.TaskStateCompleted, nil
}

const helpText = "I can fetch the latest headlines, summarize recent news, " +
	"and analyze sentiment on a topic.\n" +
	"Examples: 'fetch latest headlines', 'summarize the news', " +
	"'analyze sentiment on artificial intelligence'. " +
	"Anything else, just ask and I'll answer from recent news."

// failureReply phrases a skill failure as a normal conversational message,
// keyed off the dispatch error category.
func failureReply(intent domain.Intent, err error) string {
	switch {
	case errors.Is(err, ErrEmptyContext):
		return "Sorry, I don't have any ingested news yet. Trigger an ingestion cycle or wait for the next scheduled one, then try again."
	case errors.Is(err, ErrUpstreamUnavailable):
		return fmt.Sprintf("Sorry, I couldn't complete your %s request: the analysis service didn't respond. Please try again shortly.", intent.Kind)
	default:
		return "Sorry, something went wrong while handling your request. Please try again."
	}
}

func latestUserText(task *domain.Task) string {
	for i := len(task.Messages) - 1; i >= 0; i-- {
		if task.Messages[i].Role == domain.RoleUser {
			if text := task.Messages[i].Text(); text != "" {
				return text
			}
		}
	}
	return ""
}

func latestMessageID(task *domain.Task) string {
	for i := len(task.Messages) - 1; i >= 0; i-- {
		if task.Messages[i].Role == domain.RoleUser && task.Messages[i].MessageID != "" {
			return task.Messages[i].MessageID
		}
	}
	return uuid.New().String()
}

func filterByTopic(items []*domain.Item, topic string) []*domain.Item {
	needle := strings.ToLower(topic)
	var matched []*domain.Item
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Title), needle) {
			matched = append(matched, item)
		}
	}
	return matched
}
