package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"newsagent/internal/agent"
	"newsagent/internal/api/shared"
	"newsagent/internal/domain"
)

// A2AHandler serves the JSON-RPC protocol surface for conversational
// tasks.
type A2AHandler struct {
	manager   *agent.Manager
	validator *validator.Validate
	logger    *slog.Logger
}

// NewA2AHandler creates a new A2AHandler.
func NewA2AHandler(manager *agent.Manager, logger *slog.Logger) *A2AHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &A2AHandler{
		manager:   manager,
		validator: validator.New(),
		logger:    logger.With("component", "a2a_handler"),
	}
}

// HandleMessage handles POST /a2a/news requests.
//
// Protocol errors (malformed envelope, unknown method, internal failure)
// surface as JSON-RPC error objects. Skill failures do not: they arrive
// as tasks in the failed state, reported as a normal result.
func (h *A2AHandler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req JSONRPCRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		h.respondError(w, r, nil, codeParseError, "Parse error: invalid JSON")
		return
	}

	if req.JSONRPC != "2.0" || req.ID == nil {
		h.respondError(w, r, req.ID, codeInvalidRequest,
			"Invalid Request: jsonrpc must be \"2.0\" and id is required")
		return
	}

	h.logger.Info("received A2A request",
		"method", req.Method,
		"request_id", req.ID)

	switch req.Method {
	case "message/send":
		h.handleMessageSend(w, r, req)
	case "execute":
		h.handleExecute(w, r, req)
	default:
		h.respondError(w, r, req.ID, codeMethodNotFound,
			"Method not found: "+req.Method)
	}
}

func (h *A2AHandler) handleMessageSend(w http.ResponseWriter, r *http.Request, req JSONRPCRequest) {
	if req.Params.Message == nil {
		h.respondError(w, r, req.ID, codeInvalidRequest, "Invalid Request: params.message is required")
		return
	}
	if err := h.validator.Struct(req.Params.Message); err != nil {
		h.respondError(w, r, req.ID, codeInvalidRequest, "Invalid Request: "+err.Error())
		return
	}

	contextID, ok := h.parseContextID(w, r, req)
	if !ok {
		return
	}

	incoming, ok := toDomainMessage(*req.Params.Message)
	if !ok {
		h.respondError(w, r, req.ID, codeInvalidRequest, "Invalid Request: message has no text part")
		return
	}

	h.runTask(w, r, req, contextID, incoming)
}

func (h *A2AHandler) handleExecute(w http.ResponseWriter, r *http.Request, req JSONRPCRequest) {
	if req.Params.ContextID == "" || len(req.Params.Messages) == 0 {
		h.respondError(w, r, req.ID, codeInvalidRequest,
			"Invalid Request: execute requires contextId and messages")
		return
	}

	contextID, ok := h.parseContextID(w, r, req)
	if !ok {
		return
	}

	// An explicit taskId must reference a known task; continuation then
	// proceeds as a new task in the same conversation.
	if req.Params.TaskID != "" {
		taskID, err := uuid.Parse(req.Params.TaskID)
		if err != nil {
			h.respondError(w, r, req.ID, codeInvalidRequest, "Invalid Request: malformed taskId")
			return
		}
		if _, err := h.manager.GetTask(taskID); err != nil {
			h.respondError(w, r, req.ID, codeTaskNotFound, "Task not found: "+req.Params.TaskID)
			return
		}
	}

	incoming, ok := latestUserMessage(req.Params.Messages)
	if !ok {
		h.respondError(w, r, req.ID, codeInvalidRequest,
			"Invalid Request: messages contain no user text part")
		return
	}

	h.runTask(w, r, req, contextID, incoming)
}

// runTask creates, dispatches, and reports one task.
func (h *A2AHandler) runTask(w http.ResponseWriter, r *http.Request, req JSONRPCRequest, contextID uuid.UUID, incoming domain.Message) {
	task, err := h.manager.CreateTask(contextID, incoming)
	if err != nil {
		h.logger.Error("failed to create task",
			"error", err,
			"request_id", req.ID)
		h.respondError(w, r, req.ID, codeInternalError, "Internal error")
		return
	}

	task = h.manager.Dispatch(r.Context(), task)

	result := newTaskResult(task, h.manager.History(task.ContextID))
	shared.RespondWithJSON(w, r, http.StatusOK, JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  result,
	})
}

// parseContextID validates the optional contextId parameter. A missing
// contextId is uuid.Nil, which mints a fresh conversation downstream.
func (h *A2AHandler) parseContextID(w http.ResponseWriter, r *http.Request, req JSONRPCRequest) (uuid.UUID, bool) {
	if req.Params.ContextID == "" {
		return uuid.Nil, true
	}
	contextID, err := uuid.Parse(req.Params.ContextID)
	if err != nil {
		h.respondError(w, r, req.ID, codeInvalidRequest, "Invalid Request: malformed contextId")
		return uuid.Nil, false
	}
	return contextID, true
}

func (h *A2AHandler) respondError(w http.ResponseWriter, r *http.Request, id any, code int, message string) {
	status := http.StatusOK
	if code == codeParseError || code == codeInvalidRequest {
		status = http.StatusBadRequest
	}
	shared.RespondWithJSON(w, r, status, JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &JSONRPCError{Code: code, Message: message},
	})
}

// toDomainMessage converts a validated wire message, reporting false when
// no non-empty text part exists.
func toDomainMessage(msg IncomingMessage) (domain.Message, bool) {
	var parts []domain.Part
	for _, p := range msg.Parts {
		if p.Kind == domain.PartKindText && p.Text != "" {
			parts = append(parts, domain.TextPart(p.Text))
		}
	}
	if len(parts) == 0 {
		return domain.Message{}, false
	}
	messageID := msg.MessageID
	if messageID == "" {
		messageID = uuid.New().String()
	}
	return domain.Message{
		Role:      domain.RoleUser,
		Parts:     parts,
		MessageID: messageID,
	}, true
}

// latestUserMessage picks the most recent user message with a text part
// from an execute batch.
func latestUserMessage(messages []IncomingMessage) (domain.Message, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role != domain.RoleUser {
			continue
		}
		if msg, ok := toDomainMessage(messages[i]); ok {
			return msg, true
		}
	}
	return domain.Message{}, false
}
