package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agrimind-ai/agrimind-engine/pkg/apperrors"
	"github.com/agrimind-ai/agrimind-engine/pkg/models"
	"github.com/agrimind-ai/agrimind-engine/pkg/repositories"
)

// ConversationHandler handles chat conversation HTTP requests. Thin CRUD
// plumbing over the repository.
type ConversationHandler struct {
	repo   repositories.ConversationRepository
	logger *zap.Logger
}

// NewConversationHandler creates a new conversation handler.
func NewConversationHandler(repo repositories.ConversationRepository, logger *zap.Logger) *ConversationHandler {
	return &ConversationHandler{repo: repo, logger: logger}
}

// RegisterRoutes registers the conversation routes on the given mux.
func (h *ConversationHandler) RegisterRoutes(mux *http.ServeMux, userMiddleware UserMiddleware) {
	base := "/api/users/{user_id}/conversations"

	mux.HandleFunc("POST "+base, userMiddleware(h.CreateConversation))
	mux.HandleFunc("GET "+base, userMiddleware(h.ListConversations))
	mux.HandleFunc("POST "+base+"/{conversation_id}/messages", userMiddleware(h.SaveMessage))
	mux.HandleFunc("GET "+base+"/{conversation_id}/messages", userMiddleware(h.ListMessages))
}

type createConversationRequest struct {
	Title string `json:"title"`
}

// CreateConversation handles POST /api/users/{user_id}/conversations
func (h *ConversationHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req createConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	conv := &models.Conversation{
		UserID: userID,
		Title:  req.Title,
	}

	if err := h.repo.CreateConversation(r.Context(), conv); err != nil {
		h.logger.Error("Failed to create conversation", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "create_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: conv}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListConversations handles GET /api/users/{user_id}/conversations
func (h *ConversationHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r, h.logger)
	if !ok {
		return
	}

	conversations, err := h.repo.GetByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list conversations", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "list_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if conversations == nil {
		conversations = make([]*models.Conversation, 0)
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: conversations}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

type saveMessageRequest struct {
	Role    models.MessageRole `json:"role"`
	Content string             `json:"content"`
}

// SaveMessage handles POST /api/users/{user_id}/conversations/{conversation_id}/messages
func (h *ConversationHandler) SaveMessage(w http.ResponseWriter, r *http.Request) {
	if _, ok := parseUserID(w, r, h.logger); !ok {
		return
	}

	conversationID, err := uuid.Parse(r.PathValue("conversation_id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_conversation_id", "Invalid conversation ID format"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	var req saveMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	message := &models.ChatMessage{
		ConversationID: conversationID,
		Role:           req.Role,
		Content:        req.Content,
	}

	if err := h.repo.SaveMessage(r.Context(), message); err != nil {
		if errors.Is(err, apperrors.ErrInvalidRole) {
			if err := ErrorResponse(w, http.StatusBadRequest, "invalid_role", "Role must be 'user' or 'assistant'"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to save message", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "save_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: message}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListMessages handles GET /api/users/{user_id}/conversations/{conversation_id}/messages
func (h *ConversationHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	if _, ok := parseUserID(w, r, h.logger); !ok {
		return
	}

	conversationID, err := uuid.Parse(r.PathValue("conversation_id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_conversation_id", "Invalid conversation ID format"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	messages, err := h.repo.GetMessages(r.Context(), conversationID)
	if err != nil {
		h.logger.Error("Failed to list messages", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "list_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if messages == nil {
		messages = make([]*models.ChatMessage, 0)
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: messages}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
