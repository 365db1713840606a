package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agrimind-ai/agrimind-engine/pkg/apperrors"
	"github.com/agrimind-ai/agrimind-engine/pkg/models"
	"github.com/agrimind-ai/agrimind-engine/pkg/repositories"
)

const defaultResultListLimit = 50

// AnalysisResultHandler handles analysis result HTTP requests. This is thin
// CRUD plumbing over the repository; no business logic lives here.
type AnalysisResultHandler struct {
	repo   repositories.AnalysisResultRepository
	logger *zap.Logger
}

// NewAnalysisResultHandler creates a new analysis result handler.
func NewAnalysisResultHandler(repo repositories.AnalysisResultRepository, logger *zap.Logger) *AnalysisResultHandler {
	return &AnalysisResultHandler{repo: repo, logger: logger}
}

// RegisterRoutes registers the analysis result routes on the given mux.
func (h *AnalysisResultHandler) RegisterRoutes(mux *http.ServeMux, userMiddleware UserMiddleware) {
	base := "/api/users/{user_id}/analysis-results"

	mux.HandleFunc("POST "+base, userMiddleware(h.Create))
	mux.HandleFunc("GET "+base, userMiddleware(h.List))
	mux.HandleFunc("GET "+base+"/{result_id}", userMiddleware(h.Get))
}

type createAnalysisResultRequest struct {
	Type models.AnalysisType `json:"type"`
	Data json.RawMessage     `json:"data"`
}

// Create handles POST /api/users/{user_id}/analysis-results
func (h *AnalysisResultHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req createAnalysisResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if !models.IsValidAnalysisType(req.Type) {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_type", "Unknown analysis type"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	result := &models.AnalysisResult{
		UserID: userID,
		Type:   req.Type,
		Data:   req.Data,
	}

	if err := h.repo.Create(r.Context(), result); err != nil {
		h.logger.Error("Failed to create analysis result", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "create_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: result}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/users/{user_id}/analysis-results?type=...&limit=...
func (h *AnalysisResultHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r, h.logger)
	if !ok {
		return
	}

	limit := defaultResultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	var results []*models.AnalysisResult
	var err error
	if typeFilter := models.AnalysisType(r.URL.Query().Get("type")); typeFilter != "" {
		if !models.IsValidAnalysisType(typeFilter) {
			if err := ErrorResponse(w, http.StatusBadRequest, "invalid_type", "Unknown analysis type"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		results, err = h.repo.GetByUserAndType(r.Context(), userID, typeFilter, limit)
	} else {
		results, err = h.repo.GetByUser(r.Context(), userID, limit)
	}
	if err != nil {
		h.logger.Error("Failed to list analysis results", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "list_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if results == nil {
		results = make([]*models.AnalysisResult, 0)
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: results}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/users/{user_id}/analysis-results/{result_id}
func (h *AnalysisResultHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := parseUserID(w, r, h.logger); !ok {
		return
	}

	resultID, err := uuid.Parse(r.PathValue("result_id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_result_id", "Invalid result ID format"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	result, err := h.repo.GetByID(r.Context(), resultID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if err := ErrorResponse(w, http.StatusNotFound, "not_found", "Analysis result not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to get analysis result", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "get_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: result}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
