package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agrimind-ai/agrimind-engine/pkg/apperrors"
	"github.com/agrimind-ai/agrimind-engine/pkg/models"
	"github.com/agrimind-ai/agrimind-engine/pkg/services"
)

// UserMiddleware wraps a handler with a user-scoped database connection.
type UserMiddleware func(http.HandlerFunc) http.HandlerFunc

// RecommendationHandler handles recommendation HTTP requests.
type RecommendationHandler struct {
	recService services.RecommendationService
	logger     *zap.Logger
}

// NewRecommendationHandler creates a new recommendation handler.
func NewRecommendationHandler(recService services.RecommendationService, logger *zap.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		recService: recService,
		logger:     logger,
	}
}

// RegisterRoutes registers the recommendation routes on the given mux.
func (h *RecommendationHandler) RegisterRoutes(mux *http.ServeMux, userMiddleware UserMiddleware) {
	base := "/api/users/{user_id}/recommendations"

	mux.HandleFunc("POST "+base+"/generate", userMiddleware(h.Generate))
	mux.HandleFunc("GET "+base, userMiddleware(h.ListSets))
	mux.HandleFunc("GET "+base+"/{set_id}", userMiddleware(h.GetSet))
	mux.HandleFunc("DELETE "+base+"/{set_id}", userMiddleware(h.DeleteSet))
}

type generateRequest struct {
	Season string `json:"season,omitempty"`
}

type recommendationSetResponse struct {
	Set   *models.RecommendationSet    `json:"set"`
	Items []*models.RecommendationItem `json:"items"`
}

// Generate handles POST /api/users/{user_id}/recommendations/generate
func (h *RecommendationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.writeBadRequest(w, "invalid_request", "Invalid request body")
		return
	}

	var season *models.Season
	if req.Season != "" {
		season = models.ParseSeason(req.Season)
		if season == nil {
			h.writeBadRequest(w, "invalid_season", "Season must be spring, summer, fall or winter")
			return
		}
	}

	set, items, err := h.recService.Generate(r.Context(), userID, season)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidSeason) {
			h.writeBadRequest(w, "invalid_season", "Season must be spring, summer, fall or winter")
			return
		}
		h.logger.Error("Failed to generate recommendations", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "generate_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	h.writeSetResponse(w, http.StatusCreated, set, items)
}

// ListSets handles GET /api/users/{user_id}/recommendations
func (h *RecommendationHandler) ListSets(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r, h.logger)
	if !ok {
		return
	}

	sets, err := h.recService.ListSets(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list recommendation sets", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "list_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if sets == nil {
		sets = make([]*models.RecommendationSet, 0)
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: sets}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// GetSet handles GET /api/users/{user_id}/recommendations/{set_id}
func (h *RecommendationHandler) GetSet(w http.ResponseWriter, r *http.Request) {
	if _, ok := parseUserID(w, r, h.logger); !ok {
		return
	}

	setID, ok := h.parseSetID(w, r)
	if !ok {
		return
	}

	set, items, err := h.recService.GetSet(r.Context(), setID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if err := ErrorResponse(w, http.StatusNotFound, "not_found", "Recommendation set not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to get recommendation set", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "get_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	h.writeSetResponse(w, http.StatusOK, set, items)
}

// DeleteSet handles DELETE /api/users/{user_id}/recommendations/{set_id}
func (h *RecommendationHandler) DeleteSet(w http.ResponseWriter, r *http.Request) {
	if _, ok := parseUserID(w, r, h.logger); !ok {
		return
	}

	setID, ok := h.parseSetID(w, r)
	if !ok {
		return
	}

	if err := h.recService.DeleteSet(r.Context(), setID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if err := ErrorResponse(w, http.StatusNotFound, "not_found", "Recommendation set not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to delete recommendation set", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "delete_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RecommendationHandler) parseSetID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	setID, err := uuid.Parse(r.PathValue("set_id"))
	if err != nil {
		h.writeBadRequest(w, "invalid_set_id", "Invalid set ID format")
		return uuid.Nil, false
	}
	return setID, true
}

func (h *RecommendationHandler) writeBadRequest(w http.ResponseWriter, code, message string) {
	if err := ErrorResponse(w, http.StatusBadRequest, code, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}

func (h *RecommendationHandler) writeSetResponse(w http.ResponseWriter, status int, set *models.RecommendationSet, items []*models.RecommendationItem) {
	if items == nil {
		items = make([]*models.RecommendationItem, 0)
	}
	if err := WriteJSON(w, status, ApiResponse{
		Success: true,
		Data:    recommendationSetResponse{Set: set, Items: items},
	}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// parseUserID extracts and validates the {user_id} path value.
func parseUserID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	userID, err := uuid.Parse(r.PathValue("user_id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_user_id", "Invalid user ID format"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return uuid.Nil, false
	}
	return userID, true
}
