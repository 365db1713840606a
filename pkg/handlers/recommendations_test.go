package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agrimind-ai/agrimind-engine/pkg/apperrors"
	"github.com/agrimind-ai/agrimind-engine/pkg/models"
)

// mockRecService implements services.RecommendationService.
type mockRecService struct {
	set        *models.RecommendationSet
	items      []*models.RecommendationItem
	sets       []*models.RecommendationSet
	err        error
	gotSeason  *models.Season
	gotUserID  uuid.UUID
	deletedSet uuid.UUID
}

func (m *mockRecService) Generate(_ context.Context, userID uuid.UUID, season *models.Season) (*models.RecommendationSet, []*models.RecommendationItem, error) {
	m.gotUserID = userID
	m.gotSeason = season
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.set, m.items, nil
}

func (m *mockRecService) GetSet(_ context.Context, _ uuid.UUID) (*models.RecommendationSet, []*models.RecommendationItem, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.set, m.items, nil
}

func (m *mockRecService) ListSets(_ context.Context, _ uuid.UUID) ([]*models.RecommendationSet, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.sets, nil
}

func (m *mockRecService) DeleteSet(_ context.Context, setID uuid.UUID) error {
	m.deletedSet = setID
	return m.err
}

// passthroughMiddleware stands in for the user-scope middleware.
func passthroughMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return next
}

func newRecommendationMux(svc *mockRecService) *http.ServeMux {
	mux := http.NewServeMux()
	NewRecommendationHandler(svc, zap.NewNop()).RegisterRoutes(mux, passthroughMiddleware)
	return mux
}

func TestRecommendationHandler_Generate(t *testing.T) {
	userID := uuid.New()
	svc := &mockRecService{
		set: &models.RecommendationSet{
			ID:        uuid.New(),
			UserID:    userID,
			Summary:   "summary",
			CreatedAt: time.Now(),
		},
	}
	mux := newRecommendationMux(svc)

	body := bytes.NewBufferString(`{"season": "Winter"}`)
	req := httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/api/users/%s/recommendations/generate", userID), body)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, userID, svc.gotUserID)
	require.NotNil(t, svc.gotSeason)
	assert.Equal(t, models.SeasonWinter, *svc.gotSeason)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Set   *models.RecommendationSet    `json:"set"`
			Items []*models.RecommendationItem `json:"items"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, svc.set.ID, resp.Data.Set.ID)
	assert.NotNil(t, resp.Data.Items)
}

func TestRecommendationHandler_Generate_EmptyBody(t *testing.T) {
	svc := &mockRecService{set: &models.RecommendationSet{ID: uuid.New()}}
	mux := newRecommendationMux(svc)

	req := httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/api/users/%s/recommendations/generate", uuid.New()), nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Nil(t, svc.gotSeason)
}

func TestRecommendationHandler_Generate_InvalidSeason(t *testing.T) {
	mux := newRecommendationMux(&mockRecService{})

	body := bytes.NewBufferString(`{"season": "monsoon"}`)
	req := httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/api/users/%s/recommendations/generate", uuid.New()), body)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_season")
}

func TestRecommendationHandler_Generate_InvalidUserID(t *testing.T) {
	mux := newRecommendationMux(&mockRecService{})

	req := httptest.NewRequest(http.MethodPost,
		"/api/users/not-a-uuid/recommendations/generate", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_user_id")
}

func TestRecommendationHandler_GetSet_NotFound(t *testing.T) {
	mux := newRecommendationMux(&mockRecService{err: apperrors.ErrNotFound})

	req := httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/users/%s/recommendations/%s", uuid.New(), uuid.New()), nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_found")
}

func TestRecommendationHandler_GetSet_InvalidSetID(t *testing.T) {
	mux := newRecommendationMux(&mockRecService{})

	req := httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/users/%s/recommendations/not-a-uuid", uuid.New()), nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_set_id")
}

func TestRecommendationHandler_ListSets_EmptyIsArray(t *testing.T) {
	mux := newRecommendationMux(&mockRecService{})

	req := httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/users/%s/recommendations", uuid.New()), nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)
}

func TestRecommendationHandler_DeleteSet(t *testing.T) {
	svc := &mockRecService{}
	mux := newRecommendationMux(svc)

	setID := uuid.New()
	req := httptest.NewRequest(http.MethodDelete,
		fmt.Sprintf("/api/users/%s/recommendations/%s", uuid.New(), setID), nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, setID, svc.deletedSet)
}

func TestRecommendationHandler_DeleteSet_NotFound(t *testing.T) {
	mux := newRecommendationMux(&mockRecService{err: apperrors.ErrNotFound})

	req := httptest.NewRequest(http.MethodDelete,
		fmt.Sprintf("/api/users/%s/recommendations/%s", uuid.New(), uuid.New()), nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecommendationHandler_Generate_ServiceError(t *testing.T) {
	mux := newRecommendationMux(&mockRecService{err: errors.New("boom")})

	req := httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/api/users/%s/recommendations/generate", uuid.New()), nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "generate_failed")
}
