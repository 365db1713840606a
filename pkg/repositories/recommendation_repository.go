package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/agrimind-ai/agrimind-engine/pkg/apperrors"
	"github.com/agrimind-ai/agrimind-engine/pkg/database"
	"github.com/agrimind-ai/agrimind-engine/pkg/models"
)

// RecommendationRepository provides data access for recommendation sets and
// their items. Deleting a set cascades to its items in application code;
// the schema carries no FK constraint between the two tables.
type RecommendationRepository interface {
	CreateSet(ctx context.Context, userID uuid.UUID, summary string) (*models.RecommendationSet, error)
	CreateItem(ctx context.Context, setID uuid.UUID, candidate *models.RecommendationCandidate) (*models.RecommendationItem, error)
	GetSet(ctx context.Context, setID uuid.UUID) (*models.RecommendationSet, error)
	GetItems(ctx context.Context, setID uuid.UUID) ([]*models.RecommendationItem, error)
	ListSetsByUser(ctx context.Context, userID uuid.UUID) ([]*models.RecommendationSet, error)
	DeleteSet(ctx context.Context, setID uuid.UUID) error
}

type recommendationRepository struct{}

// NewRecommendationRepository creates a new RecommendationRepository.
func NewRecommendationRepository() RecommendationRepository {
	return &recommendationRepository{}
}

var _ RecommendationRepository = (*recommendationRepository)(nil)

func (r *recommendationRepository) CreateSet(ctx context.Context, userID uuid.UUID, summary string) (*models.RecommendationSet, error) {
	scope, ok := database.GetUserScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no user scope in context")
	}

	set := &models.RecommendationSet{
		ID:        uuid.New(),
		UserID:    userID,
		Summary:   summary,
		CreatedAt: time.Now(),
	}

	query := `
		INSERT INTO recommendation_sets (id, user_id, summary, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := scope.Conn.Exec(ctx, query, set.ID, set.UserID, set.Summary, set.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save recommendation set: %w", err)
	}

	return set, nil
}

func (r *recommendationRepository) CreateItem(ctx context.Context, setID uuid.UUID, candidate *models.RecommendationCandidate) (*models.RecommendationItem, error) {
	scope, ok := database.GetUserScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no user scope in context")
	}

	item := &models.RecommendationItem{
		ID:          uuid.New(),
		SetID:       setID,
		Type:        candidate.Type,
		Title:       candidate.Title,
		Description: candidate.Description,
		// Exact decimal text, not a binary float, so the stored value
		// survives round-trips without drift.
		Confidence: strconv.FormatFloat(candidate.Confidence, 'f', 2, 64),
		Data:       candidate.Data,
		Source:     candidate.Source,
		CreatedAt:  time.Now(),
	}

	var dataJSON []byte
	if candidate.Data != nil {
		var err error
		dataJSON, err = json.Marshal(candidate.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal item data: %w", err)
		}
	}

	query := `
		INSERT INTO recommendation_items (
			id, set_id, type, title, description, confidence, data, source, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := scope.Conn.Exec(ctx, query,
		item.ID, item.SetID, item.Type, item.Title, item.Description,
		item.Confidence, dataJSON, item.Source, item.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save recommendation item: %w", err)
	}

	return item, nil
}

func (r *recommendationRepository) GetSet(ctx context.Context, setID uuid.UUID) (*models.RecommendationSet, error) {
	scope, ok := database.GetUserScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no user scope in context")
	}

	query := `
		SELECT id, user_id, summary, created_at
		FROM recommendation_sets
		WHERE id = $1`

	var set models.RecommendationSet
	err := scope.Conn.QueryRow(ctx, query, setID).Scan(
		&set.ID, &set.UserID, &set.Summary, &set.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan recommendation set: %w", err)
	}

	return &set, nil
}

func (r *recommendationRepository) GetItems(ctx context.Context, setID uuid.UUID) ([]*models.RecommendationItem, error) {
	scope, ok := database.GetUserScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no user scope in context")
	}

	// Items were inserted in ranked order; created_at preserves that order.
	query := `
		SELECT id, set_id, type, title, description, confidence, data, source, created_at
		FROM recommendation_items
		WHERE set_id = $1
		ORDER BY created_at ASC`

	rows, err := scope.Conn.Query(ctx, query, setID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendation items: %w", err)
	}
	defer rows.Close()

	var items []*models.RecommendationItem
	for rows.Next() {
		item, err := scanRecommendationItemRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return items, nil
}

func (r *recommendationRepository) ListSetsByUser(ctx context.Context, userID uuid.UUID) ([]*models.RecommendationSet, error) {
	scope, ok := database.GetUserScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no user scope in context")
	}

	query := `
		SELECT id, user_id, summary, created_at
		FROM recommendation_sets
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := scope.Conn.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendation sets: %w", err)
	}
	defer rows.Close()

	var sets []*models.RecommendationSet
	for rows.Next() {
		var set models.RecommendationSet
		if err := rows.Scan(&set.ID, &set.UserID, &set.Summary, &set.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation set: %w", err)
		}
		sets = append(sets, &set)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return sets, nil
}

func (r *recommendationRepository) DeleteSet(ctx context.Context, setID uuid.UUID) error {
	scope, ok := database.GetUserScope(ctx)
	if !ok {
		return fmt.Errorf("no user scope in context")
	}

	// Items first so a failure between the two deletes never leaves
	// orphaned items behind a missing set.
	_, err := scope.Conn.Exec(ctx, `DELETE FROM recommendation_items WHERE set_id = $1`, setID)
	if err != nil {
		return fmt.Errorf("failed to delete recommendation items: %w", err)
	}

	result, err := scope.Conn.Exec(ctx, `DELETE FROM recommendation_sets WHERE id = $1`, setID)
	if err != nil {
		return fmt.Errorf("failed to delete recommendation set: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func scanRecommendationItemRow(row pgx.Row) (*models.RecommendationItem, error) {
	var item models.RecommendationItem
	var dataJSON []byte

	err := row.Scan(
		&item.ID, &item.SetID, &item.Type, &item.Title, &item.Description,
		&item.Confidence, &dataJSON, &item.Source, &item.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan recommendation item: %w", err)
	}

	if len(dataJSON) > 0 {
		if err := json.Unmarshal(dataJSON, &item.Data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal item data: %w", err)
		}
	}

	return &item, nil
}
