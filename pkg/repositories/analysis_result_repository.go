package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/agrimind-ai/agrimind-engine/pkg/apperrors"
	"github.com/agrimind-ai/agrimind-engine/pkg/database"
	"github.com/agrimind-ai/agrimind-engine/pkg/models"
)

// AnalysisResultRepository provides data access for stored analysis results.
type AnalysisResultRepository interface {
	Create(ctx context.Context, result *models.AnalysisResult) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.AnalysisResult, error)
	GetByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.AnalysisResult, error)
	GetByUserAndType(ctx context.Context, userID uuid.UUID, analysisType models.AnalysisType, limit int) ([]*models.AnalysisResult, error)
}

type analysisResultRepository struct{}

// NewAnalysisResultRepository creates a new AnalysisResultRepository.
func NewAnalysisResultRepository() AnalysisResultRepository {
	return &analysisResultRepository{}
}

var _ AnalysisResultRepository = (*analysisResultRepository)(nil)

func (r *analysisResultRepository) Create(ctx context.Context, result *models.AnalysisResult) error {
	scope, ok := database.GetUserScope(ctx)
	if !ok {
		return fmt.Errorf("no user scope in context")
	}

	now := time.Now()
	result.CreatedAt = now
	result.UpdatedAt = now
	if result.ID == uuid.Nil {
		result.ID = uuid.New()
	}

	data := result.Data
	if len(data) == 0 {
		data = []byte("{}")
	}

	query := `
		INSERT INTO analysis_results (id, user_id, type, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := scope.Conn.Exec(ctx, query,
		result.ID, result.UserID, result.Type, data, result.CreatedAt, result.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis result: %w", err)
	}

	return nil
}

func (r *analysisResultRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AnalysisResult, error) {
	scope, ok := database.GetUserScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no user scope in context")
	}

	query := `
		SELECT id, user_id, type, data, created_at, updated_at
		FROM analysis_results
		WHERE id = $1`

	result, err := scanAnalysisResultRow(scope.Conn.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return result, nil
}

func (r *analysisResultRepository) GetByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.AnalysisResult, error) {
	scope, ok := database.GetUserScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no user scope in context")
	}

	query := `
		SELECT id, user_id, type, data, created_at, updated_at
		FROM analysis_results
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := scope.Conn.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis results: %w", err)
	}
	defer rows.Close()

	return scanAnalysisResultRows(rows)
}

func (r *analysisResultRepository) GetByUserAndType(ctx context.Context, userID uuid.UUID, analysisType models.AnalysisType, limit int) ([]*models.AnalysisResult, error) {
	scope, ok := database.GetUserScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no user scope in context")
	}

	query := `
		SELECT id, user_id, type, data, created_at, updated_at
		FROM analysis_results
		WHERE user_id = $1 AND type = $2
		ORDER BY created_at DESC
		LIMIT $3`

	rows, err := scope.Conn.Query(ctx, query, userID, analysisType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis results: %w", err)
	}
	defer rows.Close()

	return scanAnalysisResultRows(rows)
}

func scanAnalysisResultRows(rows pgx.Rows) ([]*models.AnalysisResult, error) {
	var results []*models.AnalysisResult

	for rows.Next() {
		result, err := scanAnalysisResultRow(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return results, nil
}

func scanAnalysisResultRow(row pgx.Row) (*models.AnalysisResult, error) {
	var result models.AnalysisResult

	err := row.Scan(
		&result.ID, &result.UserID, &result.Type, &result.Data,
		&result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan analysis result: %w", err)
	}

	return &result, nil
}
