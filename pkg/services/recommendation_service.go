package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/agrimind-ai/agrimind-engine/pkg/apperrors"
	"github.com/agrimind-ai/agrimind-engine/pkg/models"
	"github.com/agrimind-ai/agrimind-engine/pkg/repositories"
)

// maxAnalysisFetch bounds how many stored results feed one generation run.
// The engine truncates further; this only caps the fetch.
const maxAnalysisFetch = 100

// ScopeProvider creates user-scoped contexts for database operations.
// database.UserScopeProvider satisfies this via Go's implicit interfaces.
type ScopeProvider interface {
	WithUserScope(ctx context.Context, userID uuid.UUID) (context.Context, func(), error)
}

// RecommendationService orchestrates recommendation generation: it fetches
// the input bundle, runs the pure engine, and persists the resulting set.
// Store failures are propagated unchanged; the service never retries.
type RecommendationService interface {
	Generate(ctx context.Context, userID uuid.UUID, season *models.Season) (*models.RecommendationSet, []*models.RecommendationItem, error)
	GetSet(ctx context.Context, setID uuid.UUID) (*models.RecommendationSet, []*models.RecommendationItem, error)
	ListSets(ctx context.Context, userID uuid.UUID) ([]*models.RecommendationSet, error)
	DeleteSet(ctx context.Context, setID uuid.UUID) error
}

type recommendationService struct {
	engine       RecommendationEngine
	scopes       ScopeProvider
	analysisRepo repositories.AnalysisResultRepository
	convRepo     repositories.ConversationRepository
	recRepo      repositories.RecommendationRepository
	logger       *zap.Logger
}

// NewRecommendationService creates a new RecommendationService.
func NewRecommendationService(
	engine RecommendationEngine,
	scopes ScopeProvider,
	analysisRepo repositories.AnalysisResultRepository,
	convRepo repositories.ConversationRepository,
	recRepo repositories.RecommendationRepository,
	logger *zap.Logger,
) RecommendationService {
	return &recommendationService{
		engine:       engine,
		scopes:       scopes,
		analysisRepo: analysisRepo,
		convRepo:     convRepo,
		recRepo:      recRepo,
		logger:       logger.Named("recommendation-service"),
	}
}

var _ RecommendationService = (*recommendationService)(nil)

// Generate fetches the input bundle, runs the engine and persists one set
// plus its items. The two fetches run concurrently on separate scoped
// connections; ordering does not matter since the engine re-sorts its inputs.
// The set and items are written as individual inserts with no cross-insert
// atomicity: a crash mid-write leaves a short set, and regenerating creates a
// fresh set rather than repairing the old one.
func (s *recommendationService) Generate(ctx context.Context, userID uuid.UUID, season *models.Season) (*models.RecommendationSet, []*models.RecommendationItem, error) {
	if season != nil && !models.IsValidSeason(*season) {
		return nil, nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidSeason, *season)
	}

	var analysisResults []*models.AnalysisResult
	var chatHistory []*models.ChatMessage

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		scopedCtx, cleanup, err := s.scopes.WithUserScope(gctx, userID)
		if err != nil {
			return fmt.Errorf("acquire scope for analysis results: %w", err)
		}
		defer cleanup()

		analysisResults, err = s.analysisRepo.GetByUser(scopedCtx, userID, maxAnalysisFetch)
		return err
	})

	g.Go(func() error {
		scopedCtx, cleanup, err := s.scopes.WithUserScope(gctx, userID)
		if err != nil {
			return fmt.Errorf("acquire scope for chat history: %w", err)
		}
		defer cleanup()

		conversations, err := s.convRepo.GetByUser(scopedCtx, userID)
		if err != nil {
			return err
		}
		for _, conv := range conversations {
			messages, err := s.convRepo.GetMessages(scopedCtx, conv.ID)
			if err != nil {
				return err
			}
			chatHistory = append(chatHistory, messages...)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	output := s.engine.Generate(GenerationInput{
		UserID:          userID,
		AnalysisResults: analysisResults,
		ChatHistory:     chatHistory,
		Season:          season,
	})

	set, err := s.recRepo.CreateSet(ctx, userID, output.Summary)
	if err != nil {
		return nil, nil, err
	}

	items := make([]*models.RecommendationItem, 0, len(output.Candidates))
	for _, candidate := range output.Candidates {
		item, err := s.recRepo.CreateItem(ctx, set.ID, candidate)
		if err != nil {
			return nil, nil, err
		}
		items = append(items, item)
	}

	s.logger.Info("generated recommendation set",
		zap.String("user_id", userID.String()),
		zap.String("set_id", set.ID.String()),
		zap.Int("analysis_results", len(analysisResults)),
		zap.Int("chat_messages", len(chatHistory)),
		zap.Int("items", len(items)),
	)

	return set, items, nil
}

func (s *recommendationService) GetSet(ctx context.Context, setID uuid.UUID) (*models.RecommendationSet, []*models.RecommendationItem, error) {
	set, err := s.recRepo.GetSet(ctx, setID)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.recRepo.GetItems(ctx, setID)
	if err != nil {
		return nil, nil, err
	}

	return set, items, nil
}

func (s *recommendationService) ListSets(ctx context.Context, userID uuid.UUID) ([]*models.RecommendationSet, error) {
	return s.recRepo.ListSetsByUser(ctx, userID)
}

func (s *recommendationService) DeleteSet(ctx context.Context, setID uuid.UUID) error {
	if err := s.recRepo.DeleteSet(ctx, setID); err != nil {
		return err
	}

	s.logger.Info("deleted recommendation set", zap.String("set_id", setID.String()))
	return nil
}
