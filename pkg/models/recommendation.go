package models

import (
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// Recommendation Type
// ============================================================================

// RecommendationType classifies what a recommendation is about.
type RecommendationType string

const (
	RecommendationTypeBusiness RecommendationType = "business"
	RecommendationTypeMarket   RecommendationType = "market"
	RecommendationTypeResource RecommendationType = "resource"
	RecommendationTypeCrop     RecommendationType = "crop"
)

// ValidRecommendationTypes contains all valid recommendation type values.
var ValidRecommendationTypes = []RecommendationType{
	RecommendationTypeBusiness,
	RecommendationTypeMarket,
	RecommendationTypeResource,
	RecommendationTypeCrop,
}

// IsValidRecommendationType checks if the given type is valid.
func IsValidRecommendationType(t RecommendationType) bool {
	for _, v := range ValidRecommendationTypes {
		if v == t {
			return true
		}
	}
	return false
}

// ============================================================================
// Recommendation Source
// ============================================================================

// RecommendationSource records which evidence path produced a recommendation.
type RecommendationSource string

const (
	RecommendationSourceAnalysis RecommendationSource = "analysis"
	RecommendationSourcePattern  RecommendationSource = "pattern"
	RecommendationSourceChat     RecommendationSource = "chat"
	RecommendationSourceSeasonal RecommendationSource = "seasonal"
)

// ValidRecommendationSources contains all valid recommendation source values.
var ValidRecommendationSources = []RecommendationSource{
	RecommendationSourceAnalysis,
	RecommendationSourcePattern,
	RecommendationSourceChat,
	RecommendationSourceSeasonal,
}

// IsValidRecommendationSource checks if the given source is valid.
func IsValidRecommendationSource(s RecommendationSource) bool {
	for _, v := range ValidRecommendationSources {
		if v == s {
			return true
		}
	}
	return false
}

// ============================================================================
// Candidate (engine-internal, never persisted directly)
// ============================================================================

// RecommendationCandidate is a transient recommendation produced by an
// extractor before ranking and truncation. The ID is deterministic for
// analysis-derived candidates (<rule-tag>-<source-record-id>) and
// clock-derived for chat candidates, which have no single source record.
type RecommendationCandidate struct {
	ID          string                 `json:"id"`
	Type        RecommendationType     `json:"type"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Confidence  float64                `json:"confidence"` // 0.0-1.0
	Data        map[string]interface{} `json:"data,omitempty"`
	Source      RecommendationSource   `json:"source"`
	CreatedAt   time.Time              `json:"created_at"`
}

// ============================================================================
// Persisted set and items
// ============================================================================

// RecommendationSet is one generation run's output: a narrative summary plus
// the ranked items it owns. Immutable once created.
type RecommendationSet struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

// RecommendationItem is one stored recommendation within a set.
// Confidence is kept as exact decimal text so the stored value never drifts
// through binary float round-trips.
type RecommendationItem struct {
	ID          uuid.UUID              `json:"id"`
	SetID       uuid.UUID              `json:"set_id"`
	Type        RecommendationType     `json:"type"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Confidence  string                 `json:"confidence"`
	Data        map[string]interface{} `json:"data,omitempty"`
	Source      RecommendationSource   `json:"source"`
	CreatedAt   time.Time              `json:"created_at"`
}
