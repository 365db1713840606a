package services

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrimind-ai/agrimind-engine/pkg/models"
)

// makeResult builds a stored analysis result with the given payload. Shared by
// the extractor tests in this package.
func makeResult(t *testing.T, analysisType models.AnalysisType, createdAt time.Time, payload map[string]interface{}) *models.AnalysisResult {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	return &models.AnalysisResult{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Type:      analysisType,
		Data:      data,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func findByTitle(candidates []*models.RecommendationCandidate, title string) *models.RecommendationCandidate {
	for _, c := range candidates {
		if c.Title == title {
			return c
		}
	}
	return nil
}

func TestBusinessExtractor_AllRulesFire(t *testing.T) {
	now := time.Now()
	result := makeResult(t, models.AnalysisTypeBusinessFeasibility, now, map[string]interface{}{
		"profitMargin": 0.30,
		"roi":          0.20,
		"operationalCosts": []map[string]interface{}{
			{"name": "Feed", "amount": 700.0},
			{"name": "Labor", "amount": 300.0},
		},
		"breakEvenUnits":     400.0,
		"monthlySalesVolume": 1000.0,
	})

	candidates := NewBusinessExtractor().Extract([]*models.AnalysisResult{result})
	require.Len(t, candidates, 4)

	margin := findByTitle(candidates, "Strong Profit Margins")
	require.NotNil(t, margin)
	assert.Equal(t, models.RecommendationTypeBusiness, margin.Type)
	assert.Equal(t, 0.80, margin.Confidence)
	assert.Equal(t, fmt.Sprintf("profit-margin-%s", result.ID), margin.ID)
	assert.Equal(t, models.RecommendationSourceAnalysis, margin.Source)
	assert.Equal(t, now, margin.CreatedAt)
	assert.Contains(t, margin.Description, "30.0%")

	roi := findByTitle(candidates, "Healthy Return on Investment")
	require.NotNil(t, roi)
	assert.Equal(t, 0.75, roi.Confidence)
	assert.Contains(t, roi.Description, "20.0%")

	cost := findByTitle(candidates, "Cost Reduction Opportunity")
	require.NotNil(t, cost)
	assert.Equal(t, models.RecommendationTypeResource, cost.Type)
	assert.Equal(t, 0.70, cost.Confidence)
	assert.Contains(t, cost.Description, "Feed")
	assert.Contains(t, cost.Description, "70.0%")

	breakEven := findByTitle(candidates, "Favorable Break-Even Point")
	require.NotNil(t, breakEven)
	assert.Equal(t, 0.85, breakEven.Confidence)
	assert.Contains(t, breakEven.Description, "40.0%")
}

func TestBusinessExtractor_ThresholdsAreStrict(t *testing.T) {
	// Every value sits exactly on its threshold; no rule may fire.
	result := makeResult(t, models.AnalysisTypeBusinessFeasibility, time.Now(), map[string]interface{}{
		"profitMargin": 0.25,
		"roi":          0.15,
		"operationalCosts": []map[string]interface{}{
			{"name": "Seed", "amount": 30.0},
			{"name": "Feed", "amount": 30.0},
			{"name": "Fuel", "amount": 40.0},
		},
		"breakEvenUnits":     500.0,
		"monthlySalesVolume": 1000.0,
	})

	candidates := NewBusinessExtractor().Extract([]*models.AnalysisResult{result})
	assert.Empty(t, candidates)
}

func TestBusinessExtractor_MissingFieldsSkipRules(t *testing.T) {
	result := makeResult(t, models.AnalysisTypeBusinessFeasibility, time.Now(), map[string]interface{}{
		"profitMargin": 0.40,
	})

	candidates := NewBusinessExtractor().Extract([]*models.AnalysisResult{result})
	require.Len(t, candidates, 1)
	assert.Equal(t, "Strong Profit Margins", candidates[0].Title)
}

func TestBusinessExtractor_StringEncodedNumbers(t *testing.T) {
	result := makeResult(t, models.AnalysisTypeBusinessFeasibility, time.Now(), map[string]interface{}{
		"profitMargin": "0.30",
		"roi":          "0.20",
	})

	candidates := NewBusinessExtractor().Extract([]*models.AnalysisResult{result})
	assert.Len(t, candidates, 2)
}

func TestBusinessExtractor_MalformedPayloadIgnored(t *testing.T) {
	bad := &models.AnalysisResult{
		ID:        uuid.New(),
		Type:      models.AnalysisTypeBusinessFeasibility,
		Data:      []byte(`not json`),
		CreatedAt: time.Now(),
	}

	candidates := NewBusinessExtractor().Extract([]*models.AnalysisResult{bad})
	assert.Empty(t, candidates)
}

func TestBusinessExtractor_OnlyThreeMostRecentOfType(t *testing.T) {
	base := time.Now()
	var results []*models.AnalysisResult
	for i := 0; i < 5; i++ {
		results = append(results, makeResult(t, models.AnalysisTypeBusinessFeasibility,
			base.Add(time.Duration(i)*time.Hour),
			map[string]interface{}{"profitMargin": 0.40}))
	}
	// A forecast record must not consume a business slot.
	results = append(results, makeResult(t, models.AnalysisTypeDemandForecast,
		base.Add(10*time.Hour), map[string]interface{}{}))

	candidates := NewBusinessExtractor().Extract(results)
	require.Len(t, candidates, 3)

	// The three newest business records are the ones that fired.
	for i, c := range candidates {
		expected := results[4-i]
		assert.Equal(t, fmt.Sprintf("profit-margin-%s", expected.ID), c.ID)
	}
}

func TestBusinessExtractor_ZeroCostsNoCandidate(t *testing.T) {
	result := makeResult(t, models.AnalysisTypeBusinessFeasibility, time.Now(), map[string]interface{}{
		"operationalCosts": []map[string]interface{}{
			{"name": "Feed", "amount": 0.0},
		},
	})

	candidates := NewBusinessExtractor().Extract([]*models.AnalysisResult{result})
	assert.Empty(t, candidates)
}
