package services

import (
	"fmt"

	"github.com/agrimind-ai/agrimind-engine/pkg/models"
)

// Confidence levels for forecast-derived recommendations.
const (
	confDemandTrend       = 0.75
	confSeasonalPattern   = 0.70
	confForecastReliable  = 0.80
	confForecastUncertain = 0.70
)

// Forecast rule thresholds.
const (
	trendChangeThreshold = 0.10 // strict: exactly +/-10% does not fire
	peakMultiplier       = 1.2
	minPeaksForPattern   = 2
	mapeReliableBelow    = 10.0
	mapeUncertainAbove   = 20.0
)

// ForecastExtractor derives recommendation candidates from stored demand
// forecasts: trend direction, recurring seasonal peaks, and forecast accuracy.
type ForecastExtractor struct{}

// NewForecastExtractor creates a ForecastExtractor.
func NewForecastExtractor() *ForecastExtractor {
	return &ForecastExtractor{}
}

// Extract evaluates the 3 most recent demand forecast results within the
// given slice. Missing or malformed payload fields silently skip the
// affected rules.
func (e *ForecastExtractor) Extract(results []*models.AnalysisResult) []*models.RecommendationCandidate {
	recent := mostRecentOfType(results, models.AnalysisTypeDemandForecast, perTypeRecordLimit)

	var candidates []*models.RecommendationCandidate
	for _, result := range recent {
		data := result.DemandForecast()
		if data == nil {
			continue
		}
		if c := trendRule(result, data); c != nil {
			candidates = append(candidates, c)
		}
		if c := seasonalityRule(result, data); c != nil {
			candidates = append(candidates, c)
		}
		if c := accuracyRule(result, data); c != nil {
			candidates = append(candidates, c)
		}
	}
	return candidates
}

// trendRule compares the first and last forecast points. Strictly more than
// +10% relative change is growth, strictly less than -10% is decline, and
// everything in between is no signal. Needs at least 2 points.
func trendRule(result *models.AnalysisResult, data *models.DemandForecastData) *models.RecommendationCandidate {
	if len(data.Forecast) < 2 {
		return nil
	}
	first := data.Forecast[0].Value
	last := data.Forecast[len(data.Forecast)-1].Value
	if first == nil || last == nil || first.Value() == 0 {
		return nil
	}
	change := (last.Value() - first.Value()) / first.Value()

	switch {
	case change > trendChangeThreshold:
		return &models.RecommendationCandidate{
			ID:    fmt.Sprintf("demand-growth-%s", result.ID),
			Type:  models.RecommendationTypeMarket,
			Title: "Growing Demand Expected",
			Description: fmt.Sprintf(
				"Forecasted demand rises %.1f%% over the forecast horizon. Consider expanding production capacity to meet it.",
				change*100),
			Confidence: confDemandTrend,
			Data:       map[string]interface{}{"demand_change": change},
			Source:     models.RecommendationSourceAnalysis,
			CreatedAt:  result.CreatedAt,
		}
	case change < -trendChangeThreshold:
		return &models.RecommendationCandidate{
			ID:    fmt.Sprintf("demand-decline-%s", result.ID),
			Type:  models.RecommendationTypeMarket,
			Title: "Declining Demand Warning",
			Description: fmt.Sprintf(
				"Forecasted demand falls %.1f%% over the forecast horizon. Consider diversifying products or adjusting production plans.",
				-change*100),
			Confidence: confDemandTrend,
			Data:       map[string]interface{}{"demand_change": change},
			Source:     models.RecommendationSourceAnalysis,
			CreatedAt:  result.CreatedAt,
		}
	default:
		return nil
	}
}

// seasonalityRule counts historical points exceeding 1.2x the series mean.
// Two or more such peaks indicate a recurring seasonal demand pattern.
func seasonalityRule(result *models.AnalysisResult, data *models.DemandForecastData) *models.RecommendationCandidate {
	var values []float64
	for _, point := range data.Historical {
		if point.Value != nil {
			values = append(values, point.Value.Value())
		}
	}
	if len(values) == 0 {
		return nil
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	peaks := 0
	for _, v := range values {
		if v > peakMultiplier*mean {
			peaks++
		}
	}
	if peaks < minPeaksForPattern {
		return nil
	}

	return &models.RecommendationCandidate{
		ID:    fmt.Sprintf("seasonal-pattern-%s", result.ID),
		Type:  models.RecommendationTypeMarket,
		Title: "Seasonal Demand Pattern",
		Description: fmt.Sprintf(
			"Your demand history shows %d recurring peaks. Timing production and inventory around them could lift revenue.",
			peaks),
		Confidence: confSeasonalPattern,
		Data:       map[string]interface{}{"peak_count": peaks},
		Source:     models.RecommendationSourcePattern,
		CreatedAt:  result.CreatedAt,
	}
}

// accuracyRule reads the MAPE metric when present. Below 10 the forecast is
// highly reliable; above 20 it warrants an uncertainty alert; the band in
// between produces nothing.
func accuracyRule(result *models.AnalysisResult, data *models.DemandForecastData) *models.RecommendationCandidate {
	if data.Accuracy == nil || data.Accuracy.MAPE == nil {
		return nil
	}
	mape := data.Accuracy.MAPE.Value()

	switch {
	case mape < mapeReliableBelow:
		return &models.RecommendationCandidate{
			ID:    fmt.Sprintf("forecast-reliability-%s", result.ID),
			Type:  models.RecommendationTypeMarket,
			Title: "High Forecast Reliability",
			Description: fmt.Sprintf(
				"Forecast error (MAPE) is only %.1f%%, so demand projections can be planned against with confidence.",
				mape),
			Confidence: confForecastReliable,
			Data:       map[string]interface{}{"mape": mape},
			Source:     models.RecommendationSourceAnalysis,
			CreatedAt:  result.CreatedAt,
		}
	case mape > mapeUncertainAbove:
		return &models.RecommendationCandidate{
			ID:    fmt.Sprintf("forecast-uncertainty-%s", result.ID),
			Type:  models.RecommendationTypeMarket,
			Title: "Forecast Uncertainty Alert",
			Description: fmt.Sprintf(
				"Forecast error (MAPE) is %.1f%%; treat demand projections with caution and keep production plans flexible.",
				mape),
			Confidence: confForecastUncertain,
			Data:       map[string]interface{}{"mape": mape},
			Source:     models.RecommendationSourceAnalysis,
			CreatedAt:  result.CreatedAt,
		}
	default:
		return nil
	}
}
