package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrimind-ai/agrimind-engine/pkg/models"
)

func forecastSeries(values ...float64) []map[string]interface{} {
	points := make([]map[string]interface{}, 0, len(values))
	for i, v := range values {
		points = append(points, map[string]interface{}{
			"period": fmt.Sprintf("2026-%02d", i+1),
			"value":  v,
		})
	}
	return points
}

func TestForecastExtractor_GrowthTrend(t *testing.T) {
	result := makeResult(t, models.AnalysisTypeDemandForecast, time.Now(), map[string]interface{}{
		"forecast": forecastSeries(100, 105, 120),
	})

	candidates := NewForecastExtractor().Extract([]*models.AnalysisResult{result})
	require.Len(t, candidates, 1)

	c := candidates[0]
	assert.Equal(t, "Growing Demand Expected", c.Title)
	assert.Equal(t, models.RecommendationTypeMarket, c.Type)
	assert.Equal(t, 0.75, c.Confidence)
	assert.Equal(t, fmt.Sprintf("demand-growth-%s", result.ID), c.ID)
	assert.Contains(t, c.Description, "20.0%")
}

func TestForecastExtractor_DeclineTrend(t *testing.T) {
	result := makeResult(t, models.AnalysisTypeDemandForecast, time.Now(), map[string]interface{}{
		"forecast": forecastSeries(100, 90, 80),
	})

	candidates := NewForecastExtractor().Extract([]*models.AnalysisResult{result})
	require.Len(t, candidates, 1)
	assert.Equal(t, "Declining Demand Warning", candidates[0].Title)
	assert.Contains(t, candidates[0].Description, "20.0%")
}

func TestForecastExtractor_TrendThresholdIsStrict(t *testing.T) {
	tests := []struct {
		name      string
		values    []float64
		wantTitle string
	}{
		{"exactly plus ten percent", []float64{100, 110}, ""},
		{"exactly minus ten percent", []float64{100, 90}, ""},
		{"just above", []float64{100, 110.01}, "Growing Demand Expected"},
		{"just below", []float64{100, 89.99}, "Declining Demand Warning"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := makeResult(t, models.AnalysisTypeDemandForecast, time.Now(), map[string]interface{}{
				"forecast": forecastSeries(tt.values...),
			})

			candidates := NewForecastExtractor().Extract([]*models.AnalysisResult{result})
			if tt.wantTitle == "" {
				assert.Empty(t, candidates)
				return
			}
			require.Len(t, candidates, 1)
			assert.Equal(t, tt.wantTitle, candidates[0].Title)
		})
	}
}

func TestForecastExtractor_SinglePointNoTrend(t *testing.T) {
	result := makeResult(t, models.AnalysisTypeDemandForecast, time.Now(), map[string]interface{}{
		"forecast": forecastSeries(100),
	})

	candidates := NewForecastExtractor().Extract([]*models.AnalysisResult{result})
	assert.Empty(t, candidates)
}

func TestForecastExtractor_ZeroBaselineNoTrend(t *testing.T) {
	result := makeResult(t, models.AnalysisTypeDemandForecast, time.Now(), map[string]interface{}{
		"forecast": forecastSeries(0, 50),
	})

	candidates := NewForecastExtractor().Extract([]*models.AnalysisResult{result})
	assert.Empty(t, candidates)
}

func TestForecastExtractor_SeasonalPattern(t *testing.T) {
	// Mean is 200; the two 500s exceed 1.2x mean (240), the rest do not.
	result := makeResult(t, models.AnalysisTypeDemandForecast, time.Now(), map[string]interface{}{
		"historical": forecastSeries(100, 500, 100, 100, 500, 100, 100, 100),
	})

	candidates := NewForecastExtractor().Extract([]*models.AnalysisResult{result})
	require.Len(t, candidates, 1)

	c := candidates[0]
	assert.Equal(t, "Seasonal Demand Pattern", c.Title)
	assert.Equal(t, models.RecommendationSourcePattern, c.Source)
	assert.Equal(t, 0.70, c.Confidence)
	assert.Contains(t, c.Description, "2 recurring peaks")
	assert.Equal(t, 2, c.Data["peak_count"])
}

func TestForecastExtractor_SinglePeakNoPattern(t *testing.T) {
	result := makeResult(t, models.AnalysisTypeDemandForecast, time.Now(), map[string]interface{}{
		"historical": forecastSeries(100, 500, 100, 100, 100),
	})

	candidates := NewForecastExtractor().Extract([]*models.AnalysisResult{result})
	assert.Empty(t, candidates)
}

func TestForecastExtractor_Accuracy(t *testing.T) {
	tests := []struct {
		name      string
		mape      float64
		wantTitle string
		wantConf  float64
	}{
		{"reliable", 5.0, "High Forecast Reliability", 0.80},
		{"uncertain", 25.0, "Forecast Uncertainty Alert", 0.70},
		{"boundary low", 10.0, "", 0},
		{"boundary high", 20.0, "", 0},
		{"middle band", 15.0, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := makeResult(t, models.AnalysisTypeDemandForecast, time.Now(), map[string]interface{}{
				"accuracy": map[string]interface{}{"mape": tt.mape},
			})

			candidates := NewForecastExtractor().Extract([]*models.AnalysisResult{result})
			if tt.wantTitle == "" {
				assert.Empty(t, candidates)
				return
			}
			require.Len(t, candidates, 1)
			assert.Equal(t, tt.wantTitle, candidates[0].Title)
			assert.Equal(t, tt.wantConf, candidates[0].Confidence)
		})
	}
}

func TestForecastExtractor_MultipleRulesOneRecord(t *testing.T) {
	result := makeResult(t, models.AnalysisTypeDemandForecast, time.Now(), map[string]interface{}{
		"forecast":   forecastSeries(100, 130),
		"historical": forecastSeries(100, 500, 100, 500, 100),
		"accuracy":   map[string]interface{}{"mape": 4.0},
	})

	candidates := NewForecastExtractor().Extract([]*models.AnalysisResult{result})
	require.Len(t, candidates, 3)
	assert.Equal(t, "Growing Demand Expected", candidates[0].Title)
	assert.Equal(t, "Seasonal Demand Pattern", candidates[1].Title)
	assert.Equal(t, "High Forecast Reliability", candidates[2].Title)
}
