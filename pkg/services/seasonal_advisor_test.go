package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrimind-ai/agrimind-engine/pkg/models"
)

func TestSeasonalAdvisor_NilSeason(t *testing.T) {
	assert.Nil(t, NewSeasonalAdvisor().Advise(nil, time.Now()))
}

func TestSeasonalAdvisor_WinterPair(t *testing.T) {
	now := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	season := models.SeasonWinter

	candidates := NewSeasonalAdvisor().Advise(&season, now)
	require.Len(t, candidates, 2)

	crops := candidates[0]
	assert.Equal(t, "seasonal-crops-winter", crops.ID)
	assert.Equal(t, models.RecommendationTypeCrop, crops.Type)
	assert.Equal(t, "Recommended Crops for Winter", crops.Title)
	assert.Contains(t, crops.Description, "greenhouse greens")
	assert.Equal(t, 0.70, crops.Confidence)
	assert.Equal(t, models.RecommendationSourceSeasonal, crops.Source)
	assert.Equal(t, now, crops.CreatedAt)

	activities := candidates[1]
	assert.Equal(t, "seasonal-activities-winter", activities.ID)
	assert.Equal(t, models.RecommendationTypeBusiness, activities.Type)
	assert.Equal(t, "Seasonal Activities for Winter", activities.Title)
	assert.Contains(t, activities.Description, "equipment repair")
	assert.Equal(t, 0.70, activities.Confidence)
}

func TestSeasonalAdvisor_EverySeasonYieldsPair(t *testing.T) {
	now := time.Now()
	for _, season := range models.ValidSeasons {
		season := season
		t.Run(string(season), func(t *testing.T) {
			candidates := NewSeasonalAdvisor().Advise(&season, now)
			require.Len(t, candidates, 2)
			assert.Equal(t, models.RecommendationTypeCrop, candidates[0].Type)
			assert.Equal(t, models.RecommendationTypeBusiness, candidates[1].Type)
			for _, c := range candidates {
				assert.Equal(t, 0.70, c.Confidence)
				assert.Equal(t, models.RecommendationSourceSeasonal, c.Source)
			}
		})
	}
}
