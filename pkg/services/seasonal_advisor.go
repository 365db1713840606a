package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/agrimind-ai/agrimind-engine/pkg/models"
)

// confSeasonal applies to both fixed seasonal recommendations.
const confSeasonal = 0.70

// seasonProfile holds the curated crop and activity lists for one season.
type seasonProfile struct {
	crops      []string
	activities []string
}

var seasonProfiles = map[models.Season]seasonProfile{
	models.SeasonSpring: {
		crops:      []string{"lettuce", "spinach", "peas", "radishes", "carrots"},
		activities: []string{"soil preparation", "planting", "equipment maintenance"},
	},
	models.SeasonSummer: {
		crops:      []string{"tomatoes", "peppers", "corn", "beans", "squash"},
		activities: []string{"irrigation management", "pest monitoring", "succession planting"},
	},
	models.SeasonFall: {
		crops:      []string{"pumpkins", "winter squash", "kale", "garlic", "cover crops"},
		activities: []string{"harvest", "storage preparation", "field cleanup"},
	},
	models.SeasonWinter: {
		crops:      []string{"greenhouse greens", "microgreens", "stored crop sales"},
		activities: []string{"planning", "equipment repair", "marketing", "soil testing"},
	},
}

// SeasonalAdvisor produces the two fixed per-season recommendations. It is a
// pure function of the season; no stored data feeds it.
type SeasonalAdvisor struct{}

// NewSeasonalAdvisor creates a SeasonalAdvisor.
func NewSeasonalAdvisor() *SeasonalAdvisor {
	return &SeasonalAdvisor{}
}

// Advise returns exactly two candidates for a known season (crop focus and
// activity focus) and none when season is nil.
func (a *SeasonalAdvisor) Advise(season *models.Season, now time.Time) []*models.RecommendationCandidate {
	if season == nil {
		return nil
	}
	profile, ok := seasonProfiles[*season]
	if !ok {
		return nil
	}

	label := titleCase(string(*season))

	return []*models.RecommendationCandidate{
		{
			ID:    fmt.Sprintf("seasonal-crops-%s", *season),
			Type:  models.RecommendationTypeCrop,
			Title: fmt.Sprintf("Recommended Crops for %s", label),
			Description: fmt.Sprintf(
				"Crops well suited to the %s season: %s.",
				*season, strings.Join(profile.crops, ", ")),
			Confidence: confSeasonal,
			Data:       map[string]interface{}{"crops": profile.crops},
			Source:     models.RecommendationSourceSeasonal,
			CreatedAt:  now,
		},
		{
			ID:    fmt.Sprintf("seasonal-activities-%s", *season),
			Type:  models.RecommendationTypeBusiness,
			Title: fmt.Sprintf("Seasonal Activities for %s", label),
			Description: fmt.Sprintf(
				"Key activities for the %s season: %s.",
				*season, strings.Join(profile.activities, ", ")),
			Confidence: confSeasonal,
			Data:       map[string]interface{}{"activities": profile.activities},
			Source:     models.RecommendationSourceSeasonal,
			CreatedAt:  now,
		},
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
