package models

import "strings"

// Season is the agricultural season a caller may supply to a generation run.
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonFall   Season = "fall"
	SeasonWinter Season = "winter"
)

// ValidSeasons contains all valid season values.
var ValidSeasons = []Season{
	SeasonSpring,
	SeasonSummer,
	SeasonFall,
	SeasonWinter,
}

// IsValidSeason checks if the given season is valid.
func IsValidSeason(s Season) bool {
	for _, v := range ValidSeasons {
		if v == s {
			return true
		}
	}
	return false
}

// ParseSeason parses a season string case-insensitively.
// Returns nil for an empty or unrecognized value.
func ParseSeason(value string) *Season {
	s := Season(strings.ToLower(strings.TrimSpace(value)))
	if !IsValidSeason(s) {
		return nil
	}
	return &s
}
