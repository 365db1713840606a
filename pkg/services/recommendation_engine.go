package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/inflection"

	"github.com/agrimind-ai/agrimind-engine/pkg/models"
)

// Input bundle limits.
const (
	// sharedRecordLimit is how many recent analysis results are shared
	// across the three analysis extractors.
	sharedRecordLimit = 10
	// perTypeRecordLimit is how many records of its own type each
	// extractor keeps from the shared slice.
	perTypeRecordLimit = 3
)

// Output limits.
const (
	maxCandidates = 10
	summaryTopN   = 5
)

// GenerationInput is the full input bundle for one generation run. The engine
// performs no I/O: callers fetch these ahead of time.
type GenerationInput struct {
	UserID          uuid.UUID
	AnalysisResults []*models.AnalysisResult
	ChatHistory     []*models.ChatMessage
	Season          *models.Season
}

// GenerationOutput is a complete recommendation-set payload: the narrative
// summary plus the ranked, truncated candidate list.
type GenerationOutput struct {
	Summary    string
	Candidates []*models.RecommendationCandidate
}

// RecommendationEngine synthesizes ranked recommendations from a user's
// analytical artifacts and chat history. Pure and side-effect-free.
type RecommendationEngine interface {
	Generate(input GenerationInput) *GenerationOutput
}

type recommendationEngine struct {
	productName  string
	now          func() time.Time
	business     *BusinessExtractor
	forecast     *ForecastExtractor
	optimization *OptimizationExtractor
	chat         *ChatExtractor
	seasonal     *SeasonalAdvisor
}

// NewRecommendationEngine creates an engine using the wall clock. The product
// name is rendered into the insufficient-data summary fallback.
func NewRecommendationEngine(productName string) RecommendationEngine {
	return NewRecommendationEngineWithClock(productName, time.Now)
}

// NewRecommendationEngineWithClock creates an engine with an injected clock,
// the test seam for the timestamp-derived chat candidate ids.
func NewRecommendationEngineWithClock(productName string, now func() time.Time) RecommendationEngine {
	return &recommendationEngine{
		productName:  productName,
		now:          now,
		business:     NewBusinessExtractor(),
		forecast:     NewForecastExtractor(),
		optimization: NewOptimizationExtractor(),
		chat:         NewChatExtractorWithClock(now),
		seasonal:     NewSeasonalAdvisor(),
	}
}

var _ RecommendationEngine = (*recommendationEngine)(nil)

// Generate runs every extractor over the shared recent slice, merges their
// candidates in fixed order (business, forecast, optimization, chat,
// seasonal), ranks, truncates to 10 and builds the narrative summary.
func (e *recommendationEngine) Generate(input GenerationInput) *GenerationOutput {
	shared := mostRecent(input.AnalysisResults, sharedRecordLimit)

	var candidates []*models.RecommendationCandidate
	candidates = append(candidates, e.business.Extract(shared)...)
	candidates = append(candidates, e.forecast.Extract(shared)...)
	candidates = append(candidates, e.optimization.Extract(shared)...)
	candidates = append(candidates, e.chat.Extract(input.ChatHistory)...)
	candidates = append(candidates, e.seasonal.Advise(input.Season, e.now())...)

	ranked := rankCandidates(candidates)
	if len(ranked) > maxCandidates {
		ranked = ranked[:maxCandidates]
	}

	return &GenerationOutput{
		Summary:    e.buildSummary(input.AnalysisResults, ranked, input.Season),
		Candidates: ranked,
	}
}

// rankCandidates applies the two ordering passes: a stable newest-first sort
// by creation time, then a stable same-calendar-day confidence tie-break.
// Candidates on different days keep the relative order the first pass
// produced; the second pass only reorders within a day.
func rankCandidates(candidates []*models.RecommendationCandidate) []*models.RecommendationCandidate {
	ranked := make([]*models.RecommendationCandidate, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CreatedAt.After(ranked[j].CreatedAt)
	})

	// After the first pass calendar days are already newest-first, so
	// ordering by (day, confidence) here never moves a candidate across a
	// day boundary.
	sort.SliceStable(ranked, func(i, j int) bool {
		di := ranked[i].CreatedAt.Format("2006-01-02")
		dj := ranked[j].CreatedAt.Format("2006-01-02")
		if di == dj {
			return ranked[i].Confidence > ranked[j].Confidence
		}
		return di > dj
	})

	return ranked
}

// mostRecent returns up to n results ordered newest first. Zero-valued
// timestamps sort last.
func mostRecent(results []*models.AnalysisResult, n int) []*models.AnalysisResult {
	sorted := make([]*models.AnalysisResult, len(results))
	copy(sorted, results)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// mostRecentOfType filters the shared slice by type, then keeps the n most
// recent of that type.
func mostRecentOfType(results []*models.AnalysisResult, analysisType models.AnalysisType, n int) []*models.AnalysisResult {
	var filtered []*models.AnalysisResult
	for _, r := range results {
		if r.Type == analysisType {
			filtered = append(filtered, r)
		}
	}
	return mostRecent(filtered, n)
}

// summaryTypeOrder fixes both representative-picking priority and sentence
// order in the summary.
var summaryTypeOrder = []models.RecommendationType{
	models.RecommendationTypeBusiness,
	models.RecommendationTypeMarket,
	models.RecommendationTypeResource,
	models.RecommendationTypeCrop,
}

// buildSummary composes the narrative: an opener naming which analysis types
// were present, one sentence per representative candidate from the top 5, and
// a seasonal closing sentence when a season was supplied.
func (e *recommendationEngine) buildSummary(allResults []*models.AnalysisResult, ranked []*models.RecommendationCandidate, season *models.Season) string {
	if len(ranked) == 0 {
		return fmt.Sprintf(
			"Insufficient data for personalized recommendations. Continue using %s to analyze your agricultural business for tailored insights.",
			e.productName)
	}

	top := ranked
	if len(top) > summaryTopN {
		top = top[:summaryTopN]
	}

	var sb strings.Builder
	sb.WriteString(e.summaryOpener(allResults))

	for _, recType := range summaryTypeOrder {
		for _, c := range top {
			if c.Type == recType {
				sb.WriteString(c.Title)
				sb.WriteString(". ")
				break
			}
		}
	}

	if season != nil {
		sb.WriteString(fmt.Sprintf("Plan ahead for opportunities in the %s season.", *season))
	}

	return strings.TrimSpace(sb.String())
}

// summaryOpener names the analysis types present in the original,
// pre-truncation input, with counts. Types with zero records are omitted; a
// generic opener covers the no-data case.
func (e *recommendationEngine) summaryOpener(allResults []*models.AnalysisResult) string {
	counts := make(map[models.AnalysisType]int)
	for _, r := range allResults {
		counts[r.Type]++
	}

	var parts []string
	if n := counts[models.AnalysisTypeBusinessFeasibility]; n > 0 {
		parts = append(parts, fmt.Sprintf("%d business feasibility %s", n, pluralize("analysis", n)))
	}
	if n := counts[models.AnalysisTypeDemandForecast]; n > 0 {
		parts = append(parts, fmt.Sprintf("%d demand %s", n, pluralize("forecast", n)))
	}
	if n := counts[models.AnalysisTypeOptimization]; n > 0 {
		parts = append(parts, fmt.Sprintf("%d optimization %s", n, pluralize("run", n)))
	}

	if len(parts) == 0 {
		return "Based on your historical data, here are your personalized recommendations. "
	}
	return fmt.Sprintf("Based on your %s, here are your personalized recommendations. ", joinList(parts))
}

func pluralize(noun string, count int) string {
	if count == 1 {
		return noun
	}
	return inflection.Plural(noun)
}

// joinList renders "a", "a and b" or "a, b and c".
func joinList(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
	}
}
