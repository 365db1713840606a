package services

import (
	"fmt"

	"github.com/agrimind-ai/agrimind-engine/pkg/models"
)

// Confidence levels for feasibility-derived recommendations.
const (
	confProfitMargin  = 0.80
	confROI           = 0.75
	confCostReduction = 0.70
	confBreakEven     = 0.85
)

// Rule thresholds.
const (
	profitMarginThreshold = 0.25
	roiThreshold          = 0.15
	costShareThreshold    = 0.30
	breakEvenRatioCeiling = 0.5
)

// businessRule is one predicate+builder pair evaluated against a feasibility
// payload. Rules are independently guarded; a record may fire 0 to 4 of them.
type businessRule struct {
	tag   string
	apply func(result *models.AnalysisResult, data *models.BusinessFeasibilityData) *models.RecommendationCandidate
}

// BusinessExtractor derives recommendation candidates from stored business
// feasibility analyses. Stateless; safe for concurrent use.
type BusinessExtractor struct {
	rules []businessRule
}

// NewBusinessExtractor creates a BusinessExtractor with the fixed rule set.
func NewBusinessExtractor() *BusinessExtractor {
	return &BusinessExtractor{
		rules: []businessRule{
			{tag: "profit-margin", apply: profitMarginRule},
			{tag: "roi", apply: roiRule},
			{tag: "cost-reduction", apply: costReductionRule},
			{tag: "break-even", apply: breakEvenRule},
		},
	}
}

// Extract evaluates every rule against the 3 most recent business feasibility
// results within the given slice. Results with missing or malformed payload
// fields simply do not fire the affected rules.
func (e *BusinessExtractor) Extract(results []*models.AnalysisResult) []*models.RecommendationCandidate {
	recent := mostRecentOfType(results, models.AnalysisTypeBusinessFeasibility, perTypeRecordLimit)

	var candidates []*models.RecommendationCandidate
	for _, result := range recent {
		data := result.BusinessFeasibility()
		if data == nil {
			continue
		}
		for _, rule := range e.rules {
			if c := rule.apply(result, data); c != nil {
				candidates = append(candidates, c)
			}
		}
	}
	return candidates
}

func profitMarginRule(result *models.AnalysisResult, data *models.BusinessFeasibilityData) *models.RecommendationCandidate {
	if data.ProfitMargin == nil {
		return nil
	}
	margin := data.ProfitMargin.Value()
	if margin <= profitMarginThreshold {
		return nil
	}
	return &models.RecommendationCandidate{
		ID:    fmt.Sprintf("profit-margin-%s", result.ID),
		Type:  models.RecommendationTypeBusiness,
		Title: "Strong Profit Margins",
		Description: fmt.Sprintf(
			"Your profit margin of %.1f%% is well above typical agricultural margins. Consider scaling up production to capitalize on it.",
			margin*100),
		Confidence: confProfitMargin,
		Data:       map[string]interface{}{"profit_margin": margin},
		Source:     models.RecommendationSourceAnalysis,
		CreatedAt:  result.CreatedAt,
	}
}

func roiRule(result *models.AnalysisResult, data *models.BusinessFeasibilityData) *models.RecommendationCandidate {
	if data.ROI == nil {
		return nil
	}
	roi := data.ROI.Value()
	if roi <= roiThreshold {
		return nil
	}
	return &models.RecommendationCandidate{
		ID:    fmt.Sprintf("roi-%s", result.ID),
		Type:  models.RecommendationTypeBusiness,
		Title: "Healthy Return on Investment",
		Description: fmt.Sprintf(
			"Your return on investment of %.1f%% indicates efficient use of capital. Reinvesting earnings could accelerate growth.",
			roi*100),
		Confidence: confROI,
		Data:       map[string]interface{}{"roi": roi},
		Source:     models.RecommendationSourceAnalysis,
		CreatedAt:  result.CreatedAt,
	}
}

// costReductionRule fires when one operational cost dominates the cost list.
func costReductionRule(result *models.AnalysisResult, data *models.BusinessFeasibilityData) *models.RecommendationCandidate {
	var total float64
	for _, cost := range data.OperationalCosts {
		if cost.Amount != nil {
			total += cost.Amount.Value()
		}
	}
	if total <= 0 {
		return nil
	}

	var largestName string
	var largestShare float64
	for _, cost := range data.OperationalCosts {
		if cost.Amount == nil {
			continue
		}
		share := cost.Amount.Value() / total
		if share > largestShare {
			largestShare = share
			largestName = cost.Name
		}
	}
	if largestShare <= costShareThreshold {
		return nil
	}

	return &models.RecommendationCandidate{
		ID:    fmt.Sprintf("cost-reduction-%s", result.ID),
		Type:  models.RecommendationTypeResource,
		Title: "Cost Reduction Opportunity",
		Description: fmt.Sprintf(
			"%s accounts for %.1f%% of your operational costs. Negotiating better rates or substituting this input could materially improve margins.",
			largestName, largestShare*100),
		Confidence: confCostReduction,
		Data: map[string]interface{}{
			"cost_name":  largestName,
			"cost_share": largestShare,
		},
		Source:    models.RecommendationSourceAnalysis,
		CreatedAt: result.CreatedAt,
	}
}

func breakEvenRule(result *models.AnalysisResult, data *models.BusinessFeasibilityData) *models.RecommendationCandidate {
	if data.BreakEvenUnits == nil || data.MonthlySalesVolume == nil || data.MonthlySalesVolume.Value() <= 0 {
		return nil
	}
	ratio := data.BreakEvenUnits.Value() / data.MonthlySalesVolume.Value()
	if ratio >= breakEvenRatioCeiling {
		return nil
	}

	return &models.RecommendationCandidate{
		ID:    fmt.Sprintf("break-even-%s", result.ID),
		Type:  models.RecommendationTypeBusiness,
		Title: "Favorable Break-Even Point",
		Description: fmt.Sprintf(
			"You reach break-even at %.1f%% of monthly sales volume, leaving substantial headroom for profit.",
			ratio*100),
		Confidence: confBreakEven,
		Data:       map[string]interface{}{"break_even_ratio": ratio},
		Source:     models.RecommendationSourceAnalysis,
		CreatedAt:  result.CreatedAt,
	}
}
