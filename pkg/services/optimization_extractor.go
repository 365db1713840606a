package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/agrimind-ai/agrimind-engine/pkg/models"
)

// Confidence levels for optimization-derived recommendations.
const (
	confOptimalAllocation = 0.90
	confKeyResources      = 0.80
	confBottleneck        = 0.85
	confInfeasible        = 0.90
)

// bindingSlackTolerance treats a constraint as binding when its slack is
// zero or within this distance of zero.
const bindingSlackTolerance = 1e-3

// topVariableCount limits the key-resource candidate to the largest
// allocations.
const topVariableCount = 3

// OptimizationExtractor derives recommendation candidates from stored
// optimization runs, branching on solution feasibility.
type OptimizationExtractor struct{}

// NewOptimizationExtractor creates an OptimizationExtractor.
func NewOptimizationExtractor() *OptimizationExtractor {
	return &OptimizationExtractor{}
}

// Extract evaluates the 3 most recent optimization results within the given
// slice. A record without a feasible flag produces nothing.
func (e *OptimizationExtractor) Extract(results []*models.AnalysisResult) []*models.RecommendationCandidate {
	recent := mostRecentOfType(results, models.AnalysisTypeOptimization, perTypeRecordLimit)

	var candidates []*models.RecommendationCandidate
	for _, result := range recent {
		data := result.Optimization()
		if data == nil || data.Feasible == nil {
			continue
		}

		if !*data.Feasible {
			candidates = append(candidates, infeasibleCandidate(result))
			continue
		}

		candidates = append(candidates, optimalAllocationCandidate(result, data))
		if c := keyResourcesCandidate(result, data); c != nil {
			candidates = append(candidates, c)
		}
		if c := bottleneckCandidate(result, data); c != nil {
			candidates = append(candidates, c)
		}
	}
	return candidates
}

func infeasibleCandidate(result *models.AnalysisResult) *models.RecommendationCandidate {
	return &models.RecommendationCandidate{
		ID:    fmt.Sprintf("infeasible-%s", result.ID),
		Type:  models.RecommendationTypeResource,
		Title: "Resource Constraints Too Tight",
		Description: "The optimization found no feasible allocation under your current constraints. " +
			"Loosening the tightest constraints or adding resources is required before the plan can work.",
		Confidence: confInfeasible,
		Source:     models.RecommendationSourceAnalysis,
		CreatedAt:  result.CreatedAt,
	}
}

func optimalAllocationCandidate(result *models.AnalysisResult, data *models.OptimizationData) *models.RecommendationCandidate {
	description := "An optimal resource allocation exists for your operation."
	candidateData := map[string]interface{}{}
	if data.ObjectiveValue != nil {
		description = fmt.Sprintf(
			"An optimal resource allocation exists with an expected objective value of %.2f.",
			data.ObjectiveValue.Value())
		candidateData["objective_value"] = data.ObjectiveValue.Value()
	}

	return &models.RecommendationCandidate{
		ID:          fmt.Sprintf("optimal-allocation-%s", result.ID),
		Type:        models.RecommendationTypeResource,
		Title:       "Optimal Allocation Available",
		Description: description,
		Confidence:  confOptimalAllocation,
		Data:        candidateData,
		Source:      models.RecommendationSourceAnalysis,
		CreatedAt:   result.CreatedAt,
	}
}

// keyResourcesCandidate names the top positive-valued decision variables,
// largest first.
func keyResourcesCandidate(result *models.AnalysisResult, data *models.OptimizationData) *models.RecommendationCandidate {
	type allocation struct {
		name  string
		value float64
	}

	var allocations []allocation
	for _, v := range data.Variables {
		if v.Value != nil && v.Value.Value() > 0 {
			allocations = append(allocations, allocation{name: v.Name, value: v.Value.Value()})
		}
	}
	if len(allocations) == 0 {
		return nil
	}

	sort.SliceStable(allocations, func(i, j int) bool {
		return allocations[i].value > allocations[j].value
	})
	if len(allocations) > topVariableCount {
		allocations = allocations[:topVariableCount]
	}

	pairs := make([]string, 0, len(allocations))
	for _, a := range allocations {
		pairs = append(pairs, fmt.Sprintf("%s: %.2f", a.name, a.value))
	}

	return &models.RecommendationCandidate{
		ID:    fmt.Sprintf("key-resources-%s", result.ID),
		Type:  models.RecommendationTypeResource,
		Title: "Key Resource Allocation",
		Description: fmt.Sprintf(
			"The optimal plan concentrates on: %s.", strings.Join(pairs, ", ")),
		Confidence: confKeyResources,
		Data:       map[string]interface{}{"top_allocations": pairs},
		Source:     models.RecommendationSourceAnalysis,
		CreatedAt:  result.CreatedAt,
	}
}

// bottleneckCandidate names the binding constraints, the ones limiting the
// achievable objective.
func bottleneckCandidate(result *models.AnalysisResult, data *models.OptimizationData) *models.RecommendationCandidate {
	var binding []string
	for _, c := range data.Constraints {
		if c.Slack != nil && math.Abs(c.Slack.Value()) <= bindingSlackTolerance {
			binding = append(binding, c.Name)
		}
	}
	if len(binding) == 0 {
		return nil
	}

	return &models.RecommendationCandidate{
		ID:    fmt.Sprintf("bottleneck-%s", result.ID),
		Type:  models.RecommendationTypeResource,
		Title: "Resource Bottlenecks Identified",
		Description: fmt.Sprintf(
			"These constraints are binding and limit your results: %s. Additional capacity there yields the largest gains.",
			strings.Join(binding, ", ")),
		Confidence: confBottleneck,
		Data:       map[string]interface{}{"binding_constraints": binding},
		Source:     models.RecommendationSourceAnalysis,
		CreatedAt:  result.CreatedAt,
	}
}
