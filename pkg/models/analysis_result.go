package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/agrimind-ai/agrimind-engine/pkg/jsonutil"
)

// AnalysisType identifies the kind of analytical artifact stored for a user.
type AnalysisType string

const (
	AnalysisTypeBusinessFeasibility AnalysisType = "business_feasibility"
	AnalysisTypeDemandForecast      AnalysisType = "demand_forecast"
	AnalysisTypeOptimization        AnalysisType = "optimization"
)

// ValidAnalysisTypes contains all valid analysis type values.
var ValidAnalysisTypes = []AnalysisType{
	AnalysisTypeBusinessFeasibility,
	AnalysisTypeDemandForecast,
	AnalysisTypeOptimization,
}

// IsValidAnalysisType checks if the given type is valid.
func IsValidAnalysisType(t AnalysisType) bool {
	for _, v := range ValidAnalysisTypes {
		if v == t {
			return true
		}
	}
	return false
}

// AnalysisResult is a stored analytical artifact (feasibility report, demand
// forecast or optimization run). The Data payload shape depends on Type.
// Results are immutable once created except for UpdatedAt.
type AnalysisResult struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Type      AnalysisType    `json:"type"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ============================================================================
// Typed payloads
// ============================================================================
//
// Payload fields are pointers so a missing key is distinguishable from a zero
// value. Extraction rules treat a missing field as "rule does not fire".

// CostEntry is one operational cost line in a feasibility payload.
type CostEntry struct {
	Name   string            `json:"name"`
	Amount *jsonutil.Float64 `json:"amount"`
}

// BusinessFeasibilityData is the payload of a business_feasibility result.
type BusinessFeasibilityData struct {
	ProfitMargin       *jsonutil.Float64 `json:"profitMargin"`
	ROI                *jsonutil.Float64 `json:"roi"`
	OperationalCosts   []CostEntry       `json:"operationalCosts"`
	BreakEvenUnits     *jsonutil.Float64 `json:"breakEvenUnits"`
	MonthlySalesVolume *jsonutil.Float64 `json:"monthlySalesVolume"`
}

// ForecastPoint is one entry in a forecast or historical series.
type ForecastPoint struct {
	Period string            `json:"period"`
	Value  *jsonutil.Float64 `json:"value"`
}

// ForecastAccuracy holds accuracy metrics for a forecast.
type ForecastAccuracy struct {
	MAPE *jsonutil.Float64 `json:"mape"`
}

// DemandForecastData is the payload of a demand_forecast result.
type DemandForecastData struct {
	Forecast   []ForecastPoint   `json:"forecast"`
	Historical []ForecastPoint   `json:"historical"`
	Accuracy   *ForecastAccuracy `json:"accuracy"`
}

// OptimizationVariable is one decision variable in an optimization solution.
type OptimizationVariable struct {
	Name  string            `json:"name"`
	Value *jsonutil.Float64 `json:"value"`
}

// OptimizationConstraint is one constraint in an optimization solution.
// A constraint with slack at or near zero is binding.
type OptimizationConstraint struct {
	Name  string            `json:"name"`
	Slack *jsonutil.Float64 `json:"slack"`
}

// OptimizationData is the payload of an optimization result.
type OptimizationData struct {
	Feasible       *bool                    `json:"feasible"`
	ObjectiveValue *jsonutil.Float64        `json:"objectiveValue"`
	Variables      []OptimizationVariable   `json:"variables"`
	Constraints    []OptimizationConstraint `json:"constraints"`
}

// ============================================================================
// Tolerant decode helpers
// ============================================================================
//
// Each helper returns nil when the result has the wrong type or the payload
// does not parse. Callers skip nil payloads silently; a malformed stored
// payload is never a fatal error.

// BusinessFeasibility decodes the payload of a business_feasibility result.
func (r *AnalysisResult) BusinessFeasibility() *BusinessFeasibilityData {
	if r.Type != AnalysisTypeBusinessFeasibility || len(r.Data) == 0 {
		return nil
	}
	var d BusinessFeasibilityData
	if err := json.Unmarshal(r.Data, &d); err != nil {
		return nil
	}
	return &d
}

// DemandForecast decodes the payload of a demand_forecast result.
func (r *AnalysisResult) DemandForecast() *DemandForecastData {
	if r.Type != AnalysisTypeDemandForecast || len(r.Data) == 0 {
		return nil
	}
	var d DemandForecastData
	if err := json.Unmarshal(r.Data, &d); err != nil {
		return nil
	}
	return &d
}

// Optimization decodes the payload of an optimization result.
func (r *AnalysisResult) Optimization() *OptimizationData {
	if r.Type != AnalysisTypeOptimization || len(r.Data) == 0 {
		return nil
	}
	var d OptimizationData
	if err := json.Unmarshal(r.Data, &d); err != nil {
		return nil
	}
	return &d
}
