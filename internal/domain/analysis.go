package domain

// FoodItem is a single detected food in an analyzed photo
type FoodItem struct {
	Name     string  `json:"name"`
	Quantity string  `json:"quantity"`
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
	FiberG   float64 `json:"fiber_g"`
}

// NutritionAnalysis is the structured estimate a vision provider produces for
// one meal photo. Item order reflects detection order. Totals are provider
// computed; callers may recompute them from FoodItems if they need exact sums.
type NutritionAnalysis struct {
	FoodItems       []FoodItem `json:"food_items"`
	TotalCalories   float64    `json:"total_calories"`
	TotalProtein    float64    `json:"total_protein"`
	TotalCarbs      float64    `json:"total_carbs"`
	TotalFat        float64    `json:"total_fat"`
	TotalFiber      float64    `json:"total_fiber"`
	ConfidenceScore float64    `json:"confidence_score"` // 0-1, provider-supplied
	AnalysisNotes   string     `json:"analysis_notes,omitempty"`
}

// ProviderHealthState describes where a provider's failure counter sits
type ProviderHealthState string

const (
	ProviderHealthy  ProviderHealthState = "healthy"  // failureCount == 0
	ProviderDegraded ProviderHealthState = "degraded" // 0 < failureCount < threshold
	ProviderDisabled ProviderHealthState = "disabled" // failureCount >= threshold, no longer invoked
)

// ProviderHealth is a read-only snapshot of one provider's counter state
type ProviderHealth struct {
	Provider     string              `json:"provider"`
	FailureCount int                 `json:"failureCount"`
	State        ProviderHealthState `json:"state"`
}
