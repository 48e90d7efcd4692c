package domain

import "context"

// VisionProvider wraps one external vision backend capable of turning a meal
// photo into a nutrition estimate. Implementations own their HTTP timeouts;
// callers treat any returned error uniformly (network, auth, parse - all the
// same from the orchestrator's point of view).
type VisionProvider interface {
	// Name returns the stable identifier used for failure tracking and logs
	Name() string

	// Analyze sends the base64-encoded image to the backend and parses the
	// response into a NutritionAnalysis
	Analyze(ctx context.Context, imageData string) (*NutritionAnalysis, error)
}

// AnalysisObserver receives per-attempt and terminal outcome events from the
// orchestrator. Implementations must be fire-and-forget: never block, never
// fail the orchestration.
type AnalysisObserver interface {
	ProviderSucceeded(provider string, totalCalories, confidence float64)
	ProviderFailed(provider string, err error)
	AnalysisExhausted(attempted int)
}
