package usecase

import "log"

// LogObserver writes orchestrator events to the process log. Fire-and-forget;
// it never returns an error to the orchestration path.
type LogObserver struct{}

func (LogObserver) ProviderSucceeded(provider string, totalCalories, confidence float64) {
	log.Printf("[analysis] provider=%s event=success calories=%.0f confidence=%.2f", provider, totalCalories, confidence)
}

func (LogObserver) ProviderFailed(provider string, err error) {
	log.Printf("[analysis] provider=%s event=failure error=%v", provider, err)
}

func (LogObserver) AnalysisExhausted(attempted int) {
	log.Printf("[analysis] event=exhausted attempted=%d", attempted)
}

// NopObserver discards all events. Used when no observer is configured.
type NopObserver struct{}

func (NopObserver) ProviderSucceeded(string, float64, float64) {}
func (NopObserver) ProviderFailed(string, error)               {}
func (NopObserver) AnalysisExhausted(int)                      {}
