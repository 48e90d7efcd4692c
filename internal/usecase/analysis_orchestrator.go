package usecase

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/coderabbit-demo/ai-fitness-coach-sub001/internal/domain"
)

// MaxProviderFailures is the consecutive-failure threshold after which a
// provider is no longer invoked. There is no cool-down: a disabled provider
// stays disabled for the life of the process, since the only transition back
// to healthy is a success that can never happen while it is skipped. Known
// limitation of the design, kept deliberately.
const MaxProviderFailures = 3

// providerState pairs a provider with its failure counter. The counter is an
// approximate health signal: concurrent Analyze calls update it without
// mutual exclusion, increments and resets interleave freely. Atomics keep
// the lock-free semantics without tripping the race detector.
type providerState struct {
	provider domain.VisionProvider
	failures atomic.Int32
}

// AnalysisOrchestrator tries vision providers in fixed priority order,
// skipping any provider that has reached the failure threshold. One instance
// is shared process-wide so the counters accumulate across requests.
type AnalysisOrchestrator struct {
	providers   []*providerState
	maxFailures int32
	observer    domain.AnalysisObserver
}

// NewAnalysisOrchestrator creates an orchestrator over the given providers.
// Order is priority order: earlier providers are always tried first.
func NewAnalysisOrchestrator(providers []domain.VisionProvider, observer domain.AnalysisObserver) *AnalysisOrchestrator {
	states := make([]*providerState, 0, len(providers))
	for _, p := range providers {
		states = append(states, &providerState{provider: p})
	}
	if observer == nil {
		observer = NopObserver{}
	}
	return &AnalysisOrchestrator{
		providers:   states,
		maxFailures: MaxProviderFailures,
		observer:    observer,
	}
}

// Analyze produces a nutrition estimate for a base64-encoded meal photo.
//
// Providers are attempted sequentially in priority order; a provider whose
// failure counter has reached the threshold is skipped without being called.
// The first success wins: its provider's counter is reset to zero and no
// later provider is invoked. A failure increments that provider's counter
// and the next provider is tried. Each provider is called at most once per
// invocation, with no in-call retry.
//
// The orchestrator imposes no timeout of its own; each adapter carries its
// own. If an adapter call never resolves, neither does Analyze.
func (o *AnalysisOrchestrator) Analyze(ctx context.Context, imageData string) (*domain.NutritionAnalysis, error) {
	if imageData == "" {
		return nil, domain.ErrInvalidImage
	}

	attempted := 0
	var lastErr error

	for _, ps := range o.providers {
		if ps.failures.Load() >= o.maxFailures {
			// Disabled: bypassed silently, counter untouched
			continue
		}

		attempted++
		result, err := ps.provider.Analyze(ctx, imageData)
		if err == nil && result == nil {
			// A provider must return a result or an error; treat neither
			// as a failure rather than handing a nil analysis to callers.
			err = fmt.Errorf("provider %s returned no result", ps.provider.Name())
		}
		if err != nil {
			ps.failures.Add(1)
			o.observer.ProviderFailed(ps.provider.Name(), err)
			lastErr = err
			continue
		}

		ps.failures.Store(0)
		o.observer.ProviderSucceeded(ps.provider.Name(), result.TotalCalories, result.ConfidenceScore)
		return result, nil
	}

	o.observer.AnalysisExhausted(attempted)
	if lastErr != nil {
		return nil, fmt.Errorf("%w: last error: %v", domain.ErrAllProvidersExhausted, lastErr)
	}
	return nil, domain.ErrAllProvidersExhausted
}

// Health returns a snapshot of every provider's failure counter in priority
// order. Read-only; there is no way to reset a disabled provider from here.
func (o *AnalysisOrchestrator) Health() []domain.ProviderHealth {
	health := make([]domain.ProviderHealth, 0, len(o.providers))
	for _, ps := range o.providers {
		count := ps.failures.Load()
		state := domain.ProviderHealthy
		switch {
		case count >= o.maxFailures:
			state = domain.ProviderDisabled
		case count > 0:
			state = domain.ProviderDegraded
		}
		health = append(health, domain.ProviderHealth{
			Provider:     ps.provider.Name(),
			FailureCount: int(count),
			State:        state,
		})
	}
	return health
}
