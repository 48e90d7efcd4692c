package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/coderabbit-demo/ai-fitness-coach-sub001/internal/domain"
)

// AnalysisServiceConfig holds configuration for the analysis service
type AnalysisServiceConfig struct {
	CacheTTL time.Duration
}

// AnalysisService fronts the orchestrator with a result cache so repeated
// uploads of the same photo do not burn provider quota.
// Flow: check cache -> orchestrate providers -> cache -> return
type AnalysisService struct {
	orchestrator *AnalysisOrchestrator
	cache        domain.CacheRepository
	cacheTTL     time.Duration
}

// NewAnalysisService creates an analysis service with dependencies
func NewAnalysisService(
	orchestrator *AnalysisOrchestrator,
	cache domain.CacheRepository,
	config AnalysisServiceConfig,
) *AnalysisService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = time.Hour
	}

	return &AnalysisService{
		orchestrator: orchestrator,
		cache:        cache,
		cacheTTL:     cacheTTL,
	}
}

// Analyze returns the nutrition estimate for a base64-encoded meal photo,
// serving identical payloads from cache when possible. Cache failures are
// never surfaced; the orchestrator's result always wins.
func (s *AnalysisService) Analyze(ctx context.Context, imageData string) (*domain.NutritionAnalysis, error) {
	if imageData == "" {
		return nil, domain.ErrInvalidImage
	}

	cacheKey := analysisCacheKey(imageData)

	if cached, err := s.getFromCache(ctx, cacheKey); err == nil && cached != nil {
		return cached, nil
	}

	result, err := s.orchestrator.Analyze(ctx, imageData)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, result, s.cacheTTL); err != nil {
		log.Printf("[analysis] cache write failed for %s: %v", cacheKey, err)
	}

	return result, nil
}

// ProviderHealth exposes the orchestrator's counter snapshot for the health
// endpoint.
func (s *AnalysisService) ProviderHealth() []domain.ProviderHealth {
	return s.orchestrator.Health()
}

// analysisCacheKey hashes the raw base64 payload; identical uploads map to
// the same key regardless of filename or request metadata.
func analysisCacheKey(imageData string) string {
	sum := sha256.Sum256([]byte(imageData))
	return fmt.Sprintf("analysis:%s", hex.EncodeToString(sum[:]))
}

// getFromCache retrieves a cached analysis, tolerating the map form the
// memory cache stores after its JSON round-trip
func (s *AnalysisService) getFromCache(ctx context.Context, key string) (*domain.NutritionAnalysis, error) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if analysis, ok := value.(*domain.NutritionAnalysis); ok {
		return analysis, nil
	}

	// Stored values come back as generic maps; remarshal into the type
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, domain.ErrCacheMiss
	}
	var analysis domain.NutritionAnalysis
	if err := json.Unmarshal(raw, &analysis); err != nil {
		return nil, domain.ErrCacheMiss
	}
	return &analysis, nil
}
