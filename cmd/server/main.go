package main

import (
	"fmt"
	"log"
	"os"

	"github.com/coderabbit-demo/ai-fitness-coach-sub001/config"
	httpDelivery "github.com/coderabbit-demo/ai-fitness-coach-sub001/internal/delivery/http"
	"github.com/coderabbit-demo/ai-fitness-coach-sub001/internal/domain"
	"github.com/coderabbit-demo/ai-fitness-coach-sub001/internal/infrastructure/cache"
	"github.com/coderabbit-demo/ai-fitness-coach-sub001/internal/infrastructure/storage"
	"github.com/coderabbit-demo/ai-fitness-coach-sub001/internal/infrastructure/vision"
	"github.com/coderabbit-demo/ai-fitness-coach-sub001/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting FitCoach Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Provider order: %v", cfg.Providers.Order)

	// Build the vision providers in configured priority order. Providers
	// without an API key are skipped at startup rather than failing every
	// request.
	providers := buildProviders(cfg)
	if len(providers) == 0 {
		log.Fatalf("No usable vision provider configured")
	}
	for _, p := range providers {
		log.Printf("Vision provider enabled: %s", p.Name())
	}

	// One orchestrator per process: the failure counters are shared across
	// all requests for the lifetime of the server.
	orchestrator := usecase.NewAnalysisOrchestrator(providers, usecase.LogObserver{})

	memoryCache := cache.NewMemoryCache()
	analysisService := usecase.NewAnalysisService(orchestrator, memoryCache, usecase.AnalysisServiceConfig{
		CacheTTL: cfg.Analysis.CacheTTL,
	})
	log.Printf("Analysis cache TTL: %s", cfg.Analysis.CacheTTL)

	mealStore, err := storage.NewSQLiteMealStore(cfg.Storage.SQLitePath)
	if err != nil {
		log.Fatalf("Failed to open meal store: %v", err)
	}
	defer mealStore.Close()
	log.Printf("Meal store: %s", cfg.Storage.SQLitePath)

	mealService := usecase.NewMealService(mealStore)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(analysisService, mealService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// buildProviders constructs the adapters named in providers.order, keeping
// the configured priority
func buildProviders(cfg *config.Config) []domain.VisionProvider {
	var providers []domain.VisionProvider
	for _, name := range cfg.Providers.Order {
		switch name {
		case "openai":
			if cfg.Providers.OpenAI.APIKey == "" {
				log.Printf("WARNING: openai listed in providers.order but has no API key, skipping")
				continue
			}
			providers = append(providers, vision.NewOpenAIProvider(
				cfg.Providers.OpenAI.APIKey,
				cfg.Providers.OpenAI.Model,
				cfg.Providers.OpenAI.BaseURL,
			))
		case "gemini":
			if cfg.Providers.Gemini.APIKey == "" {
				log.Printf("WARNING: gemini listed in providers.order but has no API key, skipping")
				continue
			}
			providers = append(providers, vision.NewGeminiProvider(
				cfg.Providers.Gemini.APIKey,
				cfg.Providers.Gemini.Model,
			))
		}
	}
	return providers
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
