package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coderabbit-demo/ai-fitness-coach-sub001/config"
	"github.com/coderabbit-demo/ai-fitness-coach-sub001/internal/domain"
	"github.com/coderabbit-demo/ai-fitness-coach-sub001/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// stubAnalysis is a scriptable AnalysisUsecase
type stubAnalysis struct {
	result *domain.NutritionAnalysis
	err    error
	health []domain.ProviderHealth
}

func (s *stubAnalysis) Analyze(ctx context.Context, imageData string) (*domain.NutritionAnalysis, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubAnalysis) ProviderHealth() []domain.ProviderHealth {
	return s.health
}

// stubMeals is an in-memory MealUsecase
type stubMeals struct {
	saved   []*domain.Meal
	listErr error
}

func (s *stubMeals) LogMeal(ctx context.Context, req *usecase.LogMealRequest) (*domain.Meal, error) {
	if req == nil || (len(req.Foods) == 0 && req.TotalCalories == 0) {
		return nil, domain.ErrInvalidRequest
	}
	meal := &domain.Meal{
		ID:            "meal-1",
		Foods:         req.Foods,
		TotalCalories: req.TotalCalories,
		Source:        req.Source,
	}
	s.saved = append(s.saved, meal)
	return meal, nil
}

func (s *stubMeals) ListMeals(ctx context.Context, from, to time.Time, limit int) ([]*domain.Meal, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.saved, nil
}

func (s *stubMeals) DeleteMeal(ctx context.Context, id string) error {
	for i, meal := range s.saved {
		if meal.ID == id {
			s.saved = append(s.saved[:i], s.saved[i+1:]...)
			return nil
		}
	}
	return domain.ErrMealNotFound
}

func (s *stubMeals) DailySummary(ctx context.Context, date time.Time) (*domain.DailySummary, error) {
	summary := &domain.DailySummary{Date: date.Format("2006-01-02"), MealCount: len(s.saved)}
	for _, meal := range s.saved {
		summary.TotalCalories += meal.TotalCalories
	}
	return summary, nil
}

func setupTestRouter(analysis *stubAnalysis, meals *stubMeals) *gin.Engine {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
	}
	if analysis == nil {
		analysis = &stubAnalysis{}
	}
	if meals == nil {
		meals = &stubMeals{}
	}
	return SetupRouter(cfg, NewHandler(analysis, meals))
}

func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy status with provider snapshot", func(t *testing.T) {
		analysis := &stubAnalysis{
			health: []domain.ProviderHealth{
				{Provider: "openai", FailureCount: 0, State: domain.ProviderHealthy},
				{Provider: "gemini", FailureCount: 3, State: domain.ProviderDisabled},
			},
		}
		router := setupTestRouter(analysis, nil)

		req, _ := http.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response["status"] != "healthy" {
			t.Errorf("status = %v, want healthy", response["status"])
		}
		if response["service"] != "fitcoach-backend" {
			t.Errorf("service = %v, want fitcoach-backend", response["service"])
		}
		providers, ok := response["providers"].([]interface{})
		if !ok || len(providers) != 2 {
			t.Errorf("providers = %v, want 2 entries", response["providers"])
		}
	})
}

func TestAnalysisEndpoint(t *testing.T) {
	t.Run("returns analysis for valid request", func(t *testing.T) {
		analysis := &stubAnalysis{
			result: &domain.NutritionAnalysis{
				FoodItems: []domain.FoodItem{
					{Name: "apple", Quantity: "1 medium", Calories: 95},
				},
				TotalCalories:   95,
				ConfidenceScore: 0.9,
			},
		}
		router := setupTestRouter(analysis, nil)

		body, _ := json.Marshal(map[string]string{"image_data": "aW1hZ2U="})
		req, _ := http.NewRequest("POST", "/api/v1/analysis", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
		}

		var result domain.NutritionAnalysis
		if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if result.TotalCalories != 95 {
			t.Errorf("TotalCalories = %v, want 95", result.TotalCalories)
		}
		if len(result.FoodItems) != 1 || result.FoodItems[0].Name != "apple" {
			t.Errorf("FoodItems = %v, want single apple", result.FoodItems)
		}
	})

	t.Run("rejects missing image_data", func(t *testing.T) {
		router := setupTestRouter(nil, nil)

		req, _ := http.NewRequest("POST", "/api/v1/analysis", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("maps exhaustion to 502 with stable code", func(t *testing.T) {
		analysis := &stubAnalysis{err: domain.ErrAllProvidersExhausted}
		router := setupTestRouter(analysis, nil)

		body, _ := json.Marshal(map[string]string{"image_data": "aW1hZ2U="})
		req, _ := http.NewRequest("POST", "/api/v1/analysis", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadGateway {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusBadGateway)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response["code"] != "all_providers_exhausted" {
			t.Errorf("code = %v, want all_providers_exhausted", response["code"])
		}
	})

	t.Run("maps unexpected errors to 500", func(t *testing.T) {
		analysis := &stubAnalysis{err: errors.New("boom")}
		router := setupTestRouter(analysis, nil)

		body, _ := json.Marshal(map[string]string{"image_data": "aW1hZ2U="})
		req, _ := http.NewRequest("POST", "/api/v1/analysis", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusInternalServerError)
		}
	})
}

func TestMealEndpoints(t *testing.T) {
	t.Run("logs and lists a meal", func(t *testing.T) {
		meals := &stubMeals{}
		router := setupTestRouter(nil, meals)

		body, _ := json.Marshal(map[string]interface{}{
			"foods": []map[string]interface{}{
				{"name": "rice", "quantity": "1 cup", "calories": 205},
			},
			"totalCalories": 205,
			"source":        "photo",
		})
		req, _ := http.NewRequest("POST", "/api/v1/meals", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("POST status = %d, want %d (body: %s)", w.Code, http.StatusCreated, w.Body.String())
		}

		req, _ = http.NewRequest("GET", "/api/v1/meals", nil)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("GET status = %d, want %d", w.Code, http.StatusOK)
		}
		var response struct {
			Meals []domain.Meal `json:"meals"`
			Count int           `json:"count"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response.Count != 1 {
			t.Errorf("count = %d, want 1", response.Count)
		}
	})

	t.Run("rejects empty meal", func(t *testing.T) {
		router := setupTestRouter(nil, &stubMeals{})

		req, _ := http.NewRequest("POST", "/api/v1/meals", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("rejects bad limit", func(t *testing.T) {
		router := setupTestRouter(nil, &stubMeals{})

		req, _ := http.NewRequest("GET", "/api/v1/meals?limit=-3", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("delete returns 404 for unknown meal", func(t *testing.T) {
		router := setupTestRouter(nil, &stubMeals{})

		req, _ := http.NewRequest("DELETE", "/api/v1/meals/unknown", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})

	t.Run("daily summary", func(t *testing.T) {
		meals := &stubMeals{saved: []*domain.Meal{{ID: "m1", TotalCalories: 400}}}
		router := setupTestRouter(nil, meals)

		req, _ := http.NewRequest("GET", "/api/v1/meals/summary?date=2026-08-20", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}
		var summary domain.DailySummary
		if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if summary.Date != "2026-08-20" {
			t.Errorf("Date = %s, want 2026-08-20", summary.Date)
		}
		if summary.TotalCalories != 400 {
			t.Errorf("TotalCalories = %v, want 400", summary.TotalCalories)
		}

		req, _ = http.NewRequest("GET", "/api/v1/meals/summary?date=yesterday", nil)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("bad date status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

func TestCORSIntegration(t *testing.T) {
	router := setupTestRouter(nil, nil)

	req, _ := http.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	gotOrigin := w.Header().Get("Access-Control-Allow-Origin")
	if gotOrigin != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q, want %q", gotOrigin, "http://localhost:3000")
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	router := setupTestRouter(nil, nil)
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	req, _ := http.NewRequest("GET", "/panic", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

func TestAPIVersioning(t *testing.T) {
	t.Run("non-versioned routes return 404", func(t *testing.T) {
		router := setupTestRouter(nil, nil)

		req, _ := http.NewRequest("POST", "/api/analysis", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})
}
