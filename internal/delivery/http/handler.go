package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coderabbit-demo/ai-fitness-coach-sub001/internal/domain"
	"github.com/coderabbit-demo/ai-fitness-coach-sub001/internal/usecase"
)

// AnalysisUsecase is what the handler needs from the analysis service
type AnalysisUsecase interface {
	Analyze(ctx context.Context, imageData string) (*domain.NutritionAnalysis, error)
	ProviderHealth() []domain.ProviderHealth
}

// MealUsecase is what the handler needs from the meal service
type MealUsecase interface {
	LogMeal(ctx context.Context, req *usecase.LogMealRequest) (*domain.Meal, error)
	ListMeals(ctx context.Context, from, to time.Time, limit int) ([]*domain.Meal, error)
	DeleteMeal(ctx context.Context, id string) error
	DailySummary(ctx context.Context, date time.Time) (*domain.DailySummary, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	analysis AnalysisUsecase
	meals    MealUsecase
}

// NewHandler creates a new HTTP handler
func NewHandler(analysis AnalysisUsecase, meals MealUsecase) *Handler {
	return &Handler{analysis: analysis, meals: meals}
}

// HealthCheck returns the health status of the API plus the vision provider
// failure-counter snapshot
func (h *Handler) HealthCheck(c *gin.Context) {
	resp := gin.H{
		"status":  "healthy",
		"service": "fitcoach-backend",
		"version": "1.0.0",
	}
	if h.analysis != nil {
		resp["providers"] = h.analysis.ProviderHealth()
	}
	c.JSON(http.StatusOK, resp)
}

// analyzeRequest is the body for POST /api/v1/analysis
type analyzeRequest struct {
	ImageData string `json:"image_data" binding:"required"`
}

// AnalyzeMeal handles photo analysis requests
func (h *Handler) AnalyzeMeal(c *gin.Context) {
	if h.analysis == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analysis service not configured"})
		return
	}

	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image_data is required"})
		return
	}

	analysis, err := h.analysis.Analyze(c.Request.Context(), req.ImageData)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidImage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image data"})
		case errors.Is(err, domain.ErrAllProvidersExhausted):
			// The caller decides between retry and manual entry
			c.JSON(http.StatusBadGateway, gin.H{
				"error": "analysis failed: no provider could analyze the image",
				"code":  "all_providers_exhausted",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// LogMeal handles meal log creation
func (h *Handler) LogMeal(c *gin.Context) {
	var req usecase.LogMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	meal, err := h.meals.LogMeal(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "meal must contain foods or calories and a valid source"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save meal"})
		return
	}

	c.JSON(http.StatusCreated, meal)
}

// ListMeals returns logged meals for an optional from/to window
func (h *Handler) ListMeals(c *gin.Context) {
	var from, to time.Time
	var err error

	if raw := c.Query("from"); raw != "" {
		if from, err = time.Parse(time.RFC3339, raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be RFC3339"})
			return
		}
	}
	if raw := c.Query("to"); raw != "" {
		if to, err = time.Parse(time.RFC3339, raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be RFC3339"})
			return
		}
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
	}

	meals, err := h.meals.ListMeals(c.Request.Context(), from, to, limit)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be before to"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list meals"})
		return
	}
	if meals == nil {
		meals = []*domain.Meal{}
	}

	c.JSON(http.StatusOK, gin.H{"meals": meals, "count": len(meals)})
}

// DeleteMeal removes one meal by id
func (h *Handler) DeleteMeal(c *gin.Context) {
	err := h.meals.DeleteMeal(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMealNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "meal not found"})
		case errors.Is(err, domain.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": "meal id is required"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete meal"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// DailySummary returns dashboard totals for one day (defaults to today, UTC)
func (h *Handler) DailySummary(c *gin.Context) {
	date := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	summary, err := h.meals.DailySummary(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

