package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/coderabbit-demo/ai-fitness-coach-sub001/internal/domain"
)

// MealSource values accepted on a log request
const (
	MealSourcePhoto  = "photo"
	MealSourceManual = "manual"
)

const defaultListLimit = 50

// LogMealRequest is the input for logging a meal. Foods and totals usually
// come straight from a NutritionAnalysis; manual entries fill them by hand.
type LogMealRequest struct {
	LoggedAt      time.Time         `json:"loggedAt"`
	Foods         []domain.FoodItem `json:"foods"`
	TotalCalories float64           `json:"totalCalories"`
	TotalProtein  float64           `json:"totalProtein"`
	TotalCarbs    float64           `json:"totalCarbs"`
	TotalFat      float64           `json:"totalFat"`
	TotalFiber    float64           `json:"totalFiber"`
	Confidence    float64           `json:"confidence"`
	Notes         string            `json:"notes"`
	Source        string            `json:"source"`
}

// MealService handles the meal log behind the dashboard
type MealService struct {
	meals domain.MealRepository
}

// NewMealService creates a meal service with dependencies
func NewMealService(meals domain.MealRepository) *MealService {
	return &MealService{meals: meals}
}

// LogMeal validates and persists a new meal entry
func (s *MealService) LogMeal(ctx context.Context, req *LogMealRequest) (*domain.Meal, error) {
	if req == nil {
		return nil, domain.ErrInvalidRequest
	}
	if len(req.Foods) == 0 && req.TotalCalories == 0 {
		return nil, domain.ErrInvalidRequest
	}

	source := req.Source
	if source == "" {
		source = MealSourceManual
	}
	if source != MealSourcePhoto && source != MealSourceManual {
		return nil, domain.ErrInvalidRequest
	}

	now := time.Now().UTC()
	loggedAt := req.LoggedAt
	if loggedAt.IsZero() {
		loggedAt = now
	}

	meal := &domain.Meal{
		ID:            uuid.NewString(),
		LoggedAt:      loggedAt,
		Foods:         req.Foods,
		TotalCalories: req.TotalCalories,
		TotalProtein:  req.TotalProtein,
		TotalCarbs:    req.TotalCarbs,
		TotalFat:      req.TotalFat,
		TotalFiber:    req.TotalFiber,
		Confidence:    req.Confidence,
		Notes:         req.Notes,
		Source:        source,
		CreatedAt:     now,
	}

	if err := s.meals.Save(ctx, meal); err != nil {
		return nil, err
	}
	return meal, nil
}

// ListMeals returns meals logged in [from, to), newest first. A zero `to`
// means now; a zero `from` means the preceding 7 days.
func (s *MealService) ListMeals(ctx context.Context, from, to time.Time, limit int) ([]*domain.Meal, error) {
	if to.IsZero() {
		to = time.Now().UTC()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -7)
	}
	if !from.Before(to) {
		return nil, domain.ErrInvalidRequest
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.meals.List(ctx, from, to, limit)
}

// DeleteMeal removes a meal by id
func (s *MealService) DeleteMeal(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidRequest
	}
	return s.meals.Delete(ctx, id)
}

// DailySummary aggregates one calendar day (UTC) of logged meals
func (s *MealService) DailySummary(ctx context.Context, date time.Time) (*domain.DailySummary, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	meals, err := s.meals.List(ctx, dayStart, dayEnd, 0)
	if err != nil {
		return nil, err
	}

	summary := &domain.DailySummary{
		Date:      dayStart.Format("2006-01-02"),
		MealCount: len(meals),
	}
	for _, meal := range meals {
		summary.TotalCalories += meal.TotalCalories
		summary.TotalProtein += meal.TotalProtein
		summary.TotalCarbs += meal.TotalCarbs
		summary.TotalFat += meal.TotalFat
		summary.TotalFiber += meal.TotalFiber
	}
	return summary, nil
}
