package domain

import "time"

// Meal is a logged meal entry, usually created from a photo analysis but
// manual entry is supported as a fallback when analysis fails.
type Meal struct {
	ID            string     `json:"id"`
	LoggedAt      time.Time  `json:"loggedAt"`
	Foods         []FoodItem `json:"foods"`
	TotalCalories float64    `json:"totalCalories"`
	TotalProtein  float64    `json:"totalProtein"`
	TotalCarbs    float64    `json:"totalCarbs"`
	TotalFat      float64    `json:"totalFat"`
	TotalFiber    float64    `json:"totalFiber"`
	Confidence    float64    `json:"confidence"`
	Notes         string     `json:"notes,omitempty"`
	Source        string     `json:"source"` // "photo" or "manual"
	CreatedAt     time.Time  `json:"createdAt"`
}

// DailySummary aggregates one day of logged meals for the dashboard
type DailySummary struct {
	Date          string  `json:"date"` // YYYY-MM-DD
	MealCount     int     `json:"mealCount"`
	TotalCalories float64 `json:"totalCalories"`
	TotalProtein  float64 `json:"totalProtein"`
	TotalCarbs    float64 `json:"totalCarbs"`
	TotalFat      float64 `json:"totalFat"`
	TotalFiber    float64 `json:"totalFiber"`
}
