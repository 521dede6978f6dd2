package domain

import "time"

// Preference holds a user's health goals, one live row per user. Every
// field is independently nullable; updates merge field by field.
type Preference struct {
	UserID              int64     `json:"user_id"`
	TargetWeightKg      *float64  `json:"target_weight_kg"`
	CalorieBudgetKcal   *int      `json:"calorie_budget_kcal"`
	DietaryPreference   *string   `json:"dietary_preference"`
	ActivityLevel       *string   `json:"activity_level"`
	SleepGoalHours      *float64  `json:"sleep_goal_hours"`
	HydrationGoalLiters *float64  `json:"hydration_goal_liters"`
	UpdatedAt           time.Time `json:"-"`
}

// PreferenceFields lists the mutable preference columns. Keys absent from
// a partial update leave the stored value untouched.
var PreferenceFields = []string{
	"target_weight_kg",
	"calorie_budget_kcal",
	"dietary_preference",
	"activity_level",
	"sleep_goal_hours",
	"hydration_goal_liters",
}
