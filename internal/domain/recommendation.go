package domain

import "time"

// Suggestion is the structured document produced by the agent.
type Suggestion struct {
	Summary           string   `json:"summary"`
	MealPlan          []string `json:"meal_plan"`
	CalorieManagement []string `json:"calorie_management"`
	WeightManagement  []string `json:"weight_management"`
	Hydration         []string `json:"hydration"`
	Lifestyle         []string `json:"lifestyle"`
}

// EnsureLists replaces nil list fields with empty slices so the stored and
// serialized shape always carries all five lists.
func (s *Suggestion) EnsureLists() {
	if s.MealPlan == nil {
		s.MealPlan = []string{}
	}
	if s.CalorieManagement == nil {
		s.CalorieManagement = []string{}
	}
	if s.WeightManagement == nil {
		s.WeightManagement = []string{}
	}
	if s.Hydration == nil {
		s.Hydration = []string{}
	}
	if s.Lifestyle == nil {
		s.Lifestyle = []string{}
	}
}

type Recommendation struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`
	Suggestion
	CreatedAt time.Time `json:"created_at"`
}
