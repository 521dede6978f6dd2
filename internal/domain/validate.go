package domain

import (
	"math"
	"strings"
)

// NumericRange bounds a field to its plausible domain. The same table is
// used for direct writes and for changes proposed by the assistant; there
// is no laxer path for agent-authored edits.
type NumericRange struct {
	Min float64
	Max float64
}

var MetricRanges = map[string]NumericRange{
	"weight_kg":        {Min: 30, Max: 250},
	"body_fat_percent": {Min: 5, Max: 70},
	"bmi":              {Min: 10, Max: 60},
	"muscle_percent":   {Min: 10, Max: 80},
	"water_percent":    {Min: 20, Max: 80},
}

var PreferenceRanges = map[string]NumericRange{
	"target_weight_kg":      {Min: 1, Max: 200},
	"calorie_budget_kcal":   {Min: 600, Max: 5000},
	"sleep_goal_hours":      {Min: 4, Max: 12},
	"hydration_goal_liters": {Min: 1, Max: 6},
}

const (
	MaxNoteLength     = 200
	MaxDietaryLength  = 80
	MaxActivityLength = 40
)

func checkRange(table map[string]NumericRange, field string, value float64) error {
	r, ok := table[field]
	if !ok {
		return NewValidationError(field, "unknown field")
	}
	if value < r.Min || value > r.Max {
		return NewValidationError(field, "must be between %g and %g", r.Min, r.Max)
	}
	return nil
}

func ValidateMetricField(field string, value float64) error {
	return checkRange(MetricRanges, field, value)
}

func ValidatePreferenceField(field string, value float64) error {
	return checkRange(PreferenceRanges, field, value)
}

// NormalizePreferenceValue validates one preference field of a partial
// update and returns the value to store. nil clears the field.
func NormalizePreferenceValue(field string, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch field {
	case "target_weight_kg", "sleep_goal_hours", "hydration_goal_liters":
		f, ok := toFloat(value)
		if !ok {
			return nil, NewValidationError(field, "must be a number")
		}
		if err := ValidatePreferenceField(field, f); err != nil {
			return nil, err
		}
		return math.Round(f*10) / 10, nil
	case "calorie_budget_kcal":
		f, ok := toFloat(value)
		if !ok {
			return nil, NewValidationError(field, "must be a number")
		}
		if err := ValidatePreferenceField(field, f); err != nil {
			return nil, err
		}
		return int(math.Round(f)), nil
	case "dietary_preference":
		return normalizeText(field, value, MaxDietaryLength)
	case "activity_level":
		return normalizeText(field, value, MaxActivityLength)
	default:
		return nil, NewValidationError(field, "unknown field")
	}
}

func normalizeText(field string, value any, maxLen int) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, NewValidationError(field, "must be a string")
	}
	s = strings.TrimSpace(s)
	if len([]rune(s)) > maxLen {
		return nil, NewValidationError(field, "must be at most %d characters", maxLen)
	}
	return s, nil
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
