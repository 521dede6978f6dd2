package service

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/yusufkecer/health-agent-backend/internal/domain"
)

type fieldRule struct {
	scope string // "metric" or "preference"
	kind  string // "float", "int" or "string"
}

// fieldRules routes assistant-proposed changes to their store. Metric
// fields produce a new metric record; preference fields merge in place.
var fieldRules = map[string]fieldRule{
	"weight_kg":             {scope: "metric", kind: "float"},
	"body_fat_percent":      {scope: "metric", kind: "float"},
	"bmi":                   {scope: "metric", kind: "float"},
	"muscle_percent":        {scope: "metric", kind: "float"},
	"water_percent":         {scope: "metric", kind: "float"},
	"note":                  {scope: "metric", kind: "string"},
	"target_weight_kg":      {scope: "preference", kind: "float"},
	"calorie_budget_kcal":   {scope: "preference", kind: "int"},
	"dietary_preference":    {scope: "preference", kind: "string"},
	"activity_level":        {scope: "preference", kind: "string"},
	"sleep_goal_hours":      {scope: "preference", kind: "float"},
	"hydration_goal_liters": {scope: "preference", kind: "float"},
}

var numericPattern = regexp.MustCompile(`[-+]?\d*\.?\d+(?:[eE][-+]?\d+)?`)

// ApplyChangeLog applies assistant-proposed edits one by one, using the
// same range table as direct writes. Each item is validated and applied
// independently; a rejected item never blocks the rest. Accepted metric
// changes are merged against the latest record and inserted as one new
// record, keeping metric records immutable.
func (s *HealthService) ApplyChangeLog(userID int64, changes []domain.ChangeItem) (*domain.ReconcileResult, error) {
	result := &domain.ReconcileResult{
		Applied:  []domain.AppliedChange{},
		Rejected: []domain.RejectedChange{},
	}
	if len(changes) == 0 {
		return result, nil
	}

	metricUpdates := map[string]any{}
	var metricItems []domain.ChangeItem
	prefUpdates := map[string]any{}
	var prefItems []domain.ChangeItem

	for _, item := range changes {
		field := strings.TrimSpace(item.Field)
		rule, ok := fieldRules[field]
		if !ok {
			result.Rejected = append(result.Rejected, domain.RejectedChange{Field: item.Field, Reason: "unknown field"})
			continue
		}

		value, ok := parseChangeValue(rule.kind, item.Value)
		if !ok {
			result.Rejected = append(result.Rejected, domain.RejectedChange{Field: field, Reason: "value could not be parsed"})
			continue
		}

		switch rule.scope {
		case "metric":
			if rule.kind == "float" {
				if err := domain.ValidateMetricField(field, value.(float64)); err != nil {
					result.Rejected = append(result.Rejected, domain.RejectedChange{Field: field, Reason: err.Error()})
					continue
				}
			} else if len([]rune(value.(string))) > domain.MaxNoteLength {
				result.Rejected = append(result.Rejected, domain.RejectedChange{Field: field, Reason: "note too long"})
				continue
			}
			metricUpdates[field] = value
			metricItems = append(metricItems, domain.ChangeItem{Field: field, Value: item.Value})
		case "preference":
			normalized, err := domain.NormalizePreferenceValue(field, value)
			if err != nil {
				result.Rejected = append(result.Rejected, domain.RejectedChange{Field: field, Reason: err.Error()})
				continue
			}
			prefUpdates[field] = normalized
			prefItems = append(prefItems, domain.ChangeItem{Field: field, Value: item.Value})
		}
	}

	if len(metricUpdates) > 0 {
		if err := s.applyMetricChanges(userID, metricUpdates, metricItems, result); err != nil {
			return nil, err
		}
	}
	if len(prefUpdates) > 0 {
		if err := s.preferences.EnsureDefault(userID); err != nil {
			return nil, err
		}
		if err := s.preferences.ApplyPartial(userID, prefUpdates); err != nil {
			return nil, err
		}
		for _, item := range prefItems {
			result.Applied = append(result.Applied, domain.AppliedChange{Field: item.Field, Value: item.Value})
		}
	}
	return result, nil
}

func (s *HealthService) applyMetricChanges(userID int64, updates map[string]any, items []domain.ChangeItem, result *domain.ReconcileResult) error {
	rejectAll := func(reason string) {
		for _, item := range items {
			result.Rejected = append(result.Rejected, domain.RejectedChange{Field: item.Field, Reason: reason})
		}
	}

	latest, err := s.metrics.Latest(userID)
	if err != nil {
		return err
	}
	if latest == nil {
		rejectAll("no metric recorded yet to merge against")
		return nil
	}

	payload := &domain.MetricPayload{
		WeightKg:       latest.WeightKg,
		BodyFatPercent: latest.BodyFatPercent,
		BMI:            latest.BMI,
		MusclePercent:  latest.MusclePercent,
		WaterPercent:   latest.WaterPercent,
		Note:           latest.Note,
	}
	for field, value := range updates {
		switch field {
		case "weight_kg":
			payload.WeightKg = value.(float64)
		case "body_fat_percent":
			payload.BodyFatPercent = value.(float64)
		case "bmi":
			payload.BMI = value.(float64)
		case "muscle_percent":
			payload.MusclePercent = value.(float64)
		case "water_percent":
			payload.WaterPercent = value.(float64)
		case "note":
			note := value.(string)
			payload.Note = &note
		}
	}

	// Per-field ranges were checked above; this catches cross-field rules
	// on the merged record, the same path a direct write goes through.
	if err := payload.Validate(); err != nil {
		rejectAll(err.Error())
		return nil
	}

	if _, err := s.RecordMetric(userID, payload); err != nil {
		return err
	}
	for _, item := range items {
		result.Applied = append(result.Applied, domain.AppliedChange{Field: item.Field, Value: item.Value})
	}
	return nil
}

// parseChangeValue turns a raw change-log value into a typed one. Numeric
// values tolerate units and percent signs ("66.2 kg", "18%").
func parseChangeValue(kind, raw string) (any, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	if kind == "string" {
		return raw, true
	}

	text := strings.NewReplacer("%", "", "％", "").Replace(raw)
	match := numericPattern.FindString(text)
	if match == "" {
		return nil, false
	}
	number, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return nil, false
	}

	if kind == "int" {
		return int(math.Round(number)), true
	}
	return math.Round(number*100) / 100, true
}
