package domain

import "time"

// HealthMetric is one body-composition snapshot. Records are immutable;
// corrections are made by inserting a newer record.
type HealthMetric struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	WeightKg       float64   `json:"weight_kg"`
	BodyFatPercent float64   `json:"body_fat_percent"`
	BMI            float64   `json:"bmi"`
	MusclePercent  float64   `json:"muscle_percent"`
	WaterPercent   float64   `json:"water_percent"`
	Note           *string   `json:"note"`
	RecordedAt     time.Time `json:"recorded_at"`
	CreatedAt      time.Time `json:"created_at"`
}

type MetricPayload struct {
	WeightKg       float64    `json:"weight_kg"`
	BodyFatPercent float64    `json:"body_fat_percent"`
	BMI            float64    `json:"bmi"`
	MusclePercent  float64    `json:"muscle_percent"`
	WaterPercent   float64    `json:"water_percent"`
	Note           *string    `json:"note"`
	RecordedAt     *time.Time `json:"recorded_at"`
}

func (p *MetricPayload) Validate() error {
	if err := ValidateMetricField("weight_kg", p.WeightKg); err != nil {
		return err
	}
	if err := ValidateMetricField("body_fat_percent", p.BodyFatPercent); err != nil {
		return err
	}
	if err := ValidateMetricField("bmi", p.BMI); err != nil {
		return err
	}
	if err := ValidateMetricField("muscle_percent", p.MusclePercent); err != nil {
		return err
	}
	if err := ValidateMetricField("water_percent", p.WaterPercent); err != nil {
		return err
	}
	if p.BodyFatPercent+p.MusclePercent > 100 {
		return NewValidationError("body_fat_percent", "body fat and muscle percentages cannot add up to more than 100")
	}
	if p.Note != nil && len([]rune(*p.Note)) > MaxNoteLength {
		return NewValidationError("note", "must be at most %d characters", MaxNoteLength)
	}
	return nil
}
