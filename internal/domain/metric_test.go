package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMetricPayload() MetricPayload {
	return MetricPayload{
		WeightKg:       68.5,
		BodyFatPercent: 20.1,
		BMI:            22.5,
		MusclePercent:  38.0,
		WaterPercent:   55.4,
	}
}

func TestMetricPayloadValidate(t *testing.T) {
	p := validMetricPayload()
	require.NoError(t, p.Validate())
}

func TestMetricPayloadValidateOutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*MetricPayload)
		field  string
	}{
		{"weight too low", func(p *MetricPayload) { p.WeightKg = 29.9 }, "weight_kg"},
		{"weight too high", func(p *MetricPayload) { p.WeightKg = 250.1 }, "weight_kg"},
		{"body fat too low", func(p *MetricPayload) { p.BodyFatPercent = 4.9 }, "body_fat_percent"},
		{"body fat too high", func(p *MetricPayload) { p.BodyFatPercent = 70.5 }, "body_fat_percent"},
		{"bmi too low", func(p *MetricPayload) { p.BMI = 9 }, "bmi"},
		{"bmi too high", func(p *MetricPayload) { p.BMI = 61 }, "bmi"},
		{"muscle too low", func(p *MetricPayload) { p.MusclePercent = 9 }, "muscle_percent"},
		{"muscle too high", func(p *MetricPayload) { p.MusclePercent = 81 }, "muscle_percent"},
		{"water too low", func(p *MetricPayload) { p.WaterPercent = 19 }, "water_percent"},
		{"water too high", func(p *MetricPayload) { p.WaterPercent = 81 }, "water_percent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validMetricPayload()
			tt.mutate(&p)

			err := p.Validate()
			require.Error(t, err)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}

func TestMetricPayloadValidateCompositionRule(t *testing.T) {
	p := validMetricPayload()
	p.BodyFatPercent = 60
	p.MusclePercent = 45

	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "100")
}

func TestMetricPayloadValidateNoteLength(t *testing.T) {
	p := validMetricPayload()
	note := strings.Repeat("x", MaxNoteLength+1)
	p.Note = &note

	err := p.Validate()
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "note", validationErr.Field)
}

func TestValidateMetricFieldUnknown(t *testing.T) {
	err := ValidateMetricField("height_cm", 180)
	require.Error(t, err)
}
