package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yusufkecer/health-agent-backend/internal/domain"
)

func TestApplyChangeLogEmptyIsNoOp(t *testing.T) {
	svc, metrics, prefs, _, _, _ := newTestService()

	result, err := svc.ApplyChangeLog(1, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Applied)
	assert.Empty(t, result.Rejected)
	assert.Empty(t, metrics.records)
	assert.Empty(t, prefs.prefs)
}

func TestApplyChangeLogPartialSuccess(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()

	// One valid change and one out-of-range change: the valid one must be
	// applied, the invalid one rejected, independently.
	result, err := svc.ApplyChangeLog(1, []domain.ChangeItem{
		{Field: "hydration_goal_liters", Value: "2.8 L", Reason: "user adjusted goal"},
		{Field: "target_weight_kg", Value: "999", Reason: "x"},
	})
	require.NoError(t, err)
	require.Len(t, result.Applied, 1)
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, "hydration_goal_liters", result.Applied[0].Field)
	assert.Equal(t, "target_weight_kg", result.Rejected[0].Field)

	pref, err := svc.GetPreferences(1)
	require.NoError(t, err)
	require.NotNil(t, pref.HydrationGoalLiters)
	assert.Equal(t, 2.8, *pref.HydrationGoalLiters)
	assert.Nil(t, pref.TargetWeightKg, "rejected change leaves the store untouched")
}

func TestApplyChangeLogRejectsOutOfRangeOnly(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()

	result, err := svc.ApplyChangeLog(1, []domain.ChangeItem{
		{Field: "target_weight_kg", Value: "999", Reason: "x"},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Applied)
	require.Len(t, result.Rejected, 1)

	pref, err := svc.GetPreferences(1)
	require.NoError(t, err)
	assert.Nil(t, pref.TargetWeightKg)
}

func TestApplyChangeLogMetricCreatesNewRecord(t *testing.T) {
	svc, metrics, _, _, _, _ := newTestService()

	_, err := svc.RecordMetric(1, samplePayload())
	require.NoError(t, err)

	result, err := svc.ApplyChangeLog(1, []domain.ChangeItem{
		{Field: "weight_kg", Value: "66.2 kg", Reason: "weigh-in"},
	})
	require.NoError(t, err)
	require.Len(t, result.Applied, 1)
	assert.Empty(t, result.Rejected)

	// A new record is inserted; the original stays untouched.
	require.Len(t, metrics.records, 2)

	latest, err := svc.LatestMetric(1)
	require.NoError(t, err)
	assert.Equal(t, 66.2, latest.WeightKg)
	assert.Equal(t, 20.1, latest.BodyFatPercent, "unspecified fields merge from the previous record")
	assert.Equal(t, 22.5, latest.BMI)
}

func TestApplyChangeLogMetricWithoutBaseline(t *testing.T) {
	svc, metrics, _, _, _, _ := newTestService()

	result, err := svc.ApplyChangeLog(1, []domain.ChangeItem{
		{Field: "weight_kg", Value: "66.2"},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Applied)
	require.Len(t, result.Rejected, 1)
	assert.Empty(t, metrics.records)
}

func TestApplyChangeLogUnknownAndUnparsable(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()

	result, err := svc.ApplyChangeLog(1, []domain.ChangeItem{
		{Field: "shoe_size", Value: "42"},
		{Field: "sleep_goal_hours", Value: "a lot"},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Applied)
	assert.Len(t, result.Rejected, 2)
}

func TestApplyChangeLogMergedRecordStillValidated(t *testing.T) {
	svc, metrics, _, _, _, _ := newTestService()

	payload := samplePayload()
	payload.BodyFatPercent = 45
	payload.MusclePercent = 40
	_, err := svc.RecordMetric(1, payload)
	require.NoError(t, err)

	// 61% body fat is within its own range but pushes fat+muscle past 100
	// on the merged record; the change must be rejected.
	result, err := svc.ApplyChangeLog(1, []domain.ChangeItem{
		{Field: "body_fat_percent", Value: "61%"},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Applied)
	require.Len(t, result.Rejected, 1)
	assert.Len(t, metrics.records, 1)
}

func TestParseChangeValue(t *testing.T) {
	tests := []struct {
		kind string
		raw  string
		want any
		ok   bool
	}{
		{"float", "66.2 kg", 66.2, true},
		{"float", "18%", 18.0, true},
		{"float", "2.8 L", 2.8, true},
		{"int", "2000 kcal", 2000, true},
		{"int", "1999.6", 2000, true},
		{"float", "abc", nil, false},
		{"float", "", nil, false},
		{"string", "  high protein  ", "high protein", true},
		{"string", "", nil, false},
	}

	for _, tt := range tests {
		got, ok := parseChangeValue(tt.kind, tt.raw)
		assert.Equal(t, tt.ok, ok, "raw=%q", tt.raw)
		if tt.ok {
			assert.Equal(t, tt.want, got, "raw=%q", tt.raw)
		}
	}
}
