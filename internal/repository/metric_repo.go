package repository

import (
	"database/sql"
	"fmt"

	"github.com/yusufkecer/health-agent-backend/internal/domain"
)

type MetricRepository struct {
	db *sql.DB
}

func NewMetricRepository(db *sql.DB) *MetricRepository {
	return &MetricRepository{db: db}
}

func (r *MetricRepository) Create(m *domain.HealthMetric) (int64, error) {
	result, err := r.db.Exec(
		`INSERT INTO health_metrics
		 (user_id, weight_kg, body_fat_percent, bmi, muscle_percent, water_percent, note, recorded_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.UserID, m.WeightKg, m.BodyFatPercent, m.BMI, m.MusclePercent, m.WaterPercent,
		m.Note, m.RecordedAt, m.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create metric: %w", err)
	}
	return result.LastInsertId()
}

// Latest returns the metric with the greatest recorded_at, ties broken by
// insertion order. Returns nil when the user has no records.
func (r *MetricRepository) Latest(userID int64) (*domain.HealthMetric, error) {
	var m domain.HealthMetric
	err := r.db.QueryRow(
		`SELECT id, user_id, weight_kg, body_fat_percent, bmi, muscle_percent, water_percent, note, recorded_at, created_at
		 FROM health_metrics
		 WHERE user_id = ?
		 ORDER BY recorded_at DESC, id DESC
		 LIMIT 1`, userID,
	).Scan(&m.ID, &m.UserID, &m.WeightKg, &m.BodyFatPercent, &m.BMI, &m.MusclePercent, &m.WaterPercent, &m.Note, &m.RecordedAt, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest metric: %w", err)
	}
	return &m, nil
}

func (r *MetricRepository) History(userID int64, limit int) ([]domain.HealthMetric, error) {
	rows, err := r.db.Query(
		`SELECT id, user_id, weight_kg, body_fat_percent, bmi, muscle_percent, water_percent, note, recorded_at, created_at
		 FROM health_metrics
		 WHERE user_id = ?
		 ORDER BY recorded_at DESC, id DESC
		 LIMIT ?`, userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list metrics: %w", err)
	}
	defer rows.Close()

	var metrics []domain.HealthMetric
	for rows.Next() {
		var m domain.HealthMetric
		if err := rows.Scan(&m.ID, &m.UserID, &m.WeightKg, &m.BodyFatPercent, &m.BMI, &m.MusclePercent, &m.WaterPercent, &m.Note, &m.RecordedAt, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan metric: %w", err)
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}
