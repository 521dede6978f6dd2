package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/yusufkecer/health-agent-backend/internal/domain"
)

type PreferenceRepository struct {
	db *sql.DB
}

func NewPreferenceRepository(db *sql.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

func (r *PreferenceRepository) Get(userID int64) (*domain.Preference, error) {
	var p domain.Preference
	err := r.db.QueryRow(
		`SELECT user_id, target_weight_kg, calorie_budget_kcal, dietary_preference, activity_level, sleep_goal_hours, hydration_goal_liters, updated_at
		 FROM health_preferences WHERE user_id = ?`, userID,
	).Scan(&p.UserID, &p.TargetWeightKg, &p.CalorieBudgetKcal, &p.DietaryPreference, &p.ActivityLevel, &p.SleepGoalHours, &p.HydrationGoalLiters, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}
	return &p, nil
}

// EnsureDefault creates the all-null preference row on first access.
func (r *PreferenceRepository) EnsureDefault(userID int64) error {
	_, err := r.db.Exec(
		`INSERT IGNORE INTO health_preferences (user_id) VALUES (?)`, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to create default preferences: %w", err)
	}
	return nil
}

// ApplyPartial merges the supplied fields into the user's preference row.
// Keys outside the allow list are skipped; a nil value stores NULL.
func (r *PreferenceRepository) ApplyPartial(userID int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	allowed := make(map[string]bool, len(domain.PreferenceFields))
	for _, f := range domain.PreferenceFields {
		allowed[f] = true
	}

	var setClauses []string
	var args []any
	for k, v := range fields {
		if !allowed[k] {
			continue
		}
		setClauses = append(setClauses, k+" = ?")
		args = append(args, v)
	}

	if len(setClauses) == 0 {
		return nil
	}

	args = append(args, userID)
	query := "UPDATE health_preferences SET " + strings.Join(setClauses, ", ") + " WHERE user_id = ?"

	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to update preferences: %w", err)
	}
	return nil
}
