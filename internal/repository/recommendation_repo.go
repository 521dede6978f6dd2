package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yusufkecer/health-agent-backend/internal/domain"
)

type RecommendationRepository struct {
	db *sql.DB
}

func NewRecommendationRepository(db *sql.DB) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

func (r *RecommendationRepository) Create(userID int64, s *domain.Suggestion) (*domain.Recommendation, error) {
	rec := &domain.Recommendation{
		UserID:     userID,
		Suggestion: *s,
		CreatedAt:  time.Now().UTC(),
	}
	rec.EnsureLists()

	lists := make([][]byte, 0, 5)
	for _, l := range [][]string{rec.MealPlan, rec.CalorieManagement, rec.WeightManagement, rec.Hydration, rec.Lifestyle} {
		b, err := json.Marshal(l)
		if err != nil {
			return nil, fmt.Errorf("failed to encode suggestion list: %w", err)
		}
		lists = append(lists, b)
	}

	result, err := r.db.Exec(
		`INSERT INTO health_recommendations
		 (user_id, summary, meal_plan, calorie_management, weight_management, hydration, lifestyle, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.UserID, rec.Summary, lists[0], lists[1], lists[2], lists[3], lists[4], rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create recommendation: %w", err)
	}
	rec.ID, err = result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *RecommendationRepository) Latest(userID int64) (*domain.Recommendation, error) {
	var rec domain.Recommendation
	lists := make([][]byte, 5)
	err := r.db.QueryRow(
		`SELECT id, user_id, summary, meal_plan, calorie_management, weight_management, hydration, lifestyle, created_at
		 FROM health_recommendations
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`, userID,
	).Scan(&rec.ID, &rec.UserID, &rec.Summary, &lists[0], &lists[1], &lists[2], &lists[3], &lists[4], &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest recommendation: %w", err)
	}

	for i, dst := range []*[]string{&rec.MealPlan, &rec.CalorieManagement, &rec.WeightManagement, &rec.Hydration, &rec.Lifestyle} {
		if err := json.Unmarshal(lists[i], dst); err != nil {
			return nil, fmt.Errorf("failed to decode suggestion list: %w", err)
		}
	}
	rec.EnsureLists()
	return &rec, nil
}
