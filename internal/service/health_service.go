package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yusufkecer/health-agent-backend/internal/domain"
)

// Limits for history reads. A missing or non-positive limit falls back to
// the default; anything above the cap is clamped.
const (
	DefaultMetricLimit  = 30
	MaxMetricLimit      = 365
	DefaultMessageLimit = 50
	MaxMessageLimit     = 200
)

const maxChatInputLength = 2000

type MetricStore interface {
	Create(m *domain.HealthMetric) (int64, error)
	Latest(userID int64) (*domain.HealthMetric, error)
	History(userID int64, limit int) ([]domain.HealthMetric, error)
}

type PreferenceStore interface {
	Get(userID int64) (*domain.Preference, error)
	EnsureDefault(userID int64) error
	ApplyPartial(userID int64, fields map[string]any) error
}

type RecommendationStore interface {
	Create(userID int64, s *domain.Suggestion) (*domain.Recommendation, error)
	Latest(userID int64) (*domain.Recommendation, error)
}

type MessageStore interface {
	Create(m *domain.AssistantMessage) (int64, error)
	ListRecent(userID int64, limit int) ([]domain.AssistantMessage, error)
}

// Generator is the opaque recommendation generator. Production wires the
// OpenAI-compatible client; tests substitute a deterministic fake.
type Generator interface {
	FetchSuggestion(ctx context.Context, agentCtx domain.AgentContext) (*domain.Suggestion, error)
	StreamChat(ctx context.Context, req domain.ChatRequest, emit func(domain.StreamChunk) error) error
}

type HealthService struct {
	metrics     MetricStore
	preferences PreferenceStore
	recs        RecommendationStore
	messages    MessageStore
	generator   Generator
}

func NewHealthService(
	metrics MetricStore,
	preferences PreferenceStore,
	recs RecommendationStore,
	messages MessageStore,
	generator Generator,
) *HealthService {
	return &HealthService{
		metrics:     metrics,
		preferences: preferences,
		recs:        recs,
		messages:    messages,
		generator:   generator,
	}
}

func (s *HealthService) RecordMetric(userID int64, payload *domain.MetricPayload) (*domain.HealthMetric, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	recordedAt := now
	if payload.RecordedAt != nil {
		recordedAt = payload.RecordedAt.UTC()
	}

	metric := &domain.HealthMetric{
		UserID:         userID,
		WeightKg:       payload.WeightKg,
		BodyFatPercent: payload.BodyFatPercent,
		BMI:            payload.BMI,
		MusclePercent:  payload.MusclePercent,
		WaterPercent:   payload.WaterPercent,
		Note:           payload.Note,
		RecordedAt:     recordedAt,
		CreatedAt:      now,
	}

	id, err := s.metrics.Create(metric)
	if err != nil {
		return nil, err
	}
	metric.ID = id
	return metric, nil
}

func (s *HealthService) LatestMetric(userID int64) (*domain.HealthMetric, error) {
	metric, err := s.metrics.Latest(userID)
	if err != nil {
		return nil, err
	}
	if metric == nil {
		return nil, domain.ErrNotFound
	}
	return metric, nil
}

func (s *HealthService) MetricHistory(userID int64, limit int) ([]domain.HealthMetric, error) {
	metrics, err := s.metrics.History(userID, clampLimit(limit, DefaultMetricLimit, MaxMetricLimit))
	if err != nil {
		return nil, err
	}
	if metrics == nil {
		metrics = []domain.HealthMetric{}
	}
	return metrics, nil
}

// GetPreferences returns the user's preference record, creating the
// all-null default row on first access.
func (s *HealthService) GetPreferences(userID int64) (*domain.Preference, error) {
	if err := s.preferences.EnsureDefault(userID); err != nil {
		return nil, err
	}
	pref, err := s.preferences.Get(userID)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		return nil, fmt.Errorf("preference row missing after create for user %d", userID)
	}
	return pref, nil
}

// UpdatePreferences merges a partial payload. Only keys present in partial
// are touched; an explicit null clears the field. The whole update is
// rejected if any supplied field fails validation.
func (s *HealthService) UpdatePreferences(userID int64, partial map[string]any) (*domain.Preference, error) {
	updates := make(map[string]any, len(partial))
	for _, field := range domain.PreferenceFields {
		value, present := partial[field]
		if !present {
			continue
		}
		normalized, err := domain.NormalizePreferenceValue(field, value)
		if err != nil {
			return nil, err
		}
		updates[field] = normalized
	}

	if err := s.preferences.EnsureDefault(userID); err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		if err := s.preferences.ApplyPartial(userID, updates); err != nil {
			return nil, err
		}
	}
	return s.GetPreferences(userID)
}

// BuildContext assembles the generator input. It is read-only and never
// fails on absent data; the generator handles a partial context.
func (s *HealthService) BuildContext(userID int64, historyLimit int) (domain.AgentContext, error) {
	agentCtx := domain.AgentContext{UserID: userID}

	metric, err := s.metrics.Latest(userID)
	if err != nil {
		return agentCtx, err
	}
	agentCtx.Metric = metric

	pref, err := s.preferences.Get(userID)
	if err != nil {
		return agentCtx, err
	}
	agentCtx.Preference = pref

	if historyLimit > 0 {
		history, err := s.messages.ListRecent(userID, clampLimit(historyLimit, DefaultMessageLimit, MaxMessageLimit))
		if err != nil {
			return agentCtx, err
		}
		agentCtx.History = history
	}
	return agentCtx, nil
}

// GenerateSuggestion runs one generation round trip and persists the
// result. Provider failures surface to the caller without retry.
func (s *HealthService) GenerateSuggestion(ctx context.Context, userID int64) (*domain.Suggestion, error) {
	agentCtx, err := s.BuildContext(userID, 0)
	if err != nil {
		return nil, err
	}

	suggestion, err := s.generator.FetchSuggestion(ctx, agentCtx)
	if err != nil {
		return nil, err
	}
	suggestion.EnsureLists()

	if _, err := s.recs.Create(userID, suggestion); err != nil {
		return nil, err
	}
	return suggestion, nil
}

func (s *HealthService) LatestRecommendation(userID int64) (*domain.Recommendation, error) {
	rec, err := s.recs.Latest(userID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

func (s *HealthService) ListAssistantMessages(userID int64, limit int) ([]domain.AssistantMessage, error) {
	messages, err := s.messages.ListRecent(userID, clampLimit(limit, DefaultMessageLimit, MaxMessageLimit))
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []domain.AssistantMessage{}
	}
	return messages, nil
}

// StreamChat runs one chat turn. The user message is persisted up front;
// the assistant message and any change log are persisted only after the
// terminal chunk, so an interrupted stream leaves no partial state.
func (s *HealthService) StreamChat(ctx context.Context, userID int64, content string, emit func(domain.StreamChunk) error) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.NewValidationError("content", "message must not be empty")
	}
	if len([]rune(content)) > maxChatInputLength {
		return domain.NewValidationError("content", "message must be at most %d characters", maxChatInputLength)
	}

	agentCtx, err := s.BuildContext(userID, DefaultMessageLimit)
	if err != nil {
		return err
	}

	if _, err := s.messages.Create(&domain.AssistantMessage{
		UserID:    userID,
		Role:      domain.RoleUser,
		Content:   content,
		ChangeLog: []domain.ChangeItem{},
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return err
	}

	var final *domain.StreamChunk
	err = s.generator.StreamChat(ctx, domain.ChatRequest{Context: agentCtx, UserInput: content}, func(chunk domain.StreamChunk) error {
		if chunk.IsFinal {
			final = &chunk
		}
		return emit(chunk)
	})
	if err != nil {
		return err
	}
	if final == nil {
		return &domain.UpstreamError{Err: errors.New("stream ended without a terminal chunk")}
	}

	changeLog := final.ChangeLog
	if changeLog == nil {
		changeLog = []domain.ChangeItem{}
	}
	if _, err := s.messages.Create(&domain.AssistantMessage{
		UserID:     userID,
		Role:       domain.RoleAssistant,
		Content:    final.Content,
		NeedChange: final.NeedChange,
		ChangeLog:  changeLog,
		CreatedAt:  time.Now().UTC(),
	}); err != nil {
		return err
	}

	if final.NeedChange && len(changeLog) > 0 {
		result, err := s.ApplyChangeLog(userID, changeLog)
		if err != nil {
			return err
		}
		for _, rejected := range result.Rejected {
			log.Printf("change log item rejected for user %d: %s: %s", userID, rejected.Field, rejected.Reason)
		}
	}
	return nil
}

func clampLimit(limit, fallback, max int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > max {
		return max
	}
	return limit
}
