package service

import (
	"context"
	"sort"

	"github.com/yusufkecer/health-agent-backend/internal/domain"
)

type fakeMetricStore struct {
	records   []domain.HealthMetric
	nextID    int64
	lastLimit int
}

func (f *fakeMetricStore) Create(m *domain.HealthMetric) (int64, error) {
	f.nextID++
	m.ID = f.nextID
	f.records = append(f.records, *m)
	return m.ID, nil
}

func (f *fakeMetricStore) sortedFor(userID int64) []domain.HealthMetric {
	var out []domain.HealthMetric
	for _, m := range f.records {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].RecordedAt.Equal(out[j].RecordedAt) {
			return out[i].RecordedAt.After(out[j].RecordedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (f *fakeMetricStore) Latest(userID int64) (*domain.HealthMetric, error) {
	records := f.sortedFor(userID)
	if len(records) == 0 {
		return nil, nil
	}
	m := records[0]
	return &m, nil
}

func (f *fakeMetricStore) History(userID int64, limit int) ([]domain.HealthMetric, error) {
	f.lastLimit = limit
	records := f.sortedFor(userID)
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

type fakePreferenceStore struct {
	prefs map[int64]*domain.Preference
}

func newFakePreferenceStore() *fakePreferenceStore {
	return &fakePreferenceStore{prefs: map[int64]*domain.Preference{}}
}

func (f *fakePreferenceStore) Get(userID int64) (*domain.Preference, error) {
	p, ok := f.prefs[userID]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (f *fakePreferenceStore) EnsureDefault(userID int64) error {
	if _, ok := f.prefs[userID]; !ok {
		f.prefs[userID] = &domain.Preference{UserID: userID}
	}
	return nil
}

func (f *fakePreferenceStore) ApplyPartial(userID int64, fields map[string]any) error {
	p, ok := f.prefs[userID]
	if !ok {
		return nil
	}
	for k, v := range fields {
		switch k {
		case "target_weight_kg":
			p.TargetWeightKg = floatPtrOrNil(v)
		case "calorie_budget_kcal":
			if v == nil {
				p.CalorieBudgetKcal = nil
			} else {
				n := v.(int)
				p.CalorieBudgetKcal = &n
			}
		case "dietary_preference":
			p.DietaryPreference = stringPtrOrNil(v)
		case "activity_level":
			p.ActivityLevel = stringPtrOrNil(v)
		case "sleep_goal_hours":
			p.SleepGoalHours = floatPtrOrNil(v)
		case "hydration_goal_liters":
			p.HydrationGoalLiters = floatPtrOrNil(v)
		}
	}
	return nil
}

func floatPtrOrNil(v any) *float64 {
	if v == nil {
		return nil
	}
	n := v.(float64)
	return &n
}

func stringPtrOrNil(v any) *string {
	if v == nil {
		return nil
	}
	s := v.(string)
	return &s
}

type fakeRecommendationStore struct {
	saved  []domain.Recommendation
	nextID int64
}

func (f *fakeRecommendationStore) Create(userID int64, s *domain.Suggestion) (*domain.Recommendation, error) {
	f.nextID++
	rec := domain.Recommendation{ID: f.nextID, UserID: userID, Suggestion: *s}
	rec.EnsureLists()
	f.saved = append(f.saved, rec)
	return &rec, nil
}

func (f *fakeRecommendationStore) Latest(userID int64) (*domain.Recommendation, error) {
	for i := len(f.saved) - 1; i >= 0; i-- {
		if f.saved[i].UserID == userID {
			rec := f.saved[i]
			return &rec, nil
		}
	}
	return nil, nil
}

type fakeMessageStore struct {
	messages []domain.AssistantMessage
	nextID   int64
}

func (f *fakeMessageStore) Create(m *domain.AssistantMessage) (int64, error) {
	f.nextID++
	m.ID = f.nextID
	f.messages = append(f.messages, *m)
	return m.ID, nil
}

func (f *fakeMessageStore) ListRecent(userID int64, limit int) ([]domain.AssistantMessage, error) {
	var out []domain.AssistantMessage
	for _, m := range f.messages {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

// fakeGenerator is the deterministic stand-in for the LLM client.
type fakeGenerator struct {
	suggestion *domain.Suggestion
	err        error

	chunks    []domain.StreamChunk
	streamErr error

	gotContext domain.AgentContext
	gotRequest domain.ChatRequest
}

func (f *fakeGenerator) FetchSuggestion(_ context.Context, agentCtx domain.AgentContext) (*domain.Suggestion, error) {
	f.gotContext = agentCtx
	if f.err != nil {
		return nil, f.err
	}
	copied := *f.suggestion
	return &copied, nil
}

func (f *fakeGenerator) StreamChat(_ context.Context, req domain.ChatRequest, emit func(domain.StreamChunk) error) error {
	f.gotRequest = req
	for _, chunk := range f.chunks {
		if err := emit(chunk); err != nil {
			return err
		}
	}
	return f.streamErr
}

func newTestService() (*HealthService, *fakeMetricStore, *fakePreferenceStore, *fakeRecommendationStore, *fakeMessageStore, *fakeGenerator) {
	metrics := &fakeMetricStore{}
	prefs := newFakePreferenceStore()
	recs := &fakeRecommendationStore{}
	messages := &fakeMessageStore{}
	generator := &fakeGenerator{}
	svc := NewHealthService(metrics, prefs, recs, messages, generator)
	return svc, metrics, prefs, recs, messages, generator
}
