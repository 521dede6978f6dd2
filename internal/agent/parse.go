package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yusufkecer/health-agent-backend/internal/domain"
)

// changeMarker starts the trailing line on which the model reports proposed
// data edits. Everything before it is the user-visible reply.
const changeMarker = "<CHANGES>"

type suggestionPayload struct {
	Summary           string          `json:"summary"`
	MealPlan          json.RawMessage `json:"meal_plan"`
	CalorieManagement json.RawMessage `json:"calorie_management"`
	WeightManagement  json.RawMessage `json:"weight_management"`
	Hydration         json.RawMessage `json:"hydration"`
	Lifestyle         json.RawMessage `json:"lifestyle"`
}

func parseSuggestion(content string) (*domain.Suggestion, error) {
	var payload suggestionPayload
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &payload); err != nil {
		return nil, fmt.Errorf("suggestion is not valid JSON: %w", err)
	}

	summary := strings.TrimSpace(payload.Summary)
	if summary == "" {
		summary = "No summary available."
	}

	s := &domain.Suggestion{
		Summary:           summary,
		MealPlan:          normalizeList(payload.MealPlan),
		CalorieManagement: normalizeList(payload.CalorieManagement),
		WeightManagement:  normalizeList(payload.WeightManagement),
		Hydration:         normalizeList(payload.Hydration),
		Lifestyle:         normalizeList(payload.Lifestyle),
	}
	return s, nil
}

// normalizeList accepts either a JSON array or a newline-separated string;
// models in JSON mode occasionally produce the latter.
func normalizeList(raw json.RawMessage) []string {
	result := []string{}
	if len(raw) == 0 {
		return result
	}

	var items []any
	if err := json.Unmarshal(raw, &items); err == nil {
		for _, item := range items {
			text := strings.TrimSpace(fmt.Sprintf("%v", item))
			if text != "" {
				result = append(result, text)
			}
		}
		return result
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return result
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-•* "))
		if line != "" {
			result = append(result, line)
		}
	}
	return result
}

func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}

type changeMarkerPayload struct {
	ChangeLog []domain.ChangeItem `json:"change_log"`
}

// parseChangeMarker decodes the payload after the change marker. An empty
// tail means the model proposed no edits.
func parseChangeMarker(tail string) ([]domain.ChangeItem, error) {
	tail = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tail), changeMarker))
	if tail == "" {
		return nil, nil
	}

	var payload changeMarkerPayload
	if err := json.Unmarshal([]byte(stripCodeFence(tail)), &payload); err != nil {
		return nil, fmt.Errorf("change marker payload is not valid JSON: %w", err)
	}

	changes := make([]domain.ChangeItem, 0, len(payload.ChangeLog))
	for _, item := range payload.ChangeLog {
		item.Field = strings.TrimSpace(item.Field)
		item.Value = strings.TrimSpace(item.Value)
		if item.Field == "" || item.Value == "" {
			continue
		}
		changes = append(changes, item)
	}
	return changes, nil
}

// markerSplitter forwards streamed text while holding back anything that
// could be the start of the change marker, so the marker and its payload
// never leak into the incremental chunks.
type markerSplitter struct {
	marker  string
	buf     strings.Builder
	emitted int
	found   int
}

func newMarkerSplitter(marker string) *markerSplitter {
	return &markerSplitter{marker: marker, found: -1}
}

func (s *markerSplitter) push(delta string) string {
	s.buf.WriteString(delta)
	if s.found >= 0 {
		return ""
	}

	full := s.buf.String()
	if idx := strings.Index(full, s.marker); idx >= 0 {
		s.found = idx
		safe := full[s.emitted:idx]
		s.emitted = idx
		return safe
	}

	// Keep a marker-sized tail unemitted in case the marker is split
	// across deltas.
	safeEnd := len(full) - len(s.marker) + 1
	if safeEnd <= s.emitted {
		return ""
	}
	safe := full[s.emitted:safeEnd]
	s.emitted = safeEnd
	return safe
}

// finish returns the full visible text and the marker tail (if any).
func (s *markerSplitter) finish() (visible, tail string) {
	full := s.buf.String()
	if s.found >= 0 {
		return full[:s.found], full[s.found:]
	}
	return full, ""
}
