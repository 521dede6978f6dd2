package domain

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChangeItem is one field edit proposed by the assistant. Values arrive as
// raw strings and are parsed and validated before being applied.
type ChangeItem struct {
	Field  string `json:"field"`
	Value  string `json:"value"`
	Reason string `json:"reason,omitempty"`
}

type AssistantMessage struct {
	ID         int64        `json:"id"`
	UserID     int64        `json:"user_id"`
	Role       string       `json:"role"`
	Content    string       `json:"content"`
	NeedChange bool         `json:"need_change"`
	ChangeLog  []ChangeItem `json:"change_log"`
	CreatedAt  time.Time    `json:"created_at"`
}

// AgentContext is the snapshot handed to the generator. Metric and
// Preference may be nil when the user has not logged anything yet; the
// generator is expected to cope.
type AgentContext struct {
	UserID     int64
	Metric     *HealthMetric
	Preference *Preference
	History    []AssistantMessage
}

type ChatRequest struct {
	Context   AgentContext
	UserInput string
}

// StreamChunk is one SSE event of a chat turn. Non-final chunks carry
// incremental text; the final chunk carries the full assistant reply plus
// any proposed change log.
type StreamChunk struct {
	Content    string       `json:"content"`
	NeedChange bool         `json:"need_change"`
	ChangeLog  []ChangeItem `json:"change_log,omitempty"`
	IsFinal    bool         `json:"is_final"`
}

type AppliedChange struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type RejectedChange struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ReconcileResult reports the per-item outcome of applying a change log.
// A rejected item never blocks the remaining ones.
type ReconcileResult struct {
	Applied  []AppliedChange  `json:"applied"`
	Rejected []RejectedChange `json:"rejected"`
}
