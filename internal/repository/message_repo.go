package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/yusufkecer/health-agent-backend/internal/domain"
)

type MessageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(m *domain.AssistantMessage) (int64, error) {
	changeLog := m.ChangeLog
	if changeLog == nil {
		changeLog = []domain.ChangeItem{}
	}
	encoded, err := json.Marshal(changeLog)
	if err != nil {
		return 0, fmt.Errorf("failed to encode change log: %w", err)
	}

	result, err := r.db.Exec(
		`INSERT INTO assistant_messages (user_id, role, content, need_change, change_log, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.UserID, m.Role, m.Content, m.NeedChange, encoded, m.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create assistant message: %w", err)
	}
	return result.LastInsertId()
}

// ListRecent returns the newest messages up to limit, ordered oldest first
// so the slice can be fed to the generator as chat history directly.
func (r *MessageRepository) ListRecent(userID int64, limit int) ([]domain.AssistantMessage, error) {
	rows, err := r.db.Query(
		`SELECT id, user_id, role, content, need_change, change_log, created_at
		 FROM assistant_messages
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`, userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list assistant messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.AssistantMessage
	for rows.Next() {
		var m domain.AssistantMessage
		var encoded []byte
		if err := rows.Scan(&m.ID, &m.UserID, &m.Role, &m.Content, &m.NeedChange, &encoded, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan assistant message: %w", err)
		}
		if err := json.Unmarshal(encoded, &m.ChangeLog); err != nil {
			return nil, fmt.Errorf("failed to decode change log: %w", err)
		}
		if m.ChangeLog == nil {
			m.ChangeLog = []domain.ChangeItem{}
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
