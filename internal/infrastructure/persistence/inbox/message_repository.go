// Package inbox provides the store-backed repository for contact messages.
package inbox

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/foliostack/foliostack-go/internal/domain/entities/inbox"
	"github.com/foliostack/foliostack-go/internal/infrastructure/observability/logging"
	"github.com/foliostack/foliostack-go/internal/infrastructure/security"
)

// MessageRepository persists contact messages, newest first.
type MessageRepository struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
}

func NewMessageRepository(db *sql.DB, logger *logging.ChanneledLogger) *MessageRepository {
	return &MessageRepository{db: db, logger: logger}
}

func (r *MessageRepository) List(ctx context.Context) ([]inbox.Message, error) {
	query := `SELECT id, name, email, subject, content, created_at, is_read
		FROM messages ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := []inbox.Message{}
	for rows.Next() {
		var m inbox.Message
		var isRead int
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Content, &m.CreatedAt, &isRead); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.IsRead = isRead != 0
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *MessageRepository) Insert(ctx context.Context, row inbox.Message) (inbox.Message, error) {
	if row.ID == "" {
		row.ID = security.GenerateULID()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO messages (id, name, email, subject, content, created_at, is_read)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	isRead := 0
	if row.IsRead {
		isRead = 1
	}
	if _, err := r.db.ExecContext(ctx, query,
		row.ID, row.Name, row.Email, row.Subject, row.Content, row.CreatedAt, isRead); err != nil {
		return inbox.Message{}, fmt.Errorf("failed to insert message: %w", err)
	}

	r.logger.Inbox().Debug("Message inserted", "id", row.ID)
	return row, nil
}

func (r *MessageRepository) Update(ctx context.Context, id string, row inbox.Message) (inbox.Message, error) {
	query := `UPDATE messages SET name = ?, email = ?, subject = ?, content = ?, is_read = ? WHERE id = ?`
	isRead := 0
	if row.IsRead {
		isRead = 1
	}
	result, err := r.db.ExecContext(ctx, query,
		row.Name, row.Email, row.Subject, row.Content, isRead, id)
	if err != nil {
		return inbox.Message{}, fmt.Errorf("failed to update message %s: %w", id, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return inbox.Message{}, fmt.Errorf("message %s not found", id)
	}

	row.ID = id
	return row, nil
}

// MarkRead flips is_read without rewriting the row. This is the one targeted
// write the inbox performs instead of a full row update.
func (r *MessageRepository) MarkRead(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE messages SET is_read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark message %s read: %w", id, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("message %s not found", id)
	}

	r.logger.Inbox().Debug("Message marked read", "id", id)
	return nil
}

func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete message %s: %w", id, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("message %s not found", id)
	}

	r.logger.Inbox().Debug("Message deleted", "id", id)
	return nil
}
