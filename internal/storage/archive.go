package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"brookschat/internal/models"
)

// Archive persists exported conversation transcripts so a failed email
// delivery cannot lose them.
type Archive struct {
	db *sql.DB
}

// NewArchive wraps an opened, migrated database.
func NewArchive(db *sql.DB) *Archive {
	return &Archive{db: db}
}

// SaveConversation stores the transcript and returns the archive record.
func (a *Archive) SaveConversation(ctx context.Context, sessionKey string, transcript []models.Message) (*models.Conversation, error) {
	now := time.Now().UTC()
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO conversations (session_key, message_count, exported_at) VALUES (?, ?, ?)`,
		sessionKey, len(transcript), now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert conversation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("conversation id: %w", err)
	}
	for i, msg := range transcript {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO conversation_messages (conversation_id, position, role, content) VALUES (?, ?, ?, ?)`,
			id, i, string(msg.Role), msg.Content,
		); err != nil {
			return nil, fmt.Errorf("insert transcript message %d: %w", i, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit archive: %w", err)
	}
	return &models.Conversation{
		ID:           id,
		SessionKey:   sessionKey,
		MessageCount: len(transcript),
		ExportedAt:   now,
	}, nil
}

// LoadConversation returns an archived transcript in original order.
func (a *Archive) LoadConversation(ctx context.Context, id int64) ([]models.Message, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT role, content FROM conversation_messages WHERE conversation_id = ? ORDER BY position ASC`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}
	defer rows.Close()

	var msgs []models.Message
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			return nil, fmt.Errorf("scan transcript row: %w", err)
		}
		msgs = append(msgs, models.Message{Role: models.Role(role), Content: content})
	}
	return msgs, rows.Err()
}
