package models

import "time"

// Conversation is an archived transcript of one finished chat session.
type Conversation struct {
	ID           int64     `json:"id"`
	SessionKey   string    `json:"session_key"`
	MessageCount int       `json:"message_count"`
	ExportedAt   time.Time `json:"exported_at"`
}
