package notify

import (
	"context"
	"log"
	"time"

	"brookschat/internal/models"
)

// Sink mirrors session.NotificationSink so wrappers can be composed.
type Sink interface {
	Deliver(sessionID string, transcript []models.Message) bool
}

// Archiver persists a transcript before it leaves the process.
type Archiver interface {
	SaveConversation(ctx context.Context, sessionKey string, transcript []models.Message) (*models.Conversation, error)
}

// ArchivingSink writes the transcript to the archive and then delegates
// delivery. Archive failures are logged but do not block delivery; the
// archive is a safety net, not a gate.
type ArchivingSink struct {
	next    Sink
	archive Archiver
}

// WithArchive wraps a sink with transcript archiving. Either argument may be
// nil; a nil next sink makes every delivery report failure, as with a nil
// EmailSink.
func WithArchive(next Sink, archive Archiver) *ArchivingSink {
	return &ArchivingSink{next: next, archive: archive}
}

func (s *ArchivingSink) Deliver(sessionID string, transcript []models.Message) bool {
	if s.archive != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if _, err := s.archive.SaveConversation(ctx, sessionID, transcript); err != nil {
			log.Printf("archive transcript for session %s: %v", sessionID, err)
		}
		cancel()
	}
	if s.next == nil {
		return false
	}
	return s.next.Deliver(sessionID, transcript)
}
