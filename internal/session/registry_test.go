package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"brookschat/internal/models"
)

type stubSink struct {
	mu         sync.Mutex
	fail       bool
	deliveries map[string][][]models.Message
}

func newStubSink() *stubSink {
	return &stubSink{deliveries: make(map[string][][]models.Message)}
}

func (s *stubSink) Deliver(sessionID string, transcript []models.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return false
	}
	s.deliveries[sessionID] = append(s.deliveries[sessionID], transcript)
	return true
}

func (s *stubSink) count(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.deliveries[sessionID])
}

func TestRecordExchangeAccumulatesHistory(t *testing.T) {
	r := NewRegistry(newStubSink())

	if ended := r.RecordExchange("s1", "hello", "hi there"); ended {
		t.Fatalf("plain exchange should not end the session")
	}
	r.RecordExchange("s1", "what do you grow?", "mostly tomatoes")

	got := r.History("s1")
	if len(got) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(got))
	}
	if got[0].Role != models.RoleUser || got[0].Content != "hello" {
		t.Fatalf("unexpected first message: %+v", got[0])
	}
	if got[1].Role != models.RoleAssistant || got[1].Content != "hi there" {
		t.Fatalf("unexpected second message: %+v", got[1])
	}
}

func TestGoodbyeExportsTranscript(t *testing.T) {
	sink := newStubSink()
	r := NewRegistry(sink)

	r.RecordExchange("s1", "hello", "hi there")
	if ended := r.RecordExchange("s1", "goodbye", "see you"); !ended {
		t.Fatalf("goodbye after an exchange should end the session")
	}
	if n := sink.count("s1"); n != 1 {
		t.Fatalf("expected 1 delivery, got %d", n)
	}
	if r.Len() != 0 {
		t.Fatalf("session should be reclaimed after export")
	}

	transcript := sink.deliveries["s1"][0]
	if len(transcript) != 4 {
		t.Fatalf("transcript should include the goodbye pair, got %d messages", len(transcript))
	}
	if transcript[2].Content != "goodbye" {
		t.Fatalf("unexpected transcript: %+v", transcript)
	}
}

func TestFirstTurnGoodbyeDoesNotExport(t *testing.T) {
	sink := newStubSink()
	r := NewRegistry(sink)

	if ended := r.RecordExchange("s1", "bye", "see you"); ended {
		t.Fatalf("opening goodbye should not end the session")
	}
	if n := sink.count("s1"); n != 0 {
		t.Fatalf("expected no deliveries, got %d", n)
	}
	if len(r.History("s1")) != 2 {
		t.Fatalf("the exchange itself should still be recorded")
	}
}

func TestFailedDeliveryRetainsSession(t *testing.T) {
	sink := newStubSink()
	sink.fail = true
	r := NewRegistry(sink)

	r.RecordExchange("s1", "hello", "hi there")
	if ended := r.RecordExchange("s1", "goodbye", "see you"); ended {
		t.Fatalf("failed delivery should report the session as still live")
	}
	if r.Len() != 1 {
		t.Fatalf("session should be retained after a failed delivery")
	}

	// Once the sink recovers, the next goodbye exports the whole history.
	sink.fail = false
	if ended := r.RecordExchange("s1", "goodbye again", "take care"); !ended {
		t.Fatalf("expected export after sink recovery")
	}
	if n := sink.count("s1"); n != 1 {
		t.Fatalf("expected exactly 1 delivery, got %d", n)
	}
}

func TestSweepReclaimsExpiredSessions(t *testing.T) {
	sink := newStubSink()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	r := NewRegistry(sink, WithTimeout(10*time.Minute))
	r.now = func() time.Time { return clock }

	r.RecordExchange("old", "hello", "hi there")
	clock = base.Add(5 * time.Minute)
	r.RecordExchange("fresh", "hello", "hi there")

	// "old" is 11 minutes silent, "fresh" only 6.
	if n := r.Sweep(base.Add(11 * time.Minute)); n != 1 {
		t.Fatalf("expected 1 reclaimed session, got %d", n)
	}
	if n := sink.count("old"); n != 1 {
		t.Fatalf("expected export for the expired session, got %d", n)
	}
	if n := sink.count("fresh"); n != 0 {
		t.Fatalf("fresh session should not be exported")
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 live session after sweep, got %d", r.Len())
	}

	// A second sweep at the same instant finds nothing to do.
	if n := r.Sweep(base.Add(11 * time.Minute)); n != 0 {
		t.Fatalf("repeat sweep should reclaim nothing, got %d", n)
	}
	if n := sink.count("old"); n != 1 {
		t.Fatalf("transcript must not be exported twice, got %d deliveries", n)
	}
}

func TestSweepDropsEmptySessionsWithoutExport(t *testing.T) {
	sink := newStubSink()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(sink)
	r.now = func() time.Time { return base }

	// Simulate a session that was created but never completed an exchange.
	r.mu.Lock()
	r.activity["empty"] = base
	r.mu.Unlock()

	if n := r.Sweep(base.Add(time.Hour)); n != 1 {
		t.Fatalf("expected the empty session to be reclaimed, got %d", n)
	}
	if n := sink.count("empty"); n != 0 {
		t.Fatalf("empty sessions must not be exported, got %d deliveries", n)
	}
}

func TestSweepRetainsOnFailedDelivery(t *testing.T) {
	sink := newStubSink()
	sink.fail = true
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(sink)
	r.now = func() time.Time { return base }

	r.RecordExchange("s1", "hello", "hi there")
	if n := r.Sweep(base.Add(time.Hour)); n != 0 {
		t.Fatalf("failed delivery should retain the session, got %d reclaimed", n)
	}
	if r.Len() != 1 {
		t.Fatalf("session should survive a failed sweep export")
	}

	sink.fail = false
	if n := r.Sweep(base.Add(time.Hour)); n != 1 {
		t.Fatalf("expected reclaim after sink recovery, got %d", n)
	}
}

func TestMaybeSweepProbability(t *testing.T) {
	sink := newStubSink()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	r := NewRegistry(sink, WithSweepProbability(0.05))
	r.now = func() time.Time { return clock }

	r.RecordExchange("s1", "hello", "hi there")
	clock = base.Add(time.Hour)

	r.chance = func() float64 { return 0.9 }
	r.MaybeSweep()
	if r.Len() != 1 {
		t.Fatalf("sweep should not have run on an unlucky roll")
	}

	r.chance = func() float64 { return 0.01 }
	r.MaybeSweep()
	if r.Len() != 0 {
		t.Fatalf("sweep should have run on a lucky roll")
	}
}

func TestPromptHistoryTruncates(t *testing.T) {
	r := NewRegistry(newStubSink())
	for i := 0; i < 15; i++ {
		r.RecordExchange("s1", fmt.Sprintf("question %d", i), fmt.Sprintf("answer %d", i))
	}
	full := r.History("s1")
	if len(full) != 30 {
		t.Fatalf("expected 30 messages, got %d", len(full))
	}
	trimmed := r.PromptHistory("s1")
	if len(trimmed) != maxPromptHistory {
		t.Fatalf("expected %d messages, got %d", maxPromptHistory, len(trimmed))
	}
	if trimmed[len(trimmed)-1].Content != "answer 14" {
		t.Fatalf("truncation should keep the newest messages, got %q", trimmed[len(trimmed)-1].Content)
	}
}

func TestResetDropsSessionSilently(t *testing.T) {
	sink := newStubSink()
	r := NewRegistry(sink)
	r.RecordExchange("s1", "hello", "hi there")
	r.Reset("s1")
	if r.Len() != 0 {
		t.Fatalf("reset should drop the session")
	}
	if n := sink.count("s1"); n != 0 {
		t.Fatalf("reset must not export, got %d deliveries", n)
	}
}

func TestConcurrentAccess(t *testing.T) {
	r := NewRegistry(newStubSink())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := fmt.Sprintf("s%d", id%4)
			for j := 0; j < 50; j++ {
				r.RecordExchange(key, "hello", "hi there")
				r.History(key)
				r.Sweep(time.Now())
			}
		}(i)
	}
	wg.Wait()
	if r.Len() != 4 {
		t.Fatalf("expected 4 live sessions, got %d", r.Len())
	}
}
