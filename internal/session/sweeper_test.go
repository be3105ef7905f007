package session

import (
	"context"
	"testing"
	"time"
)

func TestStartSweeperReclaimsIdleSessions(t *testing.T) {
	sink := newStubSink()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(sink, WithTimeout(10*time.Minute))
	r.now = func() time.Time { return base }

	r.RecordExchange("s1", "hello", "hi there")

	// Jump the clock so the next tick finds the session expired.
	r.now = func() time.Time { return base.Add(time.Hour) }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.StartSweeper(ctx, 5*time.Millisecond)

	deadline := time.After(2 * time.Second)
	for r.Len() > 0 {
		select {
		case <-deadline:
			t.Fatalf("sweeper did not reclaim the idle session")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if n := sink.count("s1"); n != 1 {
		t.Fatalf("expected 1 export, got %d", n)
	}
}
