package session

import (
	"context"
	"log"
	"time"
)

const DefaultSweepInterval = time.Minute

// StartSweeper runs timeout sweeps on a fixed interval until ctx is
// cancelled. It complements the per-request MaybeSweep so that idle sessions
// are reclaimed even when no traffic arrives.
func (r *Registry) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	go r.sweepLoop(ctx, interval)
}

func (r *Registry) sweepLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(r.now()); n > 0 {
				log.Printf("session sweep reclaimed %d expired sessions", n)
			}
		}
	}
}
