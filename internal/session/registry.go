package session

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"brookschat/internal/models"
)

const (
	// DefaultTimeout is how long a session may stay silent before a sweep
	// reclaims it.
	DefaultTimeout = 10 * time.Minute
	// DefaultSweepProbability is the chance that a single incoming request
	// triggers a sweep.
	DefaultSweepProbability = 0.05
	// maxPromptHistory caps how much history is handed to the prompt
	// assembler, to keep token counts in check.
	maxPromptHistory = 20
)

// NotificationSink receives the transcript of a finished conversation.
// Deliver must not panic; it reports whether the transcript was handed off.
type NotificationSink interface {
	Deliver(sessionID string, transcript []models.Message) bool
}

// Registry owns all in-memory conversation state. Every session is a history
// of user/assistant pairs plus a last-activity timestamp; access to both maps
// goes through a single mutex. Sessions are reclaimed when the user says
// goodbye or when a sweep finds them silent past the timeout, and in either
// case the transcript is exported first.
type Registry struct {
	mu       sync.Mutex
	history  map[string][]models.Message
	activity map[string]time.Time

	sink      NotificationSink
	timeout   time.Duration
	sweepProb float64

	// test seams
	now    func() time.Time
	chance func() float64
}

// Option configures a Registry.
type Option func(*Registry)

// WithTimeout overrides the inactivity timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithSweepProbability overrides the per-request sweep chance.
func WithSweepProbability(p float64) Option {
	return func(r *Registry) {
		if p > 0 && p <= 1 {
			r.sweepProb = p
		}
	}
}

// NewRegistry builds an empty registry exporting finished conversations to
// sink. A nil sink counts as a delivery failure, so sessions survive until
// a sink is available or the process exits.
func NewRegistry(sink NotificationSink, opts ...Option) *Registry {
	r := &Registry{
		history:   make(map[string][]models.Message),
		activity:  make(map[string]time.Time),
		sink:      sink,
		timeout:   DefaultTimeout,
		sweepProb: DefaultSweepProbability,
		now:       time.Now,
		chance:    rand.Float64,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// History returns a copy of the session's full message history, oldest first.
// A missing session yields an empty history.
func (r *Registry) History(key string) []models.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Message(nil), r.history[key]...)
}

// PromptHistory returns the most recent messages for prompt assembly,
// truncated to keep token counts bounded.
func (r *Registry) PromptHistory(key string) []models.Message {
	msgs := r.History(key)
	if len(msgs) > maxPromptHistory {
		msgs = msgs[len(msgs)-maxPromptHistory:]
	}
	return msgs
}

// RecordExchange appends one user/assistant pair to the session, creating it
// on first use, and refreshes its activity timestamp. If the user message
// signals the end of the conversation and at least one earlier exchange
// exists, the transcript is exported and the session reclaimed. The
// first-turn guard means an opening "bye" never exports a near-empty
// transcript. Reports whether the session ended.
func (r *Registry) RecordExchange(key, userInput, reply string) bool {
	r.mu.Lock()
	prior := len(r.history[key])
	r.history[key] = append(r.history[key],
		models.Message{Role: models.RoleUser, Content: userInput},
		models.Message{Role: models.RoleAssistant, Content: reply},
	)
	stamp := r.now()
	r.activity[key] = stamp

	if !IsConversationEnding(userInput) || prior < 2 {
		r.mu.Unlock()
		return false
	}
	transcript := append([]models.Message(nil), r.history[key]...)
	r.mu.Unlock()

	return r.export(key, stamp, transcript)
}

// Reset drops a session without exporting it.
func (r *Registry) Reset(key string) {
	r.mu.Lock()
	delete(r.history, key)
	delete(r.activity, key)
	r.mu.Unlock()
}

// Len reports how many sessions are live.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.history)
}

// MaybeSweep runs a sweep with the configured probability. Callers invoke it
// once per incoming chat request; at low traffic this approximates periodic
// maintenance without a scheduler.
func (r *Registry) MaybeSweep() {
	if r.chance() < r.sweepProb {
		r.Sweep(r.now())
	}
}

// Sweep reclaims every session silent for longer than the timeout, exporting
// transcripts with at least one full exchange first. Sessions whose export
// fails are retained for a later attempt. Returns the number of sessions
// reclaimed.
func (r *Registry) Sweep(now time.Time) int {
	type expired struct {
		key        string
		stamp      time.Time
		transcript []models.Message
	}

	r.mu.Lock()
	var victims []expired
	for key, last := range r.activity {
		if now.Sub(last) > r.timeout {
			victims = append(victims, expired{
				key:        key,
				stamp:      last,
				transcript: append([]models.Message(nil), r.history[key]...),
			})
		}
	}
	r.mu.Unlock()

	reclaimed := 0
	for _, v := range victims {
		if len(v.transcript) < 2 {
			r.mu.Lock()
			if r.activity[v.key].Equal(v.stamp) {
				delete(r.history, v.key)
				delete(r.activity, v.key)
				reclaimed++
			}
			r.mu.Unlock()
			continue
		}
		if r.export(v.key, v.stamp, v.transcript) {
			reclaimed++
		}
	}
	return reclaimed
}

// export delivers the transcript outside the lock and removes the session
// only if delivery succeeded and no new activity arrived meanwhile.
func (r *Registry) export(key string, stamp time.Time, transcript []models.Message) bool {
	if r.sink == nil || !r.sink.Deliver(key, transcript) {
		log.Printf("session %s: transcript delivery failed, retaining for retry", key)
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.activity[key].Equal(stamp) {
		// New messages arrived during delivery; keep the session.
		return false
	}
	delete(r.history, key)
	delete(r.activity, key)
	return true
}
