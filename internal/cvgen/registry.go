package cvgen

import (
	"sync"
	"time"

	"portfolio-backend/internal/shared/metrics"
	"portfolio-backend/internal/shared/telemetry"
)

const DefaultSessionIdleTTL = 30 * time.Minute

type session struct {
	orch     *Orchestrator
	lastSeen time.Time
}

// Registry keeps one Orchestrator per session. Sessions idle for longer
// than the idle TTL are pruned lazily on access.
type Registry struct {
	newOrchestrator func() *Orchestrator
	idleTTL         time.Duration
	now             func() time.Time

	mu        sync.Mutex
	sessions  map[string]*session
	lastPrune time.Time
}

// NewRegistry constructs a Registry. factory builds the orchestrator of a
// new session.
func NewRegistry(factory func() *Orchestrator, idleTTL time.Duration, now func() time.Time) *Registry {
	if idleTTL <= 0 {
		idleTTL = DefaultSessionIdleTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Registry{
		newOrchestrator: factory,
		idleTTL:         idleTTL,
		now:             now,
		sessions:        make(map[string]*session),
		lastPrune:       now(),
	}
}

// Get returns the orchestrator of sessionID, creating it on first use.
func (r *Registry) Get(sessionID string) *Orchestrator {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()
	if now.Sub(r.lastPrune) >= r.idleTTL/2 {
		r.pruneLocked(now)
	}
	s, ok := r.sessions[sessionID]
	if !ok {
		s = &session{orch: r.newOrchestrator()}
		r.sessions[sessionID] = s
		metrics.SetActiveSessions(len(r.sessions))
	}
	s.lastSeen = now
	return s.orch
}

// Prune drops idle sessions that are not mid-generation and returns how
// many were dropped. The app calls it after every store sweep.
func (r *Registry) Prune() int {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pruneLocked(now)
}

func (r *Registry) pruneLocked(now time.Time) int {
	r.lastPrune = now
	removed := 0
	for id, s := range r.sessions {
		if now.Sub(s.lastSeen) < r.idleTTL || s.orch.State().IsGenerating() {
			continue
		}
		delete(r.sessions, id)
		removed++
	}
	if removed > 0 {
		metrics.SetActiveSessions(len(r.sessions))
		telemetry.Info("cvgen.sessions_pruned", map[string]any{
			"removed":   removed,
			"remaining": len(r.sessions),
		})
	}
	return removed
}

// Len returns the number of tracked sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
