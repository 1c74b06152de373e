package service

import (
	"context"
	"sync"
	"time"

	"github.com/ThalesFiorin/HelpDeskDelta/internal/api/metrics"
	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/domain"
	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/ports"
)

type sessionEntry struct {
	ctrl     ports.Controller
	lastSeen time.Time
}

// Registry keeps one live controller per session token.
type Registry struct {
	deps ControllerDeps

	mu      sync.Mutex
	entries map[string]*sessionEntry
	now     func() time.Time
}

func NewRegistry(deps ControllerDeps) *Registry {
	return &Registry{
		deps:    deps,
		entries: make(map[string]*sessionEntry),
		now:     time.Now,
	}
}

// Open returns the controller bound to token. On first use the session is
// restored through the auth provider; a token without an identity yields
// domain.ErrUnauthenticated.
func (r *Registry) Open(ctx context.Context, token string) (ports.Controller, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	r.mu.Lock()
	if e, ok := r.entries[token]; ok {
		e.lastSeen = r.now()
		r.mu.Unlock()
		return e.ctrl, nil
	}
	r.mu.Unlock()

	ctrl := NewController(r.deps)
	if err := ctrl.RestoreSession(ctx, token, ""); err != nil {
		return nil, err
	}
	if ctrl.User() == nil {
		return nil, domain.ErrUnauthenticated
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// A concurrent Open may have won the race.
	if e, ok := r.entries[token]; ok {
		e.lastSeen = r.now()
		return e.ctrl, nil
	}
	r.entries[token] = &sessionEntry{ctrl: ctrl, lastSeen: r.now()}
	metrics.ActiveSessions.Set(float64(len(r.entries)))
	return ctrl, nil
}

func (r *Registry) New() ports.Controller {
	return NewController(r.deps)
}

func (r *Registry) Bind(c ports.Controller, token string) {
	if token == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[token] = &sessionEntry{ctrl: c, lastSeen: r.now()}
	metrics.ActiveSessions.Set(float64(len(r.entries)))
}

func (r *Registry) Drop(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, token)
	metrics.ActiveSessions.Set(float64(len(r.entries)))
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep evicts controllers idle for longer than maxIdle and returns how many
// were dropped. Evicted sessions are restored on their next request.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-maxIdle)
	n := 0
	for token, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			delete(r.entries, token)
			n++
		}
	}
	metrics.ActiveSessions.Set(float64(len(r.entries)))
	return n
}

// RunSweeper calls Sweep every interval until ctx is cancelled.
func (r *Registry) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(maxIdle); n > 0 {
				r.deps.Log.Debug().Int("evicted", n).Msg("idle sessions evicted")
			}
		}
	}
}
