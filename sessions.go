package main

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"psp.com/trivia-quiz/backend/internal/quiz"
)

type sessionEntry struct {
	session  *quiz.Session
	lastSeen time.Time
}

// sessionRegistry holds the live quiz sessions of this process, one per browser.
type sessionRegistry struct {
	mu      sync.Mutex
	entries map[string]*sessionEntry
	ttl     time.Duration
	fetcher quiz.QuestionFetcher
	now     func() time.Time
}

func newSessionRegistry(f quiz.QuestionFetcher, ttl time.Duration) *sessionRegistry {
	return &sessionRegistry{entries: map[string]*sessionEntry{}, ttl: ttl, fetcher: f, now: time.Now}
}

func (r *sessionRegistry) create() (string, *quiz.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.purgeLocked()
	id := uuid.NewString()
	s := quiz.NewSession(r.fetcher, nil)
	r.entries[id] = &sessionEntry{session: s, lastSeen: r.now()}
	return id, s
}

func (r *sessionRegistry) get(id string) (*quiz.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = r.now()
	return e.session, true
}

func (r *sessionRegistry) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Drop sessions not touched within the TTL.
func (r *sessionRegistry) purgeLocked() {
	cutoff := r.now().Add(-r.ttl)
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			e.session.Reset()
			delete(r.entries, id)
		}
	}
}
