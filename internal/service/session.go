package service

import (
	"context"
	"sync"
)

// SessionTracker hands out fetch generations per client session so that a
// fetch started later wins over one started earlier, whatever order they
// finish in.
type SessionTracker struct {
	mu       sync.Mutex
	next     uint64
	sessions map[string]*sessionState
}

type sessionState struct {
	gen    uint64
	cancel context.CancelFunc
}

// NewSessionTracker creates an empty tracker.
func NewSessionTracker() *SessionTracker {
	return &SessionTracker{sessions: make(map[string]*sessionState)}
}

// Begin starts a new generation for session, cancelling the previous one's
// context. Generations are unique across sessions. The returned done func
// must be called when the fetch finishes.
func (t *SessionTracker) Begin(parent context.Context, session string) (context.Context, uint64, func()) {
	ctx, cancel := context.WithCancel(parent)

	t.mu.Lock()
	st, ok := t.sessions[session]
	if !ok {
		st = &sessionState{}
		t.sessions[session] = st
	}
	if st.cancel != nil {
		st.cancel()
	}
	t.next++
	gen := t.next
	st.gen = gen
	st.cancel = cancel
	t.mu.Unlock()

	done := func() {
		cancel()
		t.mu.Lock()
		if cur, ok := t.sessions[session]; ok && cur.gen == gen {
			delete(t.sessions, session)
		}
		t.mu.Unlock()
	}
	return ctx, gen, done
}

// IsCurrent reports whether gen is the newest generation for session.
// A session whose latest fetch already finished has no current generation
// other than that one.
func (t *SessionTracker) IsCurrent(session string, gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.sessions[session]
	return ok && st.gen == gen
}
