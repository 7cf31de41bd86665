package commands

import (
	"sync"
	"time"
)

// Await marks what kind of plain-text reply the conversation is waiting for.
type Await int

const (
	// AwaitNone means the next message is a regular request.
	AwaitNone Await = iota
	// AwaitUsername means the next message is the user's name.
	AwaitUsername
	// AwaitInitPrompt means the next message is a new initialization prompt.
	AwaitInitPrompt
)

// Pending is a reminder proposal awaiting user confirmation. The due time
// is resolved once, before the confirmation question is shown, so the entry
// persisted on Yes is exactly the instant the user saw.
type Pending struct {
	Content string
	DueAt   time.Time
}

// session is the per-conversation dialog state. It is transient: losing it
// on restart only costs the user a pending confirmation, never a stored
// reminder.
type session struct {
	await      Await
	pending    Pending
	hasPending bool
}

// SessionStore keeps the dialog state of every active conversation.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*session),
	}
}

func (ss *SessionStore) get(chatID string) *session {
	s, ok := ss.sessions[chatID]
	if !ok {
		s = &session{}
		ss.sessions[chatID] = s
	}
	return s
}

// SetAwait marks the conversation as waiting for a specific plain-text reply.
func (ss *SessionStore) SetAwait(chatID string, a Await) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.get(chatID).await = a
}

// Await returns what the conversation is currently waiting for.
func (ss *SessionStore) Await(chatID string) Await {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if s, ok := ss.sessions[chatID]; ok {
		return s.await
	}
	return AwaitNone
}

// ClearAwait resets the conversation to the regular-request state.
func (ss *SessionStore) ClearAwait(chatID string) {
	ss.SetAwait(chatID, AwaitNone)
}

// SetPending stores a reminder proposal awaiting user confirmation. A new
// proposal replaces any previous unconfirmed one.
func (ss *SessionStore) SetPending(chatID string, p Pending) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	s := ss.get(chatID)
	s.pending = p
	s.hasPending = true
}

// TakePending removes and returns the pending proposal, if any. A stale
// confirmation tap after the proposal was consumed finds nothing.
func (ss *SessionStore) TakePending(chatID string) (Pending, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	s, ok := ss.sessions[chatID]
	if !ok || !s.hasPending {
		return Pending{}, false
	}
	p := s.pending
	s.pending = Pending{}
	s.hasPending = false
	return p, true
}
