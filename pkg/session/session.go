// Package session tracks the alternating user/assistant turns of a
// conversation.
package session

import (
	"sync"

	"github.com/google/uuid"
)

// Role identifies who produced a turn.
type Role string

const (
	// RoleUser marks a turn spoken by the user.
	RoleUser Role = "User"

	// RoleAssistant marks a turn produced by the assistant.
	RoleAssistant Role = "Assistant"
)

// Turn is a single utterance in a conversation.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Session holds the ordered history of a conversation. It is safe for
// concurrent use.
type Session struct {
	id    string
	mu    sync.Mutex
	turns []Turn
}

// New creates an empty session with a fresh id.
func New() *Session {
	return &Session{
		id: uuid.NewString(),
	}
}

// NewWithID creates an empty session with the given id. An empty id is
// replaced with a fresh one.
func NewWithID(id string) *Session {
	if id == "" {
		return New()
	}
	return &Session{id: id}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Append adds a turn to the end of the history.
func (s *Session) Append(role Role, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, Turn{Role: role, Text: text})
}

// Turns returns a copy of the history in chronological order.
func (s *Session) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len returns the number of turns in the history.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}

// Reset clears the history while keeping the session id.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
}
