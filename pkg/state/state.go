// Package state holds the last-observed emotion and topic signals.
//
// Each set of signals is a last-write-wins slot: concurrent requests may
// interleave and no read-after-write consistency is guaranteed across
// requests; the mutex only makes replacement of a slot atomic.
package state

import (
	"sync"

	"github.com/google/uuid"
)

// Signal is one observed contextual hint. An empty Label means no signal
// has been observed (or it was reset).
type Signal struct {
	Label      string
	Confidence float64
}

// Signals is the pair of slots for one conversation scope.
type Signals struct {
	mu      sync.Mutex
	emotion Signal
	topic   Signal
}

// SetEmotion replaces the emotion slot.
func (s *Signals) SetEmotion(sig Signal) {
	s.mu.Lock()
	s.emotion = sig
	s.mu.Unlock()
}

// Emotion returns the current emotion slot.
func (s *Signals) Emotion() Signal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.emotion
}

// ResetEmotion clears the emotion slot.
func (s *Signals) ResetEmotion() {
	s.mu.Lock()
	s.emotion = Signal{}
	s.mu.Unlock()
}

// SetTopic replaces the topic slot.
func (s *Signals) SetTopic(sig Signal) {
	s.mu.Lock()
	s.topic = sig
	s.mu.Unlock()
}

// Topic returns the current topic slot.
func (s *Signals) Topic() Signal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.topic
}

// Store keys signal slots by session id, with one shared default slot for
// requests that carry no session id.
type Store struct {
	mu       sync.Mutex
	def      Signals
	sessions map[string]*Signals
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Signals),
	}
}

// Create registers a new session and returns its id.
func (st *Store) Create() string {
	id := uuid.NewString()
	st.mu.Lock()
	st.sessions[id] = &Signals{}
	st.mu.Unlock()
	return id
}

// Default returns the shared default slot.
func (st *Store) Default() *Signals {
	return &st.def
}

// Session returns the slot for the given session id, creating it on first
// use. An empty id returns the default slot.
func (st *Store) Session(id string) *Signals {
	if id == "" {
		return &st.def
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		s = &Signals{}
		st.sessions[id] = s
	}
	return s
}

// Len returns the number of registered sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
