package chat

import (
	"sync"

	"github.com/google/uuid"

	"volume-chat/internal/interfaces"
)

// Sessions is the in-memory registry of live sessions keyed by cookie id.
// Nothing is persisted; a restart forgets every conversation.
type Sessions struct {
	streamer interfaces.ChatStreamer
	fetcher  interfaces.TickerFetcher

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessions(streamer interfaces.ChatStreamer, fetcher interfaces.TickerFetcher) *Sessions {
	return &Sessions{
		streamer: streamer,
		fetcher:  fetcher,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for id, if it exists.
func (r *Sessions) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// GetOrCreate returns the session for id, creating a fresh one with a new id
// when id is empty or unknown.
func (r *Sessions) GetOrCreate(id string) (*Session, bool) {
	if s, ok := r.Get(id); ok {
		return s, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s := NewSession(uuid.NewString(), r.streamer, r.fetcher)
	r.sessions[s.ID()] = s
	return s, true
}

func (r *Sessions) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
