package session

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
)

var (
	// ErrNotFound is returned when no live session matches a code.
	ErrNotFound = errors.New("session not found")
	// ErrFull is returned when a session already has two members.
	ErrFull = errors.New("session is full")
)

// MaxMembers is the hard capacity of a session.
const MaxMembers = 2

// Registry owns the set of live sessions and the connection-to-session
// index. It is created at process start and is the single funnel for
// session lifecycle.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	byPlayer map[string]*Session
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		byPlayer: make(map[string]*Session),
	}
}

// Create makes a new session with the caller as its sole first member
// and returns it. Codes are drawn uniformly at random and retried until
// they miss every live session.
func (r *Registry) Create(player *Player) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := r.generateCode()
	s := newSession(code)
	s.addMember(player)
	r.sessions[code] = s
	r.byPlayer[player.ID] = s
	return s
}

func (r *Registry) generateCode() string {
	for {
		code := fmt.Sprintf("%06d", rand.Intn(1000000))
		if _, taken := r.sessions[code]; !taken {
			return code
		}
	}
}

// Lookup finds a live session by code.
func (r *Registry) Lookup(code string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[code]
	return s, ok
}

// SessionFor resolves a connection handle to the session it belongs to.
func (r *Registry) SessionFor(playerID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byPlayer[playerID]
	return s, ok
}

// Join appends a player to the session identified by code, preserving
// arrival order. It fails with ErrNotFound or ErrFull.
func (r *Registry) Join(code string, player *Player) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[code]
	if !ok {
		return nil, ErrNotFound
	}
	if len(s.members) >= MaxMembers {
		return nil, ErrFull
	}
	s.addMember(player)
	r.byPlayer[player.ID] = s
	return s, nil
}

// Remove takes a player out of its session by identity match. If that
// empties the session, the session is destroyed on the spot. The
// returned session is nil when the player was not in one; destroyed
// reports whether the session went away. Safe to call twice for the
// same connection (leave racing disconnect).
func (r *Registry) Remove(playerID string) (s *Session, destroyed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byPlayer[playerID]
	if !ok {
		return nil, false
	}
	delete(r.byPlayer, playerID)
	s.removeMember(playerID)
	if len(s.members) == 0 {
		delete(r.sessions, s.code)
		return s, true
	}
	return s, false
}

// Destroy removes a session outright. Idempotent.
func (r *Registry) Destroy(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[code]
	if !ok {
		return
	}
	for _, p := range s.members {
		delete(r.byPlayer, p.ID)
	}
	delete(r.sessions, code)
}

// SessionCount reports the number of live sessions.
func (r *Registry) SessionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}
