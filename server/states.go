package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const stateTTL = 10 * time.Minute

// stateStore tracks outstanding OAuth anti-forgery states. States are
// single use and expire if the consent flow is abandoned.
type stateStore struct {
	mu     sync.Mutex
	states map[string]time.Time
}

func newStateStore() *stateStore {
	return &stateStore{states: make(map[string]time.Time)}
}

// Issue mints a fresh state and records it for later consumption.
func (s *stateStore) Issue() string {
	state := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state] = time.Now().Add(stateTTL)
	return state
}

// Consume removes the state and reports whether it was outstanding and
// unexpired.
func (s *stateStore) Consume(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, expireAt := range s.states {
		if time.Now().After(expireAt) {
			delete(s.states, k)
		}
	}
	expireAt, ok := s.states[state]
	if !ok {
		return false
	}
	delete(s.states, state)
	return time.Now().Before(expireAt)
}
