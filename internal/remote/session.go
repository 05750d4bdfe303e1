package remote

import "sync"

// Session holds the bearer token attached to outgoing requests.
type Session struct {
	mu    sync.RWMutex
	token string
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func (s *Session) Clear() { s.SetToken("") }

func (s *Session) Authenticated() bool { return s.Token() != "" }
