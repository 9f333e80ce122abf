package gateway

import "sync"

// session is C8's MCP session state: whether initialize has completed. For
// an HTTP+SSE session the channel that hands responses to the goroutine
// holding the SSE connection open is httpSession.send, not a session field.
type session struct {
	mu          sync.Mutex
	initialized bool
	sseSend     chan Response // not set by any transport; always nil
}

func newSession() *session {
	return &session{}
}

func (s *session) markInitialized() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = true
}

func (s *session) isInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}
