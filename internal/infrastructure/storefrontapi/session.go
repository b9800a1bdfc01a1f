package storefrontapi

import (
	"sync"

	"github.com/google/uuid"
)

// Session holds the credentials shared by every accessor: the bearer token
// and the chat session id. A new chat session id is generated on every
// login so each login starts a fresh conversation.
type Session struct {
	mu        sync.RWMutex
	token     string
	sessionID string
	email     string
}

// NewSession returns an anonymous session
func NewSession() *Session {
	return &Session{}
}

// Begin stores the token of a successful login and starts a new chat session
func (s *Session) Begin(email, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.email = email
	s.token = token
	s.sessionID = uuid.NewString()
}

// End forgets the token and the chat session id
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.email = ""
	s.token = ""
	s.sessionID = ""
}

// Token returns the bearer token, empty when logged out
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// ID returns the chat session id, generating one if none exists yet
func (s *Session) ID() string {
	s.mu.RLock()
	id := s.sessionID
	s.mu.RUnlock()
	if id != "" {
		return id
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessionID == "" {
		s.sessionID = uuid.NewString()
	}
	return s.sessionID
}

// Email returns the email used to log in
func (s *Session) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.email
}

// Authenticated reports whether a token is held
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}
