// Package auth verifies dashboard credentials and manages the
// short-lived sessions issued on successful login.
package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/lcy3-ops/dailytask/internal/models"
)

// Sessions die after this much inactivity; any authenticated action
// restarts the clock.
const InactivityTTL = 600 * time.Second

var (
	ErrInvalidToken   = errors.New("invalid session token")
	ErrSessionExpired = errors.New("session expired")
)

// Session is the explicit per-login state threaded through the request
// path instead of living in globals.
type Session struct {
	ID       string
	Email    string
	Role     models.Role
	IssuedAt time.Time
	LastSeen time.Time
}

type sessionClaims struct {
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Manager issues bearer tokens and tracks session liveness in memory.
// The token is a signed claim of identity; the inactivity window is
// enforced server-side against LastSeen.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(secret string) *Manager {
	return &Manager{
		secret:   []byte(secret),
		ttl:      InactivityTTL,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Issue creates a session and returns its signed bearer token.
func (m *Manager) Issue(email string, role models.Role) (string, error) {
	now := m.now()
	s := &Session{
		ID:       uuid.NewString(),
		Email:    email,
		Role:     role,
		IssuedAt: now,
		LastSeen: now,
	}

	claims := sessionClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  s.ID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return token, nil
}

// Verify checks a bearer token, enforces the inactivity window, and
// refreshes LastSeen. Expired sessions are dropped so the user must
// log in again.
func (m *Manager) Verify(token string) (*Session, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	var claims sessionClaims
	_, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[claims.Subject]
	if !ok {
		return nil, ErrInvalidToken
	}
	now := m.now()
	if now.Sub(s.LastSeen) > m.ttl {
		delete(m.sessions, s.ID)
		return nil, ErrSessionExpired
	}
	s.LastSeen = now
	copied := *s
	return &copied, nil
}

// Revoke ends a session immediately.
func (m *Manager) Revoke(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
