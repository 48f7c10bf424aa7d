package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/lcy3-ops/dailytask/internal/models"
	"github.com/lcy3-ops/dailytask/internal/repo"
)

const minPasswordLen = 6

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrFirstLoginRequired = errors.New("first login: password setup required")
	ErrInactiveOrMissing  = errors.New("invalid credentials or inactive account")
	ErrPasswordAlreadySet = errors.New("password already set")
)

// ValidationError marks rejected input; handlers render it as a 400
// without touching the store.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// Gate authenticates dashboard logins against the Users sheet.
type Gate struct {
	users    *repo.Users
	sessions *Manager
}

func NewGate(users *repo.Users, sessions *Manager) *Gate {
	return &Gate{users: users, sessions: sessions}
}

// Authenticate checks credentials for the dashboard that requires the
// given role and returns a session token. An account whose stored hash
// is still empty gets ErrFirstLoginRequired regardless of the supplied
// password; the caller must run password setup first.
func (g *Gate) Authenticate(ctx context.Context, want models.Role, email, password string) (string, error) {
	u, err := g.lookupActive(ctx, want, email)
	if err != nil {
		return "", err
	}
	if u.PasswordHash == "" {
		return "", ErrFirstLoginRequired
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}
	return g.sessions.Issue(u.Email, u.Role)
}

// SetPassword completes first-login setup: it only applies to active
// accounts whose hash is still empty (fresh accounts and admin
// resets).
func (g *Gate) SetPassword(ctx context.Context, want models.Role, email, password, confirm string) error {
	if password != confirm {
		return ValidationError("passwords do not match")
	}
	if len(password) < minPasswordLen {
		return ValidationError("password too short, minimum 6 characters")
	}
	u, err := g.lookupActive(ctx, want, email)
	if err != nil {
		return err
	}
	if u.PasswordHash != "" {
		return ErrPasswordAlreadySet
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return g.users.SetPasswordHash(ctx, u.Email, string(hash))
}

func (g *Gate) lookupActive(ctx context.Context, want models.Role, email string) (models.User, error) {
	u, err := g.users.FindByEmail(ctx, strings.ToLower(email))
	if errors.Is(err, repo.ErrUserNotFound) {
		return models.User{}, ErrInactiveOrMissing
	}
	if err != nil {
		return models.User{}, err
	}
	if u.Role != want || u.Status != models.StatusActive {
		return models.User{}, ErrInactiveOrMissing
	}
	return u, nil
}
