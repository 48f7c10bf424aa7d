package auth

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/lcy3-ops/dailytask/internal/models"
	"github.com/lcy3-ops/dailytask/internal/repo"
	"github.com/lcy3-ops/dailytask/internal/rowstore"
)

func newGateFixture(t *testing.T) (*Gate, *repo.Users) {
	t.Helper()
	store := rowstore.NewMemStore()
	store.CreateSheet("Users", []string{"Email", "Password", "Role", "Status", "Department", "Start Time"})
	users := repo.NewUsers(store, "Users")
	return NewGate(users, NewManager("test-secret")), users
}

func seedUser(t *testing.T, users *repo.Users, email, password string, role models.Role, status models.Status) {
	t.Helper()
	u := models.User{Email: email, Role: role, Status: status}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("hash: %v", err)
		}
		u.PasswordHash = string(hash)
	}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed %s: %v", email, err)
	}
}

func TestAuthenticateSuccess(t *testing.T) {
	ctx := context.Background()
	gate, users := newGateFixture(t)
	seedUser(t, users, "ops@x.com", "hunter22", models.RoleUser, models.StatusActive)

	token, err := gate.Authenticate(ctx, models.RoleUser, "OPS@X.com", "hunter22")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}

	s, err := gate.sessions.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if s.Email != "ops@x.com" || s.Role != models.RoleUser {
		t.Fatalf("session = %+v", s)
	}
}

func TestAuthenticateRejections(t *testing.T) {
	ctx := context.Background()
	gate, users := newGateFixture(t)
	seedUser(t, users, "ops@x.com", "hunter22", models.RoleUser, models.StatusActive)
	seedUser(t, users, "boss@x.com", "hunter22", models.RoleAdmin, models.StatusActive)
	seedUser(t, users, "gone@x.com", "hunter22", models.RoleUser, models.StatusInactive)

	tests := []struct {
		name     string
		want     models.Role
		email    string
		password string
		err      error
	}{
		{"wrong password", models.RoleUser, "ops@x.com", "nope", ErrInvalidCredentials},
		{"unknown account", models.RoleUser, "ghost@x.com", "hunter22", ErrInactiveOrMissing},
		{"inactive account", models.RoleUser, "gone@x.com", "hunter22", ErrInactiveOrMissing},
		{"user on admin dashboard", models.RoleAdmin, "ops@x.com", "hunter22", ErrInactiveOrMissing},
		{"admin on user dashboard", models.RoleUser, "boss@x.com", "hunter22", ErrInactiveOrMissing},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := gate.Authenticate(ctx, tc.want, tc.email, tc.password); !errors.Is(err, tc.err) {
				t.Fatalf("got %v, want %v", err, tc.err)
			}
		})
	}
}

func TestAuthenticateEmptyHashSignalsFirstLogin(t *testing.T) {
	ctx := context.Background()
	gate, users := newGateFixture(t)
	seedUser(t, users, "a@x.com", "", models.RoleUser, models.StatusActive)

	// Even an empty supplied password means setup, not bad credentials.
	if _, err := gate.Authenticate(ctx, models.RoleUser, "a@x.com", ""); !errors.Is(err, ErrFirstLoginRequired) {
		t.Fatalf("got %v, want ErrFirstLoginRequired", err)
	}
	if _, err := gate.Authenticate(ctx, models.RoleUser, "a@x.com", "whatever"); !errors.Is(err, ErrFirstLoginRequired) {
		t.Fatalf("got %v, want ErrFirstLoginRequired", err)
	}
}

func TestSetPassword(t *testing.T) {
	ctx := context.Background()
	gate, users := newGateFixture(t)
	seedUser(t, users, "a@x.com", "", models.RoleUser, models.StatusActive)

	var validation ValidationError
	if err := gate.SetPassword(ctx, models.RoleUser, "a@x.com", "abcdef", "different"); !errors.As(err, &validation) {
		t.Fatalf("mismatch: got %v, want ValidationError", err)
	}
	if err := gate.SetPassword(ctx, models.RoleUser, "a@x.com", "short", "short"); !errors.As(err, &validation) {
		t.Fatalf("too short: got %v, want ValidationError", err)
	}

	if err := gate.SetPassword(ctx, models.RoleUser, "a@x.com", "abcdef", "abcdef"); err != nil {
		t.Fatalf("set: %v", err)
	}

	// The account now logs in normally and setup cannot run twice.
	if _, err := gate.Authenticate(ctx, models.RoleUser, "a@x.com", "abcdef"); err != nil {
		t.Fatalf("login after setup: %v", err)
	}
	if err := gate.SetPassword(ctx, models.RoleUser, "a@x.com", "abcdef", "abcdef"); !errors.Is(err, ErrPasswordAlreadySet) {
		t.Fatalf("second setup: got %v, want ErrPasswordAlreadySet", err)
	}
}
