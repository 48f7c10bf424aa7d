// Package repo holds the sheet-backed repositories both dashboards
// share. Each repository owns one sheet and all the row addressing for
// it; physical row numbers never leak past this package.
package repo

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/lcy3-ops/dailytask/internal/models"
	"github.com/lcy3-ops/dailytask/internal/rowstore"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

// Users reads and writes the Users sheet. List results are cached
// until Invalidate is called; every write through this repository
// invalidates the cache itself, so callers only need Invalidate when
// the sheet changed behind the repository's back.
type Users struct {
	store rowstore.Store
	sheet string

	mu     sync.Mutex
	cached []models.User
}

func NewUsers(store rowstore.Store, sheet string) *Users {
	return &Users{store: store, sheet: sheet}
}

func (r *Users) List(ctx context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cached == nil {
		users, err := r.load(ctx)
		if err != nil {
			return nil, err
		}
		r.cached = users
	}
	return append([]models.User(nil), r.cached...), nil
}

// Invalidate drops the cached user list; the next List re-reads the
// sheet.
func (r *Users) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cached = nil
}

func (r *Users) load(ctx context.Context) ([]models.User, error) {
	rows, err := r.store.ReadAll(ctx, r.sheet)
	if err != nil {
		return nil, err
	}
	records := rowstore.Records(rows)
	users := make([]models.User, 0, len(records))
	for _, row := range records {
		users = append(users, models.UserFromRow(row))
	}
	return users, nil
}

// FindByEmail looks a user up by case-normalized email.
func (r *Users) FindByEmail(ctx context.Context, email string) (models.User, error) {
	email = strings.ToLower(email)
	users, err := r.List(ctx)
	if err != nil {
		return models.User{}, err
	}
	for _, u := range users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

// Create appends a new account row. The password hash starts empty so
// the user completes setup on first login.
func (r *Users) Create(ctx context.Context, u models.User) error {
	if _, err := r.FindByEmail(ctx, u.Email); err == nil {
		return ErrUserExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return err
	}
	if err := r.store.Append(ctx, r.sheet, u.ToRow()); err != nil {
		return err
	}
	r.Invalidate()
	return nil
}

// SetPasswordHash writes the password cell for one user. An empty hash
// resets the account to the first-login state.
func (r *Users) SetPasswordHash(ctx context.Context, email, hash string) error {
	pos, err := r.position(ctx, email)
	if err != nil {
		return err
	}
	if err := r.store.UpdateCell(ctx, r.sheet, rowstore.RecordRow(pos), models.UserColPassword, hash); err != nil {
		return err
	}
	r.Invalidate()
	return nil
}

// SetStatus flips an account between active and inactive.
func (r *Users) SetStatus(ctx context.Context, email string, status models.Status) error {
	return r.setCell(ctx, email, models.UserColStatus, string(status))
}

// SetRole moves an account between the user and admin dashboards.
func (r *Users) SetRole(ctx context.Context, email string, role models.Role) error {
	return r.setCell(ctx, email, models.UserColRole, string(role))
}

func (r *Users) setCell(ctx context.Context, email string, col int, value string) error {
	pos, err := r.position(ctx, email)
	if err != nil {
		return err
	}
	if err := r.store.UpdateCell(ctx, r.sheet, rowstore.RecordRow(pos), col, value); err != nil {
		return err
	}
	r.Invalidate()
	return nil
}

// Delete removes the user's row from the sheet.
func (r *Users) Delete(ctx context.Context, email string) error {
	pos, err := r.position(ctx, email)
	if err != nil {
		return err
	}
	if err := r.store.DeleteRow(ctx, r.sheet, rowstore.RecordRow(pos)); err != nil {
		return err
	}
	r.Invalidate()
	return nil
}

// position finds the logical record position of a user, reading the
// sheet directly so writes never act on stale cache.
func (r *Users) position(ctx context.Context, email string) (int, error) {
	email = strings.ToLower(email)
	rows, err := r.store.ReadAll(ctx, r.sheet)
	if err != nil {
		return 0, err
	}
	for pos, row := range rowstore.Records(rows) {
		if models.UserFromRow(row).Email == email {
			return pos, nil
		}
	}
	return 0, ErrUserNotFound
}
