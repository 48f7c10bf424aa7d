package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/lcy3-ops/dailytask/internal/models"
	"github.com/lcy3-ops/dailytask/internal/rowstore"
)

var usersHeader = []string{"Email", "Password", "Role", "Status", "Department", "Start Time"}

func newUsersFixture(t *testing.T) (*Users, *rowstore.MemStore) {
	t.Helper()
	store := rowstore.NewMemStore()
	store.CreateSheet("Users", usersHeader)
	return NewUsers(store, "Users"), store
}

func TestUsersCreateAndFind(t *testing.T) {
	ctx := context.Background()
	users, _ := newUsersFixture(t)

	u := models.User{Email: "A@X.com", Role: models.RoleUser, Status: models.StatusActive, Department: "Inbound"}
	if err := users.Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Lookup is case-normalized.
	got, err := users.FindByEmail(ctx, "a@x.COM")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Email != "a@x.com" || got.Department != "Inbound" {
		t.Fatalf("unexpected user: %+v", got)
	}
	if got.PasswordHash != "" {
		t.Fatal("new accounts must start with an empty password hash")
	}

	if err := users.Create(ctx, u); !errors.Is(err, ErrUserExists) {
		t.Fatalf("duplicate create: got %v, want ErrUserExists", err)
	}
}

func TestUsersFindMissing(t *testing.T) {
	users, _ := newUsersFixture(t)
	if _, err := users.FindByEmail(context.Background(), "ghost@x.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("got %v, want ErrUserNotFound", err)
	}
}

func TestUsersSetPasswordHashWritesCell(t *testing.T) {
	ctx := context.Background()
	users, store := newUsersFixture(t)

	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		if err := users.Create(ctx, models.User{Email: email, Role: models.RoleUser, Status: models.StatusActive}); err != nil {
			t.Fatalf("create %s: %v", email, err)
		}
	}

	if err := users.SetPasswordHash(ctx, "b@x.com", "somehash"); err != nil {
		t.Fatalf("set hash: %v", err)
	}

	rows, _ := store.ReadAll(ctx, "Users")
	// b@x.com is the second record, physical row 3, password column 2.
	if rows[2][1] != "somehash" {
		t.Fatalf("hash not written to the right cell: %v", rows[2])
	}

	got, _ := users.FindByEmail(ctx, "b@x.com")
	if got.PasswordHash != "somehash" {
		t.Fatal("cache not invalidated after write")
	}
}

func TestUsersDelete(t *testing.T) {
	ctx := context.Background()
	users, _ := newUsersFixture(t)

	for _, email := range []string{"a@x.com", "b@x.com"} {
		if err := users.Create(ctx, models.User{Email: email, Role: models.RoleUser, Status: models.StatusActive}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if err := users.Delete(ctx, "a@x.com"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := users.FindByEmail(ctx, "a@x.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("deleted user still found: %v", err)
	}
	if _, err := users.FindByEmail(ctx, "b@x.com"); err != nil {
		t.Fatalf("surviving user lost: %v", err)
	}

	if err := users.Delete(ctx, "a@x.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("double delete: got %v, want ErrUserNotFound", err)
	}
}

func TestUsersListCachesUntilInvalidate(t *testing.T) {
	ctx := context.Background()
	users, store := newUsersFixture(t)

	if err := users.Create(ctx, models.User{Email: "a@x.com", Role: models.RoleUser, Status: models.StatusActive}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := users.List(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}

	// A write behind the repository's back is invisible until
	// Invalidate.
	if err := store.Append(ctx, "Users", []string{"ghost@x.com", "", "user", "active"}); err != nil {
		t.Fatalf("raw append: %v", err)
	}
	got, _ := users.List(ctx)
	if len(got) != 1 {
		t.Fatalf("cache miss: got %d users, want 1", len(got))
	}

	users.Invalidate()
	got, _ = users.List(ctx)
	if len(got) != 2 {
		t.Fatalf("after invalidate: got %d users, want 2", len(got))
	}
}
