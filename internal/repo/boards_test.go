package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/lcy3-ops/dailytask/internal/models"
	"github.com/lcy3-ops/dailytask/internal/rowstore"
)

func newBoardStore(t *testing.T) (*Boards, *rowstore.MemStore) {
	t.Helper()
	store := rowstore.NewMemStore()
	store.CreateSheet("Sheet1", []string{"login", "date"})
	return NewBoards(store, "Sheet1"), store
}

func TestBoardsGetMissing(t *testing.T) {
	boards, _ := newBoardStore(t)

	_, exists, err := boards.Get(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if exists {
		t.Fatal("unsaved board reported as existing")
	}
}

func TestBoardsSaveAndGet(t *testing.T) {
	boards, _ := newBoardStore(t)
	ctx := context.Background()

	b := models.Board{Login: "ops", Date: "2024-01-09"}
	b.DoFirst[0] = models.BoardItem{Task: "clear the dock", Emoji: "🔥"}
	if err := boards.Save(ctx, b); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, exists, err := boards.Get(ctx, "ops")
	if err != nil || !exists {
		t.Fatalf("Get after save: %v exists=%v", err, exists)
	}
	if got != b {
		t.Fatalf("got %+v, want %+v", got, b)
	}

	// Login lookup ignores case, matching how the rows are keyed.
	if _, exists, _ = boards.Get(ctx, "OPS"); !exists {
		t.Fatal("upper-cased login did not match")
	}
}

func TestBoardsSaveReplacesExistingRow(t *testing.T) {
	boards, store := newBoardStore(t)
	ctx := context.Background()

	first := models.Board{Login: "ops", Date: "2024-01-09"}
	first.Avoid[0] = models.BoardItem{Task: "email backlog", Emoji: "🙈"}
	if err := boards.Save(ctx, first); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// A second login keeps its own row.
	other := models.Board{Login: "night", Date: "2024-01-09"}
	if err := boards.Save(ctx, other); err != nil {
		t.Fatalf("Save other: %v", err)
	}

	second := models.Board{Login: "ops", Date: "2024-01-10"}
	second.DoLater[1] = models.BoardItem{Task: "tidy the cage", Emoji: "🧹"}
	if err := boards.Save(ctx, second); err != nil {
		t.Fatalf("re-Save: %v", err)
	}

	rows, err := store.ReadAll(ctx, "Sheet1")
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if got := len(rowstore.Records(rows)); got != 2 {
		t.Fatalf("got %d rows, want 2", got)
	}

	got, exists, err := boards.Get(ctx, "ops")
	if err != nil || !exists {
		t.Fatalf("Get: %v exists=%v", err, exists)
	}
	if got != second {
		t.Fatalf("old board survived:\n got %+v\nwant %+v", got, second)
	}
	if _, exists, _ = boards.Get(ctx, "night"); !exists {
		t.Fatal("unrelated board row was dropped")
	}
}

func TestBoardsSaveSurfacesStoreFailure(t *testing.T) {
	boards, store := newBoardStore(t)

	store.FailNext("read")
	err := boards.Save(context.Background(), models.Board{Login: "ops"})
	var storeErr *rowstore.StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("want StoreError, got %v", err)
	}
}
