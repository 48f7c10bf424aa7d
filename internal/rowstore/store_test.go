package rowstore

import (
	"context"
	"errors"
	"testing"
)

func TestRecordRow(t *testing.T) {
	// The first record after the header lives at physical row 2.
	if got := RecordRow(0); got != 2 {
		t.Fatalf("RecordRow(0) = %d, want 2", got)
	}
	if got := RecordRow(7); got != 9 {
		t.Fatalf("RecordRow(7) = %d, want 9", got)
	}
}

func TestA1Helpers(t *testing.T) {
	tests := []struct {
		col  int
		want string
	}{
		{1, "A"}, {7, "G"}, {11, "K"}, {26, "Z"}, {27, "AA"}, {28, "AB"},
	}
	for _, tc := range tests {
		if got := ColumnLetter(tc.col); got != tc.want {
			t.Fatalf("ColumnLetter(%d) = %s, want %s", tc.col, got, tc.want)
		}
	}
	if got := RowRange(5, 7, 11); got != "G5:K5" {
		t.Fatalf("RowRange = %s, want G5:K5", got)
	}
	if got := CellRef(3, 4); got != "D3" {
		t.Fatalf("CellRef = %s, want D3", got)
	}
}

func TestParseRange(t *testing.T) {
	r1, c1, r2, c2, err := parseRange("G5:K6")
	if err != nil {
		t.Fatalf("parseRange: %v", err)
	}
	if r1 != 5 || c1 != 7 || r2 != 6 || c2 != 11 {
		t.Fatalf("parseRange = %d,%d,%d,%d", r1, c1, r2, c2)
	}
	if _, _, _, _, err := parseRange("5G"); err == nil {
		t.Fatal("expected error for bad reference")
	}
}

func TestMemStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemStore()
	m.CreateSheet("Users", []string{"Email", "Password", "Role"})

	if err := m.Append(ctx, "Users", []string{"a@x.com", "", "user"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := m.AppendAll(ctx, "Users", [][]string{
		{"b@x.com", "h", "admin"},
		{"c@x.com", "h", "user"},
	}); err != nil {
		t.Fatalf("append all: %v", err)
	}

	rows, err := m.ReadAll(ctx, "Users")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}
	if len(Records(rows)) != 3 {
		t.Fatalf("got %d records, want 3", len(Records(rows)))
	}

	if err := m.UpdateCell(ctx, "Users", 2, 2, "hash"); err != nil {
		t.Fatalf("update cell: %v", err)
	}
	if err := m.UpdateRange(ctx, "Users", "A3:C3", [][]string{{"b@y.com", "h2", "user"}}); err != nil {
		t.Fatalf("update range: %v", err)
	}
	if err := m.DeleteRow(ctx, "Users", 4); err != nil {
		t.Fatalf("delete: %v", err)
	}

	rows, _ = m.ReadAll(ctx, "Users")
	if len(rows) != 3 {
		t.Fatalf("after delete got %d rows, want 3", len(rows))
	}
	if rows[1][1] != "hash" {
		t.Fatalf("cell update lost: %v", rows[1])
	}
	if rows[2][0] != "b@y.com" || rows[2][2] != "user" {
		t.Fatalf("range update lost: %v", rows[2])
	}
}

func TestMemStoreInjectedFailure(t *testing.T) {
	ctx := context.Background()
	m := NewMemStore()
	m.CreateSheet("Users", []string{"Email"})
	m.FailNext("append")

	err := m.Append(ctx, "Users", []string{"a@x.com"})
	var storeErr *StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected StoreError, got %v", err)
	}

	// Failure is one-shot.
	if err := m.Append(ctx, "Users", []string{"a@x.com"}); err != nil {
		t.Fatalf("second append should succeed: %v", err)
	}
}

func TestMemStoreUnknownSheet(t *testing.T) {
	m := NewMemStore()
	if _, err := m.ReadAll(context.Background(), "nope"); err == nil {
		t.Fatal("expected error for unknown sheet")
	}
}
