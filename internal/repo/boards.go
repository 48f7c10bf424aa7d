package repo

import (
	"context"
	"strings"

	"github.com/lcy3-ops/dailytask/internal/models"
	"github.com/lcy3-ops/dailytask/internal/rowstore"
)

// Boards reads and writes the personal priority boards, one row per
// login.
type Boards struct {
	store rowstore.Store
	sheet string
}

func NewBoards(store rowstore.Store, sheet string) *Boards {
	return &Boards{store: store, sheet: sheet}
}

// Get returns the board for a login, reporting whether one exists yet.
func (r *Boards) Get(ctx context.Context, login string) (models.Board, bool, error) {
	pos, row, err := r.find(ctx, login)
	if err != nil {
		return models.Board{}, false, err
	}
	if pos < 0 {
		return models.Board{}, false, nil
	}
	return models.BoardFromRow(row), true, nil
}

// Save replaces the login's board: any existing row is deleted, then
// the new one is appended. The board has no history, last write wins.
func (r *Boards) Save(ctx context.Context, b models.Board) error {
	pos, _, err := r.find(ctx, b.Login)
	if err != nil {
		return err
	}
	if pos >= 0 {
		if err := r.store.DeleteRow(ctx, r.sheet, rowstore.RecordRow(pos)); err != nil {
			return err
		}
	}
	return r.store.Append(ctx, r.sheet, b.ToRow())
}

func (r *Boards) find(ctx context.Context, login string) (int, []string, error) {
	login = strings.ToLower(login)
	rows, err := r.store.ReadAll(ctx, r.sheet)
	if err != nil {
		return -1, nil, err
	}
	for pos, row := range rowstore.Records(rows) {
		if len(row) > 0 && strings.ToLower(row[0]) == login {
			return pos, row, nil
		}
	}
	return -1, nil, nil
}
