package repo

import (
	"context"
	"errors"

	"github.com/lcy3-ops/dailytask/internal/config"
	"github.com/lcy3-ops/dailytask/internal/models"
	"github.com/lcy3-ops/dailytask/internal/rowstore"
)

var ErrUnknownRole = errors.New("unknown role code")

// Templates reads and edits the per-role task catalogs. Each role code
// maps to its own sheet through the startup role catalog.
type Templates struct {
	store   rowstore.Store
	catalog *config.RoleCatalog
}

func NewTemplates(store rowstore.Store, catalog *config.RoleCatalog) *Templates {
	return &Templates{store: store, catalog: catalog}
}

// Entries returns the ordered task catalog for a role.
func (r *Templates) Entries(ctx context.Context, roleCode string) ([]models.TemplateEntry, error) {
	def, ok := r.catalog.Lookup(roleCode)
	if !ok {
		return nil, ErrUnknownRole
	}
	rows, err := r.store.ReadAll(ctx, def.Sheet)
	if err != nil {
		return nil, err
	}
	records := rowstore.Records(rows)
	entries := make([]models.TemplateEntry, 0, len(records))
	for _, row := range records {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		e := models.TemplateEntry{Description: row[0]}
		if len(row) > 1 {
			e.DueTime = row[1]
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Replace swaps a role's entire catalog for the given entries. The
// sheet is cleared row by row from the bottom so surviving row numbers
// stay valid, then the new entries land in one batch append.
func (r *Templates) Replace(ctx context.Context, roleCode string, entries []models.TemplateEntry) error {
	def, ok := r.catalog.Lookup(roleCode)
	if !ok {
		return ErrUnknownRole
	}
	rows, err := r.store.ReadAll(ctx, def.Sheet)
	if err != nil {
		return err
	}
	for pos := len(rowstore.Records(rows)) - 1; pos >= 0; pos-- {
		if err := r.store.DeleteRow(ctx, def.Sheet, rowstore.RecordRow(pos)); err != nil {
			return err
		}
	}
	if len(entries) == 0 {
		return nil
	}
	out := make([][]string, len(entries))
	for i, e := range entries {
		out[i] = []string{e.Description, e.DueTime}
	}
	return r.store.AppendAll(ctx, def.Sheet, out)
}
