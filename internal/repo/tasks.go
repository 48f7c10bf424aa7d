package repo

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/lcy3-ops/dailytask/internal/models"
	"github.com/lcy3-ops/dailytask/internal/rowstore"
)

var ErrTaskNotFound = errors.New("task not found")

// TaskRecord pairs an instance with its logical position in the sheet,
// which is all callers need to address a later status write.
type TaskRecord struct {
	models.TaskInstance
	Pos int `json:"pos"`
}

// Tasks reads and writes the daily-task sheet holding every user's
// materialized task instances.
type Tasks struct {
	store rowstore.Store
	sheet string

	// Serializes check-then-append instantiation per (email, shift
	// date) within this process. Two server processes can still race;
	// the storage service offers no uniqueness constraint to lean on.
	mu    sync.Mutex
	inUse map[string]*sync.Mutex
}

func NewTasks(store rowstore.Store, sheet string) *Tasks {
	return &Tasks{store: store, sheet: sheet, inUse: make(map[string]*sync.Mutex)}
}

// InstantiationLock returns the mutex guarding task creation for one
// (email, shift date) pair.
func (r *Tasks) InstantiationLock(email, shiftDate string) *sync.Mutex {
	key := strings.ToLower(email) + "|" + shiftDate
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.inUse[key]; ok {
		return m
	}
	m := &sync.Mutex{}
	r.inUse[key] = m
	return m
}

// ForShift returns the user's instances for one shift date, filtered
// to the given role code when non-empty.
func (r *Tasks) ForShift(ctx context.Context, email, shiftDate, roleCode string) ([]TaskRecord, error) {
	email = strings.ToLower(email)
	rows, err := r.store.ReadAll(ctx, r.sheet)
	if err != nil {
		return nil, err
	}
	var out []TaskRecord
	for pos, row := range rowstore.Records(rows) {
		t := models.TaskFromRow(row)
		if t.Email != email || t.CreatedDate != shiftDate {
			continue
		}
		if roleCode != "" && t.RoleCode != roleCode {
			continue
		}
		out = append(out, TaskRecord{TaskInstance: t, Pos: pos})
	}
	return out, nil
}

// ExistingRole reports the role code already materialized for the user
// on a shift date, if any. A user commits to one role per shift.
func (r *Tasks) ExistingRole(ctx context.Context, email, shiftDate string) (string, bool, error) {
	recs, err := r.ForShift(ctx, email, shiftDate, "")
	if err != nil {
		return "", false, err
	}
	if len(recs) == 0 {
		return "", false, nil
	}
	return recs[0].RoleCode, true, nil
}

// Get fetches one instance by logical position, verifying ownership.
func (r *Tasks) Get(ctx context.Context, email string, pos int) (TaskRecord, error) {
	email = strings.ToLower(email)
	rows, err := r.store.ReadAll(ctx, r.sheet)
	if err != nil {
		return TaskRecord{}, err
	}
	records := rowstore.Records(rows)
	if pos < 0 || pos >= len(records) {
		return TaskRecord{}, ErrTaskNotFound
	}
	t := models.TaskFromRow(records[pos])
	if t.Email != email {
		return TaskRecord{}, ErrTaskNotFound
	}
	return TaskRecord{TaskInstance: t, Pos: pos}, nil
}

// AppendInstances writes a full instance set in one batch call; the
// store either takes all rows or the call fails as a whole.
func (r *Tasks) AppendInstances(ctx context.Context, instances []models.TaskInstance) error {
	rows := make([][]string, len(instances))
	for i, t := range instances {
		rows[i] = t.ToRow()
	}
	return r.store.AppendAll(ctx, r.sheet, rows)
}

// SaveStatus persists a status transition: the done/exempt/reason/
// locked/missed block in one range write, then the closure-date cell.
func (r *Tasks) SaveStatus(ctx context.Context, pos int, done, exempt bool, reason string, missed bool, closedAt string) error {
	row := rowstore.RecordRow(pos)
	block := [][]string{{
		models.FormatSheetBool(done),
		models.FormatSheetBool(exempt),
		reason,
		models.FormatSheetBool(true), // every transition locks the row
		models.FormatSheetBool(missed),
	}}
	rng := rowstore.RowRange(row, models.TaskColDone, models.TaskColMissed)
	if err := r.store.UpdateRange(ctx, r.sheet, rng, block); err != nil {
		return err
	}
	return r.store.UpdateCell(ctx, r.sheet, row, models.TaskColClosedAt, closedAt)
}
