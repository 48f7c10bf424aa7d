package rowstore

import (
	"context"
	"fmt"
	"sync"
)

// MemStore is an in-memory Store used by tests. Sheets must be created
// with their header row before use, matching how the real spreadsheet
// is provisioned.
type MemStore struct {
	mu     sync.Mutex
	sheets map[string][][]string
	failOp string
}

func NewMemStore() *MemStore {
	return &MemStore{sheets: make(map[string][][]string)}
}

// CreateSheet registers a sheet with its header row.
func (m *MemStore) CreateSheet(name string, header []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sheets[name] = [][]string{append([]string(nil), header...)}
}

// FailNext makes the next call with the given op ("read", "append",
// "update", "delete") return a StoreError.
func (m *MemStore) FailNext(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOp = op
}

func (m *MemStore) fail(op, sheet string) error {
	if m.failOp == op {
		m.failOp = ""
		return &StoreError{Op: op, Sheet: sheet, Err: fmt.Errorf("injected failure")}
	}
	return nil
}

func (m *MemStore) sheet(name string) ([][]string, error) {
	rows, ok := m.sheets[name]
	if !ok {
		return nil, fmt.Errorf("unknown sheet %q", name)
	}
	return rows, nil
}

func (m *MemStore) ReadAll(_ context.Context, sheet string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("read", sheet); err != nil {
		return nil, err
	}
	rows, err := m.sheet(sheet)
	if err != nil {
		return nil, &StoreError{Op: "read", Sheet: sheet, Err: err}
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

func (m *MemStore) Append(ctx context.Context, sheet string, row []string) error {
	return m.AppendAll(ctx, sheet, [][]string{row})
}

func (m *MemStore) AppendAll(_ context.Context, sheet string, rows [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("append", sheet); err != nil {
		return err
	}
	existing, err := m.sheet(sheet)
	if err != nil {
		return &StoreError{Op: "append", Sheet: sheet, Err: err}
	}
	for _, row := range rows {
		existing = append(existing, append([]string(nil), row...))
	}
	m.sheets[sheet] = existing
	return nil
}

func (m *MemStore) UpdateCell(_ context.Context, sheet string, row, col int, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("update", sheet); err != nil {
		return err
	}
	return m.set(sheet, row, col, value)
}

func (m *MemStore) UpdateRange(_ context.Context, sheet, a1Range string, values [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("update", sheet); err != nil {
		return err
	}
	r1, c1, _, _, err := parseRange(a1Range)
	if err != nil {
		return &StoreError{Op: "update", Sheet: sheet, Err: err}
	}
	for i, rowVals := range values {
		for j, v := range rowVals {
			if err := m.set(sheet, r1+i, c1+j, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *MemStore) DeleteRow(_ context.Context, sheet string, row int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("delete", sheet); err != nil {
		return err
	}
	rows, err := m.sheet(sheet)
	if err != nil || row < 1 || row > len(rows) {
		return &StoreError{Op: "delete", Sheet: sheet, Err: fmt.Errorf("row %d out of range", row)}
	}
	m.sheets[sheet] = append(rows[:row-1], rows[row:]...)
	return nil
}

// set grows the sheet as needed, the way the real service fills in
// blank cells on out-of-range writes.
func (m *MemStore) set(sheet string, row, col int, value string) error {
	rows, err := m.sheet(sheet)
	if err != nil {
		return &StoreError{Op: "update", Sheet: sheet, Err: err}
	}
	for len(rows) < row {
		rows = append(rows, nil)
	}
	r := rows[row-1]
	for len(r) < col {
		r = append(r, "")
	}
	r[col-1] = value
	rows[row-1] = r
	m.sheets[sheet] = rows
	return nil
}
