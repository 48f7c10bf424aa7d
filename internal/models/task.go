package models

import "strings"

// TemplateEntry is one row of a role's task-catalog sheet: what to do
// and the clock time it is due, e.g. {"Check inbound dock", "8.00AM"}.
type TemplateEntry struct {
	Description string `json:"description"`
	DueTime     string `json:"due_time"`
}

// TaskInstance is one row of the daily-task sheet: a single template
// entry materialized for one user and one shift date. Once Locked is
// true the row never changes again.
type TaskInstance struct {
	Email        string `json:"email"`
	DisplayName  string `json:"display_name"`
	CreatedDate  string `json:"created_date"`
	ClosedAt     string `json:"closed_at"`
	RoleCode     string `json:"role_code"`
	Description  string `json:"description"`
	Done         bool   `json:"done"`
	Exempt       bool   `json:"exempt"`
	ExemptReason string `json:"exempt_reason"`
	Locked       bool   `json:"locked"`
	Missed       bool   `json:"missed"`
	DueTime      string `json:"due_time"`
}

// Daily-task sheet columns, 1-based (A..L).
const (
	TaskColEmail = iota + 1
	TaskColDisplayName
	TaskColCreatedDate
	TaskColClosedAt
	TaskColRoleCode
	TaskColDescription
	TaskColDone
	TaskColExempt
	TaskColExemptReason
	TaskColLocked
	TaskColMissed
	TaskColDueTime
)

func TaskFromRow(row []string) TaskInstance {
	return TaskInstance{
		Email:        strings.ToLower(cell(row, TaskColEmail-1)),
		DisplayName:  cell(row, TaskColDisplayName-1),
		CreatedDate:  cell(row, TaskColCreatedDate-1),
		ClosedAt:     cell(row, TaskColClosedAt-1),
		RoleCode:     cell(row, TaskColRoleCode-1),
		Description:  cell(row, TaskColDescription-1),
		Done:         sheetBool(cell(row, TaskColDone-1)),
		Exempt:       sheetBool(cell(row, TaskColExempt-1)),
		ExemptReason: cell(row, TaskColExemptReason-1),
		Locked:       sheetBool(cell(row, TaskColLocked-1)),
		Missed:       sheetBool(cell(row, TaskColMissed-1)),
		DueTime:      cell(row, TaskColDueTime-1),
	}
}

func (t TaskInstance) ToRow() []string {
	return []string{
		strings.ToLower(t.Email),
		t.DisplayName,
		t.CreatedDate,
		t.ClosedAt,
		t.RoleCode,
		t.Description,
		FormatSheetBool(t.Done),
		FormatSheetBool(t.Exempt),
		t.ExemptReason,
		FormatSheetBool(t.Locked),
		FormatSheetBool(t.Missed),
		t.DueTime,
	}
}

// The storage service renders checkbox cells as TRUE/FALSE strings.
func sheetBool(s string) bool {
	return strings.EqualFold(s, "TRUE")
}

func FormatSheetBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}
