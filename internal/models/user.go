package models

import "strings"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// User is one row of the Users sheet. Email is the unique key and is
// stored lower-cased. An empty PasswordHash means the account has been
// created by an admin but the user has not completed first login yet.
type User struct {
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	Status       Status `json:"status"`
	Department   string `json:"department"`
	ShiftStart   string `json:"shift_start"`
}

// Users sheet columns, 1-based.
const (
	UserColEmail = iota + 1
	UserColPassword
	UserColRole
	UserColStatus
	UserColDepartment
	UserColShiftStart
)

func UserFromRow(row []string) User {
	return User{
		Email:        strings.ToLower(cell(row, UserColEmail-1)),
		PasswordHash: cell(row, UserColPassword-1),
		Role:         Role(cell(row, UserColRole-1)),
		Status:       Status(cell(row, UserColStatus-1)),
		Department:   cell(row, UserColDepartment-1),
		ShiftStart:   cell(row, UserColShiftStart-1),
	}
}

func (u User) ToRow() []string {
	return []string{
		strings.ToLower(u.Email),
		u.PasswordHash,
		string(u.Role),
		string(u.Status),
		u.Department,
		u.ShiftStart,
	}
}

// DisplayName is the local part of the email, capitalized, the way the
// dashboards greet the user.
func (u User) DisplayName() string {
	local, _, _ := strings.Cut(u.Email, "@")
	if local == "" {
		return ""
	}
	return strings.ToUpper(local[:1]) + local[1:]
}

// cell reads a column from a sheet row, tolerating short rows: the
// storage service trims trailing empty cells.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
