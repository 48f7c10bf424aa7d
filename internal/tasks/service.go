// Package tasks materializes per-shift task lists from the role
// catalogs and drives each instance through its lifecycle: pending,
// then exactly one of done, exempt, or missed, after which the row is
// locked for good.
package tasks

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/lcy3-ops/dailytask/internal/models"
	"github.com/lcy3-ops/dailytask/internal/repo"
	"github.com/lcy3-ops/dailytask/internal/shift"
)

var (
	ErrBothOrNeither  = errors.New("mark the task either done or exempt, not both")
	ErrReasonRequired = errors.New("exempt tasks need a reason")
	ErrTaskLocked     = errors.New("task is locked and can no longer change")
	ErrPastDue        = errors.New("task is past its due time")
	ErrNotEditable    = errors.New("task can no longer be edited")
	ErrAlreadyLoaded  = errors.New("tasks already exist for this shift")
	ErrEmptyTemplate  = errors.New("role has no task catalog")
)

const closedAtLayout = "2006-01-02 15:04:05"

// View is a task instance prepared for display: resolved due
// timestamp, editability, and lifecycle state.
type View struct {
	repo.TaskRecord
	DueAt    time.Time `json:"due_at"`
	Due24    string    `json:"due_24h"`
	Editable bool      `json:"editable"`
	State    string    `json:"state"`

	dueValid bool
}

// Service wires the instantiator and lifecycle manager over the task
// and template repositories. The clock is injectable for tests.
type Service struct {
	tasks     *repo.Tasks
	templates *repo.Templates
	now       func() time.Time
}

func NewService(tasks *repo.Tasks, templates *repo.Templates) *Service {
	return &Service{tasks: tasks, templates: templates, now: func() time.Time { return time.Now().In(shift.Location()) }}
}

// Instantiate materializes one pending instance per catalog entry for
// the user's shift and appends them in a single batch. The per-key
// lock closes the check-then-append race between two sessions of the
// same user in this process.
func (s *Service) Instantiate(ctx context.Context, user models.User, roleCode string, shiftDate time.Time) ([]models.TaskInstance, error) {
	day := shiftDate.Format(shift.DayLayout)

	lock := s.tasks.InstantiationLock(user.Email, day)
	lock.Lock()
	defer lock.Unlock()

	if _, exists, err := s.tasks.ExistingRole(ctx, user.Email, day); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrAlreadyLoaded
	}

	entries, err := s.templates.Entries(ctx, roleCode)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrEmptyTemplate
	}

	instances := make([]models.TaskInstance, len(entries))
	for i, e := range entries {
		instances[i] = models.TaskInstance{
			Email:       user.Email,
			DisplayName: user.DisplayName(),
			CreatedDate: day,
			RoleCode:    roleCode,
			Description: e.Description,
			DueTime:     e.DueTime,
		}
	}
	if err := s.tasks.AppendInstances(ctx, instances); err != nil {
		return nil, err
	}
	return instances, nil
}

// RoleForShift reports the role already materialized for the user on
// a shift date, if any; a user commits to one role per shift.
func (s *Service) RoleForShift(ctx context.Context, email string, shiftDate time.Time) (string, bool, error) {
	return s.tasks.ExistingRole(ctx, email, shiftDate.Format(shift.DayLayout))
}

// List returns the user's instances for a shift in display order. Any
// pending instance whose due time has passed is locked and marked
// missed on the way through; there is no background timer, this read
// is the only place the transition fires.
func (s *Service) List(ctx context.Context, email, roleCode string, shiftDate time.Time) ([]View, error) {
	day := shiftDate.Format(shift.DayLayout)
	records, err := s.tasks.ForShift(ctx, email, day, roleCode)
	if err != nil {
		return nil, err
	}

	now := s.now()
	views := make([]View, 0, len(records))
	for _, rec := range records {
		v := s.view(rec, shiftDate, now)

		if v.dueValid && !rec.Locked && now.After(v.DueAt) && !rec.Done && !rec.Exempt {
			closed := now.Format(closedAtLayout)
			if err := s.tasks.SaveStatus(ctx, rec.Pos, false, false, rec.ExemptReason, true, closed); err != nil {
				return nil, err
			}
			rec.Locked = true
			rec.Missed = true
			rec.ClosedAt = closed
			v = s.view(rec, shiftDate, now)
		}
		views = append(views, v)
	}

	// Unresolved work first, locked or past rows at the bottom, ties
	// broken by due timestamp.
	sort.SliceStable(views, func(i, j int) bool {
		pi, pj := sinks(views[i], now), sinks(views[j], now)
		if pi != pj {
			return !pi
		}
		return views[i].DueAt.Before(views[j].DueAt)
	})
	return views, nil
}

// Submit records a user's done/exempt decision on one instance. Input
// is validated before any store call; a locked or past-due instance is
// rejected outright.
func (s *Service) Submit(ctx context.Context, email string, shiftDate time.Time, pos int, done, exempt bool, reason string) error {
	if done == exempt {
		return ErrBothOrNeither
	}
	if exempt && reason == "" {
		return ErrReasonRequired
	}

	rec, err := s.tasks.Get(ctx, email, pos)
	if err != nil {
		return err
	}
	if rec.CreatedDate != shiftDate.Format(shift.DayLayout) {
		return repo.ErrTaskNotFound
	}
	if rec.Locked {
		return ErrTaskLocked
	}

	now := s.now()
	dueAt, err := shift.DueAt(rec.RoleCode, shiftDate, rec.DueTime)
	if err != nil {
		// Rows with unparseable due times render locked; keep the
		// write path consistent with that.
		return ErrNotEditable
	}
	if now.After(dueAt) {
		return ErrPastDue
	}

	if !exempt {
		reason = ""
	}
	return s.tasks.SaveStatus(ctx, pos, done, exempt, reason, false, now.Format(closedAtLayout))
}

func (s *Service) view(rec repo.TaskRecord, shiftDate time.Time, now time.Time) View {
	v := View{TaskRecord: rec, Due24: shift.Clock24(rec.DueTime)}
	dueAt, err := shift.DueAt(rec.RoleCode, shiftDate, rec.DueTime)
	if err != nil {
		// Unparseable due times sort to the bottom and never unlock.
		v.DueAt = now.AddDate(100, 0, 0)
		v.Editable = false
	} else {
		v.DueAt = dueAt
		v.dueValid = true
		v.Editable = !rec.Locked && now.Before(dueAt)
	}
	v.State = state(rec.TaskInstance)
	return v
}

func state(t models.TaskInstance) string {
	switch {
	case t.Done:
		return "done"
	case t.Exempt:
		return "exempt"
	case t.Missed:
		return "missed"
	default:
		return "pending"
	}
}

func sinks(v View, now time.Time) bool {
	return v.Locked || (v.dueValid && v.DueAt.Before(now))
}
