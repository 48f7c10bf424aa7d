package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lcy3-ops/dailytask/internal/config"
	"github.com/lcy3-ops/dailytask/internal/middleware"
	"github.com/lcy3-ops/dailytask/internal/models"
	"github.com/lcy3-ops/dailytask/internal/repo"
	"github.com/lcy3-ops/dailytask/internal/shift"
	"github.com/lcy3-ops/dailytask/internal/tasks"
	"github.com/lcy3-ops/dailytask/internal/utils"
)

// UserHandler serves the end-user dashboard: role selection for the
// current shift, the task list, and status submissions.
type UserHandler struct {
	users   *repo.Users
	svc     *tasks.Service
	boards  *repo.Boards
	catalog *config.RoleCatalog
	now     func() time.Time
}

func NewUserHandler(users *repo.Users, svc *tasks.Service, boards *repo.Boards, catalog *config.RoleCatalog) *UserHandler {
	return &UserHandler{
		users:   users,
		svc:     svc,
		boards:  boards,
		catalog: catalog,
		now:     func() time.Time { return time.Now().In(shift.Location()) },
	}
}

// Roles lists the selectable work roles from the startup catalog.
func (h *UserHandler) Roles(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]interface{}{"roles": h.catalog.Roles})
}

// Shift reports the resolved shift date and, if the user already chose
// a role this shift, which one.
func (h *UserHandler) Shift(w http.ResponseWriter, r *http.Request) {
	s, _ := middleware.SessionFrom(r)

	code, shiftDate, ok, err := h.currentShift(r, s.Email)
	if err != nil {
		renderError(w, err)
		return
	}
	resp := map[string]interface{}{"role_selected": ok}
	if ok {
		resp["role_code"] = code
		resp["shift_date"] = shiftDate.Format(shift.DayLayout)
		if def, found := h.catalog.Lookup(code); found {
			resp["role_name"] = def.Name
		}
	}
	utils.JSON(w, http.StatusOK, resp)
}

type selectRoleReq struct {
	RoleCode string `json:"role_code"`
}

// SelectRole commits the user to a role for the current shift and
// materializes its task list. Re-selecting after tasks exist returns
// the role already on record instead of creating a second set.
func (h *UserHandler) SelectRole(w http.ResponseWriter, r *http.Request) {
	s, _ := middleware.SessionFrom(r)

	var req selectRoleReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}
	def, ok := h.catalog.Lookup(req.RoleCode)
	if !ok {
		renderError(w, repo.ErrUnknownRole)
		return
	}

	shiftDate := shift.Date(def.Code, h.now())

	if existing, found, err := h.svc.RoleForShift(r.Context(), s.Email, shiftDate); err != nil {
		renderError(w, err)
		return
	} else if found {
		utils.JSON(w, http.StatusOK, map[string]interface{}{
			"role_code":  existing,
			"shift_date": shiftDate.Format(shift.DayLayout),
			"created":    false,
		})
		return
	}

	user, err := h.users.FindByEmail(r.Context(), s.Email)
	if err != nil {
		renderError(w, err)
		return
	}

	instances, err := h.svc.Instantiate(r.Context(), user, def.Code, shiftDate)
	if err != nil {
		renderError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, map[string]interface{}{
		"role_code":  def.Code,
		"shift_date": shiftDate.Format(shift.DayLayout),
		"created":    true,
		"task_count": len(instances),
	})
}

// Tasks returns the shift's task list in display order, locking any
// newly missed tasks on the way through.
func (h *UserHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	s, _ := middleware.SessionFrom(r)

	code, shiftDate, ok, err := h.currentShift(r, s.Email)
	if err != nil {
		renderError(w, err)
		return
	}
	if !ok {
		utils.JSONError(w, http.StatusNotFound, "no role selected for this shift")
		return
	}

	views, err := h.svc.List(r.Context(), s.Email, code, shiftDate)
	if err != nil {
		renderError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"shift_date": shiftDate.Format(shift.DayLayout),
		"role_code":  code,
		"tasks":      views,
	})
}

type submitReq struct {
	Done   bool   `json:"done"`
	Exempt bool   `json:"exempt"`
	Reason string `json:"reason"`
}

// Submit records done or exempt for one task instance.
func (h *UserHandler) Submit(w http.ResponseWriter, r *http.Request) {
	s, _ := middleware.SessionFrom(r)

	pos, err := strconv.Atoi(chi.URLParam(r, "pos"))
	if err != nil || pos < 0 {
		utils.JSONError(w, http.StatusBadRequest, "bad task position")
		return
	}

	var req submitReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	_, shiftDate, ok, err := h.currentShift(r, s.Email)
	if err != nil {
		renderError(w, err)
		return
	}
	if !ok {
		utils.JSONError(w, http.StatusNotFound, "no role selected for this shift")
		return
	}

	if err := h.svc.Submit(r.Context(), s.Email, shiftDate, pos, req.Done, req.Exempt, req.Reason); err != nil {
		renderError(w, err)
		return
	}
	utils.JSONMessage(w, http.StatusOK, "task updated and locked")
}

// Board returns the user's priority board, or an empty one if they have
// never saved it.
func (h *UserHandler) Board(w http.ResponseWriter, r *http.Request) {
	s, _ := middleware.SessionFrom(r)

	board, exists, err := h.boards.Get(r.Context(), models.BoardLogin(s.Email))
	if err != nil {
		renderError(w, err)
		return
	}
	if !exists {
		board.Login = models.BoardLogin(s.Email)
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"exists": exists,
		"board":  board,
	})
}

type boardReq struct {
	DoLater  [models.QuadrantSize]models.BoardItem `json:"do_later"`
	Avoid    [models.QuadrantSize]models.BoardItem `json:"avoid"`
	DoFirst  [models.QuadrantSize]models.BoardItem `json:"do_first"`
	Delegate [models.QuadrantSize]models.BoardItem `json:"delegate"`
}

// SaveBoard replaces the user's priority board wholesale. The login and
// date are stamped server-side.
func (h *UserHandler) SaveBoard(w http.ResponseWriter, r *http.Request) {
	s, _ := middleware.SessionFrom(r)

	var req boardReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	board := models.Board{
		Login:    models.BoardLogin(s.Email),
		Date:     h.now().Format(shift.DayLayout),
		DoLater:  req.DoLater,
		Avoid:    req.Avoid,
		DoFirst:  req.DoFirst,
		Delegate: req.Delegate,
	}
	if err := h.boards.Save(r.Context(), board); err != nil {
		renderError(w, err)
		return
	}
	utils.JSONMessage(w, http.StatusOK, "board saved")
}

// currentShift finds the shift the user is on right now. The shift
// date depends on the role's day/night split, so each candidate date
// is checked for an existing task set.
func (h *UserHandler) currentShift(r *http.Request, email string) (string, time.Time, bool, error) {
	now := h.now()
	seen := make(map[string]bool, 2)
	for _, def := range h.catalog.Roles {
		shiftDate := shift.Date(def.Code, now)
		day := shiftDate.Format(shift.DayLayout)
		if seen[day] {
			continue
		}
		seen[day] = true

		code, found, err := h.svc.RoleForShift(r.Context(), email, shiftDate)
		if err != nil {
			return "", time.Time{}, false, err
		}
		// A task set only counts as current if the role it was created
		// under still resolves to this shift date. Without the check a
		// day-shift set from yesterday would shadow today's until the
		// 07:00 rollover.
		if found && shift.Date(code, now).Equal(shiftDate) {
			return code, shiftDate, true, nil
		}
	}
	return "", time.Time{}, false, nil
}
