package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lcy3-ops/dailytask/internal/models"
	"github.com/lcy3-ops/dailytask/internal/repo"
	"github.com/lcy3-ops/dailytask/internal/utils"
)

// AdminHandler serves the admin dashboard: account management, the
// analytics summary, and the per-role task catalogs.
type AdminHandler struct {
	users     *repo.Users
	templates *repo.Templates
}

func NewAdminHandler(users *repo.Users, templates *repo.Templates) *AdminHandler {
	return &AdminHandler{users: users, templates: templates}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		renderError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

type createUserReq struct {
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
	ShiftStart string `json:"shift_start"`
}

// CreateUser adds an account with an empty password; the user sets
// their own on first login.
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		utils.JSONError(w, http.StatusBadRequest, "a valid email address is required")
		return
	}
	role := models.Role(req.Role)
	if role != models.RoleUser && role != models.RoleAdmin {
		utils.JSONError(w, http.StatusBadRequest, "role must be user or admin")
		return
	}

	u := models.User{
		Email:      strings.ToLower(req.Email),
		Role:       role,
		Status:     models.StatusActive,
		Department: req.Department,
		ShiftStart: req.ShiftStart,
	}
	if err := h.users.Create(r.Context(), u); err != nil {
		renderError(w, err)
		return
	}
	utils.JSONMessage(w, http.StatusCreated, "user created")
}

type updateUserReq struct {
	Role   *string `json:"role"`
	Status *string `json:"status"`
}

// UpdateUser changes an account's role or status.
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	var req updateUserReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	if req.Role != nil {
		role := models.Role(*req.Role)
		if role != models.RoleUser && role != models.RoleAdmin {
			utils.JSONError(w, http.StatusBadRequest, "role must be user or admin")
			return
		}
		if err := h.users.SetRole(r.Context(), email, role); err != nil {
			renderError(w, err)
			return
		}
	}
	if req.Status != nil {
		status := models.Status(*req.Status)
		if status != models.StatusActive && status != models.StatusInactive {
			utils.JSONError(w, http.StatusBadRequest, "status must be active or inactive")
			return
		}
		if err := h.users.SetStatus(r.Context(), email, status); err != nil {
			renderError(w, err)
			return
		}
	}
	utils.JSONMessage(w, http.StatusOK, "user updated")
}

// ResetPassword blanks the stored hash, pushing the account back into
// the first-login flow.
func (h *AdminHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if err := h.users.SetPasswordHash(r.Context(), email, ""); err != nil {
		renderError(w, err)
		return
	}
	utils.JSONMessage(w, http.StatusOK, "password reset")
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if err := h.users.Delete(r.Context(), email); err != nil {
		renderError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Summary is the admin landing view: account totals plus department
// and shift-start breakdowns.
func (h *AdminHandler) Summary(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		renderError(w, err)
		return
	}

	var admins, plain int
	departments := make(map[string]int)
	shiftStarts := make(map[string]int)
	for _, u := range users {
		switch u.Role {
		case models.RoleAdmin:
			admins++
		case models.RoleUser:
			plain++
		}
		if u.Department != "" {
			departments[u.Department]++
		}
		if u.ShiftStart != "" {
			shiftStarts[u.ShiftStart]++
		}
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"total_users":  len(users),
		"user_count":   plain,
		"admin_count":  admins,
		"departments":  departments,
		"shift_starts": shiftStarts,
	})
}

func (h *AdminHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "role")
	entries, err := h.templates.Entries(r.Context(), code)
	if err != nil {
		renderError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{"role_code": code, "entries": entries})
}

type putTemplateReq struct {
	Entries []models.TemplateEntry `json:"entries"`
}

// PutTemplate replaces a role's task catalog wholesale. Existing task
// instances are untouched; the new catalog applies from the next
// instantiation.
func (h *AdminHandler) PutTemplate(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "role")

	var req putTemplateReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}
	for _, e := range req.Entries {
		if e.Description == "" {
			utils.JSONError(w, http.StatusBadRequest, "every entry needs a task description")
			return
		}
	}

	if err := h.templates.Replace(r.Context(), code, req.Entries); err != nil {
		renderError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"role_code": code,
		"count":     len(req.Entries),
	})
}
