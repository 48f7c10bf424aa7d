package handlers

import (
	"net/http"

	"github.com/lcy3-ops/dailytask/internal/auth"
	"github.com/lcy3-ops/dailytask/internal/middleware"
	"github.com/lcy3-ops/dailytask/internal/models"
	"github.com/lcy3-ops/dailytask/internal/utils"
)

type AuthHandler struct {
	gate     *auth.Gate
	sessions *auth.Manager
}

func NewAuthHandler(gate *auth.Gate, sessions *auth.Manager) *AuthHandler {
	return &AuthHandler{gate: gate, sessions: sessions}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type setPasswordReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}

type tokenResp struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Login returns the login handler for one dashboard; each dashboard
// admits only its own role.
func (h *AuthHandler) Login(want models.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginReq
		if err := utils.DecodeJSON(w, r, &req); err != nil {
			return
		}
		if req.Email == "" {
			utils.JSONError(w, http.StatusBadRequest, "email required")
			return
		}

		token, err := h.gate.Authenticate(r.Context(), want, req.Email, req.Password)
		if err != nil {
			renderError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, tokenResp{Token: token, Email: req.Email, Role: string(want)})
	}
}

// SetPassword completes first-login setup for the user dashboard. The
// account logs in normally afterwards.
func (h *AuthHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	var req setPasswordReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}
	if err := h.gate.SetPassword(r.Context(), models.RoleUser, req.Email, req.Password, req.Confirm); err != nil {
		renderError(w, err)
		return
	}
	utils.JSONMessage(w, http.StatusOK, "password set, please log in")
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.SessionFrom(r)
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "not authorized")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"email":     s.Email,
		"role":      s.Role,
		"issued_at": s.IssuedAt,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if s, ok := middleware.SessionFrom(r); ok {
		h.sessions.Revoke(s.ID)
	}
	w.WriteHeader(http.StatusNoContent)
}
