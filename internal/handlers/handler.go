package handlers

import (
	"errors"
	"net/http"

	"github.com/lcy3-ops/dailytask/internal/auth"
	"github.com/lcy3-ops/dailytask/internal/config"
	"github.com/lcy3-ops/dailytask/internal/repo"
	"github.com/lcy3-ops/dailytask/internal/rowstore"
	"github.com/lcy3-ops/dailytask/internal/tasks"
	"github.com/lcy3-ops/dailytask/internal/utils"
)

type Handler struct {
	Auth  *AuthHandler
	User  *UserHandler
	Admin *AdminHandler
}

func NewHandler(gate *auth.Gate, sessions *auth.Manager, users *repo.Users, templates *repo.Templates, boards *repo.Boards, svc *tasks.Service, catalog *config.RoleCatalog) *Handler {
	return &Handler{
		Auth:  NewAuthHandler(gate, sessions),
		User:  NewUserHandler(users, svc, boards, catalog),
		Admin: NewAdminHandler(users, templates),
	}
}

// renderError maps an error to its status and leaves the client on the
// same view to retry; nothing here is retried server-side.
func renderError(w http.ResponseWriter, err error) {
	var storeErr *rowstore.StoreError
	var validation auth.ValidationError

	switch {
	case errors.Is(err, auth.ErrFirstLoginRequired):
		utils.JSON(w, http.StatusConflict, map[string]string{
			"error": err.Error(),
			"code":  "first_login_required",
		})
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInactiveOrMissing):
		utils.JSONError(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &validation),
		errors.Is(err, tasks.ErrBothOrNeither),
		errors.Is(err, tasks.ErrReasonRequired):
		utils.JSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, tasks.ErrTaskLocked),
		errors.Is(err, tasks.ErrPastDue),
		errors.Is(err, tasks.ErrNotEditable),
		errors.Is(err, tasks.ErrAlreadyLoaded),
		errors.Is(err, auth.ErrPasswordAlreadySet),
		errors.Is(err, repo.ErrUserExists):
		utils.JSONError(w, http.StatusConflict, err.Error())
	case errors.Is(err, repo.ErrUserNotFound),
		errors.Is(err, repo.ErrTaskNotFound),
		errors.Is(err, repo.ErrUnknownRole),
		errors.Is(err, tasks.ErrEmptyTemplate):
		utils.JSONError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &storeErr):
		utils.JSONError(w, http.StatusBadGateway, "storage service error, please retry")
	default:
		utils.JSONError(w, http.StatusInternalServerError, "internal error")
	}
}
