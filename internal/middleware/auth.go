package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/lcy3-ops/dailytask/internal/auth"
	"github.com/lcy3-ops/dailytask/internal/models"
	"github.com/lcy3-ops/dailytask/internal/utils"
)

// Auth verifies the bearer token, enforces the inactivity window, and
// gates the request on the role the dashboard requires. The verified
// session lands in the request context.
func Auth(sessions *auth.Manager, want models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				utils.JSONError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			s, err := sessions.Verify(token)
			if errors.Is(err, auth.ErrSessionExpired) {
				utils.JSONError(w, http.StatusUnauthorized, "session timed out due to inactivity, please log in again")
				return
			}
			if err != nil {
				utils.JSONError(w, http.StatusUnauthorized, "not authorized")
				return
			}

			if s.Role != want {
				utils.JSONError(w, http.StatusForbidden, "access denied for this dashboard")
				return
			}

			ctx := context.WithValue(r.Context(), utils.CtxSessionKey, s)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFrom pulls the verified session out of a request context.
func SessionFrom(r *http.Request) (*auth.Session, bool) {
	s, ok := r.Context().Value(utils.CtxSessionKey).(*auth.Session)
	return s, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
