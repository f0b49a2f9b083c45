package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/wtg/vaultsync/internal/common"
	"github.com/wtg/vaultsync/internal/server/auth"
	"github.com/wtg/vaultsync/internal/server/models"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	roleKey
)

// UserID returns the authenticated caller's id, or "" outside the
// authenticated route group.
func UserID(ctx context.Context) string {
	v, _ := ctx.Value(userIDKey).(string)
	return v
}

// CallerRole returns the authenticated caller's role.
func CallerRole(ctx context.Context) string {
	v, _ := ctx.Value(roleKey).(string)
	return v
}

// requireAuth verifies the Bearer token and stores the caller's identity
// in the request context.
func (a *API) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthHeaderName)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			a.writeError(w, r, common.ErrUnauthorized)
			return
		}

		userID, role, err := auth.ParseToken(token, a.secretKey)
		if err != nil {
			a.writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, roleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin rejects callers whose token does not carry the ADMIN role.
func (a *API) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CallerRole(r.Context()) != string(models.RoleAdmin) {
			a.writeError(w, r, common.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
