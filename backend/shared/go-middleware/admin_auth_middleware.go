package middleware

import (
	"net/http"

	"github.com/poofware/mono-repo/backend/shared/go-models"
	"github.com/poofware/mono-repo/backend/shared/go-utils"
)

// AdminOnly must run after AuthMiddleware. It rejects callers whose token
// does not carry the ADMIN role.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, _ := r.Context().Value(ContextKeyRole).(string)
		if models.UserRole(role) != models.UserRoleAdmin {
			utils.RespondErrorWithCode(
				w, http.StatusForbidden, utils.ErrCodeForbidden, "Admin role required", nil,
			)
			return
		}
		next.ServeHTTP(w, r)
	})
}
