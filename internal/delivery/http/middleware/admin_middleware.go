package middleware

import (
	"net/http"

	"showcase-backend/internal/domain"
	"showcase-backend/pkg/utils"
)

// AdminMiddleware ensures the authenticated user has the 'admin' role.
// MUST be used AFTER AuthMiddleware.
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r)
		if user == nil {
			utils.WriteError(w, http.StatusUnauthorized, "Unauthorized: No user found in context")
			return
		}

		if !user.IsAdmin() {
			utils.WriteError(w, http.StatusForbidden, "Forbidden: Admins only")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAdmin chains AuthMiddleware and AdminMiddleware around h.
func RequireAdmin(h http.HandlerFunc) http.Handler {
	return AuthMiddleware(AdminMiddleware(h))
}

func UserFromContext(r *http.Request) *domain.User {
	user, _ := r.Context().Value(domain.UserContextKey).(*domain.User)
	return user
}
