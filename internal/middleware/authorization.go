package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RequireSelf ensures the token subject matches the named user-id path
// parameter. A valid token for one user must not act on another user's
// cart or orders.
func RequireSelf(paramName string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, ok := GetUserID(r.Context())
			if !ok {
				logger.Warn("User ID not found in context")
				RespondWithError(w, http.StatusUnauthorized, ErrCodeAuthentication, "unauthorized")
				return
			}

			pathUserID := chi.URLParam(r, paramName)
			if pathUserID == "" {
				logger.Error("Route is missing user id path parameter", zap.String("param", paramName))
				RespondWithError(w, http.StatusInternalServerError, ErrCodeInternal, "an unexpected error occurred")
				return
			}

			if subject != pathUserID {
				logger.Warn("Token subject attempted to access another user's resources",
					zap.String("subject", subject),
					zap.String("path_user_id", pathUserID),
				)
				RespondWithError(w, http.StatusForbidden, ErrCodeAuthentication, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
