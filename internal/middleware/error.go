package middleware

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Error categories surfaced to clients. Every failure maps to exactly
// one of these in the response body.
const (
	ErrCodeDatabase       = "DatabaseError"
	ErrCodeValidation     = "ValidationError"
	ErrCodeNotFound       = "NotFound"
	ErrCodeAuthentication = "AuthenticationError"
	ErrCodeInternal       = "InternalServerError"
)

// ErrorResponse is the JSON body returned for every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RespondWithError sends a categorized error response
func RespondWithError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   code,
		Message: message,
	})
}

// RespondWithJSON sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// ErrorHandlingMiddleware catches panics and converts them to 500 errors
func ErrorHandlingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("Panic recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
					)

					RespondWithError(w, http.StatusInternalServerError, ErrCodeInternal, "an unexpected error occurred")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
