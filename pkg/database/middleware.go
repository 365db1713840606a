package database

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WithUserContext creates middleware that sets up a user-scoped DB connection
// from the {user_id} path value. The connection is automatically cleaned up
// after the handler returns.
func WithUserContext(db *DB, logger *zap.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			userIDStr := r.PathValue("user_id")
			userID, err := uuid.Parse(userIDStr)
			if err != nil {
				logger.Warn("Invalid user ID in path",
					zap.String("user_id", userIDStr),
					zap.Error(err))
				writeError(w, http.StatusBadRequest, "invalid_user_id", "Invalid user ID format")
				return
			}

			scope, err := db.WithUser(r.Context(), userID)
			if err != nil {
				logger.Error("Failed to acquire user connection",
					zap.String("user_id", userID.String()),
					zap.Error(err))
				writeError(w, http.StatusInternalServerError, "database_error", "Database connection error")
				return
			}
			defer scope.Close()

			ctx := SetUserScope(r.Context(), scope)
			next(w, r.WithContext(ctx))
		}
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, statusCode int, errorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}
