package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/yusufkecer/health-agent-backend/internal/domain"
	"github.com/yusufkecer/health-agent-backend/internal/middleware"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			log.Printf("failed to encode response: %v", err)
		}
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps the domain error taxonomy onto HTTP statuses.
// Absent records are 404 so clients can render empty states; provider
// failures are 502 with a generic retry-later message.
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	var upstreamErr *domain.UpstreamError
	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "no record yet")
	case errors.As(err, &upstreamErr):
		log.Printf("upstream failure: %v", err)
		writeError(w, http.StatusBadGateway, "the assistant is temporarily unavailable, please try again later")
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// requireUserID pulls the authenticated user id from the request context.
func requireUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing authentication")
		return 0, false
	}
	return userID, true
}
