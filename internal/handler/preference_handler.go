package handler

import (
	"encoding/json"
	"net/http"

	"github.com/yusufkecer/health-agent-backend/internal/service"
)

type PreferenceHandler struct {
	service *service.HealthService
}

func NewPreferenceHandler(service *service.HealthService) *PreferenceHandler {
	return &PreferenceHandler{service: service}
}

func (h *PreferenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	pref, err := h.service.GetPreferences(userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pref)
}

// Update merges a partial payload. The body is decoded into a map so an
// absent key and an explicit null can be told apart: null clears the
// field, absence leaves it untouched.
func (h *PreferenceHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var partial map[string]any
	if err := json.NewDecoder(r.Body).Decode(&partial); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pref, err := h.service.UpdatePreferences(userID, partial)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pref)
}
