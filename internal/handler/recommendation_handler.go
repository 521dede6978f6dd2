package handler

import (
	"net/http"

	"github.com/yusufkecer/health-agent-backend/internal/service"
)

type RecommendationHandler struct {
	service *service.HealthService
}

func NewRecommendationHandler(service *service.HealthService) *RecommendationHandler {
	return &RecommendationHandler{service: service}
}

// Generate runs one generation round trip and persists the result before
// responding. There is no automatic retry on provider failure.
func (h *RecommendationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	suggestion, err := h.service.GenerateSuggestion(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestion)
}

func (h *RecommendationHandler) Latest(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	rec, err := h.service.LatestRecommendation(userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
