package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/yusufkecer/health-agent-backend/internal/domain"
	"github.com/yusufkecer/health-agent-backend/internal/service"
)

type MetricHandler struct {
	service *service.HealthService
}

func NewMetricHandler(service *service.HealthService) *MetricHandler {
	return &MetricHandler{service: service}
}

func (h *MetricHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var payload domain.MetricPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	metric, err := h.service.RecordMetric(userID, &payload)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, metric)
}

func (h *MetricHandler) Latest(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	metric, err := h.service.LatestMetric(userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metric)
}

func (h *MetricHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	metrics, err := h.service.MetricHistory(userID, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

// parseLimit reads the optional ?limit=N query parameter. Absent means 0,
// which the service replaces with its default.
func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return 0, false
	}
	return limit, true
}
