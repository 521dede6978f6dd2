package handler

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/yusufkecer/health-agent-backend/internal/domain"
	"github.com/yusufkecer/health-agent-backend/internal/service"
)

type AssistantHandler struct {
	service *service.HealthService
}

func NewAssistantHandler(service *service.HealthService) *AssistantHandler {
	return &AssistantHandler{service: service}
}

func (h *AssistantHandler) Messages(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	messages, err := h.service.ListAssistantMessages(userID, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

type chatPayload struct {
	Content string `json:"content"`
}

// ChatStream runs one chat turn over server-sent events. Each event is a
// JSON-encoded chunk; the terminal chunk triggers persistence and change
// reconciliation inside the service.
func (h *AssistantHandler) ChatStream(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var payload chatPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(payload.Content) == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming is not supported")
		return
	}

	// The SSE headers go out with the first frame, so a failure before any
	// output still gets a regular error status instead of a 200 stream.
	streaming := false
	err := h.service.StreamChat(r.Context(), userID, payload.Content, func(chunk domain.StreamChunk) error {
		encoded, err := json.Marshal(chunk)
		if err != nil {
			return err
		}
		if !streaming {
			w.Header().Set("Content-Type", "text/event-stream")
			w.Header().Set("Cache-Control", "no-cache")
			w.Header().Set("Connection", "keep-alive")
			w.Header().Set("X-Accel-Buffering", "no")
			streaming = true
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", encoded); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		if !streaming {
			writeServiceError(w, err)
			return
		}
		// Headers are already out; report the failure as a final frame.
		log.Printf("chat stream failed for user %d: %v", userID, err)
		fmt.Fprintf(w, "data: %s\n\n", `{"error":"the assistant is temporarily unavailable, please try again later"}`)
		flusher.Flush()
	}
}
