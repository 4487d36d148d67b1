package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/envdeck/envdeck/internal/chat"
	"github.com/envdeck/envdeck/internal/logging"
)

// ChatHandler streams model completions over server-sent events.
type ChatHandler struct {
	backend chat.Backend
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(backend chat.Backend) *ChatHandler {
	return &ChatHandler{backend: backend}
}

// Stream handles POST /api/chat/stream. Each event in the response body
// is an SSE message whose data field is a JSON-encoded chat event; the
// stream ends after a terminal error or done event.
func (h *ChatHandler) Stream(w http.ResponseWriter, r *http.Request) {
	log := logging.Logger(r.Context())

	if h.backend == nil {
		jsonError(w, http.StatusServiceUnavailable, "CHAT_UNAVAILABLE", "No chat backend is configured")
		return
	}

	var req struct {
		Prompt string `json:"prompt"`
		System string `json:"system"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodySize)).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "INVALID_INPUT", "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		jsonError(w, http.StatusBadRequest, "INVALID_INPUT", "Prompt must not be empty")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		jsonError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Streaming is not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for event := range chat.Stream(r.Context(), h.backend, chat.Request{Prompt: req.Prompt, System: req.System}) {
		data, err := json.Marshal(event)
		if err != nil {
			log.Error("failed to marshal chat event", "error", err)
			return
		}
		if _, err := w.Write([]byte("data: " + string(data) + "\n\n")); err != nil {
			// Client went away; the context cancellation tears down
			// the stream.
			return
		}
		flusher.Flush()
	}
}
