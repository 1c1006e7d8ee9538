package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/yourusername/nardy/pkg/ai"
)

// slowWait bounds how long a stream waits for a slow pool slot.
const slowWait = 5 * time.Second

// SelfPlaySSE handles Server-Sent Events for streaming self-play progress.
// GET /api/selfplay/stream?games=...&white=...&black=...&seed=...&workers=...
func (h *Handlers) SelfPlaySSE(w http.ResponseWriter, r *http.Request) {
	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeSSEError(w, "streaming not supported")
		return
	}

	query := r.URL.Query()
	opts, err := h.selfPlayOptions(SelfPlayRequest{
		Games:    parseIntParam(query.Get("games"), 0),
		White:    query.Get("white"),
		Black:    query.Get("black"),
		Seed:     int64(parseIntParam(query.Get("seed"), 0)),
		Workers:  parseIntParam(query.Get("workers"), 0),
		MaxTurns: parseIntParam(query.Get("max_turns"), 0),
	})
	if err != nil {
		writeSSEError(w, err.Error())
		return
	}

	if h.pool != nil {
		if err := h.pool.AcquireSlowWithTimeout(slowWait); err != nil {
			writeSSEError(w, "server busy")
			return
		}
		defer h.pool.ReleaseSlow()
	}

	// Progress callback sends SSE events
	callback := func(p ai.SelfPlayProgress) {
		writeSSEEvent(w, "progress", p)
		flusher.Flush()
	}

	result, err := ai.SelfPlay(r.Context(), opts, callback)
	if err != nil {
		writeSSEError(w, "self-play failed: "+err.Error())
		return
	}

	writeSSEEvent(w, "result", result)
	flusher.Flush()

	// Send done event to signal completion
	writeSSEEvent(w, "done", nil)
	flusher.Flush()
}

// writeSSEEvent writes a Server-Sent Event to the response.
func writeSSEEvent(w http.ResponseWriter, event string, data interface{}) {
	fmt.Fprintf(w, "event: %s\n", event)
	if data != nil {
		jsonData, _ := json.Marshal(data)
		fmt.Fprintf(w, "data: %s\n", jsonData)
	}
	fmt.Fprintf(w, "\n")
}

// writeSSEError writes an error event and closes the stream.
func writeSSEError(w http.ResponseWriter, message string) {
	writeSSEEvent(w, "error", map[string]string{"error": message})
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}

// parseIntParam parses an integer from a string with a default value.
func parseIntParam(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return val
}
