package telemetry

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// /api/stats?since=YYYY-MM-DD
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
		return
	}

	since := time.Time{}
	if s := strings.TrimSpace(r.URL.Query().Get("since")); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "bad since date"})
			return
		}
		since = t
	}

	events, err := h.repo.GetEvents(since, nil)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	stats, err := CalculateStats(events, since)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
