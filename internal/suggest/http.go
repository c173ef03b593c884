package suggest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Tarynjenifer/smartgrow-ai/internal/delay"
)

type Handler struct {
	panel *Panel
}

func NewHandler(panel *Panel) *Handler {
	return &Handler{panel: panel}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

// /api/suggest/parameters and /api/suggest/{panel}
func (h *Handler) Sub(w http.ResponseWriter, r *http.Request) {
	tail := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/suggest/"), "/")
	if tail == "" || strings.Contains(tail, "/") {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	if tail == "parameters" {
		h.parameters(w, r)
		return
	}
	h.panelRoute(w, r, tail)
}

func (h *Handler) parameters(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"defaults": DefaultParameters(),
		"ranges": map[string]Range{
			"temperature": TemperatureRange,
			"humidity":    HumidityRange,
			"ph":          PHRange,
			"area":        AreaRange,
		},
		"soil_types": SoilTypes,
		"experience": ExperienceLevels,
	})
}

func (h *Handler) panelRoute(w http.ResponseWriter, r *http.Request, panelID string) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"loading": h.panel.Loading(panelID)})

	case http.MethodPost:
		params := DefaultParameters()
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			writeErr(w, http.StatusBadRequest, "bad json")
			return
		}
		out, err := h.panel.Request(r.Context(), panelID, params)
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, map[string]any{"suggestions": out})
		case errors.Is(err, delay.ErrSuperseded), errors.Is(err, delay.ErrCancelled):
			writeErr(w, http.StatusConflict, err.Error())
		case isValidation(err):
			writeErr(w, http.StatusBadRequest, err.Error())
		default:
			writeErr(w, http.StatusServiceUnavailable, err.Error())
		}

	case http.MethodDelete:
		writeJSON(w, http.StatusOK, map[string]any{"cancelled": h.panel.Cancel(panelID)})

	default:
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func isValidation(err error) bool {
	return errors.Is(err, ErrMissingSoilType) || errors.Is(err, ErrMissingExperience) ||
		errors.Is(err, ErrUnknownSoilType) || errors.Is(err, ErrUnknownExperience) ||
		errors.Is(err, ErrOutOfRange)
}
