package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Tarynjenifer/smartgrow-ai/internal/delay"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

type textIn struct {
	Text string `json:"text"`
}

// /api/chat/...
func (h *Handler) Sub(w http.ResponseWriter, r *http.Request) {
	tail := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/chat/"), "/")
	parts := strings.Split(tail, "/")

	switch {
	case len(parts) == 1 && parts[0] == "suggestions":
		h.quickQuestions(w, r)
	case len(parts) == 1 && parts[0] == "respond":
		h.respond(w, r)
	case len(parts) == 2 && parts[0] != "" && parts[1] == "messages":
		h.messages(w, r, parts[0])
	default:
		writeErr(w, http.StatusNotFound, "not found")
	}
}

func (h *Handler) quickQuestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, h.svc.QuickQuestions())
}

// respond answers immediately, without the typing delay.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var in textIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}
	rule, ok := h.svc.Responder().Match(in.Text)
	name := "fallback"
	text := h.svc.Responder().Fallback()
	if ok {
		name, text = rule.Name, rule.Response
	}
	writeJSON(w, http.StatusOK, map[string]any{"rule": name, "response": text})
}

func (h *Handler) messages(w http.ResponseWriter, r *http.Request, convID string) {
	switch r.Method {
	case http.MethodGet:
		conv, ok := h.svc.Lookup(convID)
		if !ok {
			writeJSON(w, http.StatusOK, map[string]any{"messages": h.svc.Greeting(), "typing": false})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"messages": conv.History(),
			"typing":   conv.Typing(),
		})

	case http.MethodPost:
		var in textIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeErr(w, http.StatusBadRequest, "bad json")
			return
		}
		user, reply, err := h.svc.Conversation(convID).Send(r.Context(), in.Text)
		switch {
		case errors.Is(err, ErrEmptyMessage):
			writeErr(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, delay.ErrSuperseded), errors.Is(err, delay.ErrCancelled):
			writeJSON(w, http.StatusConflict, map[string]any{"error": err.Error(), "user": user})
		case err != nil:
			// the client went away; nobody is left to read a body
			writeErr(w, http.StatusServiceUnavailable, err.Error())
		default:
			writeJSON(w, http.StatusOK, map[string]any{"user": user, "reply": reply})
		}

	case http.MethodDelete:
		conv, ok := h.svc.Lookup(convID)
		if !ok {
			writeJSON(w, http.StatusOK, map[string]any{"messages": h.svc.Greeting()})
			return
		}
		conv.Clear()
		writeJSON(w, http.StatusOK, map[string]any{"messages": conv.History()})

	default:
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
