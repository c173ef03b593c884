package task

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

type Handler struct {
	repo          Repo
	seed          []Task
	upcomingLimit int
	ignoreMissing bool
	logger        *zap.Logger
}

func NewHandler(repo Repo) *Handler {
	return &Handler{repo: repo, upcomingLimit: 3, logger: zap.NewNop()}
}

// SetSeed sets the tasks restored by POST /api/tasks/reset.
func (h *Handler) SetSeed(seed []Task) {
	h.seed = append([]Task(nil), seed...)
}

func (h *Handler) SetUpcomingLimit(n int) {
	if n > 0 {
		h.upcomingLimit = n
	}
}

// SetIgnoreMissing makes update and status changes on unknown ids succeed
// silently instead of answering 404.
func (h *Handler) SetIgnoreMissing(ignore bool) {
	h.ignoreMissing = ignore
}

func (h *Handler) SetLogger(l *zap.Logger) {
	if l != nil {
		h.logger = l
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(out)
}

func isValidation(err error) bool {
	return errors.Is(err, ErrInvalidType) || errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrInvalidDate) || errors.Is(err, ErrDuplicateID) ||
		errors.Is(err, ErrReservedID)
}

func (h *Handler) writeRepoErr(w http.ResponseWriter, err error) {
	if isValidation(err) {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	h.logger.Error("task repo failed", zap.Error(err))
	writeErr(w, http.StatusInternalServerError, err.Error())
}

func (h *Handler) writeMissing(w http.ResponseWriter) {
	if h.ignoreMissing {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "changed": false})
		return
	}
	writeErr(w, http.StatusNotFound, ErrNotFound.Error())
}

// /api/tasks  (collection)
func (h *Handler) TasksRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		var filter Filter
		if s := strings.TrimSpace(q.Get("status")); s != "" && s != "all" {
			st, err := ParseStatus(s)
			if err != nil {
				writeErr(w, http.StatusBadRequest, err.Error())
				return
			}
			filter.Status = st
		}
		if s := strings.TrimSpace(q.Get("type")); s != "" && s != "all" {
			tt, err := ParseType(s)
			if err != nil {
				writeErr(w, http.StatusBadRequest, err.Error())
				return
			}
			filter.Type = tt
		}
		filter.Zone = strings.TrimSpace(q.Get("zone"))

		ts, err := h.repo.List(r.Context(), filter)
		if err != nil {
			h.writeRepoErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ts)
		return

	case http.MethodPost:
		var in Draft
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, http.StatusBadRequest, "bad json")
			return
		}
		t, err := h.repo.Add(r.Context(), in)
		if err != nil {
			h.writeRepoErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, t)
		return

	default:
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
}

// /api/tasks/{id}, /api/tasks/{id}/status and the derived views
func (h *Handler) TasksSub(w http.ResponseWriter, r *http.Request) {
	tail := strings.TrimPrefix(r.URL.Path, "/api/tasks/")
	tail = strings.Trim(tail, "/")
	if tail == "" {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}

	parts := strings.Split(tail, "/")

	if len(parts) == 1 {
		switch parts[0] {
		// keep in sync with ReservedIDs
		case "upcoming":
			h.upcoming(w, r)
			return
		case "counts":
			h.counts(w, r)
			return
		case "reset":
			h.reset(w, r)
			return
		}
		h.task(w, r, parts[0])
		return
	}

	if len(parts) == 2 && parts[1] == "status" {
		h.status(w, r, parts[0])
		return
	}

	writeErr(w, http.StatusNotFound, "not found")
}

func (h *Handler) task(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		t, ok, err := h.repo.Get(r.Context(), id)
		if err != nil {
			h.writeRepoErr(w, err)
			return
		}
		if !ok {
			writeErr(w, http.StatusNotFound, ErrNotFound.Error())
			return
		}
		writeJSON(w, http.StatusOK, t)

	case http.MethodPut, http.MethodPatch:
		var f Fields
		if err := decodeJSON(r, &f); err != nil {
			writeErr(w, http.StatusBadRequest, "bad json")
			return
		}
		t, ok, err := h.repo.Update(r.Context(), id, f)
		if err != nil {
			h.writeRepoErr(w, err)
			return
		}
		if !ok {
			h.writeMissing(w)
			return
		}
		writeJSON(w, http.StatusOK, t)

	case http.MethodDelete:
		if _, err := h.repo.Remove(r.Context(), id); err != nil {
			h.writeRepoErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPut {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var in struct {
		Status *string `json:"status"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}
	if in.Status == nil {
		writeErr(w, http.StatusBadRequest, `missing field "status"`)
		return
	}
	st, err := ParseStatus(*in.Status)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	t, ok, err := h.repo.SetStatus(r.Context(), id, st)
	if err != nil {
		h.writeRepoErr(w, err)
		return
	}
	if !ok {
		h.writeMissing(w)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) upcoming(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := h.upcomingLimit
	if s := strings.TrimSpace(r.URL.Query().Get("limit")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeErr(w, http.StatusBadRequest, "bad limit")
			return
		}
		limit = n
	}

	ts, err := h.repo.Upcoming(r.Context(), limit)
	if err != nil {
		h.writeRepoErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ts)
}

func (h *Handler) counts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	c, err := h.repo.Counts(r.Context())
	if err != nil {
		h.writeRepoErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := h.repo.Reset(r.Context(), h.seed); err != nil {
		h.writeRepoErr(w, err)
		return
	}
	h.logger.Info("planner reset", zap.Int("tasks", len(h.seed)))
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "count": len(h.seed)})
}
