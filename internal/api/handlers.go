package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/history"
	"github.com/starford/raido/internal/llm"
	"github.com/starford/raido/internal/review"
)

// Handler holds API route handlers.
type Handler struct {
	svc *review.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *review.Service) *Handler {
	return &Handler{svc: svc}
}

// notePath extracts the note path from the URL wildcard. Supports
// encoded slashes from API clients (e.g. topics%2Fnote.md).
func notePath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// GenerateReview handles POST /reviews: runs the full review pipeline
// for the current instant and returns the run result.
func (h *Handler) GenerateReview(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GenerateReview(r.Context(), time.Now())
	if err != nil {
		h.writeRunError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// SummarizeNote handles POST /summaries/*: generates a summary for the
// note and merges it into the note's Summary section.
func (h *Handler) SummarizeNote(w http.ResponseWriter, r *http.Request) {
	path := notePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	summary, err := h.svc.SummarizeNote(r.Context(), path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		h.writeRunError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"path":    path,
		"summary": summary,
	})
}

// ListRuns handles GET /runs with optional ?limit=.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := h.svc.Runs(r.Context(), limit)
	if err != nil {
		slog.Error("list runs failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if runs == nil {
		runs = []history.Run{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"runs": runs,
	})
}

// writeRunError maps pipeline failures onto HTTP statuses, always
// telling an LLM failure apart from everything else.
func (h *Handler) writeRunError(w http.ResponseWriter, err error) {
	var llmErr *llm.Error
	switch {
	case errors.As(err, &llmErr):
		slog.Error("model call failed", slog.String("error", llmErr.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody(llmErr.Error()))
	case errors.Is(err, apperr.ErrNoNotes):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("no notes modified in period"))
	case errors.Is(err, apperr.ErrInvalidPeriod):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, errorBody("output already exists"))
	default:
		slog.Error("review run failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
