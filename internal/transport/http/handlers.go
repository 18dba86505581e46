// Package http provides HTTP handlers and router configuration.
package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tunegrab/tunegrab-api/internal/domain"
	"github.com/tunegrab/tunegrab-api/internal/infra/artifacts"
	"github.com/tunegrab/tunegrab-api/internal/service/jobs"
	"github.com/tunegrab/tunegrab-api/internal/service/queue"
)

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	service    *jobs.Service
	dispatcher *queue.Dispatcher
	artifacts  artifacts.Store
}

// NewHandlers creates a Handlers instance.
func NewHandlers(service *jobs.Service, dispatcher *queue.Dispatcher, art artifacts.Store) *Handlers {
	return &Handlers{
		service:    service,
		dispatcher: dispatcher,
		artifacts:  art,
	}
}

// HealthHandler handles GET /api/health.
func (h *Handlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, &domain.HealthResponse{
		Status:    "ok",
		QueueSize: h.dispatcher.QueueSize(),
		Workers:   h.dispatcher.WorkerCount(),
	})
}

// DownloadHandler handles POST /api/download.
func (h *Handlers) DownloadHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.DownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "INVALID_BODY")
		return
	}

	job, err := h.service.CreateJob(r.Context(), &req)
	if err != nil {
		var verr *domain.ValidationError
		switch {
		case errors.As(err, &verr):
			writeValidationError(w, verr)
		case errors.Is(err, jobs.ErrBusy):
			writeError(w, http.StatusServiceUnavailable, err.Error(), "QUEUE_FULL")
		default:
			slog.Error("Failed to create job", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to start download", "DB_ERROR")
		}
		return
	}

	writeJSON(w, http.StatusCreated, job)
}

// GetDownloadHandler handles GET /api/download/{id}.
func (h *Handlers) GetDownloadHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	job, err := h.service.GetJob(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			writeError(w, http.StatusNotFound, "download job not found", "JOB_NOT_FOUND")
			return
		}
		slog.Error("Failed to get job", "error", err, "job_id", id)
		writeError(w, http.StatusInternalServerError, "failed to get download job", "DB_ERROR")
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// HistoryHandler handles GET /api/downloads/history?limit=N.
func (h *Handlers) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	history, err := h.service.ListHistory(r.Context(), limit)
	if err != nil {
		slog.Error("Failed to list history", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get download history", "DB_ERROR")
		return
	}
	if history == nil {
		history = []*domain.Job{}
	}

	writeJSON(w, http.StatusOK, history)
}

// SearchHandler handles POST /api/search.
func (h *Handlers) SearchHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "INVALID_BODY")
		return
	}

	results, err := h.service.Search(r.Context(), &req)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			writeValidationError(w, verr)
			return
		}
		slog.Error("Search failed", "error", err)
		writeError(w, http.StatusInternalServerError, "search failed", "SEARCH_ERROR")
		return
	}

	writeJSON(w, http.StatusOK, results)
}

// RecentSearchesHandler handles GET /api/search/recent.
func (h *Handlers) RecentSearchesHandler(w http.ResponseWriter, r *http.Request) {
	searches, err := h.service.RecentSearches(r.Context())
	if err != nil {
		slog.Error("Failed to get recent searches", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get recent searches", "DB_ERROR")
		return
	}

	writeJSON(w, http.StatusOK, searches)
}

// FileHandler handles GET /api/files/{name}: it streams the artifact bytes
// as an attachment.
func (h *Handlers) FileHandler(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	body, size, err := h.artifacts.Open(r.Context(), name)
	if err != nil {
		if errors.Is(err, artifacts.ErrNotFound) || errors.Is(err, artifacts.ErrInvalidKey) {
			writeError(w, http.StatusNotFound, "file not found", "FILE_NOT_FOUND")
			return
		}
		slog.Error("Failed to open artifact", "error", err, "name", name)
		writeError(w, http.StatusInternalServerError, "failed to serve file", "STORAGE_ERROR")
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", artifacts.ContentType(name))
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	}

	if _, err := io.Copy(w, body); err != nil {
		slog.Warn("Failed to stream artifact", "error", err, "name", name)
	}
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, &domain.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func writeValidationError(w http.ResponseWriter, verr *domain.ValidationError) {
	writeJSON(w, http.StatusBadRequest, &domain.ErrorResponse{
		Error:   "invalid request",
		Code:    "VALIDATION",
		Details: verr.Fields,
	})
}
