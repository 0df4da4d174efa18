package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/index"
	"github.com/starford/othala/internal/libservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *libservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *libservice.Service) *Handler {
	return &Handler{svc: svc}
}

// UpsertFile handles POST /api/files: insert or fully replace a catalog
// entry by path.
func (h *Handler) UpsertFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req LibraryFile
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	id, err := h.svc.UpsertFile(r.Context(), req)
	if err != nil {
		slog.Error("upsert file failed", slog.String("path", req.Path), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, UpsertResponse{ID: id})
}

// RecentFiles handles GET /api/files/recent.
func (h *Handler) RecentFiles(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	files, err := h.svc.GetRecentFiles(r.Context(), limit)
	if err != nil {
		slog.Error("recent files failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if files == nil {
		files = []LibraryFile{}
	}
	writeJSON(w, http.StatusOK, FileListResponse{Files: files})
}

// SearchFiles handles GET /api/files/search. A blank q degrades to a
// date-filtered recency listing.
func (h *Handler) SearchFiles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	params := index.SearchParams{
		Query:    q.Get("q"),
		FromDate: q.Get("from"),
		ToDate:   q.Get("to"),
		Limit:    limit,
	}
	files, err := h.svc.SearchFiles(r.Context(), params)
	if err != nil {
		slog.Error("search failed", slog.String("query", params.Query), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if files == nil {
		files = []LibraryFile{}
	}
	writeJSON(w, http.StatusOK, FileListResponse{Files: files})
}

// RemoveFile handles DELETE /api/files?path=. Removing an unknown path
// is a no-op and still returns 204.
func (h *Handler) RemoveFile(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	if err := h.svc.RemoveFile(r.Context(), path); err != nil {
		slog.Error("remove file failed", slog.String("path", path), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TouchFile handles POST /api/files/touch.
func (h *Handler) TouchFile(w http.ResponseWriter, r *http.Request) {
	var req TouchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Path == "" || req.Timestamp == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path and timestamp are required"))
		return
	}
	if err := h.svc.TouchLastOpened(r.Context(), req.Path, req.Timestamp); err != nil {
		slog.Error("touch failed", slog.String("path", req.Path), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RebuildLibrary handles POST /api/library/rebuild.
func (h *Handler) RebuildLibrary(w http.ResponseWriter, r *http.Request) {
	var req RebuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	processed, err := h.svc.RebuildLibrary(r.Context(), req.Path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("library path does not exist"))
			return
		}
		slog.Error("rebuild failed", slog.String("path", req.Path), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, RebuildResponse{Processed: processed})
}

// InspectDocument handles GET /api/files/inspect?path=: envelope
// metadata read straight from disk.
func (h *Handler) InspectDocument(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	meta, err := h.svc.InspectDocument(r.Context(), path)
	if err != nil {
		if errors.Is(err, apperr.ErrMalformedDocument) {
			writeJSON(w, http.StatusUnprocessableEntity, errorBody("malformed document"))
			return
		}
		slog.Error("inspect failed", slog.String("path", path), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, meta)
}
