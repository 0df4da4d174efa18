package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/othala/internal/libservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *libservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Catalog commands.
	r.Post("/files", h.UpsertFile)
	r.Get("/files/recent", h.RecentFiles)
	r.Get("/files/search", h.SearchFiles)
	r.Get("/files/inspect", h.InspectDocument)
	r.Post("/files/touch", h.TouchFile)
	r.Delete("/files", h.RemoveFile)

	// Reconciliation.
	r.Post("/library/rebuild", h.RebuildLibrary)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
