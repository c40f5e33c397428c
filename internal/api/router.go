package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/notifications", h.ListNotes)
	r.Get("/notifications/{id}", h.GetNote)
	r.Delete("/notifications/{id}", h.DeleteNote)
	r.Post("/notifications/{id}/read", h.MarkRead)
	r.Get("/notifications/{id}/comment", h.GetComment)
	r.Post("/notifications/{id}/replies", h.PostReply)

	r.Get("/search", h.Search)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
