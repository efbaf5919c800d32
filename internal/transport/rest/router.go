package rest

import (
	"net/http"
)

// Handlers groups the REST handlers mounted by NewRouter.
type Handlers struct {
	Content       *ContentHandler
	Notifications *NotificationHandler
	Events        *EventsHandler
	Health        *HealthHandler
}

// NewRouter mounts all REST routes on a fresh mux. Authentication and the
// rest of the middleware chain are applied by the caller around the returned
// handler.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health.Health)
	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)

	mux.HandleFunc("POST /api/v1/content/{type}", h.Content.Create)
	mux.HandleFunc("GET /api/v1/content/{type}", h.Content.List)
	mux.HandleFunc("GET /api/v1/content/{type}/queue", h.Content.Queue)
	mux.HandleFunc("GET /api/v1/content/{type}/families/{familyId}/active", h.Content.GetActive)

	mux.HandleFunc("GET /api/v1/items/{id}", h.Content.Get)
	mux.HandleFunc("PUT /api/v1/items/{id}", h.Content.Update)
	mux.HandleFunc("DELETE /api/v1/items/{id}", h.Content.Delete)
	mux.HandleFunc("POST /api/v1/items/{id}/review", h.Content.Review)

	mux.HandleFunc("GET /api/v1/notifications", h.Notifications.List)
	mux.HandleFunc("GET /api/v1/events", h.Events.Stream)

	return mux
}
