package rest

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/tutorhive/tutorhive-backend/internal/auth"
	"github.com/tutorhive/tutorhive-backend/internal/domain"
	"github.com/tutorhive/tutorhive-backend/internal/notify"
)

const heartbeatInterval = 25 * time.Second

// EventsHandler streams live notifications over Server-Sent Events. Delivery
// is at-most-once per connected session; the durable notification list is the
// authoritative record.
type EventsHandler struct {
	hub *notify.Hub
	log *slog.Logger
}

// NewEventsHandler creates an EventsHandler.
func NewEventsHandler(hub *notify.Hub, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{hub: hub, log: logger.With("handler", "events")}
}

// Stream handles GET /api/v1/events.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromCtx(r.Context())
	if !ok {
		respondError(w, r, h.log, domain.ErrUnauthenticated)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, kindInternal, "streaming unsupported")
		return
	}

	// Long-lived stream: the server-wide write timeout must not apply.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		h.log.WarnContext(r.Context(), "clear write deadline", slog.String("error", err.Error()))
	}

	ch, cancel := h.hub.Subscribe(ident.UserID, ident.IsReviewer())
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	h.log.InfoContext(r.Context(), "event stream opened",
		slog.String("user_id", ident.UserID.String()),
		slog.Int("sessions", h.hub.SessionCount()),
	)

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case payload, open := <-ch:
			if !open {
				return
			}
			fmt.Fprintf(w, "event: notification\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
