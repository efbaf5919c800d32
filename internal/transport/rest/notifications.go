package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tutorhive/tutorhive-backend/internal/auth"
	"github.com/tutorhive/tutorhive-backend/internal/domain"
)

const defaultNotificationLimit = 50

// notificationLister defines the minimal interface needed by
// NotificationHandler.
type notificationLister interface {
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, includeStaffPool bool, limit int) ([]domain.NotificationEvent, error)
}

// NotificationHandler serves the notification read model.
type NotificationHandler struct {
	store notificationLister
	log   *slog.Logger
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(store notificationLister, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{store: store, log: logger.With("handler", "notifications")}
}

type notificationResponse struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	ContentType string    `json:"contentType"`
	ContentID   string    `json:"contentId"`
	Reason      *string   `json:"reason,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// List handles GET /api/v1/notifications. Reviewers additionally see
// staff-pool events (new and updated submissions).
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromCtx(r.Context())
	if !ok {
		respondError(w, r, h.log, domain.ErrUnauthenticated)
		return
	}

	limit := defaultNotificationLimit
	if n, err := intQueryParam(r, "limit"); err != nil {
		respondError(w, r, h.log, err)
		return
	} else if n != nil {
		if *n <= 0 {
			respondError(w, r, h.log, domain.NewValidationError("limit", "must be positive"))
			return
		}
		limit = *n
	}

	events, err := h.store.ListByRecipient(r.Context(), ident.UserID, ident.IsReviewer(), limit)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	out := make([]notificationResponse, len(events))
	for i, e := range events {
		out[i] = notificationResponse{
			ID:          e.ID.String(),
			Kind:        e.Kind.String(),
			ContentType: e.ContentType.String(),
			ContentID:   e.ContentID.String(),
			Reason:      e.Reason,
			OccurredAt:  e.OccurredAt,
		}
	}

	writeJSON(w, http.StatusOK, out)
}
