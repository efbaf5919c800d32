package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationEvent is produced exactly once per accepted state transition.
// The durable queue copy is authoritative; the live push derived from it is
// best-effort and at-most-once per connected session.
type NotificationEvent struct {
	ID          uuid.UUID   `json:"id"`
	Kind        EventKind   `json:"kind"`
	ContentType ContentType `json:"contentType"`
	ContentID   uuid.UUID   `json:"contentId"`

	// RecipientID is the submitter for review outcomes. Nil targets the
	// staff pool (new and updated submissions).
	RecipientID *uuid.UUID `json:"recipientId,omitempty"`

	// Reason carries the rejection reason on EventRejected.
	Reason *string `json:"reason,omitempty"`

	OccurredAt time.Time `json:"occurredAt"`
}

// NewNotificationEvent builds an event for a committed transition.
func NewNotificationEvent(kind EventKind, item *ContentItem, recipientID *uuid.UUID, reason *string) NotificationEvent {
	return NotificationEvent{
		ID:          uuid.New(),
		Kind:        kind,
		ContentType: item.Type,
		ContentID:   item.ID,
		RecipientID: recipientID,
		Reason:      reason,
		OccurredAt:  time.Now().UTC(),
	}
}
