// Package notification implements the notification read model. The queue
// consumer persists every drained event here so recipients can list what
// happened while they were offline.
package notification

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/tutorhive/tutorhive-backend/internal/adapter/postgres"
	"github.com/tutorhive/tutorhive-backend/internal/domain"
)

const table = "notifications"

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides notification persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new notification repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type row struct {
	ID          uuid.UUID  `db:"id"`
	Kind        string     `db:"kind"`
	ContentType string     `db:"content_type"`
	ContentID   uuid.UUID  `db:"content_id"`
	RecipientID *uuid.UUID `db:"recipient_id"`
	Reason      *string    `db:"reason"`
	OccurredAt  time.Time  `db:"occurred_at"`
}

func (r row) toDomain() domain.NotificationEvent {
	return domain.NotificationEvent{
		ID:          r.ID,
		Kind:        domain.EventKind(r.Kind),
		ContentType: domain.ContentType(r.ContentType),
		ContentID:   r.ContentID,
		RecipientID: r.RecipientID,
		Reason:      r.Reason,
		OccurredAt:  r.OccurredAt,
	}
}

// Create persists one drained queue event. Replays of the same event id are
// ignored so the consumer stays idempotent.
func (r *Repo) Create(ctx context.Context, event domain.NotificationEvent) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := builder.Insert(table).
		Columns("id", "kind", "content_type", "content_id", "recipient_id", "reason", "occurred_at").
		Values(event.ID, event.Kind.String(), event.ContentType.String(),
			event.ContentID, event.RecipientID, event.Reason, event.OccurredAt).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "notification", event.ID)
	}

	return nil
}

// ListByRecipient returns the newest notifications addressed to a user,
// staff-pool events included for reviewers. Returns an empty slice (not nil)
// when there are none.
func (r *Repo) ListByRecipient(ctx context.Context, recipientID uuid.UUID, includeStaffPool bool, limit int) ([]domain.NotificationEvent, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	target := sq.Sqlizer(sq.Eq{"recipient_id": recipientID})
	if includeStaffPool {
		target = sq.Or{
			sq.Eq{"recipient_id": recipientID},
			sq.Eq{"recipient_id": nil},
		}
	}

	sel := builder.
		Select("id", "kind", "content_type", "content_id", "recipient_id", "reason", "occurred_at").
		From(table).
		Where(target).
		OrderBy("occurred_at DESC")
	if limit > 0 {
		sel = sel.Limit(uint64(limit))
	}

	query, args, err := sel.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	events := make([]domain.NotificationEvent, len(rows))
	for i, rw := range rows {
		events[i] = rw.toDomain()
	}

	return events, nil
}
