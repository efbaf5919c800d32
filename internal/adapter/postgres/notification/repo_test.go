package notification

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/tutorhive/tutorhive-backend/internal/domain"
)

func newMockRepo(t *testing.T) (*Repo, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)

	return New(mock), mock
}

func TestRepo_Create(t *testing.T) {
	repo, mock := newMockRepo(t)

	recipient := uuid.New()
	event := domain.NotificationEvent{
		ID:          uuid.New(),
		Kind:        domain.EventApproved,
		ContentType: domain.ContentTypeCurriculum,
		ContentID:   uuid.New(),
		RecipientID: &recipient,
		OccurredAt:  time.Now().UTC(),
	}

	mock.ExpectExec(`INSERT INTO notifications .+ ON CONFLICT \(id\) DO NOTHING`).
		WithArgs(event.ID, event.Kind.String(), event.ContentType.String(),
			event.ContentID, &recipient, pgxmock.AnyArg(), event.OccurredAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), event); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRepo_Create_ReplayIsIdempotent(t *testing.T) {
	repo, mock := newMockRepo(t)

	event := domain.NotificationEvent{
		ID:          uuid.New(),
		Kind:        domain.EventSubmitted,
		ContentType: domain.ContentTypeExercise,
		ContentID:   uuid.New(),
		OccurredAt:  time.Now().UTC(),
	}

	// Second delivery of the same event hits ON CONFLICT and affects 0 rows.
	mock.ExpectExec(`INSERT INTO notifications`).
		WithArgs(event.ID, event.Kind.String(), event.ContentType.String(),
			event.ContentID, pgxmock.AnyArg(), pgxmock.AnyArg(), event.OccurredAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	if err := repo.Create(context.Background(), event); err != nil {
		t.Fatalf("Create() replay should not error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRepo_ListByRecipient(t *testing.T) {
	repo, mock := newMockRepo(t)

	recipient := uuid.New()
	now := time.Now().UTC()
	reason := "age range overlaps an approved curriculum"

	rows := pgxmock.NewRows([]string{"id", "kind", "content_type", "content_id", "recipient_id", "reason", "occurred_at"}).
		AddRow(uuid.New(), domain.EventRejected.String(), domain.ContentTypeCurriculum.String(), uuid.New(), &recipient, &reason, now).
		AddRow(uuid.New(), domain.EventApproved.String(), domain.ContentTypeExercise.String(), uuid.New(), &recipient, nil, now.Add(-time.Hour))
	mock.ExpectQuery(`SELECT .+ FROM notifications .+ ORDER BY occurred_at DESC LIMIT 50`).
		WithArgs(recipient).
		WillReturnRows(rows)

	events, err := repo.ListByRecipient(context.Background(), recipient, false, 50)
	if err != nil {
		t.Fatalf("ListByRecipient() unexpected error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("ListByRecipient() returned %d events, want 2", len(events))
	}
	if events[0].Kind != domain.EventRejected {
		t.Errorf("Kind = %s, want %s", events[0].Kind, domain.EventRejected)
	}
	if events[0].Reason == nil || *events[0].Reason != reason {
		t.Errorf("Reason = %v, want %q", events[0].Reason, reason)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRepo_ListByRecipient_StaffPool(t *testing.T) {
	repo, mock := newMockRepo(t)

	recipient := uuid.New()
	rows := pgxmock.NewRows([]string{"id", "kind", "content_type", "content_id", "recipient_id", "reason", "occurred_at"}).
		AddRow(uuid.New(), domain.EventSubmitted.String(), domain.ContentTypeSyllabus.String(), uuid.New(), nil, nil, time.Now().UTC())
	mock.ExpectQuery(`SELECT .+ FROM notifications WHERE \(recipient_id = .+ OR recipient_id IS NULL\)`).
		WithArgs(recipient).
		WillReturnRows(rows)

	events, err := repo.ListByRecipient(context.Background(), recipient, true, 0)
	if err != nil {
		t.Fatalf("ListByRecipient() unexpected error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("ListByRecipient() returned %d events, want 1", len(events))
	}
	if events[0].RecipientID != nil {
		t.Error("staff pool event should have nil recipient")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
