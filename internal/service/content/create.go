package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/tutorhive/tutorhive-backend/internal/auth"
	"github.com/tutorhive/tutorhive-backend/internal/domain"
	"github.com/tutorhive/tutorhive-backend/internal/policy"
)

// Create submits a new content item as the root version of a new family.
// The item enters review as PENDING and inactive; staff are notified once
// the row is committed.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.ContentItem, error) {
	ident, ok := auth.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	if err := policy.Authorize(ident, policy.ActionSubmit, uuid.Nil); err != nil {
		return nil, err
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	item := &domain.ContentItem{
		ID:             id,
		Type:           input.Type,
		OwnerID:        ident.UserID,
		FamilyID:       id,
		Status:         domain.StatusPending,
		Title:          strings.TrimSpace(input.Title),
		Body:           trimOrNil(input.Body),
		AgeMin:         input.AgeMin,
		AgeMax:         input.AgeMax,
		ExerciseTypeID: input.ExerciseTypeID,
	}

	var created *domain.ContentItem
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		dup, err := s.items.ExistsActiveDuplicate(txCtx, item)
		if err != nil {
			return fmt.Errorf("check duplicate: %w", err)
		}
		if dup {
			return fmt.Errorf("%s %q: %w", item.Type, item.Title, domain.ErrConflict)
		}

		version, err := s.versions.NextVersion(txCtx, item.Type, item.FamilyID)
		if err != nil {
			return err
		}
		item.Version = version

		created, err = s.items.Create(txCtx, item)
		if err != nil {
			return fmt.Errorf("create content item: %w", err)
		}

		if item.Type == domain.ContentTypeSyllabus {
			groups := toDomainGroups(created.ID, input.Exercises)
			if err := s.groups.ReplaceForSyllabus(txCtx, created.ID, groups); err != nil {
				return fmt.Errorf("store exercise groups: %w", err)
			}
			created.Exercises = groups
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Dispatch(ctx, domain.NewNotificationEvent(domain.EventSubmitted, created, nil, nil))

	s.log.InfoContext(ctx, "content submitted",
		slog.String("content_id", created.ID.String()),
		slog.String("content_type", created.Type.String()),
		slog.String("owner_id", created.OwnerID.String()),
		slog.Int("version", created.Version),
	)

	return created, nil
}

// toDomainGroups converts exercise group inputs to rows owned by syllabusID.
func toDomainGroups(syllabusID uuid.UUID, groups []ExerciseGroupInput) []domain.SyllabusExercise {
	out := make([]domain.SyllabusExercise, len(groups))
	for i, g := range groups {
		out[i] = domain.SyllabusExercise{
			ID:             uuid.New(),
			SyllabusID:     syllabusID,
			ExerciseTypeID: g.ExerciseTypeID,
			ExerciseIDs:    g.ExerciseIDs,
		}
	}
	return out
}
