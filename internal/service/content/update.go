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
	"github.com/tutorhive/tutorhive-backend/internal/review"
)

// Update edits a content version. PENDING versions change in place and stay
// in the review queue; versions the reviewers already settled are resubmitted
// as a brand new PENDING version of the same family. Either way the staff
// pool is notified of the updated submission.
func (s *Service) Update(ctx context.Context, input UpdateInput) (*domain.ContentItem, error) {
	ident, ok := auth.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	current, err := s.items.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if err := review.CheckVisible(current); err != nil {
		return nil, err
	}

	if err := policy.Authorize(ident, policy.ActionUpdate, current.OwnerID); err != nil {
		return nil, err
	}

	if errs := validatePayload(current.Type, input.Payload); len(errs) > 0 {
		return nil, &domain.ValidationError{Errors: errs}
	}

	asNewVersion, err := review.CheckUpdatable(current)
	if err != nil {
		return nil, err
	}

	var updated *domain.ContentItem
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if asNewVersion {
			updated, err = s.resubmit(txCtx, current, input.Payload)
		} else {
			updated, err = s.editInPlace(txCtx, current, input.Payload)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Dispatch(ctx, domain.NewNotificationEvent(domain.EventUpdated, updated, nil, nil))

	s.log.InfoContext(ctx, "content updated",
		slog.String("content_id", updated.ID.String()),
		slog.String("content_type", updated.Type.String()),
		slog.Int("version", updated.Version),
		slog.Bool("new_version", asNewVersion),
	)

	return updated, nil
}

// editInPlace rewrites the payload of a PENDING version.
func (s *Service) editInPlace(ctx context.Context, current *domain.ContentItem, p Payload) (*domain.ContentItem, error) {
	draft := *current
	applyPayload(&draft, p)

	dup, err := s.items.ExistsActiveDuplicate(ctx, &draft)
	if err != nil {
		return nil, fmt.Errorf("check duplicate: %w", err)
	}
	if dup {
		return nil, fmt.Errorf("%s %q: %w", draft.Type, draft.Title, domain.ErrConflict)
	}

	updated, err := s.items.UpdatePayload(ctx, &draft)
	if err != nil {
		return nil, fmt.Errorf("update content item: %w", err)
	}

	if updated.Type == domain.ContentTypeSyllabus {
		groups := toDomainGroups(updated.ID, p.Exercises)
		if err := s.groups.ReplaceForSyllabus(ctx, updated.ID, groups); err != nil {
			return nil, fmt.Errorf("store exercise groups: %w", err)
		}
		updated.Exercises = groups
	}

	return updated, nil
}

// resubmit creates the next PENDING version of a settled family. The settled
// version keeps its status and activity untouched until review.
func (s *Service) resubmit(ctx context.Context, current *domain.ContentItem, p Payload) (*domain.ContentItem, error) {
	next := &domain.ContentItem{
		ID:       uuid.New(),
		Type:     current.Type,
		OwnerID:  current.OwnerID,
		FamilyID: current.FamilyID,
		Status:   domain.StatusPending,
	}
	applyPayload(next, p)

	dup, err := s.items.ExistsActiveDuplicate(ctx, next)
	if err != nil {
		return nil, fmt.Errorf("check duplicate: %w", err)
	}
	if dup {
		return nil, fmt.Errorf("%s %q: %w", next.Type, next.Title, domain.ErrConflict)
	}

	version, err := s.versions.NextVersion(ctx, next.Type, next.FamilyID)
	if err != nil {
		return nil, err
	}
	next.Version = version

	created, err := s.items.Create(ctx, next)
	if err != nil {
		return nil, fmt.Errorf("create content version: %w", err)
	}

	if created.Type == domain.ContentTypeSyllabus {
		groups := toDomainGroups(created.ID, p.Exercises)
		if err := s.groups.ReplaceForSyllabus(ctx, created.ID, groups); err != nil {
			return nil, fmt.Errorf("store exercise groups: %w", err)
		}
		created.Exercises = groups
	}

	return created, nil
}

func applyPayload(item *domain.ContentItem, p Payload) {
	item.Title = strings.TrimSpace(p.Title)
	item.Body = trimOrNil(p.Body)
	item.AgeMin = p.AgeMin
	item.AgeMax = p.AgeMax
	item.ExerciseTypeID = p.ExerciseTypeID
}
