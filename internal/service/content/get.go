package content

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tutorhive/tutorhive-backend/internal/auth"
	"github.com/tutorhive/tutorhive-backend/internal/domain"
	"github.com/tutorhive/tutorhive-backend/internal/review"
)

// Get returns one content version visible to the caller. Soft-deleted
// versions are not found; non-approved versions are visible to their owner
// and to reviewers only.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.ContentItem, error) {
	if id == uuid.Nil {
		return nil, domain.NewValidationError("id", "required")
	}

	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := review.CheckVisible(item); err != nil {
		return nil, err
	}

	ident, _ := auth.IdentityFromCtx(ctx)
	if !s.canSee(ident, item) {
		return nil, fmt.Errorf("content_item %s: %w", id, domain.ErrNotFound)
	}

	if err := s.attachOne(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// GetActive returns the active approved version of a family. Public: this is
// the consumer-facing read.
func (s *Service) GetActive(ctx context.Context, contentType domain.ContentType, familyID uuid.UUID) (*domain.ContentItem, error) {
	if !contentType.IsValid() {
		return nil, domain.NewValidationError("type", fmt.Sprintf("unknown content type %q", contentType))
	}
	if familyID == uuid.Nil {
		return nil, domain.NewValidationError("family_id", "required")
	}

	item, err := s.items.GetActive(ctx, contentType, familyID)
	if err != nil {
		return nil, err
	}

	if err := s.attachOne(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// canSee applies the same visibility rule as listing to a single read:
// everyone sees active approved content, owners and reviewers see the rest.
func (s *Service) canSee(ident auth.Identity, item *domain.ContentItem) bool {
	if item.Status == domain.StatusApprove && item.IsActive {
		return true
	}
	if ident.IsAnonymous() {
		return false
	}
	return ident.UserID == item.OwnerID || ident.IsReviewer()
}

func (s *Service) attachOne(ctx context.Context, item *domain.ContentItem) error {
	if item.Type != domain.ContentTypeSyllabus {
		return nil
	}

	items := []domain.ContentItem{*item}
	if err := s.attachExerciseGroups(ctx, items); err != nil {
		return fmt.Errorf("attach exercise groups: %w", err)
	}
	item.Exercises = items[0].Exercises

	return nil
}
