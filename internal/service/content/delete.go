package content

import (
	"context"
	"log/slog"

	"github.com/tutorhive/tutorhive-backend/internal/auth"
	"github.com/tutorhive/tutorhive-backend/internal/domain"
	"github.com/tutorhive/tutorhive-backend/internal/policy"
	"github.com/tutorhive/tutorhive-backend/internal/review"
)

// Delete soft-deletes a content version. The version disappears from every
// read and transition but keeps its number; sibling versions are unaffected.
func (s *Service) Delete(ctx context.Context, input DeleteInput) error {
	ident, ok := auth.IdentityFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthenticated
	}

	if err := input.Validate(); err != nil {
		return err
	}

	item, err := s.items.GetByID(ctx, input.ID)
	if err != nil {
		return err
	}
	if err := review.CheckDeletable(item); err != nil {
		return err
	}

	if err := policy.Authorize(ident, policy.ActionDelete, item.OwnerID); err != nil {
		return err
	}

	if err := s.items.SoftDelete(ctx, item.ID); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "content deleted",
		slog.String("content_id", item.ID.String()),
		slog.String("content_type", item.Type.String()),
		slog.String("deleted_by", ident.UserID.String()),
	)

	return nil
}
