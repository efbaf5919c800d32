package content

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tutorhive/tutorhive-backend/internal/auth"
	"github.com/tutorhive/tutorhive-backend/internal/domain"
	"github.com/tutorhive/tutorhive-backend/internal/policy"
	"github.com/tutorhive/tutorhive-backend/internal/review"
)

// Review records a reviewer verdict on a pending version. Approval activates
// the version and deactivates every sibling in the same transaction, so at
// most one version of a family is active after commit. The submitter is
// notified once the decision is committed.
func (s *Service) Review(ctx context.Context, input ReviewInput) (*domain.ContentItem, error) {
	ident, ok := auth.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	if err := policy.Authorize(ident, policy.ActionReview, uuid.Nil); err != nil {
		return nil, err
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	reason := trimOrNil(input.Reason)

	var item *domain.ContentItem
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		item, err = s.items.GetByID(txCtx, input.ID)
		if err != nil {
			return err
		}

		if err := review.CheckDecision(item, input.Decision, reason); err != nil {
			return err
		}

		status, active := review.Resolve(input.Decision)

		var rejectReason *string
		if status == domain.StatusReject {
			rejectReason = reason
		}

		// Deactivate siblings before activating this version so the
		// one-active-per-family index never sees two active rows.
		if status == domain.StatusApprove {
			if err := s.versions.DeactivatePriorVersions(txCtx, item.Type, item.FamilyID, item.ID); err != nil {
				return err
			}
		}

		if err := s.items.SetStatus(txCtx, item.ID, status, rejectReason, active); err != nil {
			return fmt.Errorf("set status: %w", err)
		}

		item.Status = status
		item.RejectReason = rejectReason
		item.IsActive = active

		return nil
	})
	if err != nil {
		return nil, err
	}

	kind := domain.EventApproved
	if item.Status == domain.StatusReject {
		kind = domain.EventRejected
	}
	owner := item.OwnerID
	s.notifier.Dispatch(ctx, domain.NewNotificationEvent(kind, item, &owner, item.RejectReason))

	s.log.InfoContext(ctx, "content reviewed",
		slog.String("content_id", item.ID.String()),
		slog.String("content_type", item.Type.String()),
		slog.String("decision", input.Decision.String()),
		slog.String("reviewer_id", ident.UserID.String()),
	)

	return item, nil
}
