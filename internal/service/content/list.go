package content

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tutorhive/tutorhive-backend/internal/auth"
	"github.com/tutorhive/tutorhive-backend/internal/domain"
	"github.com/tutorhive/tutorhive-backend/internal/policy"
	"github.com/tutorhive/tutorhive-backend/internal/query"
)

// ListResult is one page of content items plus the total match count.
type ListResult struct {
	Items      []domain.ContentItem
	TotalCount int
	PageSize   int
	PageNumber int
}

// List returns content items visible to the caller. Anonymous callers see
// active approved content only; what authenticated callers see is decided by
// the query planner. Syllabus pages carry their exercise groups.
func (s *Service) List(ctx context.Context, c query.Criteria) (*ListResult, error) {
	ident, _ := auth.IdentityFromCtx(ctx)

	filter, err := s.planner.Plan(c, ident)
	if err != nil {
		return nil, err
	}

	items, total, err := s.items.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find content items: %w", err)
	}

	if err := s.attachExerciseGroups(ctx, items); err != nil {
		return nil, fmt.Errorf("attach exercise groups: %w", err)
	}

	return &ListResult{
		Items:      items,
		TotalCount: total,
		PageSize:   filter.PageSize,
		PageNumber: filter.PageNumber,
	}, nil
}

// Queue returns the pending submissions of one content type, oldest first.
// Reviewer-only: this is the work queue view.
func (s *Service) Queue(ctx context.Context, contentType domain.ContentType, pageSize *int, pageNumber int) (*ListResult, error) {
	ident, ok := auth.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	if err := policy.Authorize(ident, policy.ActionViewQueue, uuid.Nil); err != nil {
		return nil, err
	}

	return s.List(ctx, query.Criteria{
		Type:       contentType,
		Statuses:   []domain.RequestStatus{domain.StatusPending},
		SortBy:     "createdDate",
		SortOrder:  domain.SortAsc,
		PageSize:   pageSize,
		PageNumber: pageNumber,
	})
}
