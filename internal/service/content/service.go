// Package content orchestrates the submission, review, versioning, listing,
// and notification workflow shared by all four content types.
package content

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/tutorhive/tutorhive-backend/internal/auth"
	"github.com/tutorhive/tutorhive-backend/internal/domain"
	"github.com/tutorhive/tutorhive-backend/internal/query"
)

type contentRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ContentItem, error)
	GetActive(ctx context.Context, contentType domain.ContentType, familyID uuid.UUID) (*domain.ContentItem, error)
	Find(ctx context.Context, filter domain.ContentFilter) ([]domain.ContentItem, int, error)
	ExistsActiveDuplicate(ctx context.Context, item *domain.ContentItem) (bool, error)
	Create(ctx context.Context, item *domain.ContentItem) (*domain.ContentItem, error)
	UpdatePayload(ctx context.Context, item *domain.ContentItem) (*domain.ContentItem, error)
	SetStatus(ctx context.Context, id uuid.UUID, status domain.RequestStatus, rejectReason *string, isActive bool) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type syllabusExerciseRepo interface {
	ReplaceForSyllabus(ctx context.Context, syllabusID uuid.UUID, groups []domain.SyllabusExercise) error
	ListBySyllabusIDs(ctx context.Context, syllabusIDs []uuid.UUID) ([]domain.SyllabusExercise, error)
}

type versionLedger interface {
	NextVersion(ctx context.Context, contentType domain.ContentType, familyID uuid.UUID) (int, error)
	DeactivatePriorVersions(ctx context.Context, contentType domain.ContentType, familyID, exceptID uuid.UUID) error
}

type queryPlanner interface {
	Plan(c query.Criteria, ident auth.Identity) (domain.ContentFilter, error)
}

type notificationDispatcher interface {
	Dispatch(ctx context.Context, event domain.NotificationEvent)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides content workflow operations.
type Service struct {
	items    contentRepo
	groups   syllabusExerciseRepo
	versions versionLedger
	planner  queryPlanner
	notifier notificationDispatcher
	tx       txManager
	log      *slog.Logger
}

// NewService creates a new content service.
func NewService(
	log *slog.Logger,
	items contentRepo,
	groups syllabusExerciseRepo,
	versions versionLedger,
	planner queryPlanner,
	notifier notificationDispatcher,
	tx txManager,
) *Service {
	return &Service{
		items:    items,
		groups:   groups,
		versions: versions,
		planner:  planner,
		notifier: notifier,
		tx:       tx,
		log:      log.With("service", "content"),
	}
}

// trimOrNil trims whitespace. Returns nil if result is empty.
func trimOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// attachExerciseGroups loads syllabus exercise groups for the given items and
// attaches them in place. No-op for non-syllabus items; never affects counts
// or page membership.
func (s *Service) attachExerciseGroups(ctx context.Context, items []domain.ContentItem) error {
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		if it.Type == domain.ContentTypeSyllabus {
			ids = append(ids, it.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	groups, err := s.groups.ListBySyllabusIDs(ctx, ids)
	if err != nil {
		return err
	}

	bySyllabus := make(map[uuid.UUID][]domain.SyllabusExercise, len(ids))
	for _, g := range groups {
		bySyllabus[g.SyllabusID] = append(bySyllabus[g.SyllabusID], g)
	}
	for i := range items {
		if items[i].Type == domain.ContentTypeSyllabus {
			items[i].Exercises = bySyllabus[items[i].ID]
		}
	}

	return nil
}
