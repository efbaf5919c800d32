// Package content implements the ContentItem repository using PostgreSQL.
// All four content types live in one table discriminated by content_type;
// queries are built with squirrel and scanned with scany.
package content

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/tutorhive/tutorhive-backend/internal/adapter/postgres"
	"github.com/tutorhive/tutorhive-backend/internal/domain"
)

const table = "content_items"

var columns = []string{
	"id", "content_type", "owner_id", "family_id", "version", "status",
	"reject_reason", "is_active", "title", "body", "age_min", "age_max",
	"exercise_type_id", "created_at", "updated_at", "deleted_at",
}

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides content item persistence backed by PostgreSQL.
// It reads the querier from context so it participates in TxManager
// transactions transparently.
type Repo struct {
	db postgres.Querier
}

// New creates a new content repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type row struct {
	ID             uuid.UUID  `db:"id"`
	ContentType    string     `db:"content_type"`
	OwnerID        uuid.UUID  `db:"owner_id"`
	FamilyID       uuid.UUID  `db:"family_id"`
	Version        int        `db:"version"`
	Status         string     `db:"status"`
	RejectReason   *string    `db:"reject_reason"`
	IsActive       bool       `db:"is_active"`
	Title          string     `db:"title"`
	Body           *string    `db:"body"`
	AgeMin         *int       `db:"age_min"`
	AgeMax         *int       `db:"age_max"`
	ExerciseTypeID *uuid.UUID `db:"exercise_type_id"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
	DeletedAt      *time.Time `db:"deleted_at"`
}

func (r row) toDomain() domain.ContentItem {
	return domain.ContentItem{
		ID:             r.ID,
		Type:           domain.ContentType(r.ContentType),
		OwnerID:        r.OwnerID,
		FamilyID:       r.FamilyID,
		Version:        r.Version,
		Status:         domain.RequestStatus(r.Status),
		RejectReason:   r.RejectReason,
		IsActive:       r.IsActive,
		Title:          r.Title,
		Body:           r.Body,
		AgeMin:         r.AgeMin,
		AgeMax:         r.AgeMax,
		ExerciseTypeID: r.ExerciseTypeID,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		DeletedAt:      r.DeletedAt,
	}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a content item by primary key, soft-deleted rows included.
// Visibility of deleted rows is decided by the caller, not here.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ContentItem, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := builder.Select(columns...).From(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get query: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, q, &rw, query, args...); err != nil {
		return nil, postgres.MapError(err, "content_item", id)
	}

	item := rw.toDomain()
	return &item, nil
}

// GetActive returns the active approved version of a family.
// Returns domain.ErrNotFound when the family has no active version.
func (r *Repo) GetActive(ctx context.Context, contentType domain.ContentType, familyID uuid.UUID) (*domain.ContentItem, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := builder.Select(columns...).From(table).
		Where(sq.Eq{
			"content_type": contentType.String(),
			"family_id":    familyID,
			"is_active":    true,
			"status":       domain.StatusApprove.String(),
		}).
		Where("deleted_at IS NULL").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get active query: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, q, &rw, query, args...); err != nil {
		return nil, postgres.MapError(err, "content_item", familyID)
	}

	item := rw.toDomain()
	return &item, nil
}

// Find returns the items matching the filter plus the total match count.
// The filter is already normalized; no defaulting happens here.
func (r *Repo) Find(ctx context.Context, filter domain.ContentFilter) ([]domain.ContentItem, int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	where := predicates(filter)

	countQuery, countArgs, err := builder.Select("count(*)").From(table).Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := q.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count content items: %w", err)
	}

	sel := builder.Select(columns...).From(table).Where(where).
		OrderBy(fmt.Sprintf("%s %s", filter.SortBy, filter.SortOrder))
	if filter.Paginated() {
		sel = sel.Limit(uint64(filter.PageSize)).Offset(uint64(filter.Offset()))
	}

	query, args, err := sel.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, q, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list content items: %w", err)
	}

	items := make([]domain.ContentItem, len(rows))
	for i, rw := range rows {
		items[i] = rw.toDomain()
	}

	return items, total, nil
}

// MaxVersion returns the highest version in a family, soft-deleted rows
// included so version numbers are never reused. Returns 0 for an empty family.
func (r *Repo) MaxVersion(ctx context.Context, contentType domain.ContentType, familyID uuid.UUID) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := builder.Select("COALESCE(MAX(version), 0)").From(table).
		Where(sq.Eq{"content_type": contentType.String(), "family_id": familyID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build max version query: %w", err)
	}

	var max int
	if err := q.QueryRow(ctx, query, args...).Scan(&max); err != nil {
		return 0, fmt.Errorf("max version for family %s: %w", familyID, err)
	}

	return max, nil
}

// ExistsActiveDuplicate reports whether another family's active approved
// version already holds the item's natural key. Assessment questions collide
// on type + normalized title; curricula and syllabi collide on owner + age
// range. Exercises have no natural key. The item's own family is excluded so
// resubmission never collides with itself, and pending or rejected versions
// elsewhere never block a new submission.
func (r *Repo) ExistsActiveDuplicate(ctx context.Context, item *domain.ContentItem) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	where := sq.And{
		sq.Eq{"content_type": item.Type.String()},
		sq.NotEq{"family_id": item.FamilyID},
		sq.Eq{"status": domain.StatusApprove.String()},
		sq.Eq{"is_active": true},
		sq.Expr("deleted_at IS NULL"),
	}

	switch item.Type {
	case domain.ContentTypeQuestion:
		where = append(where, sq.Expr(
			"lower(btrim(regexp_replace(title, '\\s+', ' ', 'g'))) = ?",
			item.NormalizedTitle(),
		))
	case domain.ContentTypeCurriculum, domain.ContentTypeSyllabus:
		where = append(where, sq.Eq{
			"owner_id": item.OwnerID,
			"age_min":  item.AgeMin,
			"age_max":  item.AgeMax,
		})
	default:
		return false, nil
	}

	query, args, err := builder.Select("1").From(table).Where(where).Limit(1).Prefix("SELECT EXISTS (").Suffix(")").ToSql()
	if err != nil {
		return false, fmt.Errorf("build duplicate query: %w", err)
	}

	var exists bool
	if err := q.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check duplicate: %w", err)
	}

	return exists, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new content item version and returns the persisted row.
func (r *Repo) Create(ctx context.Context, item *domain.ContentItem) (*domain.ContentItem, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := builder.Insert(table).
		Columns("id", "content_type", "owner_id", "family_id", "version", "status",
			"is_active", "title", "body", "age_min", "age_max", "exercise_type_id").
		Values(item.ID, item.Type.String(), item.OwnerID, item.FamilyID, item.Version,
			item.Status.String(), item.IsActive, item.Title, item.Body,
			item.AgeMin, item.AgeMax, item.ExerciseTypeID).
		Suffix("RETURNING " + selectList()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert query: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, q, &rw, query, args...); err != nil {
		return nil, postgres.MapError(err, "content_item", item.ID)
	}

	created := rw.toDomain()
	return &created, nil
}

// UpdatePayload rewrites the editable payload fields of a version in place.
// Returns domain.ErrNotFound if the row does not exist or is soft-deleted.
func (r *Repo) UpdatePayload(ctx context.Context, item *domain.ContentItem) (*domain.ContentItem, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := builder.Update(table).
		Set("title", item.Title).
		Set("body", item.Body).
		Set("age_min", item.AgeMin).
		Set("age_max", item.AgeMax).
		Set("exercise_type_id", item.ExerciseTypeID).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": item.ID}).
		Where("deleted_at IS NULL").
		Suffix("RETURNING " + selectList()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update query: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, q, &rw, query, args...); err != nil {
		return nil, postgres.MapError(err, "content_item", item.ID)
	}

	updated := rw.toDomain()
	return &updated, nil
}

// SetStatus records a review decision on a version.
// Returns domain.ErrNotFound if the row does not exist or is soft-deleted.
func (r *Repo) SetStatus(ctx context.Context, id uuid.UUID, status domain.RequestStatus, rejectReason *string, isActive bool) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := builder.Update(table).
		Set("status", status.String()).
		Set("reject_reason", rejectReason).
		Set("is_active", isActive).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Where("deleted_at IS NULL").
		ToSql()
	if err != nil {
		return fmt.Errorf("build set status query: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "content_item", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("content_item %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeactivateFamily clears is_active on every version of a family except one.
// Runs in the caller's transaction together with the sibling activation.
func (r *Repo) DeactivateFamily(ctx context.Context, contentType domain.ContentType, familyID, exceptID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := builder.Update(table).
		Set("is_active", false).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{
			"content_type": contentType.String(),
			"family_id":    familyID,
			"is_active":    true,
		}).
		Where(sq.NotEq{"id": exceptID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build deactivate query: %w", err)
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "content_item", familyID)
	}

	return nil
}

// SoftDelete marks a version deleted and inactive.
// Returns domain.ErrNotFound if the row does not exist or is already deleted.
func (r *Repo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := builder.Update(table).
		Set("deleted_at", sq.Expr("now()")).
		Set("is_active", false).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Where("deleted_at IS NULL").
		ToSql()
	if err != nil {
		return fmt.Errorf("build soft delete query: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "content_item", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("content_item %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func selectList() string {
	return strings.Join(columns, ", ")
}
