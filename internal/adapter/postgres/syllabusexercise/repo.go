// Package syllabusexercise implements persistence for syllabus exercise
// groups. Rows are owned by their syllabus version and replaced wholesale on
// every syllabus write.
package syllabusexercise

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

const table = "syllabus_exercises"

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides syllabus exercise group persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new syllabus exercise repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type row struct {
	ID             uuid.UUID   `db:"id"`
	SyllabusID     uuid.UUID   `db:"syllabus_id"`
	ExerciseTypeID uuid.UUID   `db:"exercise_type_id"`
	ExerciseIDs    []uuid.UUID `db:"exercise_ids"`
	CreatedAt      time.Time   `db:"created_at"`
}

func (r row) toDomain() domain.SyllabusExercise {
	return domain.SyllabusExercise{
		ID:             r.ID,
		SyllabusID:     r.SyllabusID,
		ExerciseTypeID: r.ExerciseTypeID,
		ExerciseIDs:    r.ExerciseIDs,
		CreatedAt:      r.CreatedAt,
	}
}

// ReplaceForSyllabus deletes the current groups of a syllabus version and
// inserts the given set. Must run inside the caller's transaction so the
// syllabus and its groups change atomically.
func (r *Repo) ReplaceForSyllabus(ctx context.Context, syllabusID uuid.UUID, groups []domain.SyllabusExercise) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	delQuery, delArgs, err := builder.Delete(table).Where(sq.Eq{"syllabus_id": syllabusID}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}
	if _, err := q.Exec(ctx, delQuery, delArgs...); err != nil {
		return postgres.MapError(err, "syllabus_exercise", syllabusID)
	}

	if len(groups) == 0 {
		return nil
	}

	insert := builder.Insert(table).Columns("id", "syllabus_id", "exercise_type_id", "exercise_ids")
	for _, g := range groups {
		id := g.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		insert = insert.Values(id, syllabusID, g.ExerciseTypeID, g.ExerciseIDs)
	}

	insQuery, insArgs, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}
	if _, err := q.Exec(ctx, insQuery, insArgs...); err != nil {
		return postgres.MapError(err, "syllabus_exercise", syllabusID)
	}

	return nil
}

// ListBySyllabusIDs returns the exercise groups for multiple syllabus
// versions (batch for list pages). Returns an empty slice (not nil) when no
// groups exist.
func (r *Repo) ListBySyllabusIDs(ctx context.Context, syllabusIDs []uuid.UUID) ([]domain.SyllabusExercise, error) {
	if len(syllabusIDs) == 0 {
		return []domain.SyllabusExercise{}, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := builder.
		Select("id", "syllabus_id", "exercise_type_id", "exercise_ids", "created_at").
		From(table).
		Where(sq.Expr("syllabus_id = ANY(?::uuid[])", syllabusIDs)).
		OrderBy("syllabus_id", "created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list syllabus exercises: %w", err)
	}

	groups := make([]domain.SyllabusExercise, len(rows))
	for i, rw := range rows {
		groups[i] = rw.toDomain()
	}

	return groups, nil
}
