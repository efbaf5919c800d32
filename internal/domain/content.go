package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContentItem is one version of a teaching artifact. The four content types
// (curriculum, syllabus, exercise, assessment question) share this shape and
// the same review workflow; type-specific payload fields are optional.
//
// FamilyID links versions of the same logical artifact: a family root carries
// its own id, derived versions carry the root's id. Within a family at most
// one version is active at a time, and a soft-deleted version is invisible to
// every read and every state change.
type ContentItem struct {
	ID           uuid.UUID
	Type         ContentType
	OwnerID      uuid.UUID
	FamilyID     uuid.UUID
	Version      int
	Status       RequestStatus
	RejectReason *string
	IsActive     bool

	Title string
	Body  *string

	// Age range applies to curricula and syllabi.
	AgeMin *int
	AgeMax *int

	// ExerciseTypeID applies to exercises.
	ExerciseTypeID *uuid.UUID

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time

	// Exercises is populated for syllabi on composite reads; it never
	// affects list counts or page membership.
	Exercises []SyllabusExercise
}

// IsDeleted returns true if the item has been soft-deleted.
func (c *ContentItem) IsDeleted() bool {
	return c.DeletedAt != nil
}

// IsFamilyRoot returns true if the item is the first version of its family.
func (c *ContentItem) IsFamilyRoot() bool {
	return c.ID == c.FamilyID
}

// NormalizedTitle returns the title lowered and whitespace-collapsed, used
// for natural-key duplicate detection on assessment questions.
func (c *ContentItem) NormalizedTitle() string {
	return NormalizeText(c.Title)
}

// NormalizeText lowers a string and collapses interior whitespace runs.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// SyllabusExercise links a syllabus to an exercise type and a set of
// exercises. Rows are owned by the syllabus and replaced wholesale whenever
// the syllabus is created or updated; they carry no version of their own.
type SyllabusExercise struct {
	ID             uuid.UUID
	SyllabusID     uuid.UUID
	ExerciseTypeID uuid.UUID
	ExerciseIDs    []uuid.UUID
	CreatedAt      time.Time
}
