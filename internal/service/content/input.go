package content

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tutorhive/tutorhive-backend/internal/domain"
)

const (
	maxTitleLen = 200
	maxBodyLen  = 10000
)

// ExerciseGroupInput is one exercise-type bucket of a syllabus.
type ExerciseGroupInput struct {
	ExerciseTypeID uuid.UUID
	ExerciseIDs    []uuid.UUID
}

// Payload holds the editable fields shared by create and update. Which
// fields are meaningful depends on the content type.
type Payload struct {
	Title string
	Body  *string

	// Age range, curricula and syllabi only.
	AgeMin *int
	AgeMax *int

	// Exercise type, exercises only.
	ExerciseTypeID *uuid.UUID

	// Exercise groups, syllabi only.
	Exercises []ExerciseGroupInput
}

// validatePayload collects all payload errors for the given content type.
func validatePayload(t domain.ContentType, p Payload) []domain.FieldError {
	var errs []domain.FieldError

	title := strings.TrimSpace(p.Title)
	if title == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	}
	if len(title) > maxTitleLen {
		errs = append(errs, domain.FieldError{Field: "title", Message: fmt.Sprintf("max %d characters", maxTitleLen)})
	}
	if p.Body != nil && len(*p.Body) > maxBodyLen {
		errs = append(errs, domain.FieldError{Field: "body", Message: fmt.Sprintf("max %d characters", maxBodyLen)})
	}

	switch t {
	case domain.ContentTypeCurriculum, domain.ContentTypeSyllabus:
		errs = append(errs, validateAgeRange(p.AgeMin, p.AgeMax)...)
		if p.ExerciseTypeID != nil {
			errs = append(errs, domain.FieldError{Field: "exercise_type_id", Message: "not applicable to this content type"})
		}
		if t == domain.ContentTypeCurriculum && len(p.Exercises) > 0 {
			errs = append(errs, domain.FieldError{Field: "exercises", Message: "only syllabi carry exercise groups"})
		}
		if t == domain.ContentTypeSyllabus {
			errs = append(errs, validateExerciseGroups(p.Exercises)...)
		}
	case domain.ContentTypeExercise:
		if p.ExerciseTypeID == nil || *p.ExerciseTypeID == uuid.Nil {
			errs = append(errs, domain.FieldError{Field: "exercise_type_id", Message: "required"})
		}
		errs = append(errs, rejectAgeAndGroups(p)...)
	case domain.ContentTypeQuestion:
		if p.ExerciseTypeID != nil {
			errs = append(errs, domain.FieldError{Field: "exercise_type_id", Message: "not applicable to this content type"})
		}
		errs = append(errs, rejectAgeAndGroups(p)...)
	}

	return errs
}

func validateAgeRange(ageMin, ageMax *int) []domain.FieldError {
	var errs []domain.FieldError

	if ageMin == nil {
		errs = append(errs, domain.FieldError{Field: "age_min", Message: "required"})
	} else if *ageMin < 0 {
		errs = append(errs, domain.FieldError{Field: "age_min", Message: "must be non-negative"})
	}

	if ageMax == nil {
		errs = append(errs, domain.FieldError{Field: "age_max", Message: "required"})
	} else if *ageMax < 0 {
		errs = append(errs, domain.FieldError{Field: "age_max", Message: "must be non-negative"})
	}

	if ageMin != nil && ageMax != nil && *ageMin > *ageMax {
		errs = append(errs, domain.FieldError{Field: "age_range", Message: "age_min must not exceed age_max"})
	}

	return errs
}

func validateExerciseGroups(groups []ExerciseGroupInput) []domain.FieldError {
	var errs []domain.FieldError
	seen := make(map[uuid.UUID]bool, len(groups))

	for i, g := range groups {
		if g.ExerciseTypeID == uuid.Nil {
			errs = append(errs, domain.FieldError{Field: fmt.Sprintf("exercises[%d].exercise_type_id", i), Message: "required"})
			continue
		}
		if seen[g.ExerciseTypeID] {
			errs = append(errs, domain.FieldError{Field: fmt.Sprintf("exercises[%d].exercise_type_id", i), Message: "duplicate exercise type"})
		}
		seen[g.ExerciseTypeID] = true

		if len(g.ExerciseIDs) == 0 {
			errs = append(errs, domain.FieldError{Field: fmt.Sprintf("exercises[%d].exercise_ids", i), Message: "at least one exercise required"})
		}
		for j, id := range g.ExerciseIDs {
			if id == uuid.Nil {
				errs = append(errs, domain.FieldError{Field: fmt.Sprintf("exercises[%d].exercise_ids[%d]", i, j), Message: "required"})
			}
		}
	}

	return errs
}

func rejectAgeAndGroups(p Payload) []domain.FieldError {
	var errs []domain.FieldError
	if p.AgeMin != nil || p.AgeMax != nil {
		errs = append(errs, domain.FieldError{Field: "age_range", Message: "not applicable to this content type"})
	}
	if len(p.Exercises) > 0 {
		errs = append(errs, domain.FieldError{Field: "exercises", Message: "only syllabi carry exercise groups"})
	}
	return errs
}

// CreateInput holds the parameters for submitting new content.
type CreateInput struct {
	Type domain.ContentType
	Payload
}

// Validate checks all fields and collects all errors.
func (i CreateInput) Validate() error {
	if !i.Type.IsValid() {
		return domain.NewValidationError("type", fmt.Sprintf("unknown content type %q", i.Type))
	}

	if errs := validatePayload(i.Type, i.Payload); len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateInput holds the parameters for editing a content version. The
// payload is validated against the stored item's type once it is loaded.
type UpdateInput struct {
	ID uuid.UUID
	Payload
}

// Validate checks the target id; payload checks happen against the stored type.
func (i UpdateInput) Validate() error {
	if i.ID == uuid.Nil {
		return domain.NewValidationError("id", "required")
	}
	return nil
}

// ReviewInput holds a reviewer verdict on a pending version.
type ReviewInput struct {
	ID       uuid.UUID
	Decision domain.ReviewDecision
	Reason   *string
}

// Validate checks all fields and collects all errors.
func (i ReviewInput) Validate() error {
	var errs []domain.FieldError

	if i.ID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "id", Message: "required"})
	}
	if !i.Decision.IsValid() {
		errs = append(errs, domain.FieldError{Field: "decision", Message: fmt.Sprintf("unknown decision %q", i.Decision)})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// DeleteInput holds the parameters for soft-deleting a content version.
type DeleteInput struct {
	ID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i DeleteInput) Validate() error {
	if i.ID == uuid.Nil {
		return domain.NewValidationError("id", "required")
	}
	return nil
}
