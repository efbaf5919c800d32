package query

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhive/tutorhive-backend/internal/auth"
	"github.com/tutorhive/tutorhive-backend/internal/domain"
)

func newTestPlanner() *Planner { return NewPlanner(10, 100) }

func intPtr(n int) *int { return &n }

func tutor() auth.Identity {
	return auth.Identity{UserID: uuid.New(), Roles: []domain.Role{domain.RoleTutor}}
}

func staff() auth.Identity {
	return auth.Identity{UserID: uuid.New(), Roles: []domain.Role{domain.RoleStaff}}
}

func TestPlan_AnonymousSeesPublicOnly(t *testing.T) {
	f, err := newTestPlanner().Plan(Criteria{Type: domain.ContentTypeSyllabus}, auth.Identity{})
	require.NoError(t, err)

	assert.Equal(t, domain.VisibilityPublic, f.Visibility)
	assert.Empty(t, f.Statuses)
}

func TestPlan_StaffSeesAllStatusesByDefault(t *testing.T) {
	f, err := newTestPlanner().Plan(Criteria{Type: domain.ContentTypeCurriculum}, staff())
	require.NoError(t, err)

	assert.Equal(t, domain.VisibilityAll, f.Visibility)
	assert.Empty(t, f.Statuses, "no narrowing unless requested")
}

func TestPlan_StaffMayNarrowStatuses(t *testing.T) {
	f, err := newTestPlanner().Plan(Criteria{
		Type:     domain.ContentTypeCurriculum,
		Statuses: []domain.RequestStatus{domain.StatusPending},
	}, staff())
	require.NoError(t, err)

	assert.Equal(t, []domain.RequestStatus{domain.StatusPending}, f.Statuses)
}

func TestPlan_InvalidStatusRejected(t *testing.T) {
	_, err := newTestPlanner().Plan(Criteria{
		Type:     domain.ContentTypeCurriculum,
		Statuses: []domain.RequestStatus{"SHINY"},
	}, staff())
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPlan_TutorSeesOwnOrApproved(t *testing.T) {
	ident := tutor()
	f, err := newTestPlanner().Plan(Criteria{
		Type:     domain.ContentTypeExercise,
		Statuses: []domain.RequestStatus{domain.StatusReject}, // ignored for tutors
	}, ident)
	require.NoError(t, err)

	assert.Equal(t, domain.VisibilityOwnOrApproved, f.Visibility)
	assert.Equal(t, ident.UserID, f.ViewerID)
	assert.Empty(t, f.Statuses, "tutors cannot widen their view via status subsets")
}

func TestPlan_UnknownTypeRejected(t *testing.T) {
	_, err := newTestPlanner().Plan(Criteria{Type: "PODCAST"}, staff())
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPlan_SortFallback(t *testing.T) {
	tests := []struct {
		name       string
		sortBy     string
		sortOrder  string
		wantColumn string
		wantOrder  string
	}{
		{"known field honored", "ageRange", "DESC", "age_min", domain.SortDesc},
		{"known field default order", "title", "", "title", domain.SortAsc},
		{"lowercase order accepted", "title", "desc", "title", domain.SortDesc},
		{"unknown field falls back to created-date ascending", "popularity", "DESC", "created_at", domain.SortAsc},
		{"empty field falls back", "", "DESC", "created_at", domain.SortAsc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := newTestPlanner().Plan(Criteria{
				Type:      domain.ContentTypeSyllabus,
				SortBy:    tt.sortBy,
				SortOrder: tt.sortOrder,
			}, staff())
			require.NoError(t, err)
			assert.Equal(t, tt.wantColumn, f.SortBy)
			assert.Equal(t, tt.wantOrder, f.SortOrder)
		})
	}
}

func TestPlan_AgeRangeNotSortableForQuestions(t *testing.T) {
	f, err := newTestPlanner().Plan(Criteria{
		Type:   domain.ContentTypeQuestion,
		SortBy: "ageRange",
	}, staff())
	require.NoError(t, err)
	assert.Equal(t, "created_at", f.SortBy)
}

func TestPlan_Paging(t *testing.T) {
	p := newTestPlanner()

	t.Run("default page size", func(t *testing.T) {
		f, err := p.Plan(Criteria{Type: domain.ContentTypeExercise}, staff())
		require.NoError(t, err)
		assert.Equal(t, 10, f.PageSize)
		assert.Equal(t, 1, f.PageNumber)
		assert.True(t, f.Paginated())
		assert.Equal(t, 0, f.Offset())
	})

	t.Run("zero is the return-all sentinel", func(t *testing.T) {
		f, err := p.Plan(Criteria{Type: domain.ContentTypeExercise, PageSize: intPtr(0)}, staff())
		require.NoError(t, err)
		assert.False(t, f.Paginated())
		assert.Equal(t, 0, f.Offset())
	})

	t.Run("explicit size and page", func(t *testing.T) {
		f, err := p.Plan(Criteria{Type: domain.ContentTypeExercise, PageSize: intPtr(25), PageNumber: 3}, staff())
		require.NoError(t, err)
		assert.Equal(t, 25, f.PageSize)
		assert.Equal(t, 50, f.Offset())
	})

	t.Run("size clamped to maximum", func(t *testing.T) {
		f, err := p.Plan(Criteria{Type: domain.ContentTypeExercise, PageSize: intPtr(5000)}, staff())
		require.NoError(t, err)
		assert.Equal(t, 100, f.PageSize)
	})

	t.Run("negative size rejected", func(t *testing.T) {
		_, err := p.Plan(Criteria{Type: domain.ContentTypeExercise, PageSize: intPtr(-1)}, staff())
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("negative page rejected", func(t *testing.T) {
		_, err := p.Plan(Criteria{Type: domain.ContentTypeExercise, PageNumber: -2}, staff())
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestPlan_SearchTrimmed(t *testing.T) {
	p := newTestPlanner()

	f, err := p.Plan(Criteria{Type: domain.ContentTypeQuestion, Search: "  fractions  "}, staff())
	require.NoError(t, err)
	require.NotNil(t, f.Search)
	assert.Equal(t, "fractions", *f.Search)

	f, err = p.Plan(Criteria{Type: domain.ContentTypeQuestion, Search: "   "}, staff())
	require.NoError(t, err)
	assert.Nil(t, f.Search, "blank search means no text filter")
}
