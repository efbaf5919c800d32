// Package query builds normalized list specifications from caller-supplied
// criteria. All defaulting, clamping, and role-sensitive visibility is
// resolved here so repositories can translate the result mechanically.
package query

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tutorhive/tutorhive-backend/internal/auth"
	"github.com/tutorhive/tutorhive-backend/internal/domain"
	"github.com/tutorhive/tutorhive-backend/internal/policy"
)

// Criteria is the raw, untrusted list request from the transport layer.
type Criteria struct {
	Type domain.ContentType

	// Statuses optionally narrows the status set; honored only for
	// reviewers, whose default view spans all statuses.
	Statuses []domain.RequestStatus

	// OwnerID restricts results to one submitter.
	OwnerID *uuid.UUID

	Search    string
	SortBy    string
	SortOrder string

	// PageSize nil means "use the configured default"; 0 is the explicit
	// "return all rows" sentinel used by sorted full-list views.
	PageSize   *int
	PageNumber int
}

// Planner normalizes criteria into a domain.ContentFilter. Page sizing comes
// from configuration, never from ambient globals.
type Planner struct {
	defaultPageSize int
	maxPageSize     int
}

// NewPlanner creates a Planner with the configured page bounds.
func NewPlanner(defaultPageSize, maxPageSize int) *Planner {
	return &Planner{defaultPageSize: defaultPageSize, maxPageSize: maxPageSize}
}

// sortableColumns is the closed set of sortable fields per content type,
// mapping the API field name to its storage column.
var sortableColumns = map[domain.ContentType]map[string]string{
	domain.ContentTypeCurriculum: {
		"createdDate": "created_at",
		"updatedDate": "updated_at",
		"title":       "title",
		"version":     "version",
		"ageRange":    "age_min",
	},
	domain.ContentTypeSyllabus: {
		"createdDate": "created_at",
		"updatedDate": "updated_at",
		"title":       "title",
		"version":     "version",
		"ageRange":    "age_min",
	},
	domain.ContentTypeExercise: {
		"createdDate": "created_at",
		"updatedDate": "updated_at",
		"title":       "title",
		"version":     "version",
	},
	domain.ContentTypeQuestion: {
		"createdDate": "created_at",
		"updatedDate": "updated_at",
		"title":       "title",
		"version":     "version",
	},
}

const (
	defaultSortColumn = "created_at"
	defaultSortOrder  = domain.SortAsc
)

// Plan validates and normalizes criteria for the given caller. An
// unrecognized sort field silently falls back to created-date ascending;
// malformed statuses and negative paging values are validation errors.
func (p *Planner) Plan(c Criteria, ident auth.Identity) (domain.ContentFilter, error) {
	if !c.Type.IsValid() {
		return domain.ContentFilter{}, domain.NewValidationError("type", fmt.Sprintf("unknown content type %q", c.Type))
	}

	f := domain.ContentFilter{
		Type:    c.Type,
		OwnerID: c.OwnerID,
	}

	switch {
	case ident.IsAnonymous():
		f.Visibility = domain.VisibilityPublic
	case policy.Authorize(ident, policy.ActionListAll, uuid.Nil) == nil:
		f.Visibility = domain.VisibilityAll
		for _, s := range c.Statuses {
			if !s.IsValid() {
				return domain.ContentFilter{}, domain.NewValidationError("status", fmt.Sprintf("unknown status %q", s))
			}
		}
		f.Statuses = c.Statuses
	default:
		f.Visibility = domain.VisibilityOwnOrApproved
		f.ViewerID = ident.UserID
	}

	if search := strings.TrimSpace(c.Search); search != "" {
		f.Search = &search
	}

	f.SortBy, f.SortOrder = p.resolveSort(c.Type, c.SortBy, c.SortOrder)

	size, page, err := p.resolvePage(c.PageSize, c.PageNumber)
	if err != nil {
		return domain.ContentFilter{}, err
	}
	f.PageSize = size
	f.PageNumber = page

	return f, nil
}

// resolveSort maps the requested field to a column within the type's closed
// sortable set. Unknown fields fall back to the stable default order rather
// than failing; the requested direction is honored only for known fields.
func (p *Planner) resolveSort(contentType domain.ContentType, sortBy, sortOrder string) (column, order string) {
	columns := sortableColumns[contentType]
	col, ok := columns[sortBy]
	if !ok {
		return defaultSortColumn, defaultSortOrder
	}

	switch strings.ToUpper(strings.TrimSpace(sortOrder)) {
	case domain.SortDesc:
		return col, domain.SortDesc
	default:
		return col, domain.SortAsc
	}
}

func (p *Planner) resolvePage(pageSize *int, pageNumber int) (size, page int, err error) {
	size = p.defaultPageSize
	if pageSize != nil {
		size = *pageSize
	}

	switch {
	case size < 0:
		return 0, 0, domain.NewValidationError("pageSize", "must be non-negative")
	case size == 0:
		// Unpaginated sentinel: page number is irrelevant.
		return 0, 1, nil
	case size > p.maxPageSize:
		size = p.maxPageSize
	}

	page = pageNumber
	if page < 0 {
		return 0, 0, domain.NewValidationError("pageNumber", "must be non-negative")
	}
	if page == 0 {
		page = 1
	}

	return size, page, nil
}
