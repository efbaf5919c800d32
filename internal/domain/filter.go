package domain

import "github.com/google/uuid"

// Visibility is the role-sensitive base predicate applied to every listing.
type Visibility string

const (
	// VisibilityAll exposes every non-deleted version regardless of status
	// (staff and managers).
	VisibilityAll Visibility = "ALL"
	// VisibilityOwnOrApproved exposes the viewer's own items in any status
	// plus other submitters' approved items (tutors).
	VisibilityOwnOrApproved Visibility = "OWN_OR_APPROVED"
	// VisibilityPublic exposes only active, approved items (anonymous and
	// consumer views).
	VisibilityPublic Visibility = "PUBLIC"
)

// Sort directions accepted by ContentFilter.
const (
	SortAsc  = "ASC"
	SortDesc = "DESC"
)

// ContentFilter is a fully normalized list specification produced by the
// query planner. Repositories translate it mechanically; all defaulting and
// role logic happens before it is built.
type ContentFilter struct {
	Type       ContentType
	Visibility Visibility

	// ViewerID is the requesting user; consulted only when Visibility is
	// VisibilityOwnOrApproved.
	ViewerID uuid.UUID

	// Statuses narrows the status set under VisibilityAll. Empty means no
	// narrowing.
	Statuses []RequestStatus

	// OwnerID restricts results to a single submitter when set.
	OwnerID *uuid.UUID

	// Search is a case-insensitive substring over the type's text columns.
	Search *string

	// SortBy is a column name already validated against the type's closed
	// sortable set. SortOrder is SortAsc or SortDesc.
	SortBy    string
	SortOrder string

	// PageSize 0 means "return all matching rows"; PageNumber is 1-based.
	PageSize   int
	PageNumber int
}

// Paginated returns false for the "return everything" sentinel.
func (f ContentFilter) Paginated() bool { return f.PageSize > 0 }

// Offset returns the row offset for the requested page.
func (f ContentFilter) Offset() int {
	if !f.Paginated() || f.PageNumber <= 1 {
		return 0
	}
	return (f.PageNumber - 1) * f.PageSize
}
