// Package policy implements role- and ownership-based authorization as a
// pure function over a closed capability table. It has no side effects and
// runs before any state is read or written.
package policy

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/tutorhive/tutorhive-backend/internal/auth"
	"github.com/tutorhive/tutorhive-backend/internal/domain"
)

// Action is an operation gated by the access policy.
type Action string

const (
	ActionSubmit    Action = "SUBMIT"
	ActionUpdate    Action = "UPDATE"
	ActionReview    Action = "REVIEW"
	ActionDelete    Action = "DELETE"
	ActionListAll   Action = "LIST_ALL"
	ActionViewQueue Action = "VIEW_QUEUE"
)

// capability describes who may perform an action. OwnerOverride marks
// owner-only self-service actions where ownership of the target resource
// substitutes for role membership.
type capability struct {
	Roles         []domain.Role
	OwnerOverride bool
}

// capabilities is the closed authorization table. Adding an action here is
// the only way to grant access to it.
var capabilities = map[Action]capability{
	ActionSubmit:    {Roles: []domain.Role{domain.RoleTutor, domain.RoleStaff, domain.RoleManager}},
	ActionUpdate:    {Roles: []domain.Role{domain.RoleStaff, domain.RoleManager}, OwnerOverride: true},
	ActionReview:    {Roles: []domain.Role{domain.RoleStaff, domain.RoleManager}},
	ActionDelete:    {Roles: []domain.Role{domain.RoleStaff, domain.RoleManager}, OwnerOverride: true},
	ActionListAll:   {Roles: []domain.Role{domain.RoleStaff, domain.RoleManager}},
	ActionViewQueue: {Roles: []domain.Role{domain.RoleStaff, domain.RoleManager}},
}

// Authorize decides whether ident may perform action on a resource owned by
// resourceOwnerID (uuid.Nil when the action has no concrete target yet,
// e.g. a create). Returns nil, domain.ErrUnauthenticated, or
// domain.ErrForbidden.
func Authorize(ident auth.Identity, action Action, resourceOwnerID uuid.UUID) error {
	if ident.IsAnonymous() {
		return fmt.Errorf("%s: %w", action, domain.ErrUnauthenticated)
	}

	cap, ok := capabilities[action]
	if !ok {
		return fmt.Errorf("%s: unknown action: %w", action, domain.ErrForbidden)
	}

	if ident.HasAnyRole(cap.Roles...) {
		return nil
	}

	if cap.OwnerOverride && resourceOwnerID != uuid.Nil && ident.UserID == resourceOwnerID {
		return nil
	}

	return fmt.Errorf("%s: %w", action, domain.ErrForbidden)
}
