package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/tutorhive/tutorhive-backend/internal/domain"
)

// Identity is the verified caller of one request: subject id plus role set.
// The core treats it as immutable input; an anonymous caller is represented
// by the zero Identity.
type Identity struct {
	UserID uuid.UUID
	Roles  []domain.Role
}

// IsAnonymous returns true when no verified subject is present.
func (i Identity) IsAnonymous() bool {
	return i.UserID == uuid.Nil
}

// HasRole returns true if the identity carries the given role.
func (i Identity) HasRole(role domain.Role) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole returns true if the identity's role set intersects roles.
func (i Identity) HasAnyRole(roles ...domain.Role) bool {
	for _, r := range roles {
		if i.HasRole(r) {
			return true
		}
	}
	return false
}

// IsReviewer returns true for identities allowed to approve or reject.
func (i Identity) IsReviewer() bool {
	return i.HasAnyRole(domain.RoleStaff, domain.RoleManager)
}

type identityCtxKey struct{}

// WithIdentity stores the verified identity in the context.
func WithIdentity(ctx context.Context, ident Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, ident)
}

// IdentityFromCtx extracts the identity from the context. Returns the zero
// Identity and false for anonymous requests.
func IdentityFromCtx(ctx context.Context) (Identity, bool) {
	ident, ok := ctx.Value(identityCtxKey{}).(Identity)
	if !ok || ident.IsAnonymous() {
		return Identity{}, false
	}
	return ident, true
}
