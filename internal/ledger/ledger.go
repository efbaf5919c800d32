// Package ledger tracks version numbering for content families. A family is
// the set of versions sharing a family id (the original item's id); version
// numbers are monotonic and gapless for a sequential submission history.
package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tutorhive/tutorhive-backend/internal/domain"
)

type versionStore interface {
	MaxVersion(ctx context.Context, contentType domain.ContentType, familyID uuid.UUID) (int, error)
	DeactivateFamily(ctx context.Context, contentType domain.ContentType, familyID, exceptID uuid.UUID) error
}

// Ledger computes next version numbers and deactivates superseded versions.
// Both operations must run inside the caller's transaction: NextVersion so
// no concurrent submitter observes the same maximum, DeactivateFamily so a
// new activation and the deactivation of its siblings commit atomically.
type Ledger struct {
	store versionStore
}

// New creates a Ledger over the given store.
func New(store versionStore) *Ledger {
	return &Ledger{store: store}
}

// NextVersion returns 1 when the family has no prior versions, otherwise
// max(existing versions) + 1. Soft-deleted versions still count: deleting a
// version hides it but never frees its number.
func (l *Ledger) NextVersion(ctx context.Context, contentType domain.ContentType, familyID uuid.UUID) (int, error) {
	maxV, err := l.store.MaxVersion(ctx, contentType, familyID)
	if err != nil {
		return 0, fmt.Errorf("max version for family %s: %w", familyID, err)
	}
	return maxV + 1, nil
}

// DeactivatePriorVersions clears is_active on every version of the family
// except exceptID. Run in the same transaction that activates exceptID; the
// single UPDATE also covers a sibling activated by a concurrent approval,
// so at most one version of a family is ever active.
func (l *Ledger) DeactivatePriorVersions(ctx context.Context, contentType domain.ContentType, familyID, exceptID uuid.UUID) error {
	if err := l.store.DeactivateFamily(ctx, contentType, familyID, exceptID); err != nil {
		return fmt.Errorf("deactivate family %s: %w", familyID, err)
	}
	return nil
}
