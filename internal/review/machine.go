// Package review implements the content review state machine:
// PENDING → APPROVE | REJECT, with soft-delete allowed from PENDING
// (withdrawal) and APPROVE (retirement). REJECT is terminal for a version;
// resubmission happens as a new version through the ledger.
package review

import (
	"fmt"
	"strings"

	"github.com/tutorhive/tutorhive-backend/internal/domain"
)

// CheckVisible guards every transition against soft-deleted items: a deleted
// item is invisible to state changes, not just to reads.
func CheckVisible(item *domain.ContentItem) error {
	if item == nil || item.IsDeleted() {
		return fmt.Errorf("content item: %w", domain.ErrNotFound)
	}
	return nil
}

// CheckDecision validates a reviewer verdict against the item's current
// state. A rejection must carry a non-empty reason; approve and reject are
// only valid from PENDING.
func CheckDecision(item *domain.ContentItem, decision domain.ReviewDecision, reason *string) error {
	if err := CheckVisible(item); err != nil {
		return err
	}

	if !decision.IsValid() {
		return domain.NewValidationError("decision", fmt.Sprintf("unknown decision %q", decision))
	}

	switch item.Status {
	case domain.StatusPending:
		// reviewable
	case domain.StatusApprove:
		return domain.NewValidationError("status", "item is already approved")
	case domain.StatusReject:
		return domain.NewValidationError("status", "item is already rejected; submit a new version instead")
	default:
		return domain.NewValidationError("status", fmt.Sprintf("unknown status %q", item.Status))
	}

	if decision == domain.DecisionReject {
		if reason == nil || strings.TrimSpace(*reason) == "" {
			return domain.NewValidationError("reason", "rejection requires a non-empty reason")
		}
	}

	return nil
}

// CheckUpdatable reports how an owner edit must be applied: in place for
// PENDING versions, or as a brand new PENDING version for versions the
// reviewers have already settled.
func CheckUpdatable(item *domain.ContentItem) (newVersion bool, err error) {
	if err := CheckVisible(item); err != nil {
		return false, err
	}

	switch item.Status {
	case domain.StatusPending:
		return false, nil
	case domain.StatusApprove, domain.StatusReject:
		return true, nil
	default:
		return false, domain.NewValidationError("status", fmt.Sprintf("unknown status %q", item.Status))
	}
}

// CheckDeletable guards soft deletion. Deleting never renumbers sibling
// versions; it only hides this one.
func CheckDeletable(item *domain.ContentItem) error {
	return CheckVisible(item)
}

// Resolve returns the status and activity flag resulting from a decision.
// Activation of an approved version and deactivation of its siblings are
// committed in one transaction by the caller.
func Resolve(decision domain.ReviewDecision) (domain.RequestStatus, bool) {
	if decision == domain.DecisionApprove {
		return domain.StatusApprove, true
	}
	return domain.StatusReject, false
}
