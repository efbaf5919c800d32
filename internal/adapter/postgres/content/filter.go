package content

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/tutorhive/tutorhive-backend/internal/domain"
)

// predicates translates a normalized ContentFilter into squirrel conditions.
// Soft-deleted rows are excluded unconditionally.
func predicates(f domain.ContentFilter) sq.And {
	where := sq.And{
		sq.Eq{"content_type": f.Type.String()},
		sq.Expr("deleted_at IS NULL"),
	}

	switch f.Visibility {
	case domain.VisibilityPublic:
		where = append(where,
			sq.Eq{"status": domain.StatusApprove.String()},
			sq.Eq{"is_active": true},
		)
	case domain.VisibilityOwnOrApproved:
		where = append(where, sq.Or{
			sq.Eq{"owner_id": f.ViewerID},
			sq.And{
				sq.Eq{"status": domain.StatusApprove.String()},
				sq.Eq{"is_active": true},
			},
		})
	case domain.VisibilityAll:
		if len(f.Statuses) > 0 {
			statuses := make([]string, len(f.Statuses))
			for i, s := range f.Statuses {
				statuses[i] = s.String()
			}
			where = append(where, sq.Eq{"status": statuses})
		}
	}

	if f.OwnerID != nil {
		where = append(where, sq.Eq{"owner_id": *f.OwnerID})
	}

	if f.Search != nil && *f.Search != "" {
		pattern := fmt.Sprintf("%%%s%%", *f.Search)
		where = append(where, sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"body": pattern},
		})
	}

	return where
}
