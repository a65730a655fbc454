package services

import (
	"errors"

	"teamdesk/internal/apperrors"
	"teamdesk/internal/authz"
)

// authzError converts policy sentinels into HTTP-mapped errors: a missing
// membership reads as 404 so outsiders cannot probe which entities exist,
// an insufficient role reads as 403.
func authzError(err error) error {
	switch {
	case errors.Is(err, authz.ErrNotMember):
		return apperrors.NotFound("not found")
	case errors.Is(err, authz.ErrInsufficientRole):
		return apperrors.Forbidden("insufficient role")
	default:
		return apperrors.Internal(err)
	}
}
