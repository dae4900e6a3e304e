package backend

import (
	"errors"

	"github.com/hirewell/revshare/pkg/proto"
	"github.com/hirewell/revshare/pkg/split"
)

// errorKind classifies err into a short label.
func errorKind(err error) string {
	var (
		verrs    split.ValidationErrors
		insuff   *split.InsufficientContributorsError
		mismatch *split.ConfigurationMismatchError
		rounding *split.RoundingInvariantViolation
		conflict *proto.ConflictError
	)
	switch {
	case errors.As(err, &verrs):
		return "invalid"
	case errors.As(err, &insuff):
		return "insufficient_contributors"
	case errors.As(err, &mismatch):
		return "configuration_mismatch"
	case errors.As(err, &rounding):
		return "rounding_violation"
	case errors.As(err, &conflict):
		return "conflict"
	case errors.Is(err, proto.ErrTeamSuspended):
		return "suspended"
	case errors.Is(err, proto.ErrTeamNotFound),
		errors.Is(err, proto.ErrConfigurationNotFound),
		errors.Is(err, proto.ErrPlacementNotFound):
		return "not_found"
	default:
		return "error"
	}
}
