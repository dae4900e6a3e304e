package proto

import (
	"errors"
	"fmt"
)

var (
	// ErrTeamNotFound is returned when a team does not exist.
	ErrTeamNotFound = errors.New("team not found")
	// ErrTeamExist is returned when a team name is taken.
	ErrTeamExist = errors.New("team already exists")
	// ErrTeamSuspended is returned when splits are requested for a
	// suspended team.
	ErrTeamSuspended = errors.New("team is suspended")
	// ErrMemberNotFound is returned when a recruiter is not a team member.
	ErrMemberNotFound = errors.New("member not found")
	// ErrConfigurationNotFound is returned when a split configuration does
	// not exist, or a team has no default configuration.
	ErrConfigurationNotFound = errors.New("split configuration not found")
	// ErrPlacementNotFound is returned when a placement was never recorded
	// for the team.
	ErrPlacementNotFound = errors.New("placement not found")
	// ErrSplitsNotFound is returned when a placement has no committed splits.
	ErrSplitsNotFound = errors.New("placement splits not found")
	// ErrUnauthorized is returned when a request carries no valid token.
	ErrUnauthorized = errors.New("unauthorized")
)

// ConflictError reports a state conflict: a configuration that belongs to
// another team, or a placement already committed with a different split.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s", e.Reason)
}
