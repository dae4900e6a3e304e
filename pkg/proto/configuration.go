package proto

import (
	"time"

	"github.com/hirewell/revshare/pkg/split"
)

// SplitConfiguration is a named, stored split configuration of a team.
// IsDefault is derived from the team's default pointer.
type SplitConfiguration struct {
	ID        int64        `json:"id"`
	TeamID    int64        `json:"team_id"`
	Name      string       `json:"name"`
	Model     split.Model  `json:"model"`
	Config    split.Config `json:"config"`
	IsDefault bool         `json:"is_default"`
	ParentID  *int64       `json:"parent_id,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// ValidationResult is the outcome of validating a configuration.
type ValidationResult struct {
	Valid  bool                    `json:"valid"`
	Errors []split.ValidationError `json:"errors"`
}
