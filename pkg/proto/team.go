// Package proto defines the domain types and errors exchanged between the
// backend, the HTTP API and the CLI.
package proto

import (
	"time"

	"github.com/hirewell/revshare/pkg/split"
)

// TeamStatus is the lifecycle status of a team.
type TeamStatus string

const (
	TeamActive    TeamStatus = "active"
	TeamSuspended TeamStatus = "suspended"
)

// Valid reports whether s is a known status.
func (s TeamStatus) Valid() bool {
	return s == TeamActive || s == TeamSuspended
}

// Team is a recruiting team.
type Team struct {
	ID                     int64      `json:"id"`
	Name                   string     `json:"name"`
	Owner                  string     `json:"owner"`
	Status                 TeamStatus `json:"status"`
	DefaultConfigurationID *int64     `json:"default_configuration_id,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
}

// MemberStatus is the status of a team membership.
type MemberStatus string

const (
	MemberActive  MemberStatus = "active"
	MemberRemoved MemberStatus = "removed"
)

// Member is a recruiter's membership in a team.
type Member struct {
	TeamID      int64            `json:"team_id"`
	RecruiterID string           `json:"recruiter_id"`
	Role        split.MemberRole `json:"role"`
	Status      MemberStatus     `json:"status"`
}
