// Package models holds the database row types.
package models

import (
	"database/sql"
	"time"
)

// Team is a recruiting team.
type Team struct {
	ID                     int64         `db:"id"`
	Name                   string        `db:"name"`
	Owner                  string        `db:"owner"`
	Status                 string        `db:"status"`
	DefaultConfigurationID sql.NullInt64 `db:"default_configuration_id"`
	CreatedAt              time.Time     `db:"created_at"`
	UpdatedAt              time.Time     `db:"updated_at"`
}

// TeamMember is a recruiter's membership in a team.
type TeamMember struct {
	ID          int64     `db:"id"`
	TeamID      int64     `db:"team_id"`
	RecruiterID string    `db:"recruiter_id"`
	Role        string    `db:"role"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
