package models

import (
	"database/sql"
	"time"
)

// Placement is the mirrored metadata of an external placement.
type Placement struct {
	ID           int64        `db:"id"`
	PlacementID  string       `db:"placement_id"`
	TeamID       int64        `db:"team_id"`
	RoleID       string       `db:"role_id"`
	RoleTitle    string       `db:"role_title"`
	RoleOpenedAt sql.NullTime `db:"role_opened_at"`
	CreatedAt    time.Time    `db:"created_at"`

	// CommittedBatchID is the batch of the committed split set, if any.
	CommittedBatchID sql.NullString `db:"committed_batch_id"`
}

// PlacementSplit is one committed share of a placement fee. Amounts are
// minor units and percentages basis points.
type PlacementSplit struct {
	ID              int64     `db:"id"`
	BatchID         string    `db:"batch_id"`
	PlacementID     string    `db:"placement_id"`
	TeamID          int64     `db:"team_id"`
	ConfigurationID int64     `db:"configuration_id"`
	RecruiterID     string    `db:"recruiter_id"`
	SplitPercentage int64     `db:"split_percentage"`
	SplitAmount     int64     `db:"split_amount"`
	TotalFee        int64     `db:"total_fee"`
	CreatedAt       time.Time `db:"created_at"`
}

// StageCredit is the credit a recruiter earned for a pipeline stage of a
// placement.
type StageCredit struct {
	ID          int64     `db:"id"`
	PlacementID string    `db:"placement_id"`
	RecruiterID string    `db:"recruiter_id"`
	Stage       string    `db:"stage"`
	Credits     int64     `db:"credits"`
	CreatedAt   time.Time `db:"created_at"`
}

// Submission is a candidate submitted by a team.
type Submission struct {
	ID           int64     `db:"id"`
	TeamID       int64     `db:"team_id"`
	CandidateRef string    `db:"candidate_ref"`
	SubmittedAt  time.Time `db:"submitted_at"`
}
