package proto

import (
	"time"

	"github.com/hirewell/revshare/pkg/money"
)

// PlacementMeta is the placement and role metadata used by analytics.
type PlacementMeta struct {
	PlacementID  string     `json:"placement_id"`
	TeamID       int64      `json:"team_id"`
	RoleID       string     `json:"role_id"`
	RoleTitle    string     `json:"role_title"`
	RoleOpenedAt *time.Time `json:"role_opened_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// PlacementSplit is one recruiter's share of a placement fee.
type PlacementSplit struct {
	PlacementID     string        `json:"placement_id"`
	TeamID          int64         `json:"team_id"`
	ConfigurationID int64         `json:"configuration_id"`
	RecruiterID     string        `json:"recruiter_id"`
	SplitPercentage money.Percent `json:"split_percentage"`
	SplitAmount     money.Money   `json:"split_amount"`
	CreatedAt       time.Time     `json:"created_at"`
}

// SplitSet is the complete distribution of one placement fee.
type SplitSet struct {
	PlacementID     string           `json:"placement_id"`
	TeamID          int64            `json:"team_id"`
	ConfigurationID int64            `json:"configuration_id"`
	TotalFee        money.Money      `json:"total_fee"`
	BatchID         string           `json:"batch_id,omitempty"`
	Committed       bool             `json:"committed"`
	Splits          []PlacementSplit `json:"splits"`
}
