package models

import (
	"database/sql"
	"time"
)

// SplitConfiguration is a stored split configuration. Config holds the
// JSON encoded model parameters.
type SplitConfiguration struct {
	ID        int64         `db:"id"`
	TeamID    int64         `db:"team_id"`
	Name      string        `db:"name"`
	Model     string        `db:"model"`
	Config    string        `db:"config"`
	ParentID  sql.NullInt64 `db:"parent_id"`
	CreatedAt time.Time     `db:"created_at"`
}
