package database

import (
	"context"

	"github.com/hirewell/revshare/pkg/db"
	"github.com/hirewell/revshare/pkg/db/models"
	"github.com/hirewell/revshare/pkg/store"
)

var _ store.TeamStore = (*teamStore)(nil)

type teamStore struct{}

// CreateTeam implements store.TeamStore.
func (*teamStore) CreateTeam(ctx context.Context, h db.Handler, name, owner string) (models.Team, error) {
	query := h.Rebind(`
		INSERT INTO
		  teams (name, owner, status, updated_at)
		VALUES
		  (?, ?, 'active', CURRENT_TIMESTAMP) RETURNING *
	`)
	var team models.Team
	err := h.GetContext(ctx, &team, query, name, owner)
	return team, db.WrapError(err)
}

// GetTeamByID implements store.TeamStore.
func (*teamStore) GetTeamByID(ctx context.Context, h db.Handler, id int64) (models.Team, error) {
	query := h.Rebind(`SELECT * FROM teams WHERE id = ?`)
	var team models.Team
	err := h.GetContext(ctx, &team, query, id)
	return team, db.WrapError(err)
}

// GetTeamByName implements store.TeamStore.
func (*teamStore) GetTeamByName(ctx context.Context, h db.Handler, name string) (models.Team, error) {
	query := h.Rebind(`SELECT * FROM teams WHERE name = ?`)
	var team models.Team
	err := h.GetContext(ctx, &team, query, name)
	return team, db.WrapError(err)
}

// ListTeams implements store.TeamStore.
func (*teamStore) ListTeams(ctx context.Context, h db.Handler) ([]models.Team, error) {
	var teams []models.Team
	err := h.SelectContext(ctx, &teams, `SELECT * FROM teams ORDER BY id`)
	return teams, db.WrapError(err)
}

// SetTeamStatus implements store.TeamStore.
func (*teamStore) SetTeamStatus(ctx context.Context, h db.Handler, id int64, status string) error {
	query := h.Rebind(`
		UPDATE teams
		SET
		  status = ?,
		  updated_at = CURRENT_TIMESTAMP
		WHERE
		  id = ?
	`)
	return execOne(ctx, h, query, status, id)
}

// SetTeamDefaultConfiguration implements store.TeamStore.
func (*teamStore) SetTeamDefaultConfiguration(ctx context.Context, h db.Handler, id, configID int64) error {
	query := h.Rebind(`
		UPDATE teams
		SET
		  default_configuration_id = ?,
		  updated_at = CURRENT_TIMESTAMP
		WHERE
		  id = ?
	`)
	return execOne(ctx, h, query, configID, id)
}

// AddTeamMember implements store.TeamStore. Adding a removed member
// reactivates the membership with the new role.
func (*teamStore) AddTeamMember(ctx context.Context, h db.Handler, team int64, recruiter, role string) (models.TeamMember, error) {
	query := h.Rebind(`
		INSERT INTO
		  team_members (team_id, recruiter_id, role, status, updated_at)
		VALUES
		  (?, ?, ?, 'active', CURRENT_TIMESTAMP)
		ON CONFLICT (team_id, recruiter_id) DO UPDATE SET
		  role = excluded.role,
		  status = 'active',
		  updated_at = CURRENT_TIMESTAMP
		RETURNING *
	`)
	var m models.TeamMember
	err := h.GetContext(ctx, &m, query, team, recruiter, role)
	return m, db.WrapError(err)
}

// RemoveTeamMember implements store.TeamStore. Memberships are never
// deleted, only marked removed.
func (*teamStore) RemoveTeamMember(ctx context.Context, h db.Handler, team int64, recruiter string) error {
	query := h.Rebind(`
		UPDATE team_members
		SET
		  status = 'removed',
		  updated_at = CURRENT_TIMESTAMP
		WHERE
		  team_id = ?
		  AND recruiter_id = ?
	`)
	return execOne(ctx, h, query, team, recruiter)
}

// ListTeamMembers implements store.TeamStore. An empty status lists every
// member.
func (*teamStore) ListTeamMembers(ctx context.Context, h db.Handler, team int64, status string) ([]models.TeamMember, error) {
	query := `SELECT * FROM team_members WHERE team_id = ?`
	args := []interface{}{team}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY id`

	var members []models.TeamMember
	err := h.SelectContext(ctx, &members, h.Rebind(query), args...)
	return members, db.WrapError(err)
}

// execOne runs a statement that must affect exactly one row.
func execOne(ctx context.Context, h db.Handler, query string, args ...interface{}) error {
	res, err := h.ExecContext(ctx, query, args...)
	if err != nil {
		return db.WrapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return db.ErrRecordNotFound
	}
	return nil
}
