package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hirewell/revshare/pkg/db"
	"github.com/hirewell/revshare/pkg/db/models"
	"github.com/hirewell/revshare/pkg/proto"
	"github.com/hirewell/revshare/pkg/split"
	"github.com/hirewell/revshare/pkg/utils"
)

// CreateTeam creates an active team and adds its owner as a member with
// the owner role.
func (d *Backend) CreateTeam(ctx context.Context, name, owner string) (proto.Team, error) {
	name, owner = utils.SanitizeName(name), strings.TrimSpace(owner)
	var verrs split.ValidationErrors
	if err := utils.ValidateTeamName(name); err != nil {
		verrs = append(verrs, split.ValidationError{Field: "name", Message: err.Error()})
	}
	if err := utils.ValidateRecruiterID(owner); err != nil {
		verrs = append(verrs, split.ValidationError{Field: "owner", Message: err.Error()})
	}
	if verrs != nil {
		return proto.Team{}, verrs
	}

	var team models.Team
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		team, err = d.store.CreateTeam(ctx, tx, name, owner)
		if err != nil {
			return err
		}
		_, err = d.store.AddTeamMember(ctx, tx, team.ID, owner, string(split.OwnerRole))
		return err
	}); err != nil {
		if errors.Is(err, db.ErrDuplicateKey) {
			return proto.Team{}, proto.ErrTeamExist
		}
		return proto.Team{}, err
	}

	d.logger.Info("team created", "team", team.ID, "name", name, "owner", owner)
	return teamFromModel(team), nil
}

// Team returns a team by id.
func (d *Backend) Team(ctx context.Context, id int64) (proto.Team, error) {
	m, err := d.team(ctx, d.db, id)
	if err != nil {
		return proto.Team{}, err
	}
	return teamFromModel(m), nil
}

// TeamByName returns a team by name.
func (d *Backend) TeamByName(ctx context.Context, name string) (proto.Team, error) {
	m, err := d.store.GetTeamByName(ctx, d.db, name)
	if errors.Is(err, db.ErrRecordNotFound) {
		return proto.Team{}, proto.ErrTeamNotFound
	}
	if err != nil {
		return proto.Team{}, err
	}
	return teamFromModel(m), nil
}

// ListTeams returns every team.
func (d *Backend) ListTeams(ctx context.Context) ([]proto.Team, error) {
	ms, err := d.store.ListTeams(ctx, d.db)
	if err != nil {
		return nil, err
	}
	teams := make([]proto.Team, len(ms))
	for i, m := range ms {
		teams[i] = teamFromModel(m)
	}
	return teams, nil
}

// SetTeamStatus suspends or reactivates a team.
func (d *Backend) SetTeamStatus(ctx context.Context, id int64, status proto.TeamStatus) (proto.Team, error) {
	if !status.Valid() {
		return proto.Team{}, split.ValidationErrors{{
			Field:   "status",
			Message: fmt.Sprintf("unknown team status %q", status),
		}}
	}
	err := d.store.SetTeamStatus(ctx, d.db, id, string(status))
	if errors.Is(err, db.ErrRecordNotFound) {
		return proto.Team{}, proto.ErrTeamNotFound
	}
	if err != nil {
		return proto.Team{}, err
	}
	d.logger.Info("team status changed", "team", id, "status", status)
	return d.Team(ctx, id)
}

// AddMember adds a recruiter to a team, or reactivates a removed member
// with a new role.
func (d *Backend) AddMember(ctx context.Context, teamID int64, recruiter string, role split.MemberRole) (proto.Member, error) {
	recruiter = strings.TrimSpace(recruiter)
	var verrs split.ValidationErrors
	if err := utils.ValidateRecruiterID(recruiter); err != nil {
		verrs = append(verrs, split.ValidationError{Field: "recruiter_id", Message: err.Error()})
	}
	if !role.Valid() {
		verrs = append(verrs, split.ValidationError{
			Field:   "role",
			Message: fmt.Sprintf("unknown membership role %q", role),
		})
	}
	if verrs != nil {
		return proto.Member{}, verrs
	}

	if _, err := d.team(ctx, d.db, teamID); err != nil {
		return proto.Member{}, err
	}
	m, err := d.store.AddTeamMember(ctx, d.db, teamID, recruiter, string(role))
	if err != nil {
		return proto.Member{}, err
	}
	return memberFromModel(m), nil
}

// RemoveMember marks a member removed. Removed members stop being
// contributors but keep their committed splits.
func (d *Backend) RemoveMember(ctx context.Context, teamID int64, recruiter string) error {
	if _, err := d.team(ctx, d.db, teamID); err != nil {
		return err
	}
	err := d.store.RemoveTeamMember(ctx, d.db, teamID, recruiter)
	if errors.Is(err, db.ErrRecordNotFound) {
		return proto.ErrMemberNotFound
	}
	return err
}

// Members returns every member of a team, active or removed.
func (d *Backend) Members(ctx context.Context, teamID int64) ([]proto.Member, error) {
	if _, err := d.team(ctx, d.db, teamID); err != nil {
		return nil, err
	}
	ms, err := d.store.ListTeamMembers(ctx, d.db, teamID, "")
	if err != nil {
		return nil, err
	}
	members := make([]proto.Member, len(ms))
	for i, m := range ms {
		members[i] = memberFromModel(m)
	}
	return members, nil
}

// RecordPlacement mirrors the metadata of an external placement so splits
// can be committed for it and analytics can report on it.
func (d *Backend) RecordPlacement(ctx context.Context, teamID int64, meta proto.PlacementMeta) (proto.PlacementMeta, error) {
	var verrs split.ValidationErrors
	if strings.TrimSpace(meta.PlacementID) == "" {
		verrs = append(verrs, split.ValidationError{Field: "placement_id", Message: "is required"})
	}
	if strings.TrimSpace(meta.RoleID) == "" {
		verrs = append(verrs, split.ValidationError{Field: "role_id", Message: "is required"})
	}
	if meta.RoleOpenedAt != nil && !meta.CreatedAt.IsZero() && meta.RoleOpenedAt.After(meta.CreatedAt) {
		verrs = append(verrs, split.ValidationError{Field: "role_opened_at", Message: "must not be after created_at"})
	}
	if verrs != nil {
		return proto.PlacementMeta{}, verrs
	}

	if _, err := d.team(ctx, d.db, teamID); err != nil {
		return proto.PlacementMeta{}, err
	}

	p := models.Placement{
		PlacementID: meta.PlacementID,
		TeamID:      teamID,
		RoleID:      meta.RoleID,
		RoleTitle:   meta.RoleTitle,
		CreatedAt:   meta.CreatedAt,
	}
	if meta.RoleOpenedAt != nil {
		p.RoleOpenedAt.Time, p.RoleOpenedAt.Valid = meta.RoleOpenedAt.UTC(), true
	}
	m, err := d.store.CreatePlacement(ctx, d.db, p)
	if errors.Is(err, db.ErrDuplicateKey) {
		return proto.PlacementMeta{}, &proto.ConflictError{
			Reason: fmt.Sprintf("placement %q already recorded", meta.PlacementID),
		}
	}
	if err != nil {
		return proto.PlacementMeta{}, err
	}
	return placementFromModel(m), nil
}

// RecordStageCredit sets the credits a recruiter earned for a stage of a
// placement.
func (d *Backend) RecordStageCredit(ctx context.Context, teamID int64, placementID, recruiter, stage string, credits int64) error {
	var verrs split.ValidationErrors
	if err := utils.ValidateRecruiterID(recruiter); err != nil {
		verrs = append(verrs, split.ValidationError{Field: "recruiter_id", Message: err.Error()})
	}
	if stage == "" {
		verrs = append(verrs, split.ValidationError{Field: "stage", Message: "is required"})
	}
	if credits < 0 {
		verrs = append(verrs, split.ValidationError{Field: "credits", Message: "must not be negative"})
	}
	if verrs != nil {
		return verrs
	}
	if _, err := d.placement(ctx, teamID, placementID); err != nil {
		return err
	}
	return d.store.SetStageCredit(ctx, d.db, placementID, recruiter, stage, credits)
}

// RecordSubmission records a candidate submission of a team. Recording
// the same candidate again is a no-op.
func (d *Backend) RecordSubmission(ctx context.Context, teamID int64, candidateRef string, at time.Time) error {
	if strings.TrimSpace(candidateRef) == "" {
		return split.ValidationErrors{{Field: "candidate_ref", Message: "is required"}}
	}
	if _, err := d.team(ctx, d.db, teamID); err != nil {
		return err
	}
	if at.IsZero() {
		at = time.Now()
	}
	return d.store.AddSubmission(ctx, d.db, teamID, candidateRef, at)
}

func (d *Backend) team(ctx context.Context, h db.Handler, id int64) (models.Team, error) {
	m, err := d.store.GetTeamByID(ctx, h, id)
	if errors.Is(err, db.ErrRecordNotFound) {
		return models.Team{}, proto.ErrTeamNotFound
	}
	return m, err
}

func (d *Backend) placement(ctx context.Context, teamID int64, placementID string) (models.Placement, error) {
	if _, err := d.team(ctx, d.db, teamID); err != nil {
		return models.Placement{}, err
	}
	p, err := d.store.GetPlacement(ctx, d.db, placementID)
	if errors.Is(err, db.ErrRecordNotFound) || (err == nil && p.TeamID != teamID) {
		return models.Placement{}, proto.ErrPlacementNotFound
	}
	return p, err
}
