package store

import (
	"context"

	"github.com/hirewell/revshare/pkg/db"
	"github.com/hirewell/revshare/pkg/db/models"
)

// TeamStore is a store for teams and their members.
type TeamStore interface {
	CreateTeam(ctx context.Context, h db.Handler, name, owner string) (models.Team, error)
	GetTeamByID(ctx context.Context, h db.Handler, id int64) (models.Team, error)
	GetTeamByName(ctx context.Context, h db.Handler, name string) (models.Team, error)
	ListTeams(ctx context.Context, h db.Handler) ([]models.Team, error)
	SetTeamStatus(ctx context.Context, h db.Handler, id int64, status string) error
	SetTeamDefaultConfiguration(ctx context.Context, h db.Handler, id, configID int64) error

	AddTeamMember(ctx context.Context, h db.Handler, team int64, recruiter, role string) (models.TeamMember, error)
	RemoveTeamMember(ctx context.Context, h db.Handler, team int64, recruiter string) error
	ListTeamMembers(ctx context.Context, h db.Handler, team int64, status string) ([]models.TeamMember, error)
}
