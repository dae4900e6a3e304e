package backend

import (
	"encoding/json"
	"fmt"

	"github.com/hirewell/revshare/pkg/db/models"
	"github.com/hirewell/revshare/pkg/money"
	"github.com/hirewell/revshare/pkg/proto"
	"github.com/hirewell/revshare/pkg/split"
)

func teamFromModel(m models.Team) proto.Team {
	t := proto.Team{
		ID:        m.ID,
		Name:      m.Name,
		Owner:     m.Owner,
		Status:    proto.TeamStatus(m.Status),
		CreatedAt: m.CreatedAt,
	}
	if m.DefaultConfigurationID.Valid {
		id := m.DefaultConfigurationID.Int64
		t.DefaultConfigurationID = &id
	}
	return t
}

func memberFromModel(m models.TeamMember) proto.Member {
	return proto.Member{
		TeamID:      m.TeamID,
		RecruiterID: m.RecruiterID,
		Role:        split.MemberRole(m.Role),
		Status:      proto.MemberStatus(m.Status),
	}
}

func configurationFromModel(m models.SplitConfiguration) (proto.SplitConfiguration, error) {
	model, err := split.ParseModel(m.Model)
	if err != nil {
		return proto.SplitConfiguration{}, fmt.Errorf("configuration %d: %w", m.ID, err)
	}
	var cfg split.Config
	if err := json.Unmarshal([]byte(m.Config), &cfg); err != nil {
		return proto.SplitConfiguration{}, fmt.Errorf("configuration %d: decode: %w", m.ID, err)
	}
	c := proto.SplitConfiguration{
		ID:        m.ID,
		TeamID:    m.TeamID,
		Name:      m.Name,
		Model:     model,
		Config:    cfg,
		CreatedAt: m.CreatedAt,
	}
	if m.ParentID.Valid {
		id := m.ParentID.Int64
		c.ParentID = &id
	}
	return c, nil
}

func placementFromModel(m models.Placement) proto.PlacementMeta {
	p := proto.PlacementMeta{
		PlacementID: m.PlacementID,
		TeamID:      m.TeamID,
		RoleID:      m.RoleID,
		RoleTitle:   m.RoleTitle,
		CreatedAt:   m.CreatedAt,
	}
	if m.RoleOpenedAt.Valid {
		t := m.RoleOpenedAt.Time
		p.RoleOpenedAt = &t
	}
	return p
}

func splitSetFromModels(ms []models.PlacementSplit) proto.SplitSet {
	set := proto.SplitSet{Committed: true, Splits: make([]proto.PlacementSplit, len(ms))}
	for i, m := range ms {
		set.PlacementID = m.PlacementID
		set.TeamID = m.TeamID
		set.ConfigurationID = m.ConfigurationID
		set.TotalFee = money.Money(m.TotalFee)
		set.BatchID = m.BatchID
		set.Splits[i] = proto.PlacementSplit{
			PlacementID:     m.PlacementID,
			TeamID:          m.TeamID,
			ConfigurationID: m.ConfigurationID,
			RecruiterID:     m.RecruiterID,
			SplitPercentage: money.Percent(m.SplitPercentage),
			SplitAmount:     money.Money(m.SplitAmount),
			CreatedAt:       m.CreatedAt,
		}
	}
	return set
}
