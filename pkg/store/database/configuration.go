package database

import (
	"context"
	"time"

	"github.com/hirewell/revshare/pkg/db"
	"github.com/hirewell/revshare/pkg/db/models"
	"github.com/hirewell/revshare/pkg/store"
)

var _ store.ConfigurationStore = (*configurationStore)(nil)

type configurationStore struct{}

// CreateConfiguration implements store.ConfigurationStore.
func (*configurationStore) CreateConfiguration(ctx context.Context, h db.Handler, cfg models.SplitConfiguration) (models.SplitConfiguration, error) {
	query := h.Rebind(`
		INSERT INTO
		  split_configurations (team_id, name, model, config, parent_id, created_at)
		VALUES
		  (?, ?, ?, ?, ?, ?) RETURNING *
	`)
	var m models.SplitConfiguration
	err := h.GetContext(ctx, &m, query, cfg.TeamID, cfg.Name, cfg.Model, cfg.Config, cfg.ParentID, time.Now().UTC())
	return m, db.WrapError(err)
}

// GetConfigurationByID implements store.ConfigurationStore.
func (*configurationStore) GetConfigurationByID(ctx context.Context, h db.Handler, id int64) (models.SplitConfiguration, error) {
	query := h.Rebind(`SELECT * FROM split_configurations WHERE id = ?`)
	var m models.SplitConfiguration
	err := h.GetContext(ctx, &m, query, id)
	return m, db.WrapError(err)
}

// GetDefaultConfiguration implements store.ConfigurationStore.
func (*configurationStore) GetDefaultConfiguration(ctx context.Context, h db.Handler, team int64) (models.SplitConfiguration, error) {
	query := h.Rebind(`
		SELECT
		  c.*
		FROM
		  split_configurations c
		  JOIN teams t ON t.default_configuration_id = c.id
		WHERE
		  t.id = ?
	`)
	var m models.SplitConfiguration
	err := h.GetContext(ctx, &m, query, team)
	return m, db.WrapError(err)
}

// ListConfigurations implements store.ConfigurationStore.
func (*configurationStore) ListConfigurations(ctx context.Context, h db.Handler, team int64) ([]models.SplitConfiguration, error) {
	query := h.Rebind(`SELECT * FROM split_configurations WHERE team_id = ? ORDER BY id`)
	var cfgs []models.SplitConfiguration
	err := h.SelectContext(ctx, &cfgs, query, team)
	return cfgs, db.WrapError(err)
}
