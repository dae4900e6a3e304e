package backend

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hirewell/revshare/pkg/db"
	"github.com/hirewell/revshare/pkg/db/models"
	"github.com/hirewell/revshare/pkg/proto"
	"github.com/hirewell/revshare/pkg/split"
)

// ValidateConfiguration validates a configuration without storing it.
// Unknown models are reported as a validation error on the model field.
func (d *Backend) ValidateConfiguration(model split.Model, cfg split.Config) proto.ValidationResult {
	verrs, err := split.Validate(model, cfg)
	if err != nil {
		verrs = split.ValidationErrors{{Field: "model", Message: err.Error()}}
	}
	return proto.ValidationResult{
		Valid:  len(verrs) == 0,
		Errors: append([]split.ValidationError{}, verrs...),
	}
}

// CreateConfiguration validates and stores a new split configuration for
// a team.
func (d *Backend) CreateConfiguration(ctx context.Context, teamID int64, name string, model split.Model, cfg split.Config) (proto.SplitConfiguration, error) {
	return d.SaveConfiguration(ctx, proto.SplitConfiguration{
		TeamID: teamID,
		Name:   name,
		Model:  model,
		Config: cfg,
	})
}

// SaveConfiguration implements ConfigurationStore. It always creates a new
// configuration; stored configurations are never modified. A ParentID
// records the configuration it revises.
func (d *Backend) SaveConfiguration(ctx context.Context, c proto.SplitConfiguration) (proto.SplitConfiguration, error) {
	m, err := d.newConfigurationModel(c)
	if err != nil {
		return proto.SplitConfiguration{}, err
	}
	if _, err := d.team(ctx, d.db, c.TeamID); err != nil {
		return proto.SplitConfiguration{}, err
	}
	m, err = d.store.CreateConfiguration(ctx, d.db, m)
	if err != nil {
		return proto.SplitConfiguration{}, err
	}
	d.logger.Info("split configuration created", "team", m.TeamID, "configuration", m.ID, "model", m.Model)
	return d.cacheConfiguration(m)
}

// ReviseConfiguration stores a revision of an existing configuration. When
// the revised configuration is the team default, the default moves to the
// revision in the same transaction.
func (d *Backend) ReviseConfiguration(ctx context.Context, teamID, configID int64, name string, model split.Model, cfg split.Config) (proto.SplitConfiguration, error) {
	parent := configID
	m, err := d.newConfigurationModel(proto.SplitConfiguration{
		TeamID:   teamID,
		Name:     name,
		Model:    model,
		Config:   cfg,
		ParentID: &parent,
	})
	if err != nil {
		return proto.SplitConfiguration{}, err
	}

	var isDefault bool
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		team, err := d.team(ctx, tx, teamID)
		if err != nil {
			return err
		}
		old, err := d.store.GetConfigurationByID(ctx, tx, configID)
		if errors.Is(err, db.ErrRecordNotFound) {
			return proto.ErrConfigurationNotFound
		}
		if err != nil {
			return err
		}
		if old.TeamID != teamID {
			return &proto.ConflictError{
				Reason: fmt.Sprintf("configuration %d does not belong to team %d", configID, teamID),
			}
		}
		if m.Name == "" {
			m.Name = old.Name
		}

		m, err = d.store.CreateConfiguration(ctx, tx, m)
		if err != nil {
			return err
		}
		if team.DefaultConfigurationID.Valid && team.DefaultConfigurationID.Int64 == configID {
			isDefault = true
			return d.store.SetTeamDefaultConfiguration(ctx, tx, teamID, m.ID)
		}
		return nil
	}); err != nil {
		return proto.SplitConfiguration{}, err
	}

	d.logger.Info("split configuration revised", "team", teamID, "configuration", m.ID, "parent", configID, "default", isDefault)
	c, err := d.cacheConfiguration(m)
	c.IsDefault = isDefault
	return c, err
}

// Configuration implements ConfigurationStore.
func (d *Backend) Configuration(ctx context.Context, id int64) (proto.SplitConfiguration, error) {
	c, err := d.configuration(ctx, d.db, id)
	if err != nil {
		return proto.SplitConfiguration{}, err
	}
	team, err := d.team(ctx, d.db, c.TeamID)
	if err != nil {
		return proto.SplitConfiguration{}, err
	}
	c.IsDefault = team.DefaultConfigurationID.Valid && team.DefaultConfigurationID.Int64 == c.ID
	return c, nil
}

// ListConfigurations returns every configuration of a team, oldest first.
func (d *Backend) ListConfigurations(ctx context.Context, teamID int64) ([]proto.SplitConfiguration, error) {
	team, err := d.team(ctx, d.db, teamID)
	if err != nil {
		return nil, err
	}
	ms, err := d.store.ListConfigurations(ctx, d.db, teamID)
	if err != nil {
		return nil, err
	}
	cfgs := make([]proto.SplitConfiguration, 0, len(ms))
	for _, m := range ms {
		c, err := d.cacheConfiguration(m)
		if err != nil {
			return nil, err
		}
		c.IsDefault = team.DefaultConfigurationID.Valid && team.DefaultConfigurationID.Int64 == c.ID
		cfgs = append(cfgs, c)
	}
	return cfgs, nil
}

// DefaultConfiguration implements ConfigurationStore. It returns
// proto.ErrConfigurationNotFound when the team has no default.
func (d *Backend) DefaultConfiguration(ctx context.Context, teamID int64) (proto.SplitConfiguration, error) {
	team, err := d.team(ctx, d.db, teamID)
	if err != nil {
		return proto.SplitConfiguration{}, err
	}
	if !team.DefaultConfigurationID.Valid {
		return proto.SplitConfiguration{}, proto.ErrConfigurationNotFound
	}
	c, err := d.configuration(ctx, d.db, team.DefaultConfigurationID.Int64)
	if err != nil {
		return proto.SplitConfiguration{}, err
	}
	c.IsDefault = true
	return c, nil
}

// SetDefaultConfiguration makes configID the default of teamID. The check
// and the update run in one transaction, so exactly one default exists
// afterwards even under concurrent calls.
func (d *Backend) SetDefaultConfiguration(ctx context.Context, teamID, configID int64) (proto.SplitConfiguration, error) {
	var m models.SplitConfiguration
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if _, err := d.team(ctx, tx, teamID); err != nil {
			return err
		}
		var err error
		m, err = d.store.GetConfigurationByID(ctx, tx, configID)
		if errors.Is(err, db.ErrRecordNotFound) {
			return proto.ErrConfigurationNotFound
		}
		if err != nil {
			return err
		}
		if m.TeamID != teamID {
			return &proto.ConflictError{
				Reason: fmt.Sprintf("configuration %d does not belong to team %d", configID, teamID),
			}
		}
		return d.store.SetTeamDefaultConfiguration(ctx, tx, teamID, configID)
	}); err != nil {
		return proto.SplitConfiguration{}, err
	}

	d.logger.Info("default configuration set", "team", teamID, "configuration", configID)
	c, err := d.cacheConfiguration(m)
	c.IsDefault = true
	return c, err
}

// newConfigurationModel validates c and encodes it for storage.
func (d *Backend) newConfigurationModel(c proto.SplitConfiguration) (models.SplitConfiguration, error) {
	verrs, err := split.Validate(c.Model, c.Config)
	if err != nil {
		return models.SplitConfiguration{}, split.ValidationErrors{{Field: "model", Message: err.Error()}}
	}
	name := strings.TrimSpace(c.Name)
	if name == "" && c.ParentID == nil {
		verrs = append(verrs, split.ValidationError{Field: "name", Message: "is required"})
	}
	if verrs != nil {
		return models.SplitConfiguration{}, verrs
	}

	b, err := json.Marshal(c.Config)
	if err != nil {
		return models.SplitConfiguration{}, fmt.Errorf("encode configuration: %w", err)
	}
	m := models.SplitConfiguration{
		TeamID: c.TeamID,
		Name:   name,
		Model:  string(c.Model),
		Config: string(b),
	}
	if c.ParentID != nil {
		m.ParentID = sql.NullInt64{Int64: *c.ParentID, Valid: true}
	}
	return m, nil
}

// configuration loads a configuration through the cache.
func (d *Backend) configuration(ctx context.Context, h db.Handler, id int64) (proto.SplitConfiguration, error) {
	if c, ok := d.cache.Get(id); ok {
		return c, nil
	}
	m, err := d.store.GetConfigurationByID(ctx, h, id)
	if errors.Is(err, db.ErrRecordNotFound) {
		return proto.SplitConfiguration{}, proto.ErrConfigurationNotFound
	}
	if err != nil {
		return proto.SplitConfiguration{}, err
	}
	return d.cacheConfiguration(m)
}

func (d *Backend) cacheConfiguration(m models.SplitConfiguration) (proto.SplitConfiguration, error) {
	c, err := configurationFromModel(m)
	if err != nil {
		return proto.SplitConfiguration{}, err
	}
	d.cache.Set(c)
	return c, nil
}
