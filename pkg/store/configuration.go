package store

import (
	"context"

	"github.com/hirewell/revshare/pkg/db"
	"github.com/hirewell/revshare/pkg/db/models"
)

// ConfigurationStore is a store for split configurations.
type ConfigurationStore interface {
	CreateConfiguration(ctx context.Context, h db.Handler, cfg models.SplitConfiguration) (models.SplitConfiguration, error)
	GetConfigurationByID(ctx context.Context, h db.Handler, id int64) (models.SplitConfiguration, error)
	GetDefaultConfiguration(ctx context.Context, h db.Handler, team int64) (models.SplitConfiguration, error)
	ListConfigurations(ctx context.Context, h db.Handler, team int64) ([]models.SplitConfiguration, error)
}
