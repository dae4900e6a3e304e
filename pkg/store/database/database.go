// Package database implements store.Store on top of a SQL database.
package database

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/hirewell/revshare/pkg/store"
)

type datastore struct {
	logger *log.Logger

	*teamStore
	*configurationStore
	*placementStore
}

var _ store.Store = (*datastore)(nil)

// New returns a new database backed store.Store.
func New(ctx context.Context) store.Store {
	logger := log.FromContext(ctx).WithPrefix("store")
	return &datastore{
		logger: logger,

		teamStore:          &teamStore{},
		configurationStore: &configurationStore{},
		placementStore:     &placementStore{logger: logger},
	}
}
