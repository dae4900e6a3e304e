// Package store declares the persistence interfaces of the engine. Every
// method takes a db.Handler so callers decide whether it runs inside a
// transaction.
package store

// Store is the complete revshare store.
type Store interface {
	TeamStore
	ConfigurationStore
	PlacementStore
}
