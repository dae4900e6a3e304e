// Package backend is the revshare engine surface. It resolves
// configurations and contributors, runs the split calculator, commits
// split sets atomically and computes team analytics.
package backend

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/hirewell/revshare/pkg/config"
	"github.com/hirewell/revshare/pkg/db"
	"github.com/hirewell/revshare/pkg/split"
	"github.com/hirewell/revshare/pkg/store"
	"golang.org/x/sync/singleflight"
)

// Backend is the revshare backend.
type Backend struct {
	ctx    context.Context
	cfg    *config.Config
	db     *db.DB
	store  store.Store
	logger *log.Logger
	cache  *cache
	flight singleflight.Group
	policy split.EmptyTierPolicy

	members     MembershipProvider
	weights     WeightSource
	credits     StageCreditSource
	placements  PlacementSource
	submissions SubmissionSource
}

// Option customizes a Backend.
type Option func(*Backend)

// WithMembershipProvider replaces the database membership provider.
func WithMembershipProvider(p MembershipProvider) Option {
	return func(b *Backend) { b.members = p }
}

// WithWeightSource replaces the database contribution weight source.
func WithWeightSource(s WeightSource) Option {
	return func(b *Backend) { b.weights = s }
}

// WithStageCreditSource replaces the database stage credit source.
func WithStageCreditSource(s StageCreditSource) Option {
	return func(b *Backend) { b.credits = s }
}

// WithPlacementSource replaces the database placement metadata source.
func WithPlacementSource(s PlacementSource) Option {
	return func(b *Backend) { b.placements = s }
}

// WithSubmissionSource replaces the database submissions source.
func WithSubmissionSource(s SubmissionSource) Option {
	return func(b *Backend) { b.submissions = s }
}

// New returns a new revshare backend. External sources default to the
// database.
func New(ctx context.Context, cfg *config.Config, db *db.DB, st store.Store, opts ...Option) *Backend {
	logger := log.FromContext(ctx).WithPrefix("backend")
	b := &Backend{
		ctx:    ctx,
		cfg:    cfg,
		db:     db,
		store:  st,
		logger: logger,
		policy: split.EmptyTierPolicy(cfg.Split.EmptyTierPolicy),
	}
	if !b.policy.Valid() {
		b.policy = split.RejectEmptyTiers
	}

	src := &dbSource{b}
	b.members = src
	b.weights = src
	b.credits = src
	b.placements = src
	b.submissions = src
	for _, opt := range opts {
		opt(b)
	}

	b.cache = newCache(cfg.Split.CacheSize)

	return b
}

// DB returns the backend database.
func (d *Backend) DB() *db.DB {
	return d.db
}

// Config returns the backend configuration.
func (d *Backend) Config() *config.Config {
	return d.cfg
}
