package cmd

import (
	"fmt"

	"schema-sentinel/core/config"
	"schema-sentinel/core/database"
	"schema-sentinel/core/kvstore"
	"schema-sentinel/core/logger"
	"schema-sentinel/core/resolve"
	"schema-sentinel/core/snapshot"
	"schema-sentinel/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime is what every command needs: configuration, logger and the baseline store.
type runtime struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    snapshot.Store
	db       *gorm.DB
	resolver *resolve.Resolver
	closers  []func() error
}

func (r *runtime) Close() {
	for _, c := range r.closers {
		_ = c()
	}
	_ = r.logger.Sync()
}

// setup loads the configuration and opens the configured baseline store.
func setup() (*runtime, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if baseDir != "" {
		cfg.Track.BaseDir = baseDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	rt := &runtime{
		cfg:      cfg,
		logger:   l,
		resolver: resolve.NewResolver(cfg.Track.BaseDir, cfg.Track.Workers, l),
	}

	deps, err := rt.connect()
	if err != nil {
		rt.Close()
		return nil, err
	}

	store, err := snapshot.New(cfg.Snapshot, deps)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to create baseline store: %w", err)
	}
	rt.store = store

	l.Debug("Baseline store ready", zap.String("backend", cfg.Snapshot.Backend))
	return rt, nil
}

// connect opens only the connection the configured backend uses.
func (r *runtime) connect() (snapshot.Deps, error) {
	var deps snapshot.Deps

	switch r.cfg.Snapshot.Backend {
	case snapshot.BackendSQL:
		db, err := database.Connect(r.cfg.Database)
		if err != nil {
			return deps, fmt.Errorf("failed to connect to database: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			r.closers = append(r.closers, sqlDB.Close)
		}
		r.db = db
		deps.DB = db
	case snapshot.BackendObject:
		client, err := storage.NewClient(r.cfg.Storage)
		if err != nil {
			return deps, fmt.Errorf("failed to connect to storage: %w", err)
		}
		deps.Storage = client
		deps.Bucket = r.cfg.Storage.Bucket
	case snapshot.BackendRedis:
		client, err := kvstore.Connect(r.cfg.Redis)
		if err != nil {
			return deps, fmt.Errorf("failed to connect to redis: %w", err)
		}
		r.closers = append(r.closers, client.Close)
		deps.Redis = client
	}

	return deps, nil
}
