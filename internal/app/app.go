// Package app wires configuration into repositories, locks and the seed
// orchestrator for the binaries under cmd/.
package app

import (
	"context"
	"fmt"

	"sound-byte/internal/adapter"
	"sound-byte/internal/cache"
	"sound-byte/internal/config"
	"sound-byte/internal/database"
	"sound-byte/internal/domain"
	"sound-byte/internal/ingest"
	"sound-byte/internal/repository"
	"sound-byte/internal/repository/memory"
	"sound-byte/internal/seed"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Storage is the selected persistence backend.
type Storage struct {
	Backend        string
	Sink           seed.Sink
	Authorities    domain.AuthorityRepository
	Accounts       domain.AccountRepository
	StudyHistories domain.StudyHistoryRepository
	Tx             domain.TransactionManager
	// Ping is nil for the in-memory backend.
	Ping  func(ctx context.Context) error
	Close func() error
}

// OpenStorage connects to Oracle, or builds an in-memory store when
// cfg.Storage is "memory".
func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		store := memory.NewStore()
		return &Storage{
			Backend: config.StorageMemory,
			Sink: seed.Sink{
				Groups:    store.Groups(),
				Series:    store.Series(),
				Exercises: store.Exercises(),
				Tasks:     store.Tasks(),
				Resources: store.Resources(),
			},
			Authorities:    store.Authorities(),
			Accounts:       store.Accounts(),
			StudyHistories: store.StudyHistories(),
			Tx:             store,
			Close:          func() error { return nil },
		}, nil

	case config.StorageOracle:
		db, err := database.NewSQLXOracleDB(ctx, cfg.GetDSN())
		if err != nil {
			return nil, err
		}
		return &Storage{
			Backend: config.StorageOracle,
			Sink: seed.Sink{
				Groups:    repository.NewGroupDatabaseAdapter(db),
				Series:    repository.NewSeriesDatabaseAdapter(db),
				Exercises: repository.NewExerciseDatabaseAdapter(db),
				Tasks:     repository.NewTaskDatabaseAdapter(db),
				Resources: repository.NewResourceDatabaseAdapter(db),
			},
			Authorities:    repository.NewAuthorityDatabaseAdapter(db),
			Accounts:       repository.NewAccountDatabaseAdapter(db),
			StudyHistories: repository.NewStudyHistoryDatabaseAdapter(db),
			Tx:             repository.NewTransactionManagerAdapter(db),
			Ping:           db.PingContext,
			Close:          db.Close,
		}, nil
	}
	return nil, fmt.Errorf("unsupported storage backend %q", cfg.Storage)
}

// OpenRedis returns nil when no redis address is configured.
func OpenRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if cfg.Redis.Address == "" {
		return nil, nil
	}
	return cache.NewRedisClient(ctx, cfg.Redis)
}

// NewSeedLock picks the redis lock when a client is available so replicas
// share it, and a process-local lock otherwise.
func NewSeedLock(client *redis.Client, cfg *config.Config, log *zap.Logger) domain.SeedLock {
	if client == nil {
		return adapter.NewLocalSeedLock()
	}
	return adapter.NewRedisSeedLock(client, cache.SeedLockKey(), cfg.Seed.LockTTL, log)
}

// NewOrchestrator builds the bootstrapper and the seed orchestrator over st.
func NewOrchestrator(cfg *config.Config, st *Storage, lock domain.SeedLock, log *zap.Logger, opts ...seed.Option) (*seed.Orchestrator, error) {
	boot := seed.NewBootstrapper(
		st.Authorities,
		st.Accounts,
		st.Tx,
		seed.DefaultAccounts(cfg.Accounts.AdminPassword, cfg.Accounts.DefaultPassword),
		log,
	)
	return seed.NewOrchestrator(seed.Options{
		Folder:            cfg.Seed.Folder,
		Format:            ingest.Format(cfg.Seed.Format),
		RowPolicy:         ingest.RowPolicy(cfg.Seed.RowPolicy),
		SingleTransaction: cfg.Seed.SingleTransaction,
		Disabled:          !cfg.Seed.Enabled,
	}, st.Sink, st.Tx, lock, boot, log, opts...)
}
