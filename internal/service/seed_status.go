package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"sound-byte/internal/cache"
	"sound-byte/internal/domain"
	"sound-byte/internal/logger"
	"sound-byte/internal/seed"

	"go.uber.org/zap"
)

// SeedStatusProvider is implemented by *seed.Orchestrator.
type SeedStatusProvider interface {
	Status(ctx context.Context) (*seed.Status, error)
}

// SeedStatusService serves the seed status, caching settled results.
type SeedStatusService interface {
	GetStatus(ctx context.Context) (*seed.Status, error)
}

type seedStatusService struct {
	provider SeedStatusProvider
	cache    domain.Cache
	key      string
	ttl      time.Duration
}

// NewSeedStatusService wraps provider. Cached entries are keyed by
// instanceID. A nil cache disables caching.
func NewSeedStatusService(provider SeedStatusProvider, c domain.Cache, instanceID string, ttl time.Duration) SeedStatusService {
	return &seedStatusService{
		provider: provider,
		cache:    c,
		key:      cache.SeedStatusKey(instanceID),
		ttl:      ttl,
	}
}

func (s *seedStatusService) GetStatus(ctx context.Context) (*seed.Status, error) {
	key := s.key
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			var st seed.Status
			if jsonErr := json.Unmarshal([]byte(raw), &st); jsonErr == nil {
				return &st, nil
			}
			logger.Get().Warn("Discarding undecodable cached seed status", zap.String("key", key))
			if delErr := s.cache.Delete(ctx, key); delErr != nil {
				logger.Get().Warn("Failed to drop cached seed status", zap.Error(delErr))
			}
		case !errors.Is(err, domain.ErrCacheMiss):
			logger.Get().Warn("Seed status cache lookup failed", zap.Error(err))
		}
	}

	st, err := s.provider.Status(ctx)
	if err != nil {
		return nil, domain.NewInternalError("Failed to compute seed status", err)
	}

	if s.cache != nil && settled(st.State) {
		data, err := json.Marshal(st)
		if err == nil {
			err = s.cache.Set(ctx, key, string(data), s.ttl)
		}
		if err != nil {
			logger.Get().Warn("Failed to cache seed status", zap.Error(err))
		}
	}
	return st, nil
}

// settled states cannot change again within this process.
func settled(state seed.State) bool {
	switch state {
	case seed.StateDone, seed.StateSkipped, seed.StateFailed:
		return true
	}
	return false
}
