package adapter

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sound-byte/internal/domain"
	"sound-byte/internal/util"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// releaseScript deletes the key only while it still holds our token, so an
// expired lock taken over by another replica is left alone.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// RedisSeedLock implements domain.SeedLock with SET NX PX.
type RedisSeedLock struct {
	client   redis.Cmdable
	key      string
	ttl      time.Duration
	log      *zap.Logger
	newToken func() string
}

func NewRedisSeedLock(client redis.Cmdable, key string, ttl time.Duration, log *zap.Logger) domain.SeedLock {
	return &RedisSeedLock{client: client, key: key, ttl: ttl, log: log, newToken: util.NewULID}
}

func (l *RedisSeedLock) Acquire(ctx context.Context) (func(context.Context) error, bool, error) {
	token := l.newToken()
	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire seed lock %s: %w", l.key, err)
	}
	if !ok {
		l.log.Info("Seed lock held by another instance", zap.String("key", l.key))
		return nil, false, nil
	}

	release := func(ctx context.Context) error {
		n, err := l.client.Eval(ctx, releaseScript, []string{l.key}, token).Int64()
		if err != nil {
			return fmt.Errorf("failed to release seed lock %s: %w", l.key, err)
		}
		if n == 0 {
			l.log.Warn("Seed lock expired before release", zap.String("key", l.key), zap.Duration("ttl", l.ttl))
		}
		return nil
	}
	return release, true, nil
}

// LocalSeedLock serialises seed passes within one process. It is used when
// no redis is configured.
type LocalSeedLock struct {
	mu sync.Mutex
}

func NewLocalSeedLock() domain.SeedLock {
	return &LocalSeedLock{}
}

func (l *LocalSeedLock) Acquire(ctx context.Context) (func(context.Context) error, bool, error) {
	if !l.mu.TryLock() {
		return nil, false, nil
	}
	return func(context.Context) error {
		l.mu.Unlock()
		return nil
	}, true, nil
}
