package cache

import "strings"

const (
	GlobalKeyPrefix = "soundbyte"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// SeedLockKey guards the initial data load across replicas.
func SeedLockKey() string {
	return GenerateCacheKey("seed", "lock", "initial-data")
}

// SeedStatusKey caches one instance's rendered seed status. The status
// carries process-local state, so replicas never share the entry.
func SeedStatusKey(instanceID string) string {
	return GenerateCacheKey("seed", "status", instanceID)
}
