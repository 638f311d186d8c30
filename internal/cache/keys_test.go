package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCacheKey(t *testing.T) {
	tests := []struct {
		name        string
		serviceName string
		objectType  string
		identifier  string
		paramsKey   []string
		expectedKey string
	}{
		{
			name:        "without paramsKey",
			serviceName: "seed",
			objectType:  "lock",
			identifier:  "initial-data",
			expectedKey: "soundbyte:seed:lock:initial-data",
		},
		{
			name:        "with empty paramsKey",
			serviceName: "seed",
			objectType:  "status",
			identifier:  "current",
			paramsKey:   []string{},
			expectedKey: "soundbyte:seed:status:current",
		},
		{
			name:        "with multiple paramsKey",
			serviceName: "exercise",
			objectType:  "tasks",
			identifier:  "3",
			paramsKey:   []string{"level1", "ru"},
			expectedKey: "soundbyte:exercise:tasks:3:level1_ru",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedKey, GenerateCacheKey(tt.serviceName, tt.objectType, tt.identifier, tt.paramsKey...))
		})
	}
}

func TestSeedKeys(t *testing.T) {
	assert.Equal(t, "soundbyte:seed:lock:initial-data", SeedLockKey())
	assert.Equal(t, "soundbyte:seed:status:node-a", SeedStatusKey("node-a"))
	assert.NotEqual(t, SeedStatusKey("node-a"), SeedStatusKey("node-b"))
}
