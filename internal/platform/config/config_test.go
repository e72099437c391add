package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookup(env map[string]string) func(string) string {
	return func(key string) string { return env[key] }
}

func TestFromLookup_Defaults(t *testing.T) {
	cfg, err := fromLookup(lookup(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 35*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, StoreMemory, cfg.Store.Backend)
	assert.Equal(t, "accountdesk", cfg.Store.MongoDatabase)
	assert.Equal(t, time.Minute, cfg.Store.NameCacheTTL)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.Assignment.Lock)
}

func TestFromLookup_Overrides(t *testing.T) {
	cfg, err := fromLookup(lookup(map[string]string{
		"ACCOUNTDESK_STORE":            "Postgres",
		"ACCOUNTDESK_POSTGRES_URL":     "postgres://localhost/accountdesk",
		"ACCOUNTDESK_KAFKA_BROKERS":    "k1:9092, k2:9092,",
		"ACCOUNTDESK_REDIS_POOL_SIZE":  "20",
		"ACCOUNTDESK_ASSIGN_LOCK":      "true",
		"ACCOUNTDESK_ASSIGN_LOCK_WAIT": "500ms",
		"ACCOUNTDESK_ASSIGN_TX":        "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, StorePostgres, cfg.Store.Backend)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 20, cfg.Redis.PoolSize)
	assert.True(t, cfg.Assignment.Lock)
	assert.Equal(t, 500*time.Millisecond, cfg.Assignment.LockWait)
	assert.True(t, cfg.Assignment.Transactional)
}

func TestFromLookup_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{name: "bad duration", env: map[string]string{"ACCOUNTDESK_NAME_CACHE_TTL": "soon"}, wantErr: "ACCOUNTDESK_NAME_CACHE_TTL"},
		{name: "bad bool", env: map[string]string{"ACCOUNTDESK_ASSIGN_LOCK": "maybe"}, wantErr: "ACCOUNTDESK_ASSIGN_LOCK"},
		{name: "unknown backend", env: map[string]string{"ACCOUNTDESK_STORE": "sqlite"}, wantErr: "unknown store backend"},
		{name: "postgres without url", env: map[string]string{"ACCOUNTDESK_STORE": "postgres"}, wantErr: "ACCOUNTDESK_POSTGRES_URL"},
		{name: "mongo without uri", env: map[string]string{"ACCOUNTDESK_STORE": "mongo"}, wantErr: "ACCOUNTDESK_MONGO_URI"},
		{name: "tx on memory", env: map[string]string{"ACCOUNTDESK_ASSIGN_TX": "true"}, wantErr: "ACCOUNTDESK_ASSIGN_TX"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fromLookup(lookup(tt.env))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
