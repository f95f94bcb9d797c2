package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("PGSQL_URL", "postgres://localhost/ledger")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorePostgres, cfg.LedgerStore)
	assert.Equal(t, "postgres://localhost/ledger", cfg.DatabaseURL)
	assert.Equal(t, 5*time.Second, cfg.DBLockTimeout)
	assert.Equal(t, 1024, cfg.QueueCapacity)
	assert.Equal(t, 4, cfg.QueueWorkers)
	assert.Equal(t, 3, cfg.QueueMaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.QueueRetryBackoff)
	assert.Equal(t, "keys", cfg.KeysDir)
	assert.Equal(t, "600-M", cfg.WebhookRateLimit)
	assert.Empty(t, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_Overrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("LEDGER_STORE", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/l.db")
	t.Setenv("QUEUE_WORKERS", "9")
	t.Setenv("QUEUE_CAPACITY", "-1")
	t.Setenv("QUEUE_RETRY_BACKOFF", "nonsense")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("INTERNAL_BANK_CODE", "LEDGSA")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StoreSQLite, cfg.LedgerStore)
	assert.Equal(t, "/tmp/l.db", cfg.SQLitePath)
	assert.Equal(t, 9, cfg.QueueWorkers)
	assert.Equal(t, 1024, cfg.QueueCapacity)
	assert.Equal(t, 500*time.Millisecond, cfg.QueueRetryBackoff)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "LEDGSA", cfg.InternalBankCode)
}
