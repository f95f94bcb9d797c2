package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends selectable with LEDGER_STORE.
const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	LedgerStore       string
	SQLitePath        string
	MigrationsPath    string
	DBLockTimeout     time.Duration
	DBMaxConns        int
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Webhook gateway
	KeysDir           string
	WebhookRateLimit  string
	QueueCapacity     int
	QueueWorkers      int
	QueueMaxAttempts  int
	QueueRetryBackoff time.Duration

	// Payment documents
	InternalBankCode string

	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("LEDGER_STORE", StorePostgres)
	viper.SetDefault("SQLITE_PATH", "ledger.db")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("DB_LOCK_TIMEOUT", "5s")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "bank-webhook-ledger")
	viper.SetDefault("KEYS_DIR", "keys")
	viper.SetDefault("WEBHOOK_RATE_LIMIT", "600-M")
	viper.SetDefault("QUEUE_CAPACITY", 1024)
	viper.SetDefault("QUEUE_WORKERS", 4)
	viper.SetDefault("QUEUE_MAX_ATTEMPTS", 3)
	viper.SetDefault("QUEUE_RETRY_BACKOFF", "500ms")
	viper.SetDefault("INTERNAL_BANK_CODE", "LEDGER")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "")
	viper.SetDefault("SHUTDOWN_TIMEOUT", "15s")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.LedgerStore = strings.ToLower(viper.GetString("LEDGER_STORE"))
	if cfg.LedgerStore != StorePostgres && cfg.LedgerStore != StoreSQLite {
		log.Printf("Warning: Unknown LEDGER_STORE ('%s'). Defaulting to %s.\n", cfg.LedgerStore, StorePostgres)
		cfg.LedgerStore = StorePostgres
	}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" && cfg.LedgerStore == StorePostgres {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "bank-webhook-ledger"
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", cfg.JWTIssuer)
	}

	cfg.JWTExpiryDuration = durationOr("JWT_EXPIRY_DURATION", time.Hour)
	cfg.DBLockTimeout = durationOr("DB_LOCK_TIMEOUT", 5*time.Second)
	cfg.QueueRetryBackoff = durationOr("QUEUE_RETRY_BACKOFF", 500*time.Millisecond)
	cfg.ShutdownTimeout = durationOr("SHUTDOWN_TIMEOUT", 15*time.Second)

	cfg.QueueCapacity = positiveOr("QUEUE_CAPACITY", 1024)
	cfg.QueueWorkers = positiveOr("QUEUE_WORKERS", 4)
	cfg.QueueMaxAttempts = positiveOr("QUEUE_MAX_ATTEMPTS", 3)
	cfg.DBMaxConns = positiveOr("DB_MAX_CONNS", 10)

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.SQLitePath = viper.GetString("SQLITE_PATH")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")
	cfg.KeysDir = viper.GetString("KEYS_DIR")
	cfg.WebhookRateLimit = viper.GetString("WEBHOOK_RATE_LIMIT")
	cfg.InternalBankCode = viper.GetString("INTERNAL_BANK_CODE")

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}

func durationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}

func positiveOr(key string, fallback int) int {
	n := viper.GetInt(key)
	if n <= 0 {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %d.\n", key, viper.GetString(key), fallback)
		return fallback
	}
	return n
}
