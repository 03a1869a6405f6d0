package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"marketplace/internal/cache"
	"marketplace/internal/database"
	"marketplace/internal/external"
	"marketplace/internal/messaging"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	Platform PlatformConfig
	Auth     AuthConfig

	// Storage selects the store backend: "postgres" or "memory"
	Storage       string
	Database      database.Config
	NATS          messaging.Config
	Redis         cache.Config
	Elasticsearch ElasticsearchConfig
	Holdings      external.HoldingsConfig
}

// PlatformConfig seeds the platform singleton on first start
type PlatformConfig struct {
	Admin            string
	FeeBasisPoints   int64
	CurrencyDecimals int32
}

type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

// LoadEnv loads variables from a .env file if one is present
func LoadEnv() {
	for _, path := range []string{".env", "../.env"} {
		if err := godotenv.Load(path); err == nil {
			slog.Info("Loaded environment variables", "path", path)
			return
		}
	}
}

// Load reads the configuration from environment variables
func Load() *Config {
	LoadEnv()

	return &Config{
		Port:           getEnv("PORT", "8081"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,

		Platform: PlatformConfig{
			Admin:            getEnv("PLATFORM_ADMIN", "admin"),
			FeeBasisPoints:   int64(getEnvInt("PLATFORM_FEE_BPS", 250)),
			CurrencyDecimals: int32(getEnvInt("CURRENCY_DECIMALS", 2)),
		},

		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "change-me"),
			Issuer:    getEnv("JWT_ISSUER", ""),
		},

		Storage: getEnv("STORAGE", "postgres"),

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "marketplace"),
			Password:           getEnv("DB_PASSWORD", "marketplace"),
			DBName:             getEnv("DB_NAME", "marketplace"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			Enabled:   getEnv("NATS_ENABLED", "true") == "true",
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "marketplace"),
			ClientID:  getEnv("NATS_CLIENT_ID", "marketplace-api"),
		},

		Redis: cache.Config{
			Enabled:   getEnv("REDIS_ENABLED", "true") == "true",
			Addr:      getEnv("REDIS_ADDR", "localhost:6379"),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getEnvInt("REDIS_DB", 0),
			TicketTTL: time.Duration(getEnvInt("TICKET_CACHE_TTL_SEC", 300)) * time.Second,
		},

		Elasticsearch: LoadElasticsearchConfig(),

		Holdings: external.HoldingsConfig{
			Enabled: getEnv("HOLDINGS_ENABLED", "false") == "true",
			BaseURL: getEnv("HOLDINGS_SERVICE_URL", "http://localhost:8090"),
			APIKey:  getEnv("HOLDINGS_API_KEY", ""),
			Timeout: time.Duration(getEnvInt("HOLDINGS_TIMEOUT_SEC", 5)) * time.Second,
		},
	}
}

// getEnv returns the environment variable or the default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer environment variable or the default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
