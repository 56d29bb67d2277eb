package config

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
)

const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"
	BackendRedis  = "redis"
)

type Config struct {
	Port           string        `env:"PORT,            default=3000"`
	Env            string        `env:"ENV,             default=development"`
	LogLevel       string        `env:"LOG_LEVEL,       default=info"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT, default=10s"`
	PublicDir      string        `env:"PUBLIC_DIR,      default=public"`
	MetricsEnabled bool          `env:"METRICS_ENABLED, default=true"`

	Session  SessionConfig
	Auth     AuthConfig
	Analysis AnalysisConfig
	Mongo    MongoConfig
	Redis    RedisConfig
}

type SessionConfig struct {
	Secret       string        `env:"SESSION_SECRET, required"`
	TTL          time.Duration `env:"SESSION_TTL,           default=24h"`
	CookieName   string        `env:"SESSION_COOKIE_NAME,   default=connect.sid"`
	CookieSecure bool          `env:"SESSION_COOKIE_SECURE, default=true"`
	Backend      string        `env:"SESSION_BACKEND,       default=redis"`
}

type AuthConfig struct {
	UserBackend string `env:"USER_BACKEND, default=mongo"`
	BcryptCost  int    `env:"BCRYPT_COST,  default=10"`
	HashWorkers int    `env:"HASH_WORKERS, default=0"`
}

type AnalysisConfig struct {
	GraphURL string `env:"ANALYSIS_GRAPH_URL, default=/graphs/sample.png"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=violenceDetection"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// IsDevelopment reports whether the service runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(logger zerolog.Logger) *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	return cfg
}

// LoadWith reads configuration from the given lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, err
	}
	return &cfg, nil
}
