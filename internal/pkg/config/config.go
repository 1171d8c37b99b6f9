package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	JWTSecret string `env:"JWT_SECRET, required"`

	Log      LogConfig
	Remote   RemoteConfig
	Operator OperatorConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Audit    AuditConfig
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL,  default=info"`
	Pretty bool   `env:"LOG_PRETTY, default=false"`
	File   string `env:"LOG_FILE"`
}

// RemoteConfig points at the user registry REST API.
type RemoteConfig struct {
	URL   string `env:"REMOTE_API_URL,   required"`
	Token string `env:"REMOTE_API_TOKEN"`
	// Timeout of zero leaves remote calls unbounded.
	Timeout time.Duration `env:"REMOTE_API_TIMEOUT, default=0s"`
}

// OperatorConfig seeds the first admin operator on startup when both are set.
type OperatorConfig struct {
	Username string `env:"OPERATOR_USERNAME"`
	Password string `env:"OPERATOR_PASSWORD"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=user_admin"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type AuditConfig struct {
	Workers  int           `env:"AUDIT_WORKERS,      default=4"`
	DedupTTL time.Duration `env:"REGISTER_DEDUP_TTL, default=1m"`
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool { return c.Env == "production" }

// Load reads a .env file when present, then the environment. It panics on
// invalid configuration.
func Load() *Config {
	_ = godotenv.Load()
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration through lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	if cfg.Audit.Workers <= 0 {
		return nil, fmt.Errorf("AUDIT_WORKERS must be positive, got %d", cfg.Audit.Workers)
	}
	// Production always logs JSON.
	if cfg.IsProduction() {
		cfg.Log.Pretty = false
	}
	return &cfg, nil
}
