package config

import (
	"errors"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "BUDGET_"

var (
	ErrMissingAuthSecret = errors.New("auth.secret is required (BUDGET_AUTH_SECRET)")
	ErrInvalidSessionTTL = errors.New("session.ttl must be positive")
)

type Config struct {
	Postgres     PostgresConfig     `koanf:"postgres"`
	Server       ServerConfig       `koanf:"server"`
	Auth         AuthConfig         `koanf:"auth"`
	Operator     OperatorConfig     `koanf:"operator"`
	Session      SessionConfig      `koanf:"session"`
	Materializer MaterializerConfig `koanf:"materializer"`
	Log          LogConfig          `koanf:"log"`
}

type PostgresConfig struct {
	Address  string `koanf:"address"`
	Port     string `koanf:"port"`
	DB       string `koanf:"db"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

// ConnectionString builds the lib/pq DSN for the configured database.
func (p PostgresConfig) ConnectionString() string {
	return "postgres://" + p.Username + ":" + p.Password + "@" + p.Address + ":" +
		p.Port + "/" + p.DB + "?sslmode=disable"
}

type ServerConfig struct {
	Port              string        `koanf:"port"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
}

type AuthConfig struct {
	Secret   string        `koanf:"secret"`
	TokenTTL time.Duration `koanf:"token_ttl"`
}

type OperatorConfig struct {
	Workers   int `koanf:"workers"`
	QueueSize int `koanf:"queue_size"`
}

type SessionConfig struct {
	TTL time.Duration `koanf:"ttl"`
}

type MaterializerConfig struct {
	Timezone        string `koanf:"timezone"`
	TimestampPolicy string `koanf:"timestamp_policy"`
	LegacyMatch     bool   `koanf:"legacy_match"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

// In all cases the default behavior should be for the docker compose setup
func defaults() map[string]interface{} {
	return map[string]interface{}{
		"postgres.address":              "localhost",
		"postgres.port":                 "5433",
		"postgres.db":                   "postgres",
		"postgres.username":             "postgres",
		"postgres.password":             "testpassword",
		"server.port":                   "9446",
		"server.read_timeout":           "30s",
		"server.write_timeout":          "30s",
		"server.idle_timeout":           "10s",
		"server.read_header_timeout":    "10s",
		"auth.token_ttl":                "24h",
		"operator.workers":              4,
		"operator.queue_size":           1000,
		"session.ttl":                   "12h",
		"materializer.timezone":         "UTC",
		"materializer.timestamp_policy": "now",
		"materializer.legacy_match":     true,
		"log.level":                     "info",
	}
}

// Load layers defaults, an optional YAML file and BUDGET_* environment
// variables, in that order. BUDGET_POSTGRES_ADDRESS maps to postgres.address.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, err
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", envKey), nil)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server must not start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return ErrMissingAuthSecret
	}
	if c.Session.TTL <= 0 {
		return ErrInvalidSessionTTL
	}
	return nil
}

// envKey turns BUDGET_SECTION_SOME_KEY into section.some_key.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.Replace(key, "_", ".", 1)
}
