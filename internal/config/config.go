package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the server settings read from the environment
type Config struct {
	Port    string `envconfig:"PORT" default:"8080"`
	AppEnv  string `envconfig:"APP_ENV" default:"development"`
	AppName string `envconfig:"APP_NAME" default:"Chatroom API v1.0"`

	// Empty DATABASE_URL runs the server on the in-memory store
	DatabaseURL string `envconfig:"DATABASE_URL"`

	SessionSecret string `envconfig:"SESSION_SECRET" required:"true"`
	LoginPath     string `envconfig:"LOGIN_PATH" default:"/"`
	CORSOrigins   string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`

	// Empty NATS_URL disables event publishing
	NATSURL           string `envconfig:"NATS_URL"`
	NATSStream        string `envconfig:"NATS_STREAM" default:"CHAT_MESSAGES"`
	NATSSubjectPrefix string `envconfig:"NATS_SUBJECT_PREFIX" default:"chat.messages"`
}

// Load reads .env (if present) and then the process environment.
// It reports whether a .env file was found.
func Load() (Config, bool, error) {
	foundEnvFile := godotenv.Load() == nil

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, foundEnvFile, fmt.Errorf("failed to read configuration: %w", err)
	}

	if !strings.HasPrefix(cfg.LoginPath, "/") {
		return Config{}, foundEnvFile, fmt.Errorf("LOGIN_PATH must start with /, got %q", cfg.LoginPath)
	}

	return cfg, foundEnvFile, nil
}

// UsesMemoryStore reports whether no database is configured
func (c Config) UsesMemoryStore() bool {
	return c.DatabaseURL == ""
}

// IsDevelopment reports whether the server runs in a development environment
func (c Config) IsDevelopment() bool {
	return c.AppEnv == "development" || c.AppEnv == "dev"
}
