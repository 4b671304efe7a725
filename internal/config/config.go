package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/retry"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/server"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/state"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultEnvFile returns the credential file used when YFF_ENV_FILE is
// unset: ~/.yahoo-fantasy-mcp/.env, next to the state database. Hosts
// start the server from arbitrary working directories, so the default
// does not depend on one.
func DefaultEnvFile() (string, error) {
	statePath, err := state.DefaultPath()
	if err != nil {
		return "", err
	}

	return filepath.Join(filepath.Dir(statePath), ".env"), nil
}

// Config holds all environment-based configuration for the server and
// the auth CLI.
type Config struct {
	// Credential file. Also loaded into the process environment at startup.
	// Defaults to ~/.yahoo-fantasy-mcp/.env.
	EnvFile string `env:"YFF_ENV_FILE"`

	// Environment controls log format
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Token metadata database. Defaults to ~/.yahoo-fantasy-mcp/state.db.
	StatePath string `env:"YFF_STATE_PATH"`

	// Outbound HTTP behaviour for Yahoo, Reddit, and the token endpoint.
	HTTPTimeout          time.Duration `env:"YFF_HTTP_TIMEOUT" envDefault:"30s"`
	RetryMaxTries        uint          `env:"YFF_RETRY_MAX_TRIES" envDefault:"3"`
	RetryInitialInterval time.Duration `env:"YFF_RETRY_INITIAL_INTERVAL" envDefault:"500ms"`
	APIRate              float64       `env:"YFF_API_RATE" envDefault:"4"`

	// mcpServers entry names updated by host config sync.
	ServerNames []string `env:"YFF_SERVER_NAMES" envSeparator:"," envDefault:"fantasy-football,yahoo-fantasy-football"`

	// HTTP transport. Empty ListenAddr means stdio.
	ListenAddr string `env:"YFF_LISTEN_ADDR"`
	APIKeys    string `env:"YFF_API_KEYS"`

	Subreddit string `env:"YFF_SUBREDDIT" envDefault:"fantasyfootball"`
}

// Load reads configuration from environment variables. envFile overrides
// YFF_ENV_FILE when non-empty. The file is loaded into the environment
// first without overriding variables that are already set.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = os.Getenv("YFF_ENV_FILE")
	}
	if envFile == "" {
		p, err := DefaultEnvFile()
		if err != nil {
			return nil, err
		}

		envFile = p
	}

	_ = godotenv.Load(envFile)

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.EnvFile = envFile

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	// Resolve paths now so that later working directory changes and log
	// lines refer to the same files.
	absEnv, err := filepath.Abs(cfg.EnvFile)
	if err != nil {
		return nil, fmt.Errorf("resolving env file path: %w", err)
	}

	cfg.EnvFile = absEnv

	if cfg.StatePath == "" {
		p, err := state.DefaultPath()
		if err != nil {
			return nil, err
		}

		cfg.StatePath = p
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("YFF_HTTP_TIMEOUT must be positive")
	}

	if c.RetryMaxTries == 0 {
		return fmt.Errorf("YFF_RETRY_MAX_TRIES must be at least 1")
	}

	if c.APIRate <= 0 {
		return fmt.Errorf("YFF_API_RATE must be positive")
	}

	if c.ListenAddr != "" && c.APIKeys == "" {
		return fmt.Errorf("YFF_API_KEYS is required when YFF_LISTEN_ADDR is set")
	}

	return nil
}

// IsProduction returns true when the environment is set to production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// RetryPolicy returns the retry bounds for outbound calls.
func (c *Config) RetryPolicy() retry.Policy {
	return retry.Policy{
		MaxTries:        c.RetryMaxTries,
		InitialInterval: c.RetryInitialInterval,
	}
}

// ParseAPIKeys parses the YFF_API_KEYS string.
// Format: "user1:yff_key1,user2:yff_key2"
func (c *Config) ParseAPIKeys() ([]server.APIKey, error) {
	if c.APIKeys == "" {
		return nil, nil
	}

	seenUsers := make(map[string]struct{})

	var entries []server.APIKey

	for _, pair := range strings.Split(c.APIKeys, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		idx := strings.Index(pair, ":")
		if idx < 0 {
			return nil, fmt.Errorf("invalid API key entry (missing ':')")
		}

		userID := pair[:idx]

		key := pair[idx+1:]
		if userID == "" || key == "" {
			return nil, fmt.Errorf("empty user or key in entry %d", len(entries)+1)
		}

		if !strings.HasPrefix(key, server.APIKeyPrefix) {
			return nil, fmt.Errorf("API key must start with %q prefix in entry %d", server.APIKeyPrefix, len(entries)+1)
		}

		if len(key) < server.APIKeyMinLen {
			return nil, fmt.Errorf("API key too short in entry %d (minimum %d characters)", len(entries)+1, server.APIKeyMinLen)
		}

		suffix := key[len(server.APIKeyPrefix):]
		if _, err := hex.DecodeString(suffix); err != nil {
			return nil, fmt.Errorf("API key contains non-hex characters after %q prefix in entry %d", server.APIKeyPrefix, len(entries)+1)
		}

		if _, dup := seenUsers[userID]; dup {
			return nil, fmt.Errorf("duplicate user_id %q in YFF_API_KEYS", userID)
		}

		seenUsers[userID] = struct{}{}
		entries = append(entries, server.APIKey{UserID: userID, Key: key})
	}

	return entries, nil
}
