package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Oracle    OracleConfig    `yaml:"oracle"`
	Session   SessionConfig   `yaml:"session"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type ServerConfig struct {
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
	// Timezone decides which calendar day "today" is. Defaults to Local.
	Timezone string `yaml:"timezone"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// OracleConfig selects the text-completion backend used for plan parsing and coaching.
type OracleConfig struct {
	Provider    string        `yaml:"provider"`
	BaseURL     string        `yaml:"base_url"`
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"api_key"`
	Timeout     time.Duration `yaml:"timeout"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
}

// SessionConfig chooses where the active workout session lives between requests.
type SessionConfig struct {
	Store    string `yaml:"store"`
	StateDir string `yaml:"state_dir"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// Session store kinds.
const (
	SessionStoreMemory = "memory"
	SessionStoreSQLite = "sqlite"
)

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Location resolves the configured timezone.
func (s ServerConfig) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(s.Timezone)
}

// Load reads config from a YAML file, loads an optional .env file next to the working
// directory, then applies environment variable overrides.
// Env vars use the prefix HYROX_ and underscore-separated paths:
//
//	HYROX_SERVER_HOST, HYROX_SERVER_PORT, HYROX_SERVER_TIMEZONE,
//	HYROX_DB_HOST, HYROX_DB_PORT, HYROX_DB_NAME,
//	HYROX_DB_USER, HYROX_DB_PASSWORD, HYROX_DB_SSLMODE,
//	HYROX_AUTH_API_KEY,
//	HYROX_ORACLE_PROVIDER, HYROX_ORACLE_BASE_URL, HYROX_ORACLE_MODEL,
//	HYROX_ORACLE_API_KEY, HYROX_ORACLE_TIMEOUT,
//	HYROX_SESSION_STORE, HYROX_SESSION_STATE_DIR,
//	HYROX_TAILSCALE_ENABLED
//
// OPENAI_API_KEY and ANTHROPIC_API_KEY are used when no oracle key is configured.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HYROX_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("HYROX_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("HYROX_SERVER_TIMEZONE"); v != "" {
		cfg.Server.Timezone = v
	}
	if v := os.Getenv("HYROX_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("HYROX_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("HYROX_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("HYROX_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("HYROX_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("HYROX_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("HYROX_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("HYROX_ORACLE_PROVIDER"); v != "" {
		cfg.Oracle.Provider = v
	}
	if v := os.Getenv("HYROX_ORACLE_BASE_URL"); v != "" {
		cfg.Oracle.BaseURL = v
	}
	if v := os.Getenv("HYROX_ORACLE_MODEL"); v != "" {
		cfg.Oracle.Model = v
	}
	if v := os.Getenv("HYROX_ORACLE_API_KEY"); v != "" {
		cfg.Oracle.APIKey = v
	}
	if v := os.Getenv("HYROX_ORACLE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Oracle.Timeout = d
		}
	}
	if v := os.Getenv("HYROX_SESSION_STORE"); v != "" {
		cfg.Session.Store = v
	}
	if v := os.Getenv("HYROX_SESSION_STATE_DIR"); v != "" {
		cfg.Session.StateDir = v
	}
	if v := os.Getenv("HYROX_TAILSCALE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}

	if cfg.Oracle.APIKey == "" {
		switch strings.ToLower(cfg.Oracle.Provider) {
		case "openai":
			cfg.Oracle.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic":
			cfg.Oracle.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Oracle.Provider == "" {
		cfg.Oracle.Provider = "ollama"
	}
	cfg.Oracle.Provider = strings.ToLower(cfg.Oracle.Provider)
	if cfg.Session.Store == "" {
		cfg.Session.Store = SessionStoreMemory
	}
	if cfg.Tailscale.Hostname == "" {
		cfg.Tailscale.Hostname = "hyroxtrainer"
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if _, err := c.Server.Location(); err != nil {
		return fmt.Errorf("server.timezone: %w", err)
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	switch c.Oracle.Provider {
	case "ollama":
	case "openai", "anthropic":
		if c.Oracle.APIKey == "" {
			return fmt.Errorf("oracle.api_key is required for provider %q", c.Oracle.Provider)
		}
	default:
		return fmt.Errorf("oracle.provider %q is not one of ollama, openai, anthropic", c.Oracle.Provider)
	}
	if c.Oracle.Timeout < 0 {
		return fmt.Errorf("oracle.timeout must not be negative")
	}
	switch c.Session.Store {
	case SessionStoreMemory:
	case SessionStoreSQLite:
		if c.Session.StateDir == "" {
			return fmt.Errorf("session.state_dir is required for the sqlite store")
		}
	default:
		return fmt.Errorf("session.store %q is not one of memory, sqlite", c.Session.Store)
	}
	if c.Tailscale.Enabled && c.Tailscale.StateDir == "" {
		return fmt.Errorf("tailscale.state_dir is required when tailscale is enabled")
	}
	return nil
}
