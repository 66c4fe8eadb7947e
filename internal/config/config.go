package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Storage drivers accepted in storage.driver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	MCP       MCPConfig       `yaml:"mcp"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns host:port for net.Listen.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type StorageConfig struct {
	Driver   string         `yaml:"driver"`
	Path     string         `yaml:"path"`
	Postgres DatabaseConfig `yaml:"postgres"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// File, when set, also writes logs to a size-rotated file.
	File string `yaml:"file"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type MCPConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	port := d.Port
	if port == 0 {
		port = 5432
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, port, d.Name, sslmode)
}

// Default returns the configuration used when no file is present: a local
// SQLite ledger served on loopback.
func Default() *Config {
	return &Config{
		Server:    ServerConfig{Host: "127.0.0.1", Port: 8080},
		Storage:   StorageConfig{Driver: DriverSQLite, Path: "reptracker.db"},
		Log:       LogConfig{Level: "info", Format: "text"},
		Tailscale: TailscaleConfig{Hostname: "reptracker", StateDir: "tsnet"},
		MCP:       MCPConfig{Enabled: true},
	}
}

// Load reads config from a YAML file layered over Default, then applies
// environment variable overrides. A missing file is not an error.
// Env vars use the prefix REPTRACKER_ and underscore-separated paths:
//
//	REPTRACKER_SERVER_HOST, REPTRACKER_SERVER_PORT,
//	REPTRACKER_STORAGE_DRIVER, REPTRACKER_STORAGE_PATH,
//	REPTRACKER_DB_HOST, REPTRACKER_DB_PORT, REPTRACKER_DB_NAME,
//	REPTRACKER_DB_USER, REPTRACKER_DB_PASSWORD, REPTRACKER_DB_SSLMODE,
//	REPTRACKER_LOG_LEVEL, REPTRACKER_LOG_FILE, REPTRACKER_TAILSCALE_ENABLED
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("REPTRACKER_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("REPTRACKER_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("REPTRACKER_STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("REPTRACKER_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	pg := &cfg.Storage.Postgres
	if v := os.Getenv("REPTRACKER_DB_HOST"); v != "" {
		pg.Host = v
	}
	if v := os.Getenv("REPTRACKER_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			pg.Port = port
		}
	}
	if v := os.Getenv("REPTRACKER_DB_NAME"); v != "" {
		pg.Name = v
	}
	if v := os.Getenv("REPTRACKER_DB_USER"); v != "" {
		pg.User = v
	}
	if v := os.Getenv("REPTRACKER_DB_PASSWORD"); v != "" {
		pg.Password = v
	}
	if v := os.Getenv("REPTRACKER_DB_SSLMODE"); v != "" {
		pg.SSLMode = v
	}
	if v := os.Getenv("REPTRACKER_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("REPTRACKER_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("REPTRACKER_TAILSCALE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the sqlite driver")
		}
	case DriverPostgres:
		pg := c.Storage.Postgres
		if pg.Host == "" {
			return fmt.Errorf("storage.postgres.host is required")
		}
		if pg.Name == "" {
			return fmt.Errorf("storage.postgres.name is required")
		}
		if pg.User == "" {
			return fmt.Errorf("storage.postgres.user is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("storage.driver %q is not one of sqlite, postgres, memory", c.Storage.Driver)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format %q is not one of text, json", c.Log.Format)
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
