package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const envPrefix = "STAFFBOARD_"

// Notification store kinds.
const (
	StoreTable      = "table"
	StoreCollection = "collection"
)

// Config defines server configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	DB            DBConfig            `yaml:"db"`
	Log           LogConfig           `yaml:"log"`
	Transport     TransportConfig     `yaml:"transport"`
	Auth          AuthConfig          `yaml:"auth"`
	Timeline      TimelineConfig      `yaml:"timeline"`
	Notifications NotificationsConfig `yaml:"notifications"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type TransportConfig struct {
	// Mode is "stdio" or "http".
	Mode string `yaml:"mode"`
}

type AuthConfig struct {
	Enabled     bool   `yaml:"enabled"`
	DefaultUser string `yaml:"default_user"`
}

type TimelineConfig struct {
	Location  string        `yaml:"location"`
	LockGrace time.Duration `yaml:"lock_grace"`
}

type NotificationsConfig struct {
	Store         string        `yaml:"store"`
	Retention     time.Duration `yaml:"retention"`
	PruneSchedule string        `yaml:"prune_schedule"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "staffboard.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
		Auth: AuthConfig{
			DefaultUser: "default",
		},
		Timeline: TimelineConfig{
			Location: "Local",
		},
		Notifications: NotificationsConfig{
			Store:         StoreTable,
			Retention:     30 * 24 * time.Hour,
			PruneSchedule: "@daily",
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv(envPrefix + "CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that cannot be corrected silently.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case "stdio", "http":
	default:
		return fmt.Errorf("invalid transport mode %q", c.Transport.Mode)
	}
	switch c.Notifications.Store {
	case StoreTable, StoreCollection:
	default:
		return fmt.Errorf("invalid notifications store %q", c.Notifications.Store)
	}
	if c.Timeline.LockGrace < 0 {
		return fmt.Errorf("timeline lock grace must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured timeline time zone.
func (c Config) Location() (*time.Location, error) {
	name := c.Timeline.Location
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timeline location: %w", err)
	}
	return loc, nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv(envPrefix + "SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv(envPrefix + "SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid %sSERVER_PORT: %w", envPrefix, err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv(envPrefix + "DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv(envPrefix + "LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if mode := os.Getenv(envPrefix + "TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = strings.ToLower(mode)
	}
	if enabled := os.Getenv(envPrefix + "AUTH_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			return fmt.Errorf("invalid %sAUTH_ENABLED: %w", envPrefix, err)
		}
		cfg.Auth.Enabled = v
	}
	if user := os.Getenv(envPrefix + "AUTH_DEFAULT_USER"); user != "" {
		cfg.Auth.DefaultUser = user
	}
	if loc := os.Getenv(envPrefix + "TIMELINE_LOCATION"); loc != "" {
		cfg.Timeline.Location = loc
	}
	if grace := os.Getenv(envPrefix + "TIMELINE_LOCK_GRACE"); grace != "" {
		d, err := time.ParseDuration(grace)
		if err != nil {
			return fmt.Errorf("invalid %sTIMELINE_LOCK_GRACE: %w", envPrefix, err)
		}
		cfg.Timeline.LockGrace = d
	}
	if store := os.Getenv(envPrefix + "NOTIFICATIONS_STORE"); store != "" {
		cfg.Notifications.Store = strings.ToLower(store)
	}
	if retention := os.Getenv(envPrefix + "NOTIFICATIONS_RETENTION"); retention != "" {
		d, err := time.ParseDuration(retention)
		if err != nil {
			return fmt.Errorf("invalid %sNOTIFICATIONS_RETENTION: %w", envPrefix, err)
		}
		cfg.Notifications.Retention = d
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
