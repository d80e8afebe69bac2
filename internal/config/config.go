// Package config provides configuration loading for the auction server.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// MaxSweepInterval is the longest allowed gap between two expiry sweeps
const MaxSweepInterval = 5 * time.Minute

// Store drivers
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Config holds all configuration for the application.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Store  StoreConfig  `mapstructure:"store"`
	Alarm  AlarmConfig  `mapstructure:"alarm"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Events EventsConfig `mapstructure:"events"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// Addr returns the listen address
func (c ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// StoreConfig selects and tunes the persistence backend.
type StoreConfig struct {
	Driver     string        `mapstructure:"driver"`
	DSN        string        `mapstructure:"dsn"`
	MaxRetries uint64        `mapstructure:"max_retries"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// AlarmConfig holds the session sweeper schedule.
type AlarmConfig struct {
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// AuthConfig holds credential hashing settings.
type AuthConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

// EventsConfig holds the event bus endpoint. Empty disables publishing.
type EventsConfig struct {
	NATSURL string `mapstructure:"nats_url"`
}

// LogConfig holds the logger level.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from files and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/auction-site")

	v.SetEnvPrefix("AUCTION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// PORT is the conventional platform variable
	v.BindEnv("server.port", "AUCTION_SERVER_PORT", "PORT")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot run with
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("config: store.dsn is required for the %s driver", DriverPostgres)
		}
	default:
		return fmt.Errorf("config: unknown store.driver %q", c.Store.Driver)
	}
	if c.Alarm.SweepInterval <= 0 || c.Alarm.SweepInterval > MaxSweepInterval {
		return fmt.Errorf("config: alarm.sweep_interval must be in (0, %s], got %s", MaxSweepInterval, c.Alarm.SweepInterval)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	return nil
}

// setDefaults configures default values for all settings.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")

	v.SetDefault("store.driver", DriverMemory)
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.max_retries", 5)
	v.SetDefault("store.timeout", "5s")

	v.SetDefault("alarm.sweep_interval", MaxSweepInterval.String())

	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("events.nats_url", "")

	v.SetDefault("log.level", "info")
}
