// Package config provides configuration management using Viper
package config

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

// Environment types
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// LogLevel represents the logging level for the application
type LogLevel string

// Available log levels
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Config holds all configuration parameters for the application
type Config struct {
	// Application settings
	AppName     string   `mapstructure:"appname"`
	AppPort     string   `mapstructure:"appport"`
	Environment string   `mapstructure:"environment"`
	LogLevel    LogLevel `mapstructure:"loglevel"`

	// File paths
	StoragePath  string `mapstructure:"storagepath"`
	DatabaseName string `mapstructure:"-"`
	GeoDBPath    string `mapstructure:"geodbpath"`

	// Logging settings
	LogsDirectory    string `mapstructure:"logsdir"`
	LogsMaxSizeInMb  int    `mapstructure:"logsmaxsizeinmb"`
	LogsMaxBackups   int    `mapstructure:"logsmaxbackups"`
	LogsMaxAgeInDays int    `mapstructure:"logsmaxageindays"`

	// Database settings
	DatabaseMaxOpenConns int `mapstructure:"dbmaxopenconns"`
	DatabaseMaxIdleConns int `mapstructure:"dbmaxidleconns"`

	// Dashboard settings
	RecentActivityLimit int `mapstructure:"recentactivitylimit"`
	TopStatsLimit       int `mapstructure:"topstatslimit"`

	// Retention settings; zero keeps events forever
	RetentionDays int `mapstructure:"retentiondays"`
}

var (
	cfg  *Config
	once sync.Once
)

// GetConfig returns the application configuration
func GetConfig() *Config {
	once.Do(func() {
		v := viper.New()

		v.SetDefault("appname", "visitlens")
		v.SetDefault("appport", "3000")
		v.SetDefault("environment", Development)
		v.SetDefault("loglevel", string(LogLevelDebug))
		v.SetDefault("storagepath", "storage")
		v.SetDefault("geodbpath", "storage/GeoLite2-City.mmdb")
		v.SetDefault("logsdir", "logs")
		v.SetDefault("logsmaxsizeinmb", 20)
		v.SetDefault("logsmaxbackups", 10)
		v.SetDefault("logsmaxageindays", 30)
		v.SetDefault("dbmaxopenconns", 0)
		v.SetDefault("dbmaxidleconns", 0)
		v.SetDefault("recentactivitylimit", 50)
		v.SetDefault("topstatslimit", 10)
		v.SetDefault("retentiondays", 0)

		v.BindEnv("appname", "VISITLENS_APP_NAME")
		v.BindEnv("appport", "VISITLENS_APP_PORT")
		v.BindEnv("environment", "VISITLENS_ENV")
		v.BindEnv("loglevel", "VISITLENS_LOG_LEVEL")
		v.BindEnv("storagepath", "VISITLENS_STORAGE_PATH")
		v.BindEnv("geodbpath", "VISITLENS_GEO_DB_PATH")
		v.BindEnv("logsdir", "VISITLENS_LOGS_DIR")
		v.BindEnv("logsmaxsizeinmb", "VISITLENS_LOGS_MAX_SIZE_IN_MB")
		v.BindEnv("logsmaxbackups", "VISITLENS_LOGS_MAX_BACKUPS")
		v.BindEnv("logsmaxageindays", "VISITLENS_LOGS_MAX_AGE_IN_DAYS")
		v.BindEnv("dbmaxopenconns", "VISITLENS_DB_MAX_OPEN_CONNS")
		v.BindEnv("dbmaxidleconns", "VISITLENS_DB_MAX_IDLE_CONNS")
		v.BindEnv("recentactivitylimit", "VISITLENS_RECENT_ACTIVITY_LIMIT")
		v.BindEnv("topstatslimit", "VISITLENS_TOP_STATS_LIMIT")
		v.BindEnv("retentiondays", "VISITLENS_RETENTION_DAYS")

		cfg = &Config{}
		if err := v.Unmarshal(cfg); err != nil {
			log.Fatalf("config: failed to unmarshal configuration: %v", err)
		}

		if err := cfg.validate(); err != nil {
			log.Fatalf("config: invalid configuration: %v", err)
		}

		cfg.DatabaseName = cfg.GetDatabasePath()
	})
	return cfg
}

// validate checks the configuration for errors
func (c *Config) validate() error {
	validEnvs := map[string]bool{
		Development: true,
		Production:  true,
		Test:        true,
	}
	if !validEnvs[c.Environment] {
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}
	return nil
}

// GetDatabasePath returns the appropriate database path based on environment
func (c *Config) GetDatabasePath() string {
	if c.DatabaseName == "" {
		c.DatabaseName = filepath.Join(c.StoragePath,
			fmt.Sprintf("%s-%s.db", c.AppName, c.Environment))
	}
	return c.DatabaseName
}

// IsDevelopment returns true if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}

// IsProduction returns true if the environment is production
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// IsTest returns true if the environment is test
func (c *Config) IsTest() bool {
	return c.Environment == Test
}

// GetMaxOpenConns returns the MaxOpenConns value for the current environment.
// In-memory SQLite used by tests needs a single connection.
func (c *Config) GetMaxOpenConns() int {
	if c.DatabaseMaxOpenConns > 0 {
		return c.DatabaseMaxOpenConns
	}
	if c.Environment == Test {
		return 1
	}
	return 10
}

// GetMaxIdleConns returns the MaxIdleConns value for the current environment.
func (c *Config) GetMaxIdleConns() int {
	if c.DatabaseMaxIdleConns > 0 {
		return c.DatabaseMaxIdleConns
	}
	if c.Environment == Test {
		return 1
	}
	return 5
}

// Reset clears the cached configuration; intended for tests.
func Reset() {
	once = sync.Once{}
	cfg = nil
}
