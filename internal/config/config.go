// Package config provides configuration management using Viper.
// It loads configuration from environment variables, .env files, and config files.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/stwalsh4118/punsta/internal/logger"
)

// Storage driver names
const (
	StorageDriverSQLite = "sqlite"
	StorageDriverRedis  = "redis"
	StorageDriverMemory = "memory"
)

const (
	defaultServerPort                = 8080
	defaultServerHost                = "0.0.0.0"
	defaultReadTimeout               = 30 * time.Second
	defaultWriteTimeout              = 30 * time.Second
	defaultDatabasePath              = "./data/punsta.db"
	defaultDatabaseConnectionTimeout = 5 * time.Second
	defaultDatabaseEnableWAL         = true
	defaultDatabaseMigrationsPath    = "file://migrations"
	defaultStorageDriver             = StorageDriverSQLite
	defaultStorageKey                = "punstaSimState"
	defaultStorageSaveDebounce       = 500 * time.Millisecond
	defaultStorageBreakerThreshold   = 3
	defaultStorageBreakerCooldown    = 30 * time.Second
	defaultRedisHost                 = "localhost"
	defaultRedisPort                 = 6379
	defaultLogLevel                  = "info"
	defaultLogPretty                 = false
	defaultGrowthInterval            = time.Second
	defaultCommentRevealMin          = time.Second
	defaultCommentRevealMax          = 4 * time.Second
	defaultProcessingDelay           = 3 * time.Second
	defaultDailyInterval             = time.Minute
	envPrefix                        = "PUNSTA"
)

var validStorageDrivers = []string{StorageDriverSQLite, StorageDriverRedis, StorageDriverMemory}

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Storage    StorageConfig
	Redis      RedisConfig
	Logging    LoggingConfig
	Simulation SimulationConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Path              string
	ConnectionTimeout time.Duration
	EnableWAL         bool
	MigrationsPath    string
}

// StorageConfig selects where the game snapshot is persisted
type StorageConfig struct {
	Driver           string
	Key              string
	SaveDebounce     time.Duration
	BreakerThreshold int
	BreakerCooldown  time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Pretty bool
}

// SimulationConfig holds the timings of the simulation loops.
// A zero Seed means the random source is seeded from the OS.
type SimulationConfig struct {
	GrowthInterval   time.Duration
	CommentRevealMin time.Duration
	CommentRevealMax time.Duration
	ProcessingDelay  time.Duration
	DailyInterval    time.Duration
	Seed             uint64
}

// Load reads configuration from .env file, config files, environment variables, and defaults
func Load() (*Config, error) {
	// .env files are optional in production and CI where env vars are set directly
	_ = godotenv.Load() // nolint:errcheck // .env file is optional

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/punsta")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.Storage.Driver = strings.ToLower(cfg.Storage.Driver)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.host", defaultServerHost)
	v.SetDefault("server.readtimeout", defaultReadTimeout)
	v.SetDefault("server.writetimeout", defaultWriteTimeout)

	v.SetDefault("database.path", defaultDatabasePath)
	v.SetDefault("database.connectiontimeout", defaultDatabaseConnectionTimeout)
	v.SetDefault("database.enablewal", defaultDatabaseEnableWAL)
	v.SetDefault("database.migrationspath", defaultDatabaseMigrationsPath)

	v.SetDefault("storage.driver", defaultStorageDriver)
	v.SetDefault("storage.key", defaultStorageKey)
	v.SetDefault("storage.savedebounce", defaultStorageSaveDebounce)
	v.SetDefault("storage.breakerthreshold", defaultStorageBreakerThreshold)
	v.SetDefault("storage.breakercooldown", defaultStorageBreakerCooldown)

	v.SetDefault("redis.host", defaultRedisHost)
	v.SetDefault("redis.port", defaultRedisPort)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.pretty", defaultLogPretty)

	v.SetDefault("simulation.growthinterval", defaultGrowthInterval)
	v.SetDefault("simulation.commentrevealmin", defaultCommentRevealMin)
	v.SetDefault("simulation.commentrevealmax", defaultCommentRevealMax)
	v.SetDefault("simulation.processingdelay", defaultProcessingDelay)
	v.SetDefault("simulation.dailyinterval", defaultDailyInterval)
	v.SetDefault("simulation.seed", 0)
}

// Validate checks that configuration values are valid
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("invalid read timeout: %v (must be > 0)", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("invalid write timeout: %v (must be > 0)", c.Server.WriteTimeout)
	}
	if c.Database.ConnectionTimeout <= 0 {
		return fmt.Errorf("invalid database connection timeout: %v (must be > 0)", c.Database.ConnectionTimeout)
	}

	if !slices.Contains(validStorageDrivers, c.Storage.Driver) {
		return fmt.Errorf("invalid storage driver: %s (must be one of: %s)", c.Storage.Driver, strings.Join(validStorageDrivers, ", "))
	}
	if c.Storage.Key == "" {
		return errors.New("storage key must not be empty")
	}
	if c.Storage.SaveDebounce < 0 {
		return fmt.Errorf("invalid save debounce: %v (must be >= 0)", c.Storage.SaveDebounce)
	}
	if c.Storage.BreakerThreshold < 1 {
		return fmt.Errorf("invalid breaker threshold: %d (must be >= 1)", c.Storage.BreakerThreshold)
	}
	if c.Storage.Driver == StorageDriverRedis && (c.Redis.Port < 1 || c.Redis.Port > 65535) {
		return fmt.Errorf("invalid redis port: %d (must be between 1 and 65535)", c.Redis.Port)
	}

	if !logger.IsValidLevel(c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.Logging.Level, strings.Join(logger.ValidLevels, ", "))
	}

	sim := c.Simulation
	if sim.GrowthInterval <= 0 || sim.ProcessingDelay <= 0 || sim.DailyInterval <= 0 {
		return errors.New("simulation intervals must be > 0")
	}
	if sim.CommentRevealMin <= 0 {
		return fmt.Errorf("invalid comment reveal min: %v (must be > 0)", sim.CommentRevealMin)
	}
	if sim.CommentRevealMax < sim.CommentRevealMin {
		return fmt.Errorf("comment reveal max %v is below min %v", sim.CommentRevealMax, sim.CommentRevealMin)
	}

	return nil
}
