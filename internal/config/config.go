package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers accepted by StorageConfig.Driver.
const (
	DriverBolt   = "bolt"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	AppName     string
	Environment string
	HTTP        HTTPConfig
	Storage     StorageConfig
	Reminder    ReminderConfig
	Persist     PersistConfig
	Context     ContextConfig
	Logger      LoggerConfig
	Clock       ClockConfig
}

type HTTPConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	MaxConn      int
	AllowRemote  bool
	KeepAlive    time.Duration
}

type StorageConfig struct {
	Driver        string
	Path          string
	Bucket        string
	Key           string
	OpenTimeout   time.Duration
	RedisURL      string
	RedisPassword string
	RedisDB       int
}

type ReminderConfig struct {
	PollInterval  time.Duration
	FlashInterval time.Duration
	ToastTimeout  time.Duration
	AlertLabel    string
	IdleTitle     string
	NotifyCommand string
	NotifyTimeout time.Duration
}

type PersistConfig struct {
	Debounce time.Duration
	Timeout  time.Duration
}

type ContextConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type ClockConfig struct {
	TimeZone string
}

// Load reads configuration from environment variables (optionally .env)
// and applies defaults suited to a single local user.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "flow"),
		Environment: getString("APP_ENV", "development"),
		HTTP: HTTPConfig{
			Host:         getString("SERVER_HOST", "127.0.0.1"),
			Port:         getString("SERVER_PORT", "7410"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 0), // zero keeps event streams open
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			MaxConn:      getInt("SERVER_MAX_CONN", 0),
			AllowRemote:  getBool("SERVER_ALLOW_REMOTE", false),
			KeepAlive:    getDuration("SSE_KEEPALIVE", 15*time.Second),
		},
		Storage: StorageConfig{
			Driver:        getString("STORAGE_DRIVER", DriverBolt),
			Path:          getString("BOLTDB_PATH", "./data/flow.db"),
			Bucket:        getString("STORAGE_BUCKET", "flow"),
			Key:           getString("STORAGE_KEY", "todo-vibe-app-todos"),
			OpenTimeout:   getDuration("STORAGE_OPEN_TIMEOUT", time.Second),
			RedisURL:      getString("REDIS_URL", "redis://localhost:6379"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       getInt("REDIS_DB", 0),
		},
		Reminder: ReminderConfig{
			PollInterval:  getDuration("REMINDER_POLL_INTERVAL", 30*time.Second),
			FlashInterval: getDuration("REMINDER_FLASH_INTERVAL", time.Second),
			ToastTimeout:  getDuration("REMINDER_TOAST_TIMEOUT", 6*time.Second),
			AlertLabel:    getString("REMINDER_ALERT_LABEL", "Reminder"),
			IdleTitle:     getString("REMINDER_IDLE_TITLE", "flow."),
			NotifyCommand: os.Getenv("REMINDER_NOTIFY_COMMAND"),
			NotifyTimeout: getDuration("REMINDER_NOTIFY_TIMEOUT", 5*time.Second),
		},
		Persist: PersistConfig{
			Debounce: getDuration("PERSIST_DEBOUNCE", 0),
			Timeout:  getDuration("PERSIST_TIMEOUT", 5*time.Second),
		},
		Context: ContextConfig{
			RequestTimeout:  getDuration("REQUEST_TIMEOUT_SECONDS", 5*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
		Clock: ClockConfig{
			TimeZone: getString("TIME_ZONE", "Local"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	switch c.Storage.Driver {
	case DriverBolt:
		if c.Storage.Path == "" {
			errs = append(errs, errors.New("BOLTDB_PATH must be set for the bolt driver"))
		}
	case DriverRedis:
		if c.Storage.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL must be set for the redis driver"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver))
	}
	if c.Storage.Key == "" {
		errs = append(errs, errors.New("STORAGE_KEY must not be empty"))
	}
	if c.Reminder.PollInterval <= 0 {
		errs = append(errs, errors.New("REMINDER_POLL_INTERVAL must be positive"))
	}
	if c.Reminder.FlashInterval <= 0 {
		errs = append(errs, errors.New("REMINDER_FLASH_INTERVAL must be positive"))
	}
	if c.Persist.Debounce < 0 {
		errs = append(errs, errors.New("PERSIST_DEBOUNCE must not be negative"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("TIME_ZONE: %w", err))
	}
	return errors.Join(errs...)
}

// Location resolves the configured display time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Clock.TimeZone == "" || c.Clock.TimeZone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Clock.TimeZone)
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}
