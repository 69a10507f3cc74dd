package config

import (
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	DatabaseURL         string // postgres:// DSN or SQLite file path
	RedisURL            string // empty: contexts share an in-process hub
	BroadcastChannel    string
	ContextID           string // origin stamped on writes and broadcasts; random per process when unset
	SweepInterval       time.Duration
	StoragePollInterval time.Duration
	NotifyPermission    string // default | granted | denied
	ToastTTL            time.Duration
	LogLevel            string
	Timezone            string // IANA zone used for the analytics day series
	AllowedOrigins      string
	HealthAdminKey      string
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("BROADCAST_CHANNEL", "ssf:channel")
	viper.SetDefault("SWEEP_INTERVAL", "30s")
	viper.SetDefault("STORAGE_POLL_INTERVAL", "2s")
	viper.SetDefault("NOTIFY_PERMISSION", "default")
	viper.SetDefault("TOAST_TTL", "8s")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("TIMEZONE", "Local")

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL")
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL_DEV")
	}
	if dbURL == "" {
		dbURL = "ssf.db"
	}

	contextID := viper.GetString("CONTEXT_ID")
	if contextID == "" {
		contextID = "ctx-" + uuid.NewString()[:8]
	}

	return &Config{
		Env:                 env,
		Port:                viper.GetString("PORT"),
		DatabaseURL:         dbURL,
		RedisURL:            viper.GetString("REDIS_URL"),
		BroadcastChannel:    viper.GetString("BROADCAST_CHANNEL"),
		ContextID:           contextID,
		SweepInterval:       viper.GetDuration("SWEEP_INTERVAL"),
		StoragePollInterval: viper.GetDuration("STORAGE_POLL_INTERVAL"),
		NotifyPermission:    strings.ToLower(strings.TrimSpace(viper.GetString("NOTIFY_PERMISSION"))),
		ToastTTL:            viper.GetDuration("TOAST_TTL"),
		LogLevel:            viper.GetString("LOG_LEVEL"),
		Timezone:            viper.GetString("TIMEZONE"),
		AllowedOrigins:      viper.GetString("ALLOWED_ORIGINS"),
		HealthAdminKey:      viper.GetString("HEALTH_ADMIN_KEY"),
	}, nil
}

// Location resolves Timezone, falling back to the host zone.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
