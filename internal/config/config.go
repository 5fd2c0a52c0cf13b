package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ehc32/Cotizador-V1/internal/db"
	"github.com/ehc32/Cotizador-V1/internal/document"
)

const (
	defaultDBPath       = "./dev.db"
	defaultPort         = "8080"
	defaultDotEnv       = ".env"
	defaultPrefix       = "cotizacion-saave"
	defaultMaxBodyBytes = 1 << 20

	CatalogDatabase = "database"
	CatalogBuiltin  = "builtin"
	CatalogFile     = "file"
)

// Config holds application configuration. Values come, in increasing
// precedence, from defaults, a dotenv or config file, and the environment.
type Config struct {
	AppEnv        string
	Port          string
	DBDriver      string
	DBPath        string
	AdminEmail    string
	AdminPassword string
	SessionSecret string

	CatalogSource string
	CatalogFile   string

	DocumentRenderer string
	DocumentPrefix   string

	MaxBodyBytes   int64
	FlowSessionTTL time.Duration
	FlowMaxRooms   int

	LogLevel  string
	LogFormat string
	LogFile   string
}

// Load reads configuration. When path is empty a ".env" file in the working
// directory is used if present; an explicit path must exist and may be any
// format viper understands.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("app_env", "dev")
	v.SetDefault("port", defaultPort)
	v.SetDefault("db_driver", string(db.SQLite))
	v.SetDefault("db_path", defaultDBPath)
	v.SetDefault("catalog_source", CatalogDatabase)
	v.SetDefault("document_renderer", string(document.ModeAuto))
	v.SetDefault("document_prefix", defaultPrefix)
	v.SetDefault("max_body_bytes", defaultMaxBodyBytes)
	v.SetDefault("flow_session_ttl", "30m")
	v.SetDefault("flow_max_rooms", 4)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	if path == "" {
		v.SetConfigFile(defaultDotEnv)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read %s: %w", defaultDotEnv, err)
		}
	} else {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}
	v.AutomaticEnv()

	cfg := Config{
		AppEnv:           strings.ToLower(v.GetString("app_env")),
		Port:             v.GetString("port"),
		DBDriver:         strings.ToLower(v.GetString("db_driver")),
		DBPath:           v.GetString("db_path"),
		AdminEmail:       v.GetString("admin_email"),
		AdminPassword:    v.GetString("admin_password"),
		SessionSecret:    v.GetString("session_secret"),
		CatalogSource:    strings.ToLower(v.GetString("catalog_source")),
		CatalogFile:      v.GetString("catalog_file"),
		DocumentRenderer: strings.ToLower(v.GetString("document_renderer")),
		DocumentPrefix:   v.GetString("document_prefix"),
		MaxBodyBytes:     v.GetInt64("max_body_bytes"),
		FlowSessionTTL:   v.GetDuration("flow_session_ttl"),
		FlowMaxRooms:     v.GetInt("flow_max_rooms"),
		LogLevel:         v.GetString("log_level"),
		LogFormat:        v.GetString("log_format"),
		LogFile:          v.GetString("log_file"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unsupported values.
func (c Config) Validate() error {
	if _, err := db.ParseDriver(c.DBDriver); err != nil {
		return fmt.Errorf("DB_DRIVER: %w", err)
	}
	if _, err := document.ParseMode(c.DocumentRenderer); err != nil {
		return fmt.Errorf("DOCUMENT_RENDERER: %w", err)
	}
	switch c.CatalogSource {
	case CatalogDatabase, CatalogBuiltin:
	case CatalogFile:
		if c.CatalogFile == "" {
			return fmt.Errorf("CATALOG_FILE is required when CATALOG_SOURCE=file")
		}
	default:
		return fmt.Errorf("CATALOG_SOURCE: unsupported value %q", c.CatalogSource)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive, got %d", c.MaxBodyBytes)
	}
	if c.FlowSessionTTL <= 0 {
		return fmt.Errorf("FLOW_SESSION_TTL must be positive, got %s", c.FlowSessionTTL)
	}
	if c.FlowMaxRooms < 0 {
		return fmt.Errorf("FLOW_MAX_ROOMS must not be negative, got %d", c.FlowMaxRooms)
	}
	return nil
}

// Warnings lists settings that are missing but not fatal.
func (c Config) Warnings() []string {
	var out []string
	if c.AdminEmail == "" {
		out = append(out, "ADMIN_EMAIL is not set")
	}
	if c.AdminPassword == "" {
		out = append(out, "ADMIN_PASSWORD is not set")
	}
	if c.SessionSecret == "" {
		out = append(out, "SESSION_SECRET is not set")
	}
	return out
}

// IsDev reports whether the app runs in a development environment.
func (c Config) IsDev() bool {
	switch c.AppEnv {
	case "", "dev", "development", "local":
		return true
	default:
		return false
	}
}
