package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/yukikurage/taskboard/internal/constants"
)

const (
	StoreBackendGorm      = "gorm"
	StoreBackendFirestore = "firestore"

	SessionStoreCookie = "cookie"
	SessionStoreRedis  = "redis"

	// DefaultSessionSecret is only accepted outside release mode.
	DefaultSessionSecret = "default-secret-key-change-me"
)

// defaultDBPorts is used when DB_PORT is not set.
var defaultDBPorts = map[string]string{
	"mysql":    "3306",
	"postgres": "5432",
}

type Config struct {
	DBDriver             string        `mapstructure:"db_driver" yaml:"db_driver"`
	DBHost               string        `mapstructure:"db_host" yaml:"db_host"`
	DBPort               string        `mapstructure:"db_port" yaml:"db_port"`
	DBUser               string        `mapstructure:"db_user" yaml:"db_user"`
	DBPassword           string        `mapstructure:"db_password" yaml:"db_password"`
	DBName               string        `mapstructure:"db_name" yaml:"db_name"`
	SQLitePath           string        `mapstructure:"sqlite_path" yaml:"sqlite_path"`
	StoreBackend         string        `mapstructure:"store_backend" yaml:"store_backend"`
	FirestoreProject     string        `mapstructure:"firestore_project_id" yaml:"firestore_project_id"`
	FirestoreCredentials string        `mapstructure:"firestore_credentials" yaml:"firestore_credentials"`
	SessionStore         string        `mapstructure:"session_store" yaml:"session_store"`
	RedisHost            string        `mapstructure:"redis_host" yaml:"redis_host"`
	RedisPort            string        `mapstructure:"redis_port" yaml:"redis_port"`
	SessionSecret        string        `mapstructure:"session_secret" yaml:"session_secret"`
	GinMode              string        `mapstructure:"gin_mode" yaml:"gin_mode"`
	ListenAddr           string        `mapstructure:"listen_addr" yaml:"listen_addr"`
	OpenAIAPIKey         string        `mapstructure:"openai_api_key" yaml:"openai_api_key"`
	ProfilePicBaseURL    string        `mapstructure:"profile_pic_base_url" yaml:"profile_pic_base_url"`
	ProfilePicTimeout    time.Duration `mapstructure:"profile_pic_timeout" yaml:"profile_pic_timeout"`
	LogLevel             string        `mapstructure:"log_level" yaml:"log_level"`
	LogFormat            string        `mapstructure:"log_format" yaml:"log_format"`
	CORSAllowedOrigins   []string      `mapstructure:"-" yaml:"cors_allowed_origins"`
}

var defaults = map[string]string{
	"db_driver":             "sqlite",
	"db_host":               "localhost",
	"db_port":               "",
	"db_user":               "taskuser",
	"db_password":           "taskpassword",
	"db_name":               "taskboard",
	"sqlite_path":           "taskboard.db",
	"store_backend":         StoreBackendGorm,
	"firestore_project_id":  "",
	"firestore_credentials": "",
	"session_store":         SessionStoreCookie,
	"redis_host":            "localhost",
	"redis_port":            "6379",
	"session_secret":        DefaultSessionSecret,
	"gin_mode":              "debug",
	"listen_addr":           constants.DefaultListenAddr,
	"openai_api_key":        "",
	"profile_pic_base_url":  constants.DefaultProfilePicBase,
	"profile_pic_timeout":   "5s",
	"log_level":             "info",
	"log_format":            "json",
	"cors_allowed_origins":  "",
}

// Load reads configuration from the environment, an optional .env file and an
// optional YAML file at path. Environment variables win over the file.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.CORSAllowedOrigins = splitList(v.GetString("cors_allowed_origins"))
	if cfg.DBPort == "" {
		cfg.DBPort = defaultDBPorts[cfg.DBDriver]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects option values the server cannot start with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.StoreBackend {
	case StoreBackendGorm:
	case StoreBackendFirestore:
		if c.FirestoreProject == "" {
			return errors.New("FIRESTORE_PROJECT_ID is required for the firestore backend")
		}
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q", c.StoreBackend)
	}
	switch c.SessionStore {
	case SessionStoreCookie, SessionStoreRedis:
	default:
		return fmt.Errorf("unsupported SESSION_STORE %q", c.SessionStore)
	}
	if c.IsProduction() && (c.SessionSecret == "" || c.SessionSecret == DefaultSessionSecret) {
		return errors.New("SESSION_SECRET must be set in release mode")
	}
	return nil
}

// Redacted returns a copy that is safe to print.
func (c *Config) Redacted() Config {
	out := *c
	for _, secret := range []*string{&out.DBPassword, &out.SessionSecret, &out.OpenAIAPIKey} {
		if *secret != "" {
			*secret = "********"
		}
	}
	return out
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
