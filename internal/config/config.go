package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	Auth   AuthConfig
	DB     DBConfig
	Log    LogConfig
	WS     WSConfig
}

type ServerConfig struct {
	Port                 string
	ExposeInternalErrors bool
	AllowedOrigins       []string
	ShutdownTimeout      time.Duration
}

type AuthConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	Issuer     string
	BcryptCost int
}

type DBConfig struct {
	Driver      string
	Path        string
	DSN         string
	AutoMigrate bool
}

type LogConfig struct {
	Level  string
	Format string
}

type WSConfig struct {
	Interval time.Duration
}

// Defaults and the environment variable bound to every key.
var (
	defaults = map[string]any{
		"server.port":                   "8000",
		"server.expose_internal_errors": false,
		"server.allowed_origins":        []string{},
		"server.shutdown_timeout":       "10s",
		"auth.token_ttl":                "1h",
		"auth.issuer":                   "task_tracker",
		"auth.bcrypt_cost":              10,
		"db.driver":                     "sqlite",
		"db.path":                       "app.db",
		"db.auto_migrate":               true,
		"log.level":                     "info",
		"log.format":                    "console",
		"ws.interval":                   "5s",
	}

	envBindings = map[string]string{
		"server.port":                   "PORT",
		"server.expose_internal_errors": "EXPOSE_INTERNAL_ERRORS",
		"server.allowed_origins":        "ALLOWED_ORIGINS",
		"server.shutdown_timeout":       "SHUTDOWN_TIMEOUT",
		"auth.jwt_secret":               "JWT_SECRET",
		"auth.token_ttl":                "JWT_TTL",
		"auth.issuer":                   "JWT_ISSUER",
		"auth.bcrypt_cost":              "BCRYPT_COST",
		"db.driver":                     "DB_DRIVER",
		"db.path":                       "DB_PATH",
		"db.dsn":                        "DATABASE_URL",
		"db.auto_migrate":               "DB_AUTO_MIGRATE",
		"log.level":                     "LOG_LEVEL",
		"log.format":                    "LOG_FORMAT",
		"ws.interval":                   "WS_INTERVAL",
	}
)

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads configs/config.yml from dir (optional) and applies environment overrides.
func Load(dir string) (Config, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if dir != "" {
		v.AddConfigPath(dir) // e.g. configs/config.yml
		v.SetConfigName("config")
		v.SetConfigType("yml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return Config{
		Server: ServerConfig{
			Port:                 v.GetString("server.port"),
			ExposeInternalErrors: v.GetBool("server.expose_internal_errors"),
			AllowedOrigins:       stringList(v.Get("server.allowed_origins")),
			ShutdownTimeout:      v.GetDuration("server.shutdown_timeout"),
		},
		Auth: AuthConfig{
			JWTSecret:  v.GetString("auth.jwt_secret"),
			TokenTTL:   v.GetDuration("auth.token_ttl"),
			Issuer:     v.GetString("auth.issuer"),
			BcryptCost: v.GetInt("auth.bcrypt_cost"),
		},
		DB: DBConfig{
			Driver:      strings.ToLower(v.GetString("db.driver")),
			Path:        v.GetString("db.path"),
			DSN:         v.GetString("db.dsn"),
			AutoMigrate: v.GetBool("db.auto_migrate"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: strings.ToLower(v.GetString("log.format")),
		},
		WS: WSConfig{
			Interval: v.GetDuration("ws.interval"),
		},
	}, nil
}

// stringList accepts a YAML list or a comma separated environment value.
func stringList(raw any) []string {
	var items []string
	switch val := raw.(type) {
	case string:
		items = strings.Split(val, ",")
	case []string:
		items = val
	case []any:
		for _, it := range val {
			items = append(items, fmt.Sprint(it))
		}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s := strings.TrimSpace(it); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Validate reports every setting that would keep the HTTP server from starting.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("auth.jwt_secret (JWT_SECRET) is required"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("auth.token_ttl must be positive, got %s", c.Auth.TokenTTL))
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("auth.bcrypt_cost must be within [4, 31], got %d", c.Auth.BcryptCost))
	}
	if p, err := strconv.Atoi(strings.TrimPrefix(c.Server.Port, ":")); err != nil || p <= 0 || p > 65535 {
		errs = append(errs, fmt.Errorf("server.port %q is not a valid port", c.Server.Port))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format must be console or json, got %q", c.Log.Format))
	}
	if c.WS.Interval <= 0 {
		errs = append(errs, errors.New("ws.interval must be positive"))
	}
	if err := c.DB.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Validate checks only what is needed to reach the database.
func (c DBConfig) Validate() error {
	switch c.Driver {
	case "sqlite":
		if c.Path == "" {
			return errors.New("db.path (DB_PATH) is required for sqlite")
		}
	case "postgres":
		if c.DSN == "" {
			return errors.New("db.dsn (DATABASE_URL) is required for postgres")
		}
	default:
		return fmt.Errorf("db.driver must be sqlite or postgres, got %q", c.Driver)
	}
	return nil
}
