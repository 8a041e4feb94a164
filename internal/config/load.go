package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Default values applied when the corresponding environment variable is unset.
const (
	DefaultDriver           = DriverMySQL
	DefaultHost             = "localhost"
	DefaultUser             = "alex"
	DefaultPassword         = "1234"
	DefaultName             = "user_schema"
	DefaultPort             = 3306
	DefaultConnectTimeout   = 5 * time.Second
	DefaultStatementTimeout = time.Duration(0)
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "json"
)

// envBindings maps config keys to the environment variables that set them.
var envBindings = map[string]string{
	"database.driver":            "DB_DRIVER",
	"database.host":              "DB_HOST",
	"database.user":              "DB_USER",
	"database.password":          "DB_PASSWORD",
	"database.name":              "DB_NAME",
	"database.port":              "DB_PORT",
	"database.connect_timeout":   "DB_CONNECT_TIMEOUT",
	"database.statement_timeout": "DB_STATEMENT_TIMEOUT",
	"log.level":                  "LOG_LEVEL",
	"log.format":                 "LOG_FORMAT",
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; variables already set in the
// process environment take precedence over it.
//
// Any resolution or validation failure is returned as a *ConfigError.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, &ConfigError{Err: fmt.Errorf("failed to read .env file: %w", err)}
	} else if err != nil {
		slog.Debug("no .env file found, using process environment")
	}

	return LoadFromViper(viper.New())
}

// LoadFromViper resolves configuration with the given viper instance. Defaults
// and environment bindings are registered on v before unmarshalling.
func LoadFromViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, &ConfigError{Field: key, Err: fmt.Errorf("failed to bind %s: %w", env, err)}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("failed to decode configuration: %w", err)}
	}

	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks every field against its validate tag. The first failing
// field is reported.
func Validate(cfg *Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ConfigError{
			Field: configKey(fe.Namespace()),
			Err:   fmt.Errorf("failed %q validation (value %v)", fe.Tag(), redactValue(fe)),
		}
	}

	return &ConfigError{Err: err}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", DefaultDriver)
	v.SetDefault("database.host", DefaultHost)
	v.SetDefault("database.user", DefaultUser)
	v.SetDefault("database.password", DefaultPassword)
	v.SetDefault("database.name", DefaultName)
	v.SetDefault("database.port", DefaultPort)
	v.SetDefault("database.connect_timeout", DefaultConnectTimeout)
	v.SetDefault("database.statement_timeout", DefaultStatementTimeout)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
}

// configKey turns a validator namespace ("Config.Database.Port") into the
// dotted key used by viper ("database.port").
func configKey(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = toSnake(p)
	}
	return strings.Join(parts, ".")
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func redactValue(fe validator.FieldError) any {
	if fe.Field() == "Password" {
		return "****"
	}
	return fe.Value()
}
