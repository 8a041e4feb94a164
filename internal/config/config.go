package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Supported database drivers.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Config holds all harness configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Log      LogConfig      `mapstructure:"log"      validate:"required"`
}

// DatabaseConfig contains the connection parameters for the relational store
// used by database-backed tests.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"   validate:"required,oneof=mysql postgres"`
	Host     string `mapstructure:"host"     validate:"required,printascii,excludesrune=/"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	Port     int    `mapstructure:"port"     validate:"required,gt=0,lt=65536"`

	// ConnectTimeout bounds dialing and the initial ping of a new connection.
	// It must be positive so an unreachable server fails instead of hanging.
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" validate:"gt=0"`
	// StatementTimeout bounds every individual statement. Zero disables it.
	StatementTimeout time.Duration `mapstructure:"statement_timeout" validate:"gte=0"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"  validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// Address returns host:port for the configured store.
func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// String renders the configuration without the password so it can be logged.
func (c DatabaseConfig) String() string {
	return fmt.Sprintf("%s://%s@%s/%s", c.Driver, c.User, c.Address(), c.Name)
}
