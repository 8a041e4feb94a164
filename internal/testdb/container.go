//go:build integration

package testdb

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/phrazzld/e2e-harness/internal/config"
	"github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Container images used when no server is configured.
const (
	MySQLImage    = "mysql:8.4"
	PostgresImage = "postgres:16-alpine"
)

// Server is a store reachable by integration tests.
type Server struct {
	Config    config.DatabaseConfig
	terminate func(context.Context) error
}

// Terminate stops a provisioned container. It does nothing for a configured
// server.
func (s *Server) Terminate(ctx context.Context) error {
	if s.terminate == nil {
		return nil
	}
	return s.terminate(ctx)
}

// Start returns a server for base.Driver. When DB_HOST is set in the
// environment the configured server is used unchanged; otherwise a container
// is started with base's database, user and password.
func Start(ctx context.Context, base config.DatabaseConfig, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if _, ok := os.LookupEnv("DB_HOST"); ok {
		logger.Info("using configured database server", slog.String("target", base.String()))
		return &Server{Config: base}, nil
	}

	var (
		c    testcontainers.Container
		port nat.Port
		err  error
	)
	switch base.Driver {
	case config.DriverMySQL:
		port = "3306/tcp"
		c, err = tcmysql.Run(ctx, MySQLImage,
			tcmysql.WithDatabase(base.Name),
			tcmysql.WithUsername(base.User),
			tcmysql.WithPassword(base.Password),
		)
	case config.DriverPostgres:
		port = "5432/tcp"
		c, err = tcpostgres.Run(ctx, PostgresImage,
			tcpostgres.WithDatabase(base.Name),
			tcpostgres.WithUsername(base.User),
			tcpostgres.WithPassword(base.Password),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
	default:
		return nil, fmt.Errorf("no container for driver %q", base.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to start %s container: %w", base.Driver, err)
	}

	cfg, err := containerConfig(ctx, c, port, base)
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, err
	}

	logger.Info("database container started", slog.String("target", cfg.String()))
	return &Server{
		Config:    cfg,
		terminate: func(ctx context.Context) error { return c.Terminate(ctx) },
	}, nil
}

func containerConfig(ctx context.Context, c testcontainers.Container, port nat.Port, base config.DatabaseConfig) (config.DatabaseConfig, error) {
	host, err := c.Host(ctx)
	if err != nil {
		return base, fmt.Errorf("failed to get container host: %w", err)
	}
	mapped, err := c.MappedPort(ctx, port)
	if err != nil {
		return base, fmt.Errorf("failed to get container port: %w", err)
	}

	cfg := base
	cfg.Host = host
	cfg.Port = mapped.Int()
	return cfg, nil
}
