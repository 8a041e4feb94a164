//go:build integration

package database_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/phrazzld/e2e-harness/internal/config"
	"github.com/phrazzld/e2e-harness/internal/database"
	"github.com/phrazzld/e2e-harness/internal/platform/logger"
	"github.com/phrazzld/e2e-harness/internal/store"
	"github.com/phrazzld/e2e-harness/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var server config.DatabaseConfig

func TestMain(m *testing.M) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	srv, err := testdb.Start(ctx, cfg.Database, nil)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to provision database: %v\n", err)
		os.Exit(1)
	}
	server = srv.Config

	code := m.Run()
	if err := srv.Terminate(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to terminate database: %v\n", err)
	}
	os.Exit(code)
}

func TestOpenAndClose(t *testing.T) {
	conn, err := database.Open(context.Background(), server, logger.NewTestLogger(t))
	require.NoError(t, err)

	rows, err := conn.Executor().Query(context.Background(), "SELECT 1 AS one")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	require.NoError(t, conn.Close())
	require.NoError(t, conn.Close())
}

func TestOpenWithBadCredentials(t *testing.T) {
	cfg := server
	cfg.Password = "wrong-password"

	conn, err := database.Open(context.Background(), cfg, logger.NewTestLogger(t))
	require.Error(t, err)
	assert.Nil(t, conn)

	var se *store.StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "connect", se.Operation)
	assert.NotContains(t, err.Error(), "wrong-password")
}

func TestOpenUnreachableServerRespectsConnectTimeout(t *testing.T) {
	cfg := server
	cfg.Host = "10.255.255.1"
	cfg.ConnectTimeout = 500 * time.Millisecond

	start := time.Now()
	conn, err := database.Open(context.Background(), cfg, logger.NewTestLogger(t))
	require.Error(t, err)
	assert.Nil(t, conn)
	assert.Less(t, time.Since(start), 10*time.Second)
}
