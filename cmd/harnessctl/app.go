package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fatih/color"
	"github.com/phrazzld/e2e-harness/internal/config"
	"github.com/phrazzld/e2e-harness/internal/fixture"
	"github.com/phrazzld/e2e-harness/internal/harness"
	"github.com/phrazzld/e2e-harness/internal/metrics"
	"github.com/phrazzld/e2e-harness/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// Output formats.
const (
	outputText = "text"
	outputJSON = "json"
)

const releaseTimeout = 10 * time.Second

// app holds the state shared by every subcommand of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer
	extra  []harness.Option

	output      string
	showMetrics bool
	workerID    string

	logger   *slog.Logger
	registry *prometheus.Registry
	worker   *fixture.Worker
	db       *harness.DB
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, opts ...harness.Option) int {
	a := &app{stdout: stdout, stderr: stderr, extra: opts}

	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if cerr := a.close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	if err != nil {
		fmt.Fprintf(stderr, "%s %v\n", color.RedString("error:"), err)
		return 1
	}
	return 0
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "harnessctl",
		Short: "Exercise the database test fixtures from the command line",
		Long: `harnessctl acquires the same worker-scoped connection that database-backed
tests use and runs a single operation through it.

Connection parameters come from DB_DRIVER, DB_HOST, DB_PORT, DB_USER,
DB_PASSWORD and DB_NAME, or a .env file in the working directory.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return a.setup() },
	}

	root.PersistentFlags().StringVarP(&a.output, "output", "o", outputText, "Output format (text, json)")
	root.PersistentFlags().BoolVar(&a.showMetrics, "metrics", false, "Print collected metrics on exit")
	root.PersistentFlags().StringVar(&a.workerID, "worker", "", "Worker identity (defaults to E2E_WORKER_ID or the process id)")

	root.AddCommand(a.pingCommand(), a.usersCommand())
	return root
}

// setup loads configuration and registers the fixtures. No connection is
// opened until a subcommand asks for one.
func (a *app) setup() error {
	if a.output != outputText && a.output != outputJSON {
		return fmt.Errorf("unknown output format %q", a.output)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	a.logger, err = logger.SetupWithWriter(cfg.Log, a.stderr)
	if err != nil {
		return err
	}

	a.registry = metrics.NewRegistry()
	fixtures := metrics.NewFixtureMetrics(a.registry)
	statements := metrics.NewStatementMetrics(a.registry)

	a.worker = fixture.NewWorker(a.workerID, fixture.WithLogger(a.logger), fixture.WithObserver(fixtures))

	opts := append([]harness.Option{
		harness.WithLogger(a.logger),
		harness.WithStatementHook(statements.Observe),
	}, a.extra...)
	a.db = harness.New(a.worker, cfg.Database, opts...)
	return nil
}

// close releases the worker scope and prints metrics when asked to.
func (a *app) close() error {
	if a.worker == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()
	err := a.worker.Close(ctx)

	if a.showMetrics {
		if werr := metrics.WriteText(a.stdout, a.registry); werr != nil {
			err = errors.Join(err, werr)
		}
	}
	return err
}
