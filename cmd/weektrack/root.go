package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"weektrack/internal/config"
	"weektrack/internal/core"
	"weektrack/internal/persistence"
)

// app holds state shared by every subcommand. The service is opened lazily
// so help and completion never touch storage.
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	configPath string
	logLevel   string

	cfg      config.Config
	logger   *slog.Logger
	gateway  persistence.Gateway
	registry *prometheus.Registry
	svc      *core.Service
}

// run executes one CLI invocation and releases storage afterwards.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	return errors.Join(err, a.close())
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "weektrack",
		Short: "Track project tasks week by week",
		Long: `weektrack keeps projects split into numbered weeks, each holding named
categories of tasks. Every change is saved immediately to the configured
storage backend (filesystem, S3, SQLite or Postgres).

Examples:
  weektrack project add "Thesis"
  weektrack task add <project-id> "General Tasks" "Draft outline"
  weektrack task toggle <task-id>
  weektrack list`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "weektrack.yaml", "Path to an optional YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug|info|warn|error (overrides config)")

	root.AddCommand(
		a.listCommand(),
		a.projectCommand(),
		a.weekCommand(),
		a.categoryCommand(),
		a.taskCommand(),
		a.exportCommand(),
		a.importCommand(),
		a.resetCommand(),
	)
	return root
}

// storage loads configuration and opens the storage gateway on first use.
func (a *app) storage(ctx context.Context) (persistence.Gateway, error) {
	if a.gateway != nil {
		return a.gateway, nil
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	a.cfg = cfg
	a.logger = newLogger(a.stderr, cfg.Log.Level, cfg.Log.Format)

	gw, err := persistence.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.gateway = gw
	return gw, nil
}

// service opens storage and the tracker on first use.
func (a *app) service(ctx context.Context) (*core.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	gw, err := a.storage(ctx)
	if err != nil {
		return nil, err
	}

	a.registry = prometheus.NewRegistry()
	recorder, err := core.NewPrometheusRecorder(a.registry)
	if err != nil {
		return nil, err
	}
	svc, err := core.Open(ctx, gw,
		core.WithLogger(a.logger),
		core.WithMetrics(recorder),
	)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("tracker opened", "driver", a.cfg.StorageDriver, "projects", len(svc.Projects()))
	a.svc = svc
	return svc, nil
}

func (a *app) close() error {
	var errs []error
	if a.registry != nil && a.cfg.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(a.cfg.MetricsFile, a.registry); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
	}
	if a.gateway != nil {
		if err := a.gateway.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close storage: %w", err))
		}
		a.gateway = nil
	}
	return errors.Join(errs...)
}
