package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sourceverify/sourceverify/internal/chainconfig"
	"github.com/sourceverify/sourceverify/internal/config"
	"github.com/sourceverify/sourceverify/internal/fetch"
	"github.com/sourceverify/sourceverify/internal/model"
	"github.com/sourceverify/sourceverify/internal/monitor"
	"github.com/sourceverify/sourceverify/internal/monitor/pgcheckpoint"
	"github.com/sourceverify/sourceverify/internal/obs"
	"github.com/sourceverify/sourceverify/internal/supervisor"
	"github.com/sourceverify/sourceverify/internal/transport"
	"github.com/sourceverify/sourceverify/internal/validate"
	"github.com/sourceverify/sourceverify/internal/verifier"
)

func main() {
	root := &cobra.Command{
		Use:          "sourceverify",
		Short:        "Solidity metadata validation engine and EVM chain monitor",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	validateCmd := &cobra.Command{
		Use:   "validate [paths...]",
		Short: "Check a bag of files, directories, or archives against their embedded metadata manifests",
		RunE:  runValidate,
	}
	validateCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(validateCmd)

	monitorCmd := &cobra.Command{
		Use:   "monitor",
		Short: "Poll configured chains for newly deployed, verifiable contracts",
		RunE:  runMonitor,
	}
	monitorCmd.Flags().String("chains-file", "./chains.toml", "chain descriptor list (TOML)")
	monitorCmd.Flags().Bool("use-test-chains", false, "monitor test-flagged chains instead of production chains")
	monitorCmd.Flags().String("checkpoint-dir", "./data/checkpoints", "per-chain checkpoint directory")
	monitorCmd.Flags().Bool("checkpoint-enabled", true, "enable file-based checkpointing")
	monitorCmd.Flags().String("postgres-dsn", "", "optional Postgres DSN for checkpoint storage instead of the file store")
	monitorCmd.Flags().Float64("block-pause-factor", 1.1, "adaptive pacing factor, must be > 1")
	monitorCmd.Flags().Int64("block-pause-upper-limit", 30000, "max block poll pause, ms")
	monitorCmd.Flags().Int64("block-pause-lower-limit", 500, "min block poll pause, ms")
	monitorCmd.Flags().Int64("web3-timeout", 3000, "RPC probe timeout, ms")
	monitorCmd.Flags().Int64("get-bytecode-retry-pause", 5000, "pause between empty-code retries, ms")
	monitorCmd.Flags().Int64("get-block-pause", 10000, "initial block poll pause, ms")
	monitorCmd.Flags().Int("initial-get-bytecode-tries", 3, "retry budget for empty deployed code")
	monitorCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(monitorCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadValidate(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := obs.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	paths := args
	if len(paths) == 0 {
		paths = cfg.Paths
	}
	if len(paths) == 0 {
		return fmt.Errorf("at least one path is required")
	}

	engine := validate.NewEngine(logger)

	var unreadable, unused, malformed []string
	contracts, err := engine.CheckPaths(paths, &unreadable, &unused, &malformed)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	report := &model.ValidationReport{
		Contracts:       contracts,
		UnusedSources:   unused,
		UnreadablePaths: unreadable,
		MalformedPaths:  malformed,
	}
	logger.Info("validation complete",
		zap.Int("contracts", len(report.Contracts)),
		zap.Int("unused_sources", len(report.UnusedSources)),
		zap.Int("unreadable_paths", len(report.UnreadablePaths)),
		zap.Int("malformed_paths", len(report.MalformedPaths)),
	)

	for _, c := range contracts {
		logger.Info("checked contract",
			zap.String("target", c.Manifest.CompilationTargetPath()),
			zap.Bool("valid", c.Valid()),
			zap.Int("found", len(c.Found)),
			zap.Int("missing", len(c.Missing)),
			zap.Int("invalid", len(c.Invalid)),
		)
	}

	return nil
}

func runMonitor(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadMonitor(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := obs.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := cfg.Monitor.Validate(); err != nil {
		return err
	}

	descriptors, err := chainconfig.LoadDefault(cfg.ChainsFile, cfg.UseTestChains)
	if err != nil {
		return fmt.Errorf("load chain descriptors: %w", err)
	}
	if len(descriptors) == 0 {
		return fmt.Errorf("no chains configured in %s", cfg.ChainsFile)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var checkpoints monitor.Checkpoints
	if cfg.PostgresDSN == "" {
		checkpoints = monitor.NewCheckpointStore(cfg.CheckpointDir, cfg.CheckpointEnabled)
	} else {
		pgStore, err := pgcheckpoint.NewStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("connect postgres checkpoint store: %w", err)
		}
		defer pgStore.Close()
		logger.Info("using postgres checkpoint store")
		checkpoints = pgStore.AsCheckpoints()
	}

	fetcher := fetch.New(transport.NoopResolver{}, logger)
	v := verifier.LoggingVerifier{Logger: logger}

	sup := supervisor.New(descriptors, cfg.Monitor, cfg.StartBlockOverrides, monitor.DefaultDialer, fetcher, v, checkpoints, logger)

	if err := sup.Start(ctx); err != nil {
		return fmt.Errorf("start supervisor: %w", err)
	}
	logger.Info("monitor supervisor started", zap.Int("chains", len(descriptors)))

	<-ctx.Done()
	logger.Info("shutdown signal received, stopping supervisor")
	sup.Stop()
	return nil
}
