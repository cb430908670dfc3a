package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jlcsearch/jlcsearch-mcp/internal/catalog"
	"github.com/jlcsearch/jlcsearch-mcp/internal/config"
	"github.com/jlcsearch/jlcsearch-mcp/internal/mcp"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
)

func main() {
	root := &cobra.Command{
		Use:     "jlcsearch",
		Short:   "JLCPCB component search MCP server",
		Version: fmt.Sprintf("%s (built %s, %s/%s driver)", version, buildTime, catalog.BuildMode, catalog.DriverName),
		RunE:    runServe,
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to YAML config file")
	root.PersistentFlags().StringVar(&flagDBPath, "db", "", "path to the catalog database")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the MCP protocol on stdio (default)",
		RunE:  runServe,
	}

	update := &cobra.Command{
		Use:   "update",
		Short: "Download the latest catalog snapshot and exit",
		RunE:  runUpdate,
	}

	root.AddCommand(serve, update)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig applies flag overrides on top of file and environment.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagDBPath != "" {
		cfg.DatabasePath = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	return cfg, nil
}

// newLogger builds a zap logger writing to stderr. stdout carries the
// MCP protocol and must stay clean.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	return zcfg.Build()
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting server",
		zap.String("version", version),
		zap.String("build_mode", catalog.BuildMode),
		zap.String("database", cfg.DatabasePath))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	server, err := mcp.NewServer(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		log.Info("server ready, listening on stdio")
		errChan <- server.Serve(ctx)
	}()

	select {
	case sig := <-sigChan:
		log.Info("shutting down", zap.String("signal", sig.String()))
		cancel()
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	log.Info("server stopped")
	return nil
}

func runUpdate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	store, err := catalog.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer func() { _ = store.Close() }()

	ingestor := catalog.NewIngestor(store,
		catalog.WithMirrorURL(cfg.MirrorURL),
		catalog.WithIngestWorkers(cfg.IngestWorkers),
		catalog.WithIngestLogger(log),
	)

	log.Info("downloading catalog snapshot", zap.String("mirror", cfg.MirrorURL))
	if err := ingestor.Update(cmd.Context()); err != nil {
		return fmt.Errorf("catalog update failed: %w", err)
	}
	return nil
}
