package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cubatrice/engine/internal/config"
	"github.com/cubatrice/engine/internal/data"
	"github.com/cubatrice/engine/internal/engine"
	"github.com/cubatrice/engine/internal/repository"
	"github.com/cubatrice/engine/internal/server"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting cubatrice server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	store, err := data.LoadAll(cfg.Game.DataDir)
	if err != nil {
		logger.Fatal("failed to load reference data", zap.Error(err))
	}
	logger.Info("reference data loaded",
		zap.String("dir", cfg.Game.DataDir),
		zap.Int("colonies", len(store.Colonies())),
		zap.Int("technologies", len(store.Technologies())),
	)

	opts := []engine.Option{engine.WithLogger(logger.Named("engine"))}
	if cfg.Database.URL != "" {
		records, err := repository.Open(ctx, cfg.Database.URL, logger.Named("repository"))
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer records.Close()
		opts = append(opts, engine.WithSink(records))
		logger.Info("record log persistence enabled")
	} else {
		logger.Warn("no database configured; record log is in-memory only")
	}

	session := engine.NewSession(store, cfg.Game.Confluences, opts...)
	logger.Info("game session created",
		zap.Stringer("game_id", session.ID()),
		zap.Int("confluences", cfg.Game.Confluences),
	)

	gateway := server.NewGateway(session, logger.Named("gateway"))
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gateway.Handler())

	srv := &http.Server{
		Addr:    cfg.Server.Listen,
		Handler: mux,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("gateway listening", zap.String("addr", cfg.Server.Listen))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		logger.Error("gateway failed", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var zc zap.Config
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
