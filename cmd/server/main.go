package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/velodash/gearframe/internal/config"
	"github.com/velodash/gearframe/internal/crypto"
	"github.com/velodash/gearframe/internal/gear"
	"github.com/velodash/gearframe/internal/server"
	"github.com/velodash/gearframe/internal/session"
	"github.com/velodash/gearframe/internal/strava"
	"github.com/velodash/gearframe/internal/tokens"
	"github.com/velodash/gearframe/internal/tokens/boltdb"
	"github.com/velodash/gearframe/internal/tokens/file"
	"github.com/velodash/gearframe/internal/tokens/sealed"
	"github.com/velodash/gearframe/internal/tokens/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

const shutdownTimeout = 10 * time.Second

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := run(logger); err != nil {
		logger.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Display.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.Display.Timezone, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg.Tokens)
	if err != nil {
		return fmt.Errorf("failed to open credential store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close credential store", slog.Any("error", err))
		}
	}()

	client := strava.NewClient(strava.Config{
		ClientID:     cfg.Strava.ClientID,
		ClientSecret: cfg.Strava.ClientSecret,
		RedirectURI:  cfg.Strava.CallbackURL,
	})

	router := server.NewRouter(server.Deps{
		Logger:     logger,
		Store:      store,
		Client:     client,
		Sessions:   session.NewProvider(logger, store, client),
		Aggregator: gear.NewAggregator(loc),
		Version:    Version,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errC := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.Server.Addr()),
			slog.String("store_driver", cfg.Tokens.Driver),
			slog.String("timezone", cfg.Display.Timezone),
			slog.String("version", Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
	}()

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}

// openStore builds the configured credential store, wrapped with at-rest
// encryption when a secret is configured
func openStore(ctx context.Context, cfg config.TokensConfig) (tokens.Store, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	var (
		store tokens.Store
		err   error
	)
	switch cfg.Driver {
	case config.DriverFile:
		store, err = file.New(cfg.Path)
	case config.DriverBolt:
		store, err = boltdb.New(ctx, cfg.Path)
	case config.DriverSQLite:
		store, err = sqlite.New(ctx, cfg.Path)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Secret == "" {
		return store, nil
	}

	key, err := crypto.DeriveKey(cfg.Secret)
	if err != nil {
		return nil, fmt.Errorf("failed to derive encryption key: %w", err)
	}

	return sealed.New(store, key)
}

func printVersion() {
	fmt.Printf("gearframe server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
