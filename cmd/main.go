package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/haldane/eegx/internal/repositories"
	"github.com/haldane/eegx/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	configPath := "config.toml"
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}

	httpClient := &http.Client{}
	if config.Backend.RequestTimeout > 0 {
		httpClient.Timeout = time.Duration(config.Backend.RequestTimeout) * time.Second
	}

	opts := RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		HTTPClient: httpClient,
		Logger:     logger,
	}

	// sqlite creates the file on first open, so this works before `setup` too
	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		logger.Warn("local state database unavailable, session id will not persist", "error", err)
	} else {
		defer db.Close()
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		if err := shared.RunMigrations(db); err != nil {
			logger.Warn("failed to run migrations", "error", err)
		} else {
			opts.DB = db
			opts.IDStore = repositories.NewSessionIDRepository(db)
		}
	}

	runner := NewRunner(opts)

	app := &cli.Command{
		Name:     "eegx",
		Usage:    "Terminal client for the EEG pipeline backend",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
