package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/haldane/eegx/internal/shared"
	"github.com/urfave/cli/v3"
)

// ConfigShow displays the active configuration.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	return r.writeJSON(r.config, cmd.Bool("pretty"))
}

// ConfigSet updates one configuration value and writes the file back to disk.
//
// Keys use dotted paths matching the TOML layout, e.g. backend.base_url or
// sync.debounce_ms.
func (r *Runner) ConfigSet(ctx context.Context, cmd *cli.Command) error {
	key := cmd.StringArg("key")
	value := cmd.StringArg("value")

	if key == "" || value == "" {
		return fmt.Errorf("%w: key and value are required", shared.ErrMissingArgument)
	}

	switch key {
	case "backend.base_url":
		r.config.Backend.BaseURL = value
	case "backend.request_timeout_sec":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", shared.ErrInvalidArgument, key)
		}
		r.config.Backend.RequestTimeout = n
	case "sync.debounce_ms":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer", shared.ErrInvalidArgument, key)
		}
		r.config.Sync.DebounceMS = n
	case "database.path":
		r.config.Database.Path = value
	case "log.level":
		r.config.Log.Level = value
	case "log.file":
		r.config.Log.File = value
	default:
		return fmt.Errorf("%w: unknown config key %q", shared.ErrInvalidArgument, key)
	}

	path := r.configPath
	if path == "" {
		path = "config.toml"
	}

	if err := shared.SaveConfig(path, r.config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	r.logger.Info("config updated", "key", key, "path", path)
	return r.writePlainln("✓ %s = %s", key, value)
}
