package cmd

import (
	"context"
	"fmt"
	"os"

	"rules-service/core/config"
	"rules-service/core/logger"

	"github.com/goccy/go-json"
)

// loadApp loads the configuration and wires the service for a one-shot
// command.
func loadApp(ctx context.Context) (*App, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a, err := buildApp(ctx, cfg, l)
	if err != nil {
		_ = l.Sync()
		return nil, err
	}
	return a, nil
}

// printJSON writes v to stdout, indented.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
