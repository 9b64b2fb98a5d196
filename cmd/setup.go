package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/odit-bit/textgen/textgen"
	"github.com/odit-bit/textgen/textgen/config"
	"github.com/spf13/pflag"
)

const serviceName = "textgen"

// load configuration and start observability, the returned shutdown is never nil.
func setup(ctx context.Context, flags *pflag.FlagSet) (*config.Config, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	cfg, err := config.LoadAndValidate(flags)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		return nil, noop, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	shutdown, err := textgen.InitObservability(ctx, serviceName, cfg.Observe)
	if err != nil {
		return nil, noop, fmt.Errorf("failed init obervability: %w", err)
	}
	return cfg, shutdown, nil
}

func flush(shutdown func(context.Context) error) {
	if err := shutdown(context.Background()); err != nil {
		slog.Error("observability shutdown", "error", err)
	}
}
