package textgen

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/odit-bit/textgen/generate"
	"github.com/odit-bit/textgen/generate/driver"
	"github.com/odit-bit/textgen/textgen/config"
)

// Generator is what front-ends need from the generation wrapper.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts generate.Options) ([]string, error)
	Defaults() generate.Options
	Model() string
}

var _ Generator = (*generate.Generator)(nil)

// NewModel picks the runtime adapter named by the config.
func NewModel(ctx context.Context, cfg config.Model) (generate.Model, error) {
	dcfg := &driver.Config{
		Endpoint:  cfg.Endpoint,
		Pull:      cfg.Pull,
		KeepAlive: cfg.KeepAlive,
	}

	var (
		model generate.Model
		err   error
	)
	switch cfg.Provider {
	case config.ProviderOllama:
		model, err = driver.NewOllamaAdapter(cfg.Name, dcfg)
	case config.ProviderGenai:
		model, err = driver.NewGeminiAdapter(ctx, cfg.Name, cfg.ApiKey, dcfg)
	default:
		return nil, fmt.Errorf("unknown provider specified in config: %s", cfg.Provider)
	}
	if err != nil {
		// keep the interface nil, adapters return typed nil pointers
		return nil, err
	}
	return model, nil
}

// New builds the generator and loads the checkpoint. Load failures are returned as is.
func New(ctx context.Context, cfg *config.Config) (*generate.Generator, error) {
	//logging
	if cfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
		slog.Debug("configuration", "config", cfg.Redacted())
	}

	model, err := NewModel(ctx, cfg.Model)
	if err != nil {
		slog.Error("textgen init model", "error", err)
		return nil, err
	}

	defaults, err := cfg.Generation.Options()
	if err != nil {
		return nil, err
	}
	g, err := generate.New(model, func(o *generate.Options) { *o = defaults })
	if err != nil {
		return nil, err
	}

	if err := g.Load(ctx); err != nil {
		slog.Error("textgen load model", "model", cfg.Model.Name, "error", err)
		return nil, err
	}
	return g, nil
}
