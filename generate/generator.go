package generate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/odit-bit/textgen/generate"

// Generator owns the loaded model and forwards prompts to it.
// Calls are serialized, one generation runs at a time.
type Generator struct {
	mx       sync.Mutex
	model    Model
	defaults Options

	tracer   trace.Tracer
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

// New creates a Generator, fns override the default options.
func New(model Model, fns ...OptionFunc) (*Generator, error) {
	if model == nil {
		return nil, fmt.Errorf("generator model cannot be nil")
	}
	defaults, err := NewOptions(fns...)
	if err != nil {
		return nil, err
	}

	meter := otel.Meter(instrumentationName)
	requests, err := meter.Int64Counter(
		"textgen.generate.request_total",
		metric.WithDescription("total number of generation calls"),
	)
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram(
		"textgen.generate.duration",
		metric.WithDescription("duration of generation calls"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		mx:       sync.Mutex{},
		model:    model,
		defaults: defaults,
		tracer:   otel.Tracer(instrumentationName),
		requests: requests,
		duration: duration,
	}, nil
}

// Model returns the checkpoint name.
func (g *Generator) Model() string {
	return g.model.Name()
}

// Defaults returns the options used when a caller has no overrides.
func (g *Generator) Defaults() Options {
	return g.defaults
}

// Load resolves the model checkpoint. A failure here is fatal for callers.
func (g *Generator) Load(ctx context.Context) error {
	start := time.Now()
	if err := g.model.Load(ctx); err != nil {
		return fmt.Errorf("load model %s: %w", g.model.Name(), err)
	}
	slog.Info("model loaded", "model", g.model.Name(), "took", time.Since(start))
	return nil
}

// Generate returns opts.NumReturnSequences decoded strings, each beginning with prompt.
func (g *Generator) Generate(ctx context.Context, prompt string, opts Options) (seqs []string, err error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	g.mx.Lock()
	defer g.mx.Unlock()

	ctx, span := g.tracer.Start(ctx, "generate")
	span.SetAttributes(
		attribute.String("model", g.model.Name()),
		attribute.Int("max_length", opts.MaxLength),
		attribute.Int("num_return_sequences", opts.NumReturnSequences),
		attribute.Float64("temperature", opts.Temperature),
		attribute.Bool("do_sample", opts.DoSample),
	)
	start := time.Now()
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		attrs := metric.WithAttributes(attribute.String("status", status))
		g.requests.Add(ctx, 1, attrs)
		g.duration.Record(ctx, time.Since(start).Seconds(), attrs)
		span.End()
	}()

	res, err := g.model.Sample(ctx, newSampleRequest(prompt, opts))
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	if len(res.Sequences) != opts.NumReturnSequences {
		return nil, fmt.Errorf("generate: model returned %d sequences, want %d", len(res.Sequences), opts.NumReturnSequences)
	}

	seqs = make([]string, 0, len(res.Sequences))
	for _, s := range res.Sequences {
		seqs = append(seqs, Decode(prompt, s.Text))
	}
	slog.Debug("generate finish", "model", res.Model, "sequences", len(seqs), "took", time.Since(start))
	return seqs, nil
}
