package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/odit-bit/textgen/generate"
	ollama "github.com/ollama/ollama/api"
)

const (
	_ollama_domain = "http://127.0.0.1:11434"
)

//-----------------------------------------------

var _ generate.Model = (*OllamaAPI)(nil)

type OllamaAPI struct {
	model string
	c     *ollama.Client
	conf  *Config
}

func NewOllamaAdapter(model string, config *Config) (*OllamaAPI, error) {
	if model == "" {
		return nil, fmt.Errorf("ollama_adapter model cannot be empty")
	}
	if config == nil {
		config = &Config{}
	}
	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = _ollama_domain
	}
	oUrl, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("ollama_adapter invalid endpoint: %w", err)
	}
	cli := ollama.NewClient(oUrl, http.DefaultClient)
	oa := OllamaAPI{
		model: model,
		c:     cli,
		conf:  config,
	}
	return &oa, nil
}

// Name implements generate.Model.
func (oapi *OllamaAPI) Name() string {
	return oapi.model
}

// Load implements generate.Model.
// The registry acts as the model hub and the runtime keeps the local cache.
func (oapi *OllamaAPI) Load(ctx context.Context) error {
	show, err := oapi.c.Show(ctx, &ollama.ShowRequest{Model: oapi.model})
	if err == nil {
		slog.Debug("ollama_adapter model cached", "model", oapi.model, "family", show.Details.Family, "parameters", show.Details.ParameterSize)
		return nil
	}

	var statusErr ollama.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound || !oapi.conf.Pull {
		return fmt.Errorf("ollama_adapter show model: %w", err)
	}

	slog.Info("ollama_adapter pulling model", "model", oapi.model)
	err = oapi.c.Pull(ctx, &ollama.PullRequest{Model: oapi.model}, func(pr ollama.ProgressResponse) error {
		slog.Debug("ollama_adapter pull", "status", pr.Status, "completed", pr.Completed, "total", pr.Total)
		return nil
	})
	if err != nil {
		return fmt.Errorf("ollama_adapter pull model: %w", err)
	}

	if _, err := oapi.c.Show(ctx, &ollama.ShowRequest{Model: oapi.model}); err != nil {
		return fmt.Errorf("ollama_adapter show model: %w", err)
	}
	return nil
}

// Sample implements generate.Model.
// The runtime returns one completion per call, so sequences are sampled one after another.
func (oapi *OllamaAPI) Sample(ctx context.Context, req generate.SampleRequest) (*generate.SampleResult, error) {
	res := &generate.SampleResult{
		Model:     oapi.model,
		Sequences: make([]generate.Sequence, 0, req.NumReturnSequences),
	}

	stream := false
	for i := 0; i < req.NumReturnSequences; i++ {
		oReq := &ollama.GenerateRequest{
			Model:   oapi.model,
			Prompt:  req.Prompt,
			Raw:     true,
			Stream:  &stream,
			Options: OllamaOptions(req, i),
		}
		if oapi.conf.KeepAlive > 0 {
			oReq.KeepAlive = &ollama.Duration{Duration: oapi.conf.KeepAlive}
		}

		var seq *generate.Sequence
		err := oapi.c.Generate(ctx, oReq, func(gr ollama.GenerateResponse) error {
			if seq == nil {
				seq = &generate.Sequence{}
			}
			seq.Text += gr.Response
			if gr.Done {
				seq.FinishReason = gr.DoneReason
				seq.Tokens = gr.EvalCount
				if res.Created.IsZero() {
					res.Created = gr.CreatedAt
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("ollama_adapter generate: %w", err)
		}
		if seq == nil {
			return nil, fmt.Errorf("ollama_adapter generate: empty response")
		}
		res.Sequences = append(res.Sequences, *seq)
	}

	if res.Created.IsZero() {
		res.Created = time.Now()
	}
	return res, nil
}

// OllamaOptions maps a sample request onto runtime options for the i-th sequence.
func OllamaOptions(req generate.SampleRequest, i int) map[string]any {
	opts := map[string]any{
		"num_predict":    req.MaxLength,
		"temperature":    req.Temperature,
		"top_p":          req.TopP,
		"top_k":          req.TopK,
		"repeat_penalty": req.RepetitionPenalty,
		// penalize repeats over the whole context, ollama has no n-gram ban
		"repeat_last_n": -1,
	}
	if !req.DoSample {
		opts["temperature"] = 0
		opts["top_k"] = 1
	}
	if req.HasSeed() {
		opts["seed"] = req.Seed + int64(i)
	}
	return opts
}
