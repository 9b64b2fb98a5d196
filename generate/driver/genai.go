package driver

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/odit-bit/textgen/generate"
	"google.golang.org/genai"
)

var _ generate.Model = (*GeminiAdapter)(nil)

type GeminiAdapter struct {
	model string
	cli   *genai.Client
	conf  *Config
}

func NewGeminiAdapter(ctx context.Context, model, key string, config *Config) (*GeminiAdapter, error) {
	if model == "" {
		return nil, fmt.Errorf("gemini_adapter model cannot be empty")
	}
	if config == nil {
		config = &Config{}
	}

	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: config.Endpoint,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed start gemini_adapter: %s", err)
	}

	ga := &GeminiAdapter{
		model: model,
		cli:   cli,
		conf:  config,
	}

	return ga, nil
}

// Name implements generate.Model.
func (g *GeminiAdapter) Name() string {
	return g.model
}

// Load implements generate.Model.
// Checkpoints are hosted remotely, loading only checks the model exists.
func (g *GeminiAdapter) Load(ctx context.Context) error {
	if _, err := g.cli.Models.Get(ctx, g.model, nil); err != nil {
		return fmt.Errorf("gemini_adapter get model: %w", err)
	}
	return nil
}

// Sample implements generate.Model.
func (g *GeminiAdapter) Sample(ctx context.Context, req generate.SampleRequest) (*generate.SampleResult, error) {
	config := GenerateContentConfig(req)
	resp, err := g.cli.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), config)
	if err != nil {
		return nil, fmt.Errorf("gemini_adapter failed generating content: %w", err)
	}

	res := &generate.SampleResult{
		Model:     resp.ModelVersion,
		Created:   resp.CreateTime,
		Sequences: candidatesToSequences(resp.Candidates),
	}
	if res.Model == "" {
		res.Model = g.model
	}
	if res.Created.IsZero() {
		res.Created = time.Now()
	}
	return res, nil
}

// GenerateContentConfig maps a sample request onto the gemini generation config.
func GenerateContentConfig(req generate.SampleRequest) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		CandidateCount:  clampInt32(int64(req.NumReturnSequences)),
		MaxOutputTokens: clampInt32(int64(req.MaxLength)),
		Temperature:     genai.Ptr(float32(req.Temperature)),
		TopP:            genai.Ptr(float32(req.TopP)),
		TopK:            genai.Ptr(float32(req.TopK)),
		// gemini penalizes additively, 1.0 is the neutral multiplicative penalty
		PresencePenalty: genai.Ptr(float32(req.RepetitionPenalty - 1)),
	}
	if !req.DoSample {
		config.Temperature = genai.Ptr[float32](0)
		config.TopK = genai.Ptr[float32](1)
	}
	if req.HasSeed() {
		// gemini seeds are int32, fold larger seeds into range
		config.Seed = genai.Ptr(int32(req.Seed % math.MaxInt32))
	}
	return config
}

func clampInt32(v int64) int32 {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(v)
}

func candidatesToSequences(candidates []*genai.Candidate) []generate.Sequence {
	seqs := make([]generate.Sequence, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}
		var sb strings.Builder
		if c.Content != nil {
			for _, p := range c.Content.Parts {
				if p != nil && !p.Thought {
					sb.WriteString(p.Text)
				}
			}
		}
		seqs = append(seqs, generate.Sequence{
			Text:         sb.String(),
			FinishReason: string(c.FinishReason),
			Tokens:       int(c.TokenCount),
		})
	}
	return seqs
}
