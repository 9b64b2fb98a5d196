package generate

import (
	"context"
	"time"
)

// Model is the pretrained checkpoint served by an external runtime.
type Model interface {
	// Name of the checkpoint.
	Name() string
	// Load resolves the checkpoint, downloading it when the local cache misses.
	Load(ctx context.Context) error
	// Sample runs the runtime's autoregressive sampling over the prompt.
	Sample(ctx context.Context, req SampleRequest) (*SampleResult, error)
}

// SampleRequest is what the wrapper hands to the runtime.
type SampleRequest struct {
	Prompt             string
	MaxLength          int
	NumReturnSequences int
	Temperature        float64
	Seed               int64
	DoSample           bool

	TopP              float64
	TopK              int
	RepetitionPenalty float64
	NoRepeatNgramSize int
}

// HasSeed reports whether the request pins the runtime's random seed.
func (r SampleRequest) HasSeed() bool {
	return r.Seed >= 0
}

// SampleResult holds one sequence per requested sequence.
type SampleResult struct {
	Model     string
	Created   time.Time
	Sequences []Sequence
}

// Sequence is a raw continuation, the prompt is not part of Text.
type Sequence struct {
	Text         string
	FinishReason string
	// generated token count, zero when the runtime does not report it
	Tokens int
}

func newSampleRequest(prompt string, opts Options) SampleRequest {
	return SampleRequest{
		Prompt:             prompt,
		MaxLength:          opts.MaxLength,
		NumReturnSequences: opts.NumReturnSequences,
		Temperature:        opts.Temperature,
		Seed:               opts.Seed,
		DoSample:           opts.DoSample,
		TopP:               TopP,
		TopK:               TopK,
		RepetitionPenalty:  RepetitionPenalty,
		NoRepeatNgramSize:  NoRepeatNgramSize,
	}
}
