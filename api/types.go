package api

import (
	"time"

	"github.com/odit-bit/textgen/generate"
)

// Request
//
// Omitted knobs fall back to the server defaults.
type GenerateRequest struct {
	Prompt             string   `json:"prompt"`
	MaxLength          *int     `json:"max_length,omitempty"`
	NumReturnSequences *int     `json:"num_return_sequences,omitempty"`
	Temperature        *float64 `json:"temperature,omitempty"`
	Seed               *int64   `json:"seed,omitempty"`
	DoSample           *bool    `json:"do_sample,omitempty"`
}

// Response
type GenerateResponse struct {
	Created   time.Time `json:"created"`
	Model     string    `json:"model"`
	Sequences []string  `json:"sequences"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

/* HELPER  */

// NewGenerateRequest sets every knob from opts.
func NewGenerateRequest(prompt string, opts generate.Options) *GenerateRequest {
	return &GenerateRequest{
		Prompt:             prompt,
		MaxLength:          &opts.MaxLength,
		NumReturnSequences: &opts.NumReturnSequences,
		Temperature:        &opts.Temperature,
		Seed:               &opts.Seed,
		DoSample:           &opts.DoSample,
	}
}

// Options merges the request knobs over defaults and validates the result.
func (r *GenerateRequest) Options(defaults generate.Options) (generate.Options, error) {
	fns := []generate.OptionFunc{}
	if r.MaxLength != nil {
		fns = append(fns, generate.WithMaxLength(*r.MaxLength))
	}
	if r.NumReturnSequences != nil {
		fns = append(fns, generate.WithNumReturnSequences(*r.NumReturnSequences))
	}
	if r.Temperature != nil {
		fns = append(fns, generate.WithTemperature(*r.Temperature))
	}
	if r.Seed != nil {
		fns = append(fns, generate.WithSeed(*r.Seed))
	}
	if r.DoSample != nil {
		doSample := *r.DoSample
		fns = append(fns, func(o *generate.Options) { o.DoSample = doSample })
	}
	return defaults.With(fns...)
}
