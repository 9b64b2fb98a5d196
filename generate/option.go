package generate

import (
	"errors"
	"fmt"
	"math"
)

// Secondary sampling controls. They are fixed for every request.
const (
	TopP              = 0.92
	TopK              = 50
	RepetitionPenalty = 1.5
	NoRepeatNgramSize = 2
)

const (
	DefaultMaxLength          = 100
	DefaultNumReturnSequences = 1
	DefaultTemperature        = 0.85

	// seed value that lets the runtime pick a random seed
	RandomSeed int64 = -1
)

var (
	ErrEmptyPrompt    = errors.New("prompt cannot be empty")
	ErrInvalidOptions = errors.New("invalid generation options")
)

// Options holds the request-scoped generation tunables.
type Options struct {
	MaxLength          int
	NumReturnSequences int
	Temperature        float64
	Seed               int64
	// false selects greedy decoding.
	DoSample bool
}

func DefaultOptions() Options {
	return Options{
		MaxLength:          DefaultMaxLength,
		NumReturnSequences: DefaultNumReturnSequences,
		Temperature:        DefaultTemperature,
		Seed:               RandomSeed,
		DoSample:           true,
	}
}

type OptionFunc func(o *Options)

func WithMaxLength(n int) OptionFunc {
	return func(o *Options) {
		o.MaxLength = n
	}
}

func WithNumReturnSequences(n int) OptionFunc {
	return func(o *Options) {
		o.NumReturnSequences = n
	}
}

func WithTemperature(t float64) OptionFunc {
	return func(o *Options) {
		o.Temperature = t
	}
}

// fixed seed, negative means random
func WithSeed(seed int64) OptionFunc {
	return func(o *Options) {
		o.Seed = seed
	}
}

// disable sampling, the runtime always picks the most likely token.
func WithGreedy() OptionFunc {
	return func(o *Options) {
		o.DoSample = false
	}
}

// NewOptions applies fns over DefaultOptions and validates the result.
func NewOptions(fns ...OptionFunc) (Options, error) {
	return DefaultOptions().With(fns...)
}

// With returns a validated copy of o with fns applied.
func (o Options) With(fns ...OptionFunc) (Options, error) {
	for _, fn := range fns {
		fn(&o)
	}
	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}

func (o Options) Validate() error {
	if o.MaxLength <= 0 {
		return fmt.Errorf("%w: max length must be positive, got %d", ErrInvalidOptions, o.MaxLength)
	}
	if o.NumReturnSequences <= 0 {
		return fmt.Errorf("%w: number of sequences must be positive, got %d", ErrInvalidOptions, o.NumReturnSequences)
	}
	if !o.DoSample {
		// greedy search yields a single candidate
		if o.NumReturnSequences > 1 {
			return fmt.Errorf("%w: greedy decoding returns one sequence, got %d", ErrInvalidOptions, o.NumReturnSequences)
		}
		return nil
	}
	if math.IsNaN(o.Temperature) || math.IsInf(o.Temperature, 0) || o.Temperature <= 0 {
		return fmt.Errorf("%w: temperature must be positive when sampling, got %v", ErrInvalidOptions, o.Temperature)
	}
	return nil
}
