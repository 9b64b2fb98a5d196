package generate

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	assert.Equal(t, 100, o.MaxLength)
	assert.Equal(t, 1, o.NumReturnSequences)
	assert.Equal(t, 0.85, o.Temperature)
	assert.Equal(t, RandomSeed, o.Seed)
	assert.True(t, o.DoSample)
	require.NoError(t, o.Validate())
}

func TestOptions_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		fns     []OptionFunc
		wantErr bool
	}{
		{name: "defaults"},
		{name: "zero max length", fns: []OptionFunc{WithMaxLength(0)}, wantErr: true},
		{name: "negative max length", fns: []OptionFunc{WithMaxLength(-3)}, wantErr: true},
		{name: "zero sequences", fns: []OptionFunc{WithNumReturnSequences(0)}, wantErr: true},
		{name: "zero temperature", fns: []OptionFunc{WithTemperature(0)}, wantErr: true},
		{name: "negative temperature", fns: []OptionFunc{WithTemperature(-0.5)}, wantErr: true},
		{name: "greedy ignores temperature", fns: []OptionFunc{WithGreedy(), WithTemperature(0)}},
		{name: "greedy many sequences", fns: []OptionFunc{WithGreedy(), WithNumReturnSequences(3)}, wantErr: true},
		{name: "nan temperature", fns: []OptionFunc{WithTemperature(math.NaN())}, wantErr: true},
		{name: "infinite temperature", fns: []OptionFunc{WithTemperature(math.Inf(1))}, wantErr: true},
		{name: "high temperature", fns: []OptionFunc{WithTemperature(2.5), WithNumReturnSequences(4)}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewOptions(tc.fns...)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidOptions)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestOptions_WithKeepsReceiver(t *testing.T) {
	base := DefaultOptions()
	o, err := base.With(WithMaxLength(12), WithSeed(3))
	require.NoError(t, err)
	assert.Equal(t, 12, o.MaxLength)
	assert.Equal(t, int64(3), o.Seed)
	assert.Equal(t, 100, base.MaxLength)
}

func TestStripSpecialTokens(t *testing.T) {
	testCases := []struct {
		in, out string
	}{
		{"hello<|endoftext|>", "hello"},
		{"<s>hello</s>", "hello"},
		{"a<pad><pad>b", "ab"},
		{"<|start_header_id|>x<|eot_id|>", "x"},
		{"keep <b>html</b> tags", "keep <b>html</b> tags"},
		{"a < b | c > d", "a < b | c > d"},
		{"a<pa<s>d>b", "ab"},
		{"a<u<s>nk>b", "ab"},
		{"x<|<|foo|>endoftext|>y", "xy"},
	}
	for _, tc := range testCases {
		got := StripSpecialTokens(tc.in)
		assert.Equal(t, tc.out, got)
		for _, tok := range SpecialTokens {
			assert.NotContains(t, got, tok)
		}
	}
}

func TestDecode(t *testing.T) {
	assert.Equal(t, "The quick brown fox jumps", Decode("The quick brown fox", " jumps<|endoftext|>"))
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Print(&buf, []string{"first", "second"}))
	assert.Equal(t, "1. first\n2. second\n", buf.String())
	assert.Equal(t, "", Format(nil))
}
