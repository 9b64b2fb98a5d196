package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/odit-bit/textgen/generate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockGenerator struct {
	prompts []string
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string, opts generate.Options) ([]string, error) {
	m.prompts = append(m.prompts, prompt)
	if prompt == "fail" {
		return nil, errors.New("model unavailable")
	}
	seqs := make([]string, opts.NumReturnSequences)
	for i := range seqs {
		seqs[i] = prompt + " jumps"
	}
	return seqs, nil
}

func Test_promptLoop(t *testing.T) {
	g := &mockGenerator{}
	in := strings.NewReader("The quick brown fox\n\nfail\nagain\n/exit\nnever\n")
	var out bytes.Buffer

	opts, err := generate.NewOptions(generate.WithNumReturnSequences(2))
	require.NoError(t, err)

	require.NoError(t, promptLoop(context.Background(), in, &out, g, opts))

	assert.Equal(t, []string{"The quick brown fox", "fail", "again"}, g.prompts)
	assert.Contains(t, out.String(), "1. The quick brown fox jumps\n2. The quick brown fox jumps\n")
	assert.Contains(t, out.String(), ">error: model unavailable")
	assert.Contains(t, out.String(), "1. again jumps\n")
}

func Test_promptLoopEOF(t *testing.T) {
	g := &mockGenerator{}
	var out bytes.Buffer
	require.NoError(t, promptLoop(context.Background(), strings.NewReader("last line"), &out, g, generate.DefaultOptions()))
	assert.Equal(t, []string{"last line"}, g.prompts)
}

func Test_readPrompt(t *testing.T) {
	p, err := readPrompt([]string{"from args"}, strings.NewReader("ignored"))
	require.NoError(t, err)
	assert.Equal(t, "from args", p)

	p, err = readPrompt(nil, strings.NewReader("from stdin\n"))
	require.NoError(t, err)
	assert.Equal(t, "from stdin", p)
}

func TestConfigCMD(t *testing.T) {
	var out bytes.Buffer
	ConfigCMD.SetOut(&out)
	ConfigCMD.SetArgs([]string{"--model", "gpt2", "--apikey", "secret"})

	require.NoError(t, ConfigCMD.Execute())
	assert.Contains(t, out.String(), "name: gpt2")
	assert.Contains(t, out.String(), "apikey: <redacted>")
	assert.Contains(t, out.String(), "max_length: 100")
	assert.NotContains(t, out.String(), "secret")
}
