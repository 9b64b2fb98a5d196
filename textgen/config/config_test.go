package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/odit-bit/textgen/generate"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a new FlagSet for isolated tests
func newTestFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	DefineFlags(flags)
	return flags
}

func TestLoadAndValidate(t *testing.T) {
	// --- Test Case 1: Load from default config file ---
	t.Run("loads from default config", func(t *testing.T) {
		flags := newTestFlagSet()
		cfg, err := LoadAndValidate(flags)

		require.NoError(t, err)
		assert.Equal(t, "ollama", cfg.Model.Provider)
		assert.Equal(t, "qwen2.5:0.5b", cfg.Model.Name)
		assert.True(t, cfg.Model.Pull)
		assert.Equal(t, 5*time.Minute, cfg.Model.KeepAlive)
		assert.Equal(t, 100, cfg.Generation.MaxLength)
		assert.Equal(t, 1, cfg.Generation.NumReturnSequences)
		assert.Equal(t, 0.85, cfg.Generation.Temperature)
		assert.Equal(t, int64(-1), cfg.Generation.Seed)
		assert.True(t, cfg.Generation.DoSample)
		assert.Equal(t, "127.0.0.1:11824", cfg.Playground.Address)
		assert.Equal(t, 30*time.Minute, cfg.Bot.SessionTTL)
		assert.False(t, cfg.Debug)
	})

	// --- Test Case 2: Flag overrides config file ---
	t.Run("flag overrides config file", func(t *testing.T) {
		flags := newTestFlagSet()
		require.NoError(t, flags.Parse([]string{
			"--max-length", "42",
			"-n", "3",
			"--temperature", "1.1",
			"--debug=true",
		}))
		cfg, err := LoadAndValidate(flags)

		require.NoError(t, err)
		assert.Equal(t, 42, cfg.Generation.MaxLength)
		assert.Equal(t, 3, cfg.Generation.NumReturnSequences)
		assert.Equal(t, 1.1, cfg.Generation.Temperature)
		assert.True(t, cfg.Debug)
		assert.Equal(t, "ollama", cfg.Model.Provider) // From default config
	})

	// --- Test Case 3: Environment variable overrides config file ---
	t.Run("env var overrides config file", func(t *testing.T) {
		t.Setenv("TEXTGEN_MODEL_PROVIDER", "genai")
		t.Setenv("TEXTGEN_MODEL_NAME", "gemini-2.0-flash")
		t.Setenv("TEXTGEN_MODEL_APIKEY", "apikey_value")
		t.Setenv("TEXTGEN_GENERATION_TEMPERATURE", "0.5")

		flags := newTestFlagSet()
		cfg, err := LoadAndValidate(flags)

		require.NoError(t, err)
		assert.Equal(t, "genai", cfg.Model.Provider)
		assert.Equal(t, "gemini-2.0-flash", cfg.Model.Name)
		assert.Equal(t, "apikey_value", cfg.Model.ApiKey)
		assert.Equal(t, 0.5, cfg.Generation.Temperature)
	})

	// --- Test Case 4: Flag overrides both env var and config file ---
	t.Run("flag overrides env var and config", func(t *testing.T) {
		t.Setenv("TEXTGEN_MODEL_NAME", "llama3.2:1b")
		t.Setenv("TEXTGEN_PLAYGROUND_ADDRESS", "0.0.0.0:8080")

		flags := newTestFlagSet()
		require.NoError(t, flags.Parse([]string{"--model", "gpt2"}))

		cfg, err := LoadAndValidate(flags)

		require.NoError(t, err)
		assert.Equal(t, "gpt2", cfg.Model.Name)                 // Overridden by flag
		assert.Equal(t, "0.0.0.0:8080", cfg.Playground.Address) // From env var (flag not set)
	})

	t.Run("greedy flag disables sampling", func(t *testing.T) {
		flags := newTestFlagSet()
		require.NoError(t, flags.Parse([]string{"--greedy"}))

		cfg, err := LoadAndValidate(flags)
		require.NoError(t, err)
		assert.False(t, cfg.Generation.DoSample)
	})

	t.Run("config file merges over defaults", func(t *testing.T) {
		content := []byte(`
generation:
  max_length: 20
bot:
  session_ttl: 1h
`)
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, content, 0o600))

		flags := newTestFlagSet()
		require.NoError(t, flags.Parse([]string{"--config", path}))

		cfg, err := LoadAndValidate(flags)
		require.NoError(t, err)
		assert.Equal(t, 20, cfg.Generation.MaxLength)
		assert.Equal(t, 0.85, cfg.Generation.Temperature)
		assert.Equal(t, time.Hour, cfg.Bot.SessionTTL)
	})

	t.Run("missing config file", func(t *testing.T) {
		flags := newTestFlagSet()
		require.NoError(t, flags.Parse([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml")}))

		_, err := LoadAndValidate(flags)
		require.Error(t, err)
	})

	t.Run("validation fails for non positive temperature", func(t *testing.T) {
		flags := newTestFlagSet()
		require.NoError(t, flags.Parse([]string{"--temperature=-1"}))

		_, err := LoadAndValidate(flags)
		require.ErrorIs(t, err, generate.ErrInvalidOptions)
	})

	t.Run("validation fails for nan temperature", func(t *testing.T) {
		flags := newTestFlagSet()
		require.NoError(t, flags.Parse([]string{"--temperature", "NaN"}))

		_, err := LoadAndValidate(flags)
		require.ErrorIs(t, err, generate.ErrInvalidOptions)
	})

	t.Run("validation fails for unknown provider", func(t *testing.T) {
		flags := newTestFlagSet()
		require.NoError(t, flags.Parse([]string{"--provider", "transformers"}))

		_, err := LoadAndValidate(flags)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown model provider")
	})
}

func TestConfig_Redacted(t *testing.T) {
	cfg := Config{
		Model: Model{ApiKey: "secret"},
		Bot:   Bot{Token: "token"},
	}
	r := cfg.Redacted()
	assert.Equal(t, "<redacted>", r.Model.ApiKey)
	assert.Equal(t, "<redacted>", r.Bot.Token)
	assert.Equal(t, "secret", cfg.Model.ApiKey)
}

func TestGeneration_Options(t *testing.T) {
	opts, err := Generation{MaxLength: 10, NumReturnSequences: 2, Temperature: 0.7, Seed: 1, DoSample: true}.Options()
	require.NoError(t, err)
	assert.Equal(t, generate.Options{MaxLength: 10, NumReturnSequences: 2, Temperature: 0.7, Seed: 1, DoSample: true}, opts)

	_, err = Generation{MaxLength: 10, NumReturnSequences: 2, DoSample: false}.Options()
	require.ErrorIs(t, err, generate.ErrInvalidOptions)
}
