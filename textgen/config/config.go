package config

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/odit-bit/textgen/generate"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

//go:embed config.yaml
var defaultConfig embed.FS

const (
	ProviderOllama = "ollama"
	ProviderGenai  = "genai"
)

// holds aggregats configuration across textgen environment.
type Config struct {
	Model      Model         `mapstructure:"model" yaml:"model"`
	Generation Generation    `mapstructure:"generation" yaml:"generation"`
	Playground Playground    `mapstructure:"playground" yaml:"playground"`
	Bot        Bot           `mapstructure:"bot" yaml:"bot"`
	Observe    Observability `mapstructure:"observability" yaml:"observability"`
	Debug      bool          `mapstructure:"debug" yaml:"debug"`
}

// pretrained checkpoint and the runtime serving it
type Model struct {
	Provider  string        `mapstructure:"provider" yaml:"provider"`
	Name      string        `mapstructure:"name" yaml:"name"`
	Endpoint  string        `mapstructure:"endpoint" yaml:"endpoint"`
	ApiKey    string        `mapstructure:"apikey" yaml:"apikey"`
	Pull      bool          `mapstructure:"pull" yaml:"pull"`
	KeepAlive time.Duration `mapstructure:"keep_alive" yaml:"keep_alive"`
}

// default generation options
type Generation struct {
	MaxLength          int     `mapstructure:"max_length" yaml:"max_length"`
	NumReturnSequences int     `mapstructure:"num_return_sequences" yaml:"num_return_sequences"`
	Temperature        float64 `mapstructure:"temperature" yaml:"temperature"`
	Seed               int64   `mapstructure:"seed" yaml:"seed"`
	DoSample           bool    `mapstructure:"do_sample" yaml:"do_sample"`
}

type Playground struct {
	Address string `mapstructure:"address" yaml:"address"`
}

type Bot struct {
	Token       string        `mapstructure:"token" yaml:"token"`
	PollTimeout time.Duration `mapstructure:"poll_timeout" yaml:"poll_timeout"`
	SessionTTL  time.Duration `mapstructure:"session_ttl" yaml:"session_ttl"`
}

type Observability struct {
	Enable bool `mapstructure:"enable" yaml:"enable"`
	// stdout, http or prometheus
	Exporter        string `mapstructure:"exporter" yaml:"exporter"`
	TraceEndpoint   string `mapstructure:"trace_endpoint" yaml:"trace_endpoint"`
	MetricsEndpoint string `mapstructure:"metrics_endpoint" yaml:"metrics_endpoint"`
	// secure endpoint (https)
	Secure bool `mapstructure:"secure" yaml:"secure"`
}

// Options converts the configured defaults into validated generation options.
func (g Generation) Options() (generate.Options, error) {
	o := generate.Options{
		MaxLength:          g.MaxLength,
		NumReturnSequences: g.NumReturnSequences,
		Temperature:        g.Temperature,
		Seed:               g.Seed,
		DoSample:           g.DoSample,
	}
	if err := o.Validate(); err != nil {
		return generate.Options{}, err
	}
	return o, nil
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	switch c.Model.Provider {
	case ProviderOllama, ProviderGenai:
	case "":
		return errors.New("model provider is required")
	default:
		return fmt.Errorf("unknown model provider: %s", c.Model.Provider)
	}

	if c.Model.Name == "" {
		return errors.New("model name is required")
	}

	if _, err := c.Generation.Options(); err != nil {
		return err
	}

	if c.Playground.Address != "" {
		// Check if the address is a valid host:port
		if _, _, err := net.SplitHostPort(c.Playground.Address); err != nil {
			return fmt.Errorf("invalid playground address format: %w", err)
		}
	}

	return nil
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.Model.ApiKey != "" {
		c.Model.ApiKey = "<redacted>"
	}
	if c.Bot.Token != "" {
		c.Bot.Token = "<redacted>"
	}
	return c
}

// load configuration from default embedded config.yaml, provided config file, env and flags before validation.
func LoadAndValidate(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// 3. Bind env variable
	v.SetEnvPrefix("TEXTGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind Pflags flags
	for flagName, configKey := range flagToConfigKeyMap {
		f := flags.Lookup(flagName)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(configKey, f); err != nil {
			return nil, fmt.Errorf("failed to bind flags %s:%w", flagName, err)
		}
	}

	// 1. Set default value by reading from the embedded config.yaml
	defaultBytes, err := defaultConfig.ReadFile("config.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read default config: %w", err)
	}
	if err := v.ReadConfig(bytes.NewReader(defaultBytes)); err != nil {
		return nil, fmt.Errorf("failed to read default config: %w", err)
	}

	// 2.Set from external config file if provided
	configFile, _ := flags.GetString(FLAG_CONFIG_FILE)
	if configFile != "" {
		f, err := os.Open(configFile)
		if err != nil {
			return nil, fmt.Errorf("config : %w", err)
		}
		defer f.Close()
		providedBytes, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("config : %w", err)
		}
		if err := v.MergeConfig(bytes.NewReader(providedBytes)); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 5. UNmarshal
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if greedy, err := flags.GetBool(FLAG_GEN_GREEDY); err == nil && greedy {
		cfg.Generation.DoSample = false
	}

	// 6. Validate the final config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
