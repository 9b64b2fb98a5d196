package config

import "github.com/spf13/pflag"

const (
	FLAG_MODEL_PROVIDER = "provider"
	FLAG_MODEL_NAME     = "model"
	FLAG_MODEL_ENDPOINT = "endpoint"
	FLAG_MODEL_KEY      = "apikey"

	FLAG_GEN_MAX_LENGTH = "max-length"
	FLAG_GEN_NUM_SEQ    = "num-return-sequences"
	FLAG_GEN_TEMP       = "temperature"
	FLAG_GEN_SEED       = "seed"
	FLAG_GEN_GREEDY     = "greedy"

	FLAG_PLAYGROUND_ADDRESS = "addr"
	FLAG_DEBUG              = "debug"
	FLAG_CONFIG_FILE        = "config"

	FLAG_OBSERVE_ENABLE = "observe"
)

// Defined set of flags for textgen configuration use.
var FlagSet = pflag.NewFlagSet("Textgen_Flags", pflag.PanicOnError)

var flagToConfigKeyMap = map[string]string{
	FLAG_MODEL_PROVIDER: "model.provider",
	FLAG_MODEL_NAME:     "model.name",
	FLAG_MODEL_ENDPOINT: "model.endpoint",
	FLAG_MODEL_KEY:      "model.apikey",

	FLAG_GEN_MAX_LENGTH: "generation.max_length",
	FLAG_GEN_NUM_SEQ:    "generation.num_return_sequences",
	FLAG_GEN_TEMP:       "generation.temperature",
	FLAG_GEN_SEED:       "generation.seed",

	FLAG_PLAYGROUND_ADDRESS: "playground.address",
	FLAG_DEBUG:              "debug",

	FLAG_OBSERVE_ENABLE: "observability.enable",
}

func init() {
	DefineFlags(FlagSet)
}

// DefineFlags registers every configuration flag on flags.
func DefineFlags(flags *pflag.FlagSet) {
	// model
	flags.String(FLAG_MODEL_PROVIDER, "", "model runtime (ollama, genai)")
	flags.String(FLAG_MODEL_NAME, "", "pretrained checkpoint name")
	flags.String(FLAG_MODEL_ENDPOINT, "", "model runtime endpoint")
	flags.String(FLAG_MODEL_KEY, "", "model runtime api key")

	// generation
	flags.Int(FLAG_GEN_MAX_LENGTH, 0, "maximum number of generated tokens")
	flags.IntP(FLAG_GEN_NUM_SEQ, "n", 0, "number of returned sequences")
	flags.Float64(FLAG_GEN_TEMP, 0, "sampling temperature")
	flags.Int64(FLAG_GEN_SEED, -1, "random seed, negative is random")
	flags.Bool(FLAG_GEN_GREEDY, false, "disable sampling")

	// process
	flags.String(FLAG_PLAYGROUND_ADDRESS, "", "playground address")
	flags.Bool(FLAG_DEBUG, false, "debug log")
	flags.String(FLAG_CONFIG_FILE, "", "path to config file")

	//observe
	flags.Bool(FLAG_OBSERVE_ENABLE, false, "enable observability default false")
}
