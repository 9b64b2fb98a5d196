package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/odit-bit/textgen/generate"
	"github.com/odit-bit/textgen/textgen"
	"github.com/odit-bit/textgen/textgen/config"
	"github.com/spf13/cobra"
)

func init() {
	GenerateCMD.Flags().AddFlagSet(config.FlagSet)
}

var GenerateCMD = cobra.Command{
	Use:   "generate [prompt]",
	Short: "generate continuations of a prompt, read from stdin when omitted",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		prompt, err := readPrompt(args, cmd.InOrStdin())
		if err != nil {
			return err
		}

		cfg, shutdown, err := setup(ctx, cmd.Flags())
		defer flush(shutdown)
		if err != nil {
			return err
		}

		g, err := textgen.New(ctx, cfg)
		if err != nil {
			return err
		}

		seqs, err := g.Generate(ctx, prompt, g.Defaults())
		if err != nil {
			return err
		}
		return generate.Print(cmd.OutOrStdout(), seqs)
	},
}

func readPrompt(args []string, stdin io.Reader) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read prompt: %w", err)
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}
