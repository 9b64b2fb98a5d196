package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/odit-bit/textgen/api"
	"github.com/odit-bit/textgen/generate"
	"github.com/odit-bit/textgen/textgen"
	"github.com/odit-bit/textgen/textgen/config"
	"github.com/spf13/cobra"
)

func init() {
	PromptCMD.Flags().AddFlagSet(config.FlagSet)
	PromptCMD.Flags().String("remote", "", "send prompts to a running playground instead of loading the model")
}

type generator interface {
	Generate(ctx context.Context, prompt string, opts generate.Options) ([]string, error)
}

var PromptCMD = cobra.Command{
	Use:   "prompt",
	Short: "read prompts from the console, one per line",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		cfg, shutdown, err := setup(ctx, cmd.Flags())
		defer flush(shutdown)
		if err != nil {
			return err
		}

		opts, err := cfg.Generation.Options()
		if err != nil {
			return err
		}

		var g generator
		if remote, _ := cmd.Flags().GetString("remote"); remote != "" {
			g = api.NewClient(remote)
		} else {
			local, err := textgen.New(ctx, cfg)
			if err != nil {
				return err
			}
			g = local
		}

		return promptLoop(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), g, opts)
	},
}

// promptLoop blocks on each line until stdin closes or /exit is read.
func promptLoop(ctx context.Context, in io.Reader, out io.Writer, g generator, opts generate.Options) error {
	scanner := bufio.NewScanner(in)
	scanner.Split(bufio.ScanLines)

	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		input := scanner.Text()
		switch input {
		case "/exit":
			return nil
		case "":
			fmt.Fprint(out, "> ")
			continue
		}

		seqs, err := g.Generate(ctx, input, opts)
		if err != nil {
			fmt.Fprintf(out, ">error: %s \n", err)
			if ctx.Err() != nil {
				return ctx.Err()
			}
		} else if err := generate.Print(out, seqs); err != nil {
			return err
		}
		fmt.Fprint(out, "\n> ")
	}
	return scanner.Err()
}
