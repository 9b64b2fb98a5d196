package cmd

import (
	"os"
	"os/signal"

	"github.com/odit-bit/textgen/textgen"
	"github.com/odit-bit/textgen/textgen/config"
	"github.com/spf13/cobra"
)

func init() {
	PlaygroundCMD.Flags().AddFlagSet(config.FlagSet)
}

var PlaygroundCMD = cobra.Command{
	Use:   "playground",
	Short: "serve the web playground",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		cfg, shutdown, err := setup(ctx, cmd.Flags())
		defer flush(shutdown)
		if err != nil {
			return err
		}

		g, err := textgen.New(ctx, cfg)
		if err != nil {
			return err
		}

		srv := textgen.NewPlayground(g, cfg.Playground, cfg.Debug)
		return srv.Start(ctx)
	},
}
