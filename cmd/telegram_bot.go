package cmd

import (
	"os"
	"os/signal"

	"github.com/odit-bit/textgen/textgen"
	"github.com/odit-bit/textgen/textgen/bot"
	"github.com/odit-bit/textgen/textgen/config"
	"github.com/spf13/cobra"
)

func init() {
	TeleCMD.Flags().AddFlagSet(config.FlagSet)
}

var TeleCMD = cobra.Command{
	Use:   "bot",
	Short: "serve generation over a telegram bot",
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

		return bot.Run(ctx, cfg.Bot, g, g.Defaults())
	},
}
