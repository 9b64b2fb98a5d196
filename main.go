package main

import (
	"os"

	"github.com/odit-bit/textgen/cmd"
	"github.com/spf13/cobra"
)

func main() {
	rootCMD := cobra.Command{
		Use:   "textgen",
		Short: "text generation with a pretrained language model",
	}
	rootCMD.AddCommand(
		&cmd.GenerateCMD,
		&cmd.PromptCMD,
		&cmd.PlaygroundCMD,
		&cmd.TeleCMD,
		&cmd.ConfigCMD,
	)
	if err := rootCMD.Execute(); err != nil {
		os.Exit(1)
	}
}
