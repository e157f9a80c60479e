package main

import (
	"os"

	"github.com/odit-bit/chatreply/cmd"
	"github.com/spf13/cobra"
)

func main() {
	rootCMD := cobra.Command{
		Use:          "chatreply",
		Short:        "telegram group responder",
		SilenceUsage: true,
	}
	rootCMD.AddCommand(
		&cmd.ServerCMD,
		&cmd.ChatCMD,
		&cmd.WebhookCMD,
		&cmd.ChatsCMD,
		&cmd.ConfigCMD,
	)
	if err := rootCMD.Execute(); err != nil {
		os.Exit(1)
	}
}
