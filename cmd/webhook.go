package cmd

import (
	"fmt"

	"github.com/odit-bit/chatreply/config"
	"github.com/odit-bit/chatreply/telegram"
	"github.com/spf13/cobra"
)

func init() {
	WebhookSetCMD.Flags().AddFlagSet(config.NewFlagSet("webhook-set"))
	WebhookDeleteCMD.Flags().AddFlagSet(config.NewFlagSet("webhook-delete"))
	WebhookDeleteCMD.Flags().Bool("drop", false, "drop pending updates")
	ChatsCMD.Flags().AddFlagSet(config.NewFlagSet("chats"))

	WebhookCMD.AddCommand(&WebhookSetCMD, &WebhookDeleteCMD)
}

var WebhookCMD = cobra.Command{
	Use:   "webhook",
	Short: "manage the telegram webhook registration",
}

var WebhookSetCMD = cobra.Command{
	Use:   "set url",
	Short: "deliver updates to url",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bot, err := botClient(cmd)
		if err != nil {
			return err
		}
		if err := bot.SetWebhook(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "webhook set: %s\n", args[0])
		return nil
	},
}

var WebhookDeleteCMD = cobra.Command{
	Use:   "delete",
	Short: "remove the webhook",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		bot, err := botClient(cmd)
		if err != nil {
			return err
		}
		drop, _ := cmd.Flags().GetBool("drop")
		if err := bot.RemoveWebhook(drop); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "webhook removed")
		return nil
	},
}

// ChatsCMD helps finding the chat id to configure. It only works while no
// webhook is set.
var ChatsCMD = cobra.Command{
	Use:   "chats",
	Short: "list chats from pending updates",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		bot, err := botClient(cmd)
		if err != nil {
			return err
		}
		chats, err := bot.Chats()
		if err != nil {
			return err
		}
		if len(chats) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no chats, send a message to the bot first")
			return nil
		}
		for _, ch := range chats {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", ch.ID, ch.Type, ch.Title)
		}
		return nil
	},
}

func botClient(cmd *cobra.Command) (*telegram.Client, error) {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return nil, err
	}
	if cfg.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}
	return telegram.NewClient(telegram.Config{
		Token:   cfg.Bot.Token,
		APIURL:  cfg.Bot.APIURL,
		Timeout: cfg.Bot.Timeout,
	})
}
