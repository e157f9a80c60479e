package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/odit-bit/chatreply/config"
	"github.com/odit-bit/chatreply/generate"
	"github.com/odit-bit/chatreply/responder"
	"github.com/odit-bit/chatreply/server"
	"github.com/odit-bit/chatreply/telegram"
	"github.com/spf13/cobra"
	tele "gopkg.in/telebot.v4"
)

func init() {
	ChatCMD.Flags().AddFlagSet(config.NewFlagSet("chat"))
	ChatCMD.Flags().Bool("always", false, "skip the reply decision")
}

// ChatCMD runs the decision and generation for lines read from stdin, the
// reply is printed instead of being sent.
var ChatCMD = cobra.Command{
	Use:   "chat",
	Short: "dry run replies from stdin",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd.Flags())
		if err != nil {
			return err
		}
		always, _ := cmd.Flags().GetBool("always")

		gen, err := server.NewGenerator(*cfg)
		if err != nil {
			return err
		}

		var username string
		if cfg.Bot.Token != "" {
			bot, err := telegram.NewClient(telegram.Config{Token: cfg.Bot.Token, APIURL: cfg.Bot.APIURL, Timeout: cfg.Bot.Timeout})
			if err != nil {
				return err
			}
			if me := bot.Identity(); me != nil {
				username = me.Username
			}
		}

		return chat(cmd.Context(), os.Stdin, cmd.OutOrStdout(), gen, username, always)
	},
}

func chat(ctx context.Context, in io.Reader, out io.Writer, gen server.Replier, username string, always bool) error {
	scanner := bufio.NewScanner(in)
	scanner.Split(bufio.ScanLines)
	for scanner.Scan() {
		input := scanner.Text()
		switch input {
		case "":
			continue
		case "/exit":
			return nil
		}

		msg := &tele.Message{Text: input}
		if !always && !responder.ShouldRespond(msg, username) {
			fmt.Fprintf(out, ">skip\n\n")
			continue
		}

		res := gen.Reply(ctx, input)
		if res.Outcome == generate.Replied {
			fmt.Fprintf(out, ">%s: %s\n\n", res.Provider, res.Text)
		} else {
			fmt.Fprintf(out, ">%s: %s\n\n", res.Outcome, res.Text)
		}
	}
	return scanner.Err()
}
