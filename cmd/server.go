package cmd

import (
	"log/slog"
	"os"
	"os/signal"

	"github.com/odit-bit/chatreply/config"
	"github.com/odit-bit/chatreply/server"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func init() {
	ServerCMD.Flags().AddFlagSet(config.NewFlagSet("server"))
}

var ServerCMD = cobra.Command{
	Use:   "server",
	Short: "serve the telegram webhook",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		cfg, err := loadConfig(cmd.Flags())
		if err != nil {
			return err
		}

		s, err := server.New(ctx, *cfg)
		if err != nil {
			return err
		}
		return s.Run(ctx)
	},
}

// loadConfig loads the configuration and installs the logger it describes.
func loadConfig(flags *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.LoadAndValidate(flags)
	if err != nil {
		return nil, err
	}
	if err := setupLogger(cfg.Log, cfg.Server.Debug); err != nil {
		return nil, err
	}
	slog.Debug("configuration", "config", cfg.Redacted())
	return cfg, nil
}
