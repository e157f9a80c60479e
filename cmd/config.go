package cmd

import (
	"github.com/odit-bit/chatreply/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func init() {
	ConfigCMD.Flags().AddFlagSet(config.NewFlagSet("config"))
}

// ConfigCMD prints the effective configuration with credentials masked.
var ConfigCMD = cobra.Command{
	Use:   "config",
	Short: "print the effective configuration",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate(cmd.Flags())
		if err != nil {
			return err
		}

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(cfg.Redacted())
	},
}
