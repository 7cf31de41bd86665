package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lmoroni/cactusbot/internal/config"
	"github.com/lmoroni/cactusbot/internal/constants"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Validate and manage Cactusbot configuration.`,
}

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate [config-file]",
	Short: "Validate configuration file",
	Long:  `Validate the configuration file and check for errors.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configPath := constants.DefaultConfigPath
		if len(args) > 0 {
			configPath = args[0]
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			fmt.Printf(constants.MsgConfigLoadError, err)
			os.Exit(1)
		}

		if errs := cfg.Validate(); len(errs) > 0 {
			fmt.Print(constants.MsgConfigValidationError)
			for _, e := range errs {
				fmt.Printf(constants.MsgConfigValidatePrefix, e)
			}
			os.Exit(1)
		}

		fmt.Println(constants.MsgConfigValid)
	},
}

func init() {
	configCmd.AddCommand(configValidateCmd)
}
