package main

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cactusbot",
	Short: "Cactusbot - Personal Assistant Bot",
	Long: `Cactusbot is a self-hosted personal assistant that schedules
reminders and timers from natural-language chat messages and answers
everything else through an LLM persona.`,
	Version: Version,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
}
