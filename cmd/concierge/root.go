package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/concierge/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "concierge",
	Short: "Concierge is a conversation engine for airline customer support",
	Long: `Concierge orchestrates a team of support assistants over durable
conversation sessions: a primary assistant routes requests, specialized
assistants handle flights and hotels, and any change to a booking is
held for the passenger's explicit approval.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "concierge.yaml", "Path to the YAML configuration file")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.LoadFrom(path)
}
