// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "clubadmin",
	Short: "ClubAdmin is a multi-club administration API",
	Long: `ClubAdmin is a JSON web API for service clubs that manages members,
mandates, committees, budgets, events, galas, meetings and documents.`,
	Args: cobra.OnlyValidArgs,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the configuration directory")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
