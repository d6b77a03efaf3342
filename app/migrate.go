package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ClubAdmin/ClubAdmin/internal/config"
	"github.com/ClubAdmin/ClubAdmin/internal/daemon"
	"github.com/ClubAdmin/ClubAdmin/internal/logger"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the database schema and seed the default administrator",
	RunE: func(_ *cobra.Command, _ []string) error {
		c, err := config.ReadConfig(configPath)
		if err != nil {
			return err
		}

		if err = logger.Init(c.Log); err != nil {
			return err
		}

		if err = daemon.Migrate(&c); err != nil {
			return err
		}

		log.Info().Str("engine", c.DB.GormEngine).Msg("database migrated")

		return nil
	},
}
