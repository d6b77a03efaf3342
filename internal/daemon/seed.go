package daemon

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/config"
	"github.com/ClubAdmin/ClubAdmin/internal/db/controller/user"
)

// seed creates the configured administrator when the user table is empty.
func seed(cfg *config.Config, db *gorm.DB) error {
	if cfg.Auth.AdminPassword == "" {
		log.Debug().Msg("no admin password configured, skipping seed")

		return nil
	}

	created, err := user.EnsureAdmin(db, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword, cfg.Auth.AdminEmail)
	if err != nil {
		return err
	}

	if created {
		log.Info().Str("username", cfg.Auth.AdminUsername).Msg("default administrator created")
	}

	return nil
}
