// Package daemon wires the database, the collaborators and the web service together.
package daemon

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/access"
	"github.com/ClubAdmin/ClubAdmin/internal/auth"
	"github.com/ClubAdmin/ClubAdmin/internal/blob"
	"github.com/ClubAdmin/ClubAdmin/internal/config"
	"github.com/ClubAdmin/ClubAdmin/internal/db"
	"github.com/ClubAdmin/ClubAdmin/internal/notify"
	"github.com/ClubAdmin/ClubAdmin/internal/ratelimit"
	"github.com/ClubAdmin/ClubAdmin/internal/tokenstore"
	"github.com/ClubAdmin/ClubAdmin/internal/web"
	"github.com/ClubAdmin/ClubAdmin/internal/web/handler"
)

// ErrConfigNil is returned when the daemon is created without configuration.
var ErrConfigNil = errors.New("config is nil")

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
	closers    []io.Closer
}

// Start serves until SIGINT or SIGTERM, then drains and releases the collaborators.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	err := d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))

	d.close()

	return err
}

func (d *Daemon) close() {
	for _, c := range d.closers {
		if err := c.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close resource")
		}
	}
}

// open connects to the database, migrates the schema and seeds the first administrator.
func open(cfg *config.Config) (*gorm.DB, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	gdb, err := db.Open(cfg)
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(gdb); err != nil {
		return nil, err
	}

	if err = seed(cfg, gdb); err != nil {
		return nil, err
	}

	return gdb, nil
}

// Migrate migrates the schema and seeds, then closes the connection.
func Migrate(cfg *config.Config) error {
	gdb, err := open(cfg)
	if err != nil {
		return err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql connection")
	}

	return sqlDB.Close() //nolint:wrapcheck
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	gdb, err := open(cfg)
	if err != nil {
		return nil, err
	}

	d := &Daemon{cfg: cfg}

	storage, err := tokenstore.Open(cfg, gdb)
	if err != nil {
		return nil, err
	}

	revoked, err := tokenstore.New(storage)
	if err != nil {
		return nil, err
	}

	d.closers = append(d.closers, revoked)

	sender, err := notify.Open(cfg.Notification)
	if err != nil {
		d.close()

		return nil, err
	}

	if c, ok := sender.(io.Closer); ok {
		d.closers = append(d.closers, c)
	}

	blobs, err := blob.NewFS(cfg.Blob.Path, cfg.Blob.MaxSize)
	if err != nil {
		d.close()

		return nil, err
	}

	deps := &handler.Deps{
		Auth: auth.NewService(gdb,
			auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL),
			revoked,
			cfg.Auth.TOTPIssuer),
		Gate:   access.NewGate(access.DBMemberships{DB: gdb}, access.DefaultPolicy()),
		Sender: sender,
		Blobs:  blobs,
	}

	if cfg.RateLimit.Enabled {
		deps.Limiter = ratelimit.New(cfg.RateLimit)
	}

	d.webService = web.New(cfg, gdb, deps)

	return d, nil
}
