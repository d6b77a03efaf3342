package config

import (
	"time"

	"github.com/ClubAdmin/ClubAdmin/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode      bool         `mapstructure:"devMode"      toml:"devMode"` // enable dev mode for development
	Title        string       `mapstructure:"title"        toml:"title"`
	DB           DB           `mapstructure:"db"           toml:"db"`
	Log          logger.Log   `mapstructure:"log"          toml:"log"`
	Webserver    Webserver    `mapstructure:"webserver"    toml:"webserver"`
	Auth         Auth         `mapstructure:"auth"         toml:"auth"`
	Blob         Blob         `mapstructure:"blob"         toml:"blob"`
	Notification Notification `mapstructure:"notification" toml:"notification"`
	RateLimit    RateLimit    `mapstructure:"rateLimit"    toml:"rateLimit"`
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool   `mapstructure:"disableRecover" toml:"disableRecover"` // disable recover middleware
	Port           int    `mapstructure:"port"           toml:"port"`           // listening port for the webserver
	ShutDownTime   int    `mapstructure:"shutDownTime"   toml:"shutDownTime"`   // seconds to wait on shutdown
	URL            string `mapstructure:"url"            toml:"url"`            // public base url, used for CORS
	BodyLimit      int    `mapstructure:"bodyLimit"      toml:"bodyLimit"`      // bytes, 0 = fiber default
}

// Auth holds bearer token and two factor settings.
type Auth struct {
	JWTSecret  string        `mapstructure:"jwtSecret"  toml:"jwtSecret"`
	Issuer     string        `mapstructure:"issuer"     toml:"issuer"`
	TokenTTL   time.Duration `mapstructure:"tokenTTL"   toml:"tokenTTL"`
	TOTPIssuer string        `mapstructure:"totpIssuer" toml:"totpIssuer"`

	// AdminUsername and AdminPassword seed the first administrator when no user exists.
	AdminUsername string `mapstructure:"adminUsername" toml:"adminUsername"`
	AdminPassword string `mapstructure:"adminPassword" toml:"adminPassword"`
	AdminEmail    string `mapstructure:"adminEmail"    toml:"adminEmail"`
}

// Blob configures the document store.
type Blob struct {
	Path    string `mapstructure:"path"    toml:"path"`
	MaxSize int64  `mapstructure:"maxSize" toml:"maxSize"` // bytes
}

// Notification configures the outbound email and WhatsApp gateway.
type Notification struct {
	Enabled       bool          `mapstructure:"enabled"       toml:"enabled"`
	AMQPURL       string        `mapstructure:"amqpURL"       toml:"amqpURL"`
	EmailQueue    string        `mapstructure:"emailQueue"    toml:"emailQueue"`
	WhatsAppQueue string        `mapstructure:"whatsAppQueue" toml:"whatsAppQueue"`
	Delay         time.Duration `mapstructure:"delay"         toml:"delay"` // pause between two sends
}

// RateLimit configures login throttling. Without RedisAddr an in-process limiter is used.
type RateLimit struct {
	Enabled       bool          `mapstructure:"enabled"       toml:"enabled"`
	Requests      int           `mapstructure:"requests"      toml:"requests"`
	Window        time.Duration `mapstructure:"window"        toml:"window"`
	RedisAddr     string        `mapstructure:"redisAddr"     toml:"redisAddr"`
	RedisPassword string        `mapstructure:"redisPassword" toml:"redisPassword"`
	RedisDB       int           `mapstructure:"redisDB"       toml:"redisDB"`
}
