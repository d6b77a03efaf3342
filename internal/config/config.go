// Package config reads etc/main.toml with environment overrides.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes environment overrides, CLUBADMIN_DB_HOST sets db.host.
	EnvPrefix = "CLUBADMIN"

	// EnvJSON holds a JSON document merged over the file and environment.
	EnvJSON = EnvPrefix + "_CONFIG_JSON"

	minJWTSecret = 32

	defaultShutDownTime = 5
	defaultDelay        = 500 * time.Millisecond
	defaultTokenTTL     = 12 * time.Hour
	defaultBlobMaxSize  = 10 << 20
)

// defaults registers every key so AutomaticEnv can override it.
func defaults(v *viper.Viper) {
	v.SetDefault("title", "ClubAdmin")
	v.SetDefault("devMode", false)

	v.SetDefault("db.gormEngine", EngineSQLite)
	v.SetDefault("db.host", "")
	v.SetDefault("db.port", 0)
	v.SetDefault("db.user", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "")
	v.SetDefault("db.extras", "")
	v.SetDefault("db.path", "clubadmin.db")

	v.SetDefault("log.logLevel", "info")
	v.SetDefault("log.appName", "clubadmin")
	v.SetDefault("log.serviceName", "clubadmin")

	v.SetDefault("webserver.port", 0)
	v.SetDefault("webserver.url", "")
	v.SetDefault("webserver.shutDownTime", defaultShutDownTime)

	v.SetDefault("auth.jwtSecret", "")
	v.SetDefault("auth.issuer", "clubadmin")
	v.SetDefault("auth.tokenTTL", defaultTokenTTL)
	v.SetDefault("auth.totpIssuer", "ClubAdmin")
	v.SetDefault("auth.adminUsername", "admin")
	v.SetDefault("auth.adminPassword", "")
	v.SetDefault("auth.adminEmail", "admin@localhost")

	v.SetDefault("blob.path", "./data/blobs")
	v.SetDefault("blob.maxSize", defaultBlobMaxSize)

	v.SetDefault("notification.enabled", false)
	v.SetDefault("notification.amqpURL", "")
	v.SetDefault("notification.emailQueue", "clubadmin.email")
	v.SetDefault("notification.whatsAppQueue", "clubadmin.whatsapp")
	v.SetDefault("notification.delay", defaultDelay)

	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.requests", 5)
	v.SetDefault("rateLimit.window", time.Minute)
	v.SetDefault("rateLimit.redisAddr", "")
	v.SetDefault("rateLimit.redisPassword", "")
	v.SetDefault("rateLimit.redisDB", 0)
}

// ReadConfig from path/main.toml, then environment, then CLUBADMIN_CONFIG_JSON.
func ReadConfig(path string) (Config, error) {
	var c Config

	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	defaults(v)

	v.SetConfigFile(filepath.Join(path, "main.toml"))
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	if env := os.Getenv(EnvJSON); env != "" {
		if err := json.Unmarshal([]byte(env), &c); err != nil {
			return Config{}, errors.Wrap(err, "failed to merge "+EnvJSON)
		}
	}

	return c, validate(&c)
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer

	if err := toml.NewEncoder(&buffer).Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer

	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings the service cannot start without and fills defaults.
func validate(c *Config) error {
	const invalid = "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalid)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalid)
	}

	if len(c.Auth.JWTSecret) < minJWTSecret {
		return errors.Wrap(ErrJWTSecretTooShort, invalid)
	}

	switch c.DB.GormEngine {
	case EngineMySQL, EnginePostgres, EngineSQLite:
	default:
		return errors.Wrap(ErrUnknownEngine, invalid)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Notification.Delay == 0 {
		c.Notification.Delay = defaultDelay
	}

	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = defaultTokenTTL
	}

	if c.Blob.MaxSize == 0 {
		c.Blob.MaxSize = defaultBlobMaxSize
	}

	return nil
}
