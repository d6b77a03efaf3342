package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func etcDir(t *testing.T) string {
	t.Helper()

	root, err := filepath.Abs("../../")
	require.NoError(t, err)

	return filepath.Join(root, "etc") + string(filepath.Separator)
}

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(etcDir(t))
	require.NoError(t, err)

	assert.Equal(t, "ClubAdmin", cfg.Title)
	assert.Equal(t, 8080, cfg.Webserver.Port)
	assert.NotEmpty(t, cfg.Webserver.URL)
	assert.Equal(t, EngineSQLite, cfg.DB.GormEngine)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 500*time.Millisecond, cfg.Notification.Delay)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "clubadmin-api", cfg.Log.ServiceName)
	assert.Equal(t, "error.log", cfg.Log.File.Error.Name)
}

func TestReadConfigEnvOverride(t *testing.T) {
	t.Setenv("CLUBADMIN_DB_HOST", "db.internal")
	t.Setenv("CLUBADMIN_WEBSERVER_PORT", "9191")

	cfg, err := ReadConfig(etcDir(t))
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 9191, cfg.Webserver.Port)
}

func TestReadConfigWithJSONOverride(t *testing.T) {
	t.Setenv(EnvJSON, `{"Title":"Test Override","Webserver":{"Port":9090,"URL":"http://x"}}`)

	cfg, err := ReadConfig(etcDir(t))
	require.NoError(t, err)

	assert.Equal(t, "Test Override", cfg.Title)
	assert.Equal(t, 9090, cfg.Webserver.Port)
	assert.Equal(t, "ClubAdmin", cfg.Auth.TOTPIssuer)
}

func TestReadConfigMissingFile(t *testing.T) {
	_, err := ReadConfig(t.TempDir())
	require.Error(t, err)
}

func TestReadConfigBrokenJSON(t *testing.T) {
	t.Setenv(EnvJSON, `{"Title":`)

	_, err := ReadConfig(etcDir(t))
	require.Error(t, err)
}

func TestConfigValidation(t *testing.T) {
	valid := func() Config {
		return Config{
			DB:        DB{GormEngine: EngineSQLite},
			Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
			Auth:      Auth{JWTSecret: testSecret},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{name: "valid config", mutate: func(_ *Config) {}},
		{name: "missing port", mutate: func(c *Config) { c.Webserver.Port = 0 }, wantErr: ErrWebServerPortCanNotBeZero},
		{name: "missing URL", mutate: func(c *Config) { c.Webserver.URL = "" }, wantErr: ErrEmptyURL},
		{name: "short secret", mutate: func(c *Config) { c.Auth.JWTSecret = "short" }, wantErr: ErrJWTSecretTooShort},
		{name: "unknown engine", mutate: func(c *Config) { c.DB.GormEngine = "oracle" }, wantErr: ErrUnknownEngine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)

			err := validate(&c)
			if tt.wantErr == nil {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	c := Config{
		DB:        DB{GormEngine: EngineMySQL},
		Webserver: Webserver{Port: 1, URL: "u"},
		Auth:      Auth{JWTSecret: testSecret},
	}

	require.NoError(t, validate(&c))
	assert.Equal(t, 5, c.Webserver.ShutDownTime)
	assert.Equal(t, 500*time.Millisecond, c.Notification.Delay)
	assert.Equal(t, 12*time.Hour, c.Auth.TokenTTL)
	assert.EqualValues(t, 10<<20, c.Blob.MaxSize)
}

func TestDump(t *testing.T) {
	cfg := Config{Title: "Dump Test", Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"}}

	tomlStr, err := DumpConfig(&cfg)
	require.NoError(t, err)
	assert.Contains(t, tomlStr, "Dump Test")

	jsonStr, err := DumpConfigJSON(&cfg)
	require.NoError(t, err)
	assert.Contains(t, jsonStr, `"Title": "Dump Test"`)
}

func TestMain(m *testing.M) {
	os.Unsetenv(EnvJSON) //nolint:errcheck

	os.Exit(m.Run())
}
