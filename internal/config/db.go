package config

// Supported gorm engines.
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	GormEngine string `mapstructure:"gormEngine" toml:"gormEngine"`
	Host       string `mapstructure:"host"       toml:"host"`
	Port       int    `mapstructure:"port"       toml:"port"`
	User       string `mapstructure:"user"       toml:"user"`
	Password   string `mapstructure:"password"   toml:"password"`
	Name       string `mapstructure:"name"       toml:"name"`
	Extras     string `mapstructure:"extras"     toml:"extras"`
	Path       string `mapstructure:"path"       toml:"path"` // sqlite file, ":memory:" allowed
}
