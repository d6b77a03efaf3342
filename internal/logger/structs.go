package logger

// Console implements a console based logger.
type Console struct {
	Enabled          bool `mapstructure:"enabled"          toml:"enabled"`
	UseConsoleWriter bool `mapstructure:"useConsoleWriter" toml:"useConsoleWriter"`
}

// Rolling describes one lumberjack rotated file.
type Rolling struct {
	Name       string `mapstructure:"name"       toml:"name"`
	MaxSize    int    `mapstructure:"maxSize"    toml:"maxSize"` // megabytes
	MaxBackups int    `mapstructure:"maxBackups" toml:"maxBackups"`
	MaxAge     int    `mapstructure:"maxAge"     toml:"maxAge"` // days
}

// LogFile implements a file based logger, one rotated file per level group.
type LogFile struct {
	Enabled bool   `mapstructure:"enabled" toml:"enabled"`
	Path    string `mapstructure:"path"    toml:"path"`

	Access Rolling `mapstructure:"access" toml:"access"`
	Error  Rolling `mapstructure:"error"  toml:"error"`
	Info   Rolling `mapstructure:"info"   toml:"info"`
	Trace  Rolling `mapstructure:"trace"  toml:"trace"`
	Warn   Rolling `mapstructure:"warn"   toml:"warn"`
}

// Log implements the logger config.
type Log struct {
	LogLevel string `mapstructure:"logLevel" toml:"logLevel"` // trace, debug, info, warn, error.
	LogEnv   string `mapstructure:"logEnv"   toml:"logEnv"`

	// EnableAccessLogToConsole writes the http access log to stdout.
	// Console.Enabled must be true as well.
	EnableAccessLogToConsole bool `mapstructure:"enableAccessLogToConsole" toml:"enableAccessLogToConsole"`
	ReportCaller             bool `mapstructure:"reportCaller"             toml:"reportCaller"`
	DisableCheckAlive        bool `mapstructure:"disableCheckAlive"        toml:"disableCheckAlive"` // do not log /health calls

	// SlowQueryThreshold marks gorm queries slower than this as warnings. Zero disables it.
	SlowQueryThresholdMS int `mapstructure:"slowQueryThresholdMS" toml:"slowQueryThresholdMS"`

	AppName     string `mapstructure:"appName"     toml:"appName"`
	ServiceName string `mapstructure:"serviceName" toml:"serviceName"`

	Console Console `mapstructure:"console" toml:"console"`
	File    LogFile `mapstructure:"file"    toml:"file"`
}
