package config

const (
	defaultWatchLogDir            = "/var/log"
	defaultFilePattern            = "messages"
	defaultFraction               = 0.1
	defaultRefreshIntervalSeconds = 60
	defaultMaxLineBytes           = 1 << 20
	defaultDataDir                = "~/.local/share/logsnap"
	defaultLogDir                 = "~/.local/share/logsnap/logs"
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	defaultLogRetentionDays       = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Watch: Watch{
			LogDir:      defaultWatchLogDir,
			FilePattern: defaultFilePattern,
		},
		Tail: Tail{
			Fraction:               defaultFraction,
			RefreshIntervalSeconds: defaultRefreshIntervalSeconds,
			MaxLineBytes:           defaultMaxLineBytes,
		},
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
