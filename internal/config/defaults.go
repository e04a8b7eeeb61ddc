package config

const (
	defaultConfigPath        = "~/.config/av3atool/config.toml"
	defaultStateDir          = "~/.local/share/av3atool"
	defaultLogDir            = "~/.local/share/av3atool/logs"
	defaultFFmpegBinary      = "ffmpeg"
	defaultFFmpegAV3ABinary  = "ffmpeg_av3a"
	defaultDecoderBinary     = "av3a_decoder"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultHistoryEnabled    = true
	defaultHistoryMaxEntries = 500
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		History: History{
			Enabled:    defaultHistoryEnabled,
			MaxEntries: defaultHistoryMaxEntries,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
