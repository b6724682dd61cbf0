package config

const (
	defaultConfigPath         = "~/.config/playlisttool/config.toml"
	defaultLogDir             = "~/.local/share/playlisttool/logs"
	defaultBucketThresholdMS  = 1765000
	defaultFFprobeBinary      = "ffprobe"
	defaultProbeTimeout       = 30
	defaultProbeConcurrency   = 4
	defaultSizeDurationFactor = 0.062495
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Playlist: Playlist{
			BucketThresholdMS: defaultBucketThresholdMS,
		},
		Probe: Probe{
			TimeoutSeconds:     defaultProbeTimeout,
			Concurrency:        defaultProbeConcurrency,
			SizeDurationFactor: defaultSizeDurationFactor,
		},
		Cache: Cache{
			Enabled: true,
			Path:    defaultCachePath(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
