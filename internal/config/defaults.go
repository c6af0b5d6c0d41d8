package config

const (
	defaultDownloadDir    = "~/music/incoming/soulseek"
	defaultLibraryDir     = "~/music/library"
	defaultLogDir         = "~/.local/share/dbvoir/logs"
	defaultJellyfinURL    = "http://10.0.0.8:8096"
	defaultBeetsBinary    = "beet"
	defaultImportTimeout  = 600
	defaultWatchDelay     = 30
	defaultPollInterval   = 5
	defaultNotifyTimeout  = 10
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

func defaultExtensions() []string {
	return []string{".mp3", ".flac", ".m4a", ".ogg", ".opus", ".wav", ".wma"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DownloadDir: defaultDownloadDir,
			LibraryDir:  defaultLibraryDir,
			LogDir:      defaultLogDir,
		},
		Jellyfin: Jellyfin{
			URL: defaultJellyfinURL,
		},
		Beets: Beets{
			Binary:        defaultBeetsBinary,
			ImportTimeout: defaultImportTimeout,
		},
		Watch: Watch{
			Delay:        defaultWatchDelay,
			PollInterval: defaultPollInterval,
			Extensions:   defaultExtensions(),
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
