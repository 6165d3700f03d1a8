package config

const (
	defaultConfigPath          = "~/.config/plexorcist/config.toml"
	defaultPlexHost            = "http://127.0.0.1"
	defaultPlexPort            = 32400
	defaultRequestTimeout      = 10
	defaultOlderThan           = "0"
	defaultPushbulletURL       = "https://api.pushbullet.com/v2/pushes"
	defaultLogDir              = "~/.local/share/plexorcist/logs"
	defaultDataDir             = "~/.local/share/plexorcist"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultLogMaxSizeMB        = 2
	defaultLogMaxBackups       = 3
	defaultLogMaxAgeDays       = 60
	defaultMessageWhitelisted  = "{0} is whitelisted!"
	defaultMessageRemoved      = "{0} watched videos were removed, reclaiming {1} GB!"
	defaultMessageNoVideos     = "No videos to delete!"
	defaultMessageNotification = "Notification sent!"
	defaultMessageIFTTTError   = "{0} notification endpoint is not set correctly!"
	logFileName                = "plexorcist.log"
	historyFileName            = "history.db"
	lockFileName               = "plexorcist.lock"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Plex: Plex{
			Host:           defaultPlexHost,
			Port:           defaultPlexPort,
			RequestTimeout: defaultRequestTimeout,
		},
		Cleanup: Cleanup{
			OlderThan: defaultOlderThan,
		},
		Notifications: Notifications{
			PushbulletURL:  defaultPushbulletURL,
			RequestTimeout: defaultRequestTimeout,
		},
		Paths: Paths{
			LogDir:  defaultLogDir,
			DataDir: defaultDataDir,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
		},
		Messages: DefaultMessages(),
	}
}

// DefaultMessages returns the English message templates.
func DefaultMessages() Messages {
	return Messages{
		Whitelisted:  defaultMessageWhitelisted,
		Removed:      defaultMessageRemoved,
		NoVideos:     defaultMessageNoVideos,
		Notification: defaultMessageNotification,
		IFTTTError:   defaultMessageIFTTTError,
	}
}
