package config

const (
	defaultBaseURL           = "http://127.0.0.1:5000"
	defaultRequestTimeout    = 30
	defaultStateDir          = "~/.local/share/rationale"
	defaultLogDir            = "~/.local/share/rationale/logs"
	defaultPollIntervalMS    = 2000
	defaultManualStepDelayMS = 2000
	defaultWatchTimeout      = 3600
	defaultNotifyTimeout     = 10
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		API: API{
			BaseURL:        defaultBaseURL,
			RequestTimeout: defaultRequestTimeout,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Workflow: Workflow{
			PollIntervalMS:    defaultPollIntervalMS,
			ManualStepDelayMS: defaultManualStepDelayMS,
			WatchTimeout:      defaultWatchTimeout,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			PDFReady:       true,
			Completion:     true,
			Errors:         true,
			Bell:           true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
