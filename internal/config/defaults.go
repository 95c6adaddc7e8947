package config

const (
	defaultStateDir          = "~/.local/share/chapterize"
	defaultLogDir            = "~/.local/share/chapterize/logs"
	defaultFFmpegBinary      = "ffmpeg"
	defaultFFprobeBinary     = "ffprobe"
	defaultMethod            = "metadata"
	defaultOpeningCreditsMax = 60
	defaultMinChapterLength  = 180
	defaultSilenceThreshold  = -40.0
	defaultMinSilence        = 2.0
	defaultSpeechEndpoint    = "https://api.openai.com/v1"
	defaultSpeechModel       = "whisper-1"
	defaultSpeechInterval    = 30
	defaultSpeechWindow      = 10
	defaultSpeechTimeout     = 30
	defaultExportFormat      = "mp3"
	defaultExportBitrate     = "128k"
	defaultExportJobs        = 1
	defaultNotifyTimeout     = 10
	defaultWatchSettle       = 5
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Tools: Tools{
			FFmpeg:  defaultFFmpegBinary,
			FFprobe: defaultFFprobeBinary,
		},
		Resolver: Resolver{
			Method:            defaultMethod,
			OpeningCreditsMax: defaultOpeningCreditsMax,
			MinChapterLength:  defaultMinChapterLength,
		},
		Silence: Silence{
			ThresholdDB: defaultSilenceThreshold,
			MinSilence:  defaultMinSilence,
		},
		Speech: Speech{
			Endpoint:       defaultSpeechEndpoint,
			Model:          defaultSpeechModel,
			Interval:       defaultSpeechInterval,
			Window:         defaultSpeechWindow,
			RequestTimeout: defaultSpeechTimeout,
		},
		Export: Export{
			Format:     defaultExportFormat,
			Bitrate:    defaultExportBitrate,
			Jobs:       defaultExportJobs,
			TagOutputs: true,
		},
		History: History{
			Enabled: true,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Watch: Watch{
			SettleSeconds: defaultWatchSettle,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
