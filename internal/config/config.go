package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/sethvargo/go-envconfig"
)

//go:embed sample_config.toml
var sampleConfig string

// envPrefix namespaces every environment override, e.g.
// CHAPTERIZE_TOOLS_FFMPEG or CHAPTERIZE_EXPORT_FORMAT.
const envPrefix = "CHAPTERIZE_"

// Paths contains directory configuration.
type Paths struct {
	// OutputDir receives chapter files and manifests. When empty, output is
	// derived from the input file's location.
	OutputDir string `toml:"output_dir" env:"OUTPUT_DIR"`
	StateDir  string `toml:"state_dir" env:"STATE_DIR"`
	LogDir    string `toml:"log_dir" env:"LOG_DIR"`
}

// Tools contains the external binaries the pipeline shells out to.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg" env:"FFMPEG"`
	FFprobe string `toml:"ffprobe" env:"FFPROBE"`
}

// Resolver contains boundary-detection settings shared by all methods.
type Resolver struct {
	// Method selects the default boundary strategy: metadata, silence,
	// speech, or json.
	Method string `toml:"method" env:"METHOD"`
	// OpeningCreditsMax is the largest first-boundary offset, in seconds,
	// that is treated as opening credits and merged into chapter one.
	OpeningCreditsMax int `toml:"opening_credits_max" env:"OPENING_CREDITS_MAX"`
	// MinChapterLength is the minimum chapter duration, in seconds, enforced
	// by the silence strategy.
	MinChapterLength int `toml:"min_chapter_length" env:"MIN_CHAPTER_LENGTH"`
}

// Silence contains silencedetect tuning.
type Silence struct {
	ThresholdDB float64 `toml:"threshold_db" env:"THRESHOLD_DB"`
	// MinSilence is the minimum silence duration, in seconds, that counts as
	// a chapter break candidate.
	MinSilence float64 `toml:"min_silence" env:"MIN_SILENCE"`
}

// Speech contains speech-to-text scan settings.
type Speech struct {
	Endpoint string `toml:"endpoint" env:"ENDPOINT"`
	Model    string `toml:"model" env:"MODEL"`
	APIKey   string `toml:"api_key" env:"API_KEY"`
	// Interval is the spacing, in seconds, between scanned windows.
	Interval int `toml:"interval" env:"INTERVAL"`
	// Window is the length, in seconds, of each transcribed clip.
	Window int `toml:"window" env:"WINDOW"`
	// RequestTimeout bounds each transcription call, in seconds.
	RequestTimeout int `toml:"request_timeout" env:"REQUEST_TIMEOUT"`
}

// Export contains chapter transcode settings.
type Export struct {
	Format  string `toml:"format" env:"FORMAT"`
	Bitrate string `toml:"bitrate" env:"BITRATE"`
	Mono    bool   `toml:"mono" env:"MONO"`
	// Jobs bounds concurrent chapter exports. 1 preserves strict sequential
	// behaviour.
	Jobs int `toml:"jobs" env:"JOBS"`
	// TagOutputs stamps exported files with chapter title and track number.
	TagOutputs bool `toml:"tag_outputs" env:"TAG_OUTPUTS"`
}

// History contains run-history store settings.
type History struct {
	Enabled bool `toml:"enabled" env:"ENABLED"`
}

// Notifications contains ntfy push notification settings.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic" env:"NTFY_TOPIC"`
	RequestTimeout int    `toml:"request_timeout" env:"REQUEST_TIMEOUT"`
}

// Watch contains inbox-watching settings.
type Watch struct {
	InboxDir string `toml:"inbox_dir" env:"INBOX_DIR"`
	// SettleSeconds is how long a new file's size must stay unchanged before
	// it is picked up.
	SettleSeconds int `toml:"settle_seconds" env:"SETTLE_SECONDS"`
}

// Logging contains log output settings.
type Logging struct {
	Format string `toml:"format" env:"FORMAT"`
	Level  string `toml:"level" env:"LEVEL"`
}

// Config encapsulates all configuration values for chapterize.
//
// Configuration sections by subsystem:
//   - Paths: output, state, and log directories
//   - Tools: ffmpeg/ffprobe binary locations
//   - Resolver: default method and boundary heuristics
//   - Silence: silencedetect threshold and minimum silence length
//   - Speech: transcription endpoint and scan cadence
//   - Export: output format, bitrate, channel layout, parallelism
//   - History: run-history SQLite store
//   - Notifications: ntfy push settings
//   - Watch: inbox directory monitoring
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths" env:",prefix=PATHS_"`
	Tools         Tools         `toml:"tools" env:",prefix=TOOLS_"`
	Resolver      Resolver      `toml:"resolver" env:",prefix=RESOLVER_"`
	Silence       Silence       `toml:"silence" env:",prefix=SILENCE_"`
	Speech        Speech        `toml:"speech" env:",prefix=SPEECH_"`
	Export        Export        `toml:"export" env:",prefix=EXPORT_"`
	History       History       `toml:"history" env:",prefix=HISTORY_"`
	Notifications Notifications `toml:"notifications" env:",prefix=NOTIFY_"`
	Watch         Watch         `toml:"watch" env:",prefix=WATCH_"`
	Logging       Logging       `toml:"logging" env:",prefix=LOG_"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/chapterize/config.toml")
}

// Load locates, parses, and validates a configuration file. Environment
// variables prefixed with CHAPTERIZE_ override file values. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, "", false, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func applyEnvOverrides(cfg *Config) error {
	lookuper := envconfig.PrefixLookuper(envPrefix, envconfig.OsLookuper())
	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   cfg,
		Lookuper: lookuper,
	}); err != nil {
		return fmt.Errorf("apply environment overrides: %w", err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("chapterize.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories. The output
// directory is created lazily at export time because it may depend on the
// input file's location.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the configured ffmpeg executable.
func (c *Config) FFmpegBinary() string {
	if binary := strings.TrimSpace(c.Tools.FFmpeg); binary != "" {
		return binary
	}
	return "ffmpeg"
}

// FFprobeBinary returns the configured ffprobe executable.
func (c *Config) FFprobeBinary() string {
	if binary := strings.TrimSpace(c.Tools.FFprobe); binary != "" {
		return binary
	}
	return "ffprobe"
}

// OpeningCreditsMax returns the opening-credits merge threshold.
func (c *Config) OpeningCreditsMax() time.Duration {
	return time.Duration(c.Resolver.OpeningCreditsMax) * time.Second
}

// MinChapterLength returns the minimum chapter duration for silence detection.
func (c *Config) MinChapterLength() time.Duration {
	return time.Duration(c.Resolver.MinChapterLength) * time.Second
}

// MinSilence returns the minimum silence duration that marks a break.
func (c *Config) MinSilence() time.Duration {
	return time.Duration(c.Silence.MinSilence * float64(time.Second))
}

// SpeechInterval returns the spacing between speech scan windows.
func (c *Config) SpeechInterval() time.Duration {
	return time.Duration(c.Speech.Interval) * time.Second
}

// SpeechWindow returns the length of each transcribed clip.
func (c *Config) SpeechWindow() time.Duration {
	return time.Duration(c.Speech.Window) * time.Second
}

// SpeechRequestTimeout bounds a single transcription request.
func (c *Config) SpeechRequestTimeout() time.Duration {
	return time.Duration(c.Speech.RequestTimeout) * time.Second
}

// WatchSettle returns how long a new file must remain unchanged before the
// watcher processes it.
func (c *Config) WatchSettle() time.Duration {
	return time.Duration(c.Watch.SettleSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
