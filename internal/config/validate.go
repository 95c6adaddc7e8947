package config

import (
	"errors"
	"fmt"
	"regexp"
)

var validMethods = map[string]struct{}{
	"metadata": {},
	"silence":  {},
	"speech":   {},
	"json":     {},
}

var validFormats = map[string]struct{}{
	"mp3": {},
	"m4a": {},
	"m4b": {},
	"wav": {},
}

var bitratePattern = regexp.MustCompile(`^[0-9]+k$`)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateResolver(); err != nil {
		return err
	}
	if err := c.validateSilence(); err != nil {
		return err
	}
	if err := c.validateSpeech(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateResolver() error {
	if _, ok := validMethods[c.Resolver.Method]; !ok {
		return fmt.Errorf("resolver.method must be one of metadata, silence, speech, json (got %q)", c.Resolver.Method)
	}
	if c.Resolver.MinChapterLength <= 0 {
		return errors.New("resolver.min_chapter_length must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateSilence() error {
	if c.Silence.ThresholdDB >= 0 {
		return errors.New("silence.threshold_db must be negative (dBFS)")
	}
	if c.Silence.MinSilence <= 0 {
		return errors.New("silence.min_silence must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateSpeech() error {
	if err := ensurePositiveMap(map[string]int{
		"speech.interval":        c.Speech.Interval,
		"speech.window":          c.Speech.Window,
		"speech.request_timeout": c.Speech.RequestTimeout,
	}); err != nil {
		return err
	}
	if c.Speech.Window > c.Speech.Interval {
		return errors.New("speech.window must not exceed speech.interval")
	}
	return nil
}

func (c *Config) validateExport() error {
	if _, ok := validFormats[c.Export.Format]; !ok {
		return fmt.Errorf("export.format must be one of mp3, m4a, m4b, wav (got %q)", c.Export.Format)
	}
	if !bitratePattern.MatchString(c.Export.Bitrate) {
		return fmt.Errorf("export.bitrate must look like 128k (got %q)", c.Export.Bitrate)
	}
	if c.Export.Jobs <= 0 {
		return errors.New("export.jobs must be positive")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive (seconds)")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
