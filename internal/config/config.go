// Package config loads casetrack settings from an optional file, the
// environment, and a .env file. Command-line flags are applied on top by
// the caller.
package config

import (
	"fmt"
	"time"

	"casetrack/internal/format"
	"casetrack/internal/logging"
	"casetrack/internal/source"
	"casetrack/internal/track"
)

// Default file names, relative to the working directory.
const (
	DefaultCasesFile   = "similar.txt"
	DefaultHistoryFile = "similar_cases_history.csv"
)

// Config is the full set of casetrack settings.
type Config struct {
	Cases   string  `json:"cases" yaml:"cases" toml:"cases"`
	History string  `json:"history" yaml:"history" toml:"history"`
	Strict  bool    `json:"strict" yaml:"strict" toml:"strict"`
	Output  string  `json:"output" yaml:"output" toml:"output"`
	Log     Log     `json:"log" yaml:"log" toml:"log"`
	Track   Track   `json:"track" yaml:"track" toml:"track"`
	Browser Browser `json:"browser" yaml:"browser" toml:"browser"`
}

// Log selects the slog level and handler.
type Log struct {
	// Level is debug, info, warn or error.
	Level string `json:"level" yaml:"level" toml:"level"`
	// Format is text or json.
	Format string `json:"format" yaml:"format" toml:"format"`
}

// Track configures a tracking run.
type Track struct {
	// Delay is the pause between fetches, as a Go duration.
	Delay string `json:"delay" yaml:"delay" toml:"delay"`
	// PagesDir, when set, reads saved page text instead of starting Chrome.
	PagesDir string `json:"pages_dir,omitempty" yaml:"pages_dir,omitempty" toml:"pages_dir,omitempty"`
}

// Browser configures the headless Chrome status source.
type Browser struct {
	BaseURL    string `json:"base_url" yaml:"base_url" toml:"base_url"`
	ChromePath string `json:"chrome_path,omitempty" yaml:"chrome_path,omitempty" toml:"chrome_path,omitempty"`
	UserAgent  string `json:"user_agent,omitempty" yaml:"user_agent,omitempty" toml:"user_agent,omitempty"`
	Visible    bool   `json:"visible" yaml:"visible" toml:"visible"`
	// Wait bounds each page load.
	Wait string `json:"wait" yaml:"wait" toml:"wait"`
	// Settle is the pause between page load and reading its text.
	Settle string `json:"settle" yaml:"settle" toml:"settle"`
}

// Defaults returns the settings used when nothing is configured.
func Defaults() *Config {
	return &Config{
		Cases:   DefaultCasesFile,
		History: DefaultHistoryFile,
		Output:  format.ASCII.String(),
		Log:     Log{Level: "info", Format: "text"},
		Track:   Track{Delay: track.DefaultDelay.String()},
		Browser: Browser{
			BaseURL: source.DefaultBaseURL,
			Wait:    source.DefaultWaitTimeout.String(),
			Settle:  source.DefaultSettle.String(),
		},
	}
}

// DelayDuration parses Track.Delay.
func (c *Config) DelayDuration() (time.Duration, error) {
	return parseDuration("track.delay", c.Track.Delay)
}

// WaitDuration parses Browser.Wait.
func (c *Config) WaitDuration() (time.Duration, error) {
	return parseDuration("browser.wait", c.Browser.Wait)
}

// SettleDuration parses Browser.Settle.
func (c *Config) SettleDuration() (time.Duration, error) {
	return parseDuration("browser.settle", c.Browser.Settle)
}

// OutputMode parses Output.
func (c *Config) OutputMode() (format.Mode, error) {
	return format.ParseMode(c.Output)
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Cases == "" {
		return fmt.Errorf("cases file must not be empty")
	}
	if c.History == "" {
		return fmt.Errorf("history file must not be empty")
	}
	if _, err := c.OutputMode(); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", c.Log.Format)
	}
	for _, parse := range []func() (time.Duration, error){c.DelayDuration, c.WaitDuration, c.SettleDuration} {
		if _, err := parse(); err != nil {
			return err
		}
	}
	return nil
}

func parseDuration(name, v string) (time.Duration, error) {
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: must not be negative, got %s", name, v)
	}
	return d, nil
}
