package cliconfig

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/sparques/irkeys"
	"github.com/sparques/irkeys/nec"
)

// Config holds CLI configuration for irkeys.
type Config struct {
	Pin       string
	LogLevel  string
	QueueSize int

	Timing      nec.Timing
	QuietWindow time.Duration
	Keymap      irkeys.Keymap
}

// DefaultConfig returns a Config with default values. The timing is the
// extended NEC layout used by the reference remote.
func DefaultConfig() Config {
	return Config{
		Pin:         "GPIO17",
		LogLevel:    "info",
		QueueSize:   8,
		Timing:      nec.NEC16Timing(),
		QuietWindow: irkeys.DefaultQuietWindow,
		Keymap:      irkeys.DefaultKeymap(),
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.QueueSize <= 0 {
		return fmt.Errorf("queue size must be positive")
	}
	if c.QuietWindow < 0 {
		return fmt.Errorf("quiet window must not be negative")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if err := c.Timing.Validate(); err != nil {
		return err
	}
	return c.Keymap.Validate()
}

// configSetter applies configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setIntPtr is setInt for values where zero is meaningful.
func (s *configSetter) setIntPtr(flag string, value *int, dst *int) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = n
	return nil
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}
