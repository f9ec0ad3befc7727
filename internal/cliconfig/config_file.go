package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/sparques/irkeys"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Pin         string            `toml:"pin"`
	LogLevel    string            `toml:"log_level"`
	QueueSize   int               `toml:"queue_size"`
	QuietWindow string            `toml:"quiet_window"`
	Timing      FileTiming        `toml:"timing"`
	Keymap      map[string]string `toml:"keymap"`
}

// FileTiming is the [timing] table.
type FileTiming struct {
	HeaderMark  string `toml:"header_mark"`
	HeaderSpace string `toml:"header_space"`
	RepeatSpace string `toml:"repeat_space"`
	BitMark     string `toml:"bit_mark"`
	ZeroSpace   string `toml:"zero_space"`
	OneSpace    string `toml:"one_space"`
	Tolerance   int    `toml:"tolerance"`
	TickRate    int    `toml:"tick_rate"`
	AddressBits *int   `toml:"address_bits"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.irkeys/config.toml, or "" without a home directory.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".irkeys", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map). A [keymap]
// table replaces the whole default keymap.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("pin", fc.Pin, &cfg.Pin)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setInt("queue-size", fc.QueueSize, &cfg.QueueSize)
	if err := s.setDuration("quiet-window", fc.QuietWindow, &cfg.QuietWindow); err != nil {
		return err
	}

	t := &cfg.Timing
	for _, d := range []struct {
		flag, value string
		dst         *time.Duration
	}{
		{"header-mark", fc.Timing.HeaderMark, &t.HeaderMark},
		{"header-space", fc.Timing.HeaderSpace, &t.HeaderSpace},
		{"repeat-space", fc.Timing.RepeatSpace, &t.RepeatSpace},
		{"bit-mark", fc.Timing.BitMark, &t.BitMark},
		{"zero-space", fc.Timing.ZeroSpace, &t.ZeroSpace},
		{"one-space", fc.Timing.OneSpace, &t.OneSpace},
	} {
		if err := s.setDuration(d.flag, d.value, d.dst); err != nil {
			return err
		}
	}
	s.setInt("tolerance", fc.Timing.Tolerance, &t.Tolerance)
	if fc.Timing.TickRate > 0 && !changed["tick-rate"] {
		t.TickRate = uint32(fc.Timing.TickRate)
	}
	s.setIntPtr("address-bits", fc.Timing.AddressBits, &t.AddressBits)

	if len(fc.Keymap) > 0 {
		km, err := ParseKeymap(fc.Keymap)
		if err != nil {
			return err
		}
		cfg.Keymap = km
	}
	return nil
}

// ParseKeymap converts a code -> key name table. Codes may be decimal or
// 0x-prefixed hex.
func ParseKeymap(m map[string]string) (irkeys.Keymap, error) {
	km := make(irkeys.Keymap, len(m))
	for code, name := range m {
		c, err := strconv.ParseUint(code, 0, 8)
		if err != nil {
			return nil, fmt.Errorf("keymap code %q: %w", code, err)
		}
		k, err := irkeys.ParseKey(name)
		if err != nil {
			return nil, fmt.Errorf("keymap code %q: %w", code, err)
		}
		km[uint8(c)] = k
	}
	return km, nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
