package cliconfig

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sparques/irkeys"
	"github.com/sparques/irkeys/nec"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 16, cfg.Timing.AddressBits)
	require.Equal(t, irkeys.DefaultQuietWindow, cfg.QuietWindow)
	require.Len(t, cfg.Keymap, 12)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero queue", func(c *Config) { c.QueueSize = 0 }},
		{"negative window", func(c *Config) { c.QuietWindow = -time.Second }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"bad timing", func(c *Config) { c.Timing.Tolerance = 0 }},
		{"bad keymap", func(c *Config) { c.Keymap = irkeys.Keymap{1: irkeys.Key('z')} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestBadTimingIsInvalidTiming(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timing.AddressBits = 3
	require.ErrorIs(t, cfg.Validate(), nec.ErrInvalidTiming)
}
