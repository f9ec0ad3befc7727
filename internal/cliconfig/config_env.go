package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (IRKEYS_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("pin", os.Getenv("IRKEYS_PIN"), &cfg.Pin)
	s.setString("log-level", os.Getenv("IRKEYS_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setIntFromString("queue-size", os.Getenv("IRKEYS_QUEUE_SIZE"), &cfg.QueueSize); err != nil {
		return err
	}
	if err := s.setDuration("quiet-window", os.Getenv("IRKEYS_QUIET_WINDOW"), &cfg.QuietWindow); err != nil {
		return err
	}
	if err := s.setIntFromString("tolerance", os.Getenv("IRKEYS_TOLERANCE"), &cfg.Timing.Tolerance); err != nil {
		return err
	}
	if err := s.setIntFromString("address-bits", os.Getenv("IRKEYS_ADDRESS_BITS"), &cfg.Timing.AddressBits); err != nil {
		return err
	}
	return nil
}
