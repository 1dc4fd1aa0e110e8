package grpcserver

import "time"

const (
	defaultProbeInterval = 10 * time.Second
	defaultProbeTimeout  = 2 * time.Second
)

type Config struct {
	Bind          string `yaml:"bind"`
	Port          uint16 `yaml:"port"`
	ProbeInterval int64  `yaml:"probe_interval_in_ms"`
	ProbeTimeout  int64  `yaml:"probe_timeout_in_ms"`
}

// Interval is the probe period, falling back to a default when unset.
func (c Config) Interval() time.Duration {
	if c.ProbeInterval <= 0 {
		return defaultProbeInterval
	}

	return time.Duration(c.ProbeInterval) * time.Millisecond
}

func (c Config) Timeout() time.Duration {
	if c.ProbeTimeout <= 0 {
		return defaultProbeTimeout
	}

	return time.Duration(c.ProbeTimeout) * time.Millisecond
}
