package config

import (
	"time"

	"github.com/caarlos0/env/v6"

	"mwosd/multiwii"
)

// Config is read from the environment. Command line flags
// override these values.
type Config struct {
	Port         string        `env:"MWOSD_PORT"`
	TCPPorts     []string      `env:"MWOSD_TCP_PORTS" envSeparator:","`
	BaudRate     int           `env:"MWOSD_BAUD_RATE" envDefault:"115200"`
	Timeout      time.Duration `env:"MWOSD_TIMEOUT" envDefault:"1s"`
	Poll         []string      `env:"MWOSD_POLL" envSeparator:"," envDefault:"name,attitude,raw-gps,altitude,battery-state,osd-config"`
	PollInterval time.Duration `env:"MWOSD_POLL_INTERVAL" envDefault:"100ms"`
	MQTT         string        `env:"MWOSD_MQTT"`
	Debug        bool          `env:"MWOSD_DEBUG"`
	Trace        bool          `env:"MWOSD_TRACE"`
}

// Load reads the configuration from the process environment
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFrom reads the configuration from the given variables
// instead of the process environment
func LoadFrom(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg, env.Options{Environment: environ}); err != nil {
		return nil, err
	}
	return cfg, nil
}

// PollCommands parses the names in Poll
func (c *Config) PollCommands() ([]multiwii.Command, error) {
	cmds := make([]multiwii.Command, 0, len(c.Poll))
	for _, name := range c.Poll {
		if name == "" {
			continue
		}
		cmd, err := multiwii.ParseCommand(name)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}
