// Package config loads and validates the primarectl TOML configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"primarectl/internal/protocol"
	"primarectl/internal/serialport"
)

// DefaultPort is the conventional first USB-serial adapter on Linux.
const DefaultPort = "/dev/ttyUSB0"

// Duration accepts "2s"-style strings in TOML.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Config is the full configuration file shape.
type Config struct {
	Primare Primare `toml:"primare"`
}

// Primare configures the serial link and the optional startup state.
// Absent source/volume mean the amplifier state is left alone at startup.
type Primare struct {
	Port    string   `toml:"port"`
	Baud    int      `toml:"baud"`
	Timeout Duration `toml:"timeout"`
	Source  string   `toml:"source"`
	Volume  *int     `toml:"volume"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Primare: Primare{
			Port:    DefaultPort,
			Baud:    serialport.DefaultBaud,
			Timeout: Duration(serialport.DefaultTimeout),
		},
	}
}

// Load reads path, fills in defaults, and validates.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	cfg.applyDefaults()
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Primare.Port) == "" {
		c.Primare.Port = DefaultPort
	}
	if c.Primare.Baud == 0 {
		c.Primare.Baud = serialport.DefaultBaud
	}
	if c.Primare.Timeout == 0 {
		c.Primare.Timeout = Duration(serialport.DefaultTimeout)
	}
}

// Validate rejects out-of-domain values before they reach the device layer.
func Validate(cfg Config) error {
	p := cfg.Primare
	if strings.TrimSpace(p.Port) == "" {
		return fmt.Errorf("config missing port")
	}
	if p.Baud <= 0 {
		return fmt.Errorf("config baud %d invalid", p.Baud)
	}
	if p.Timeout <= 0 {
		return fmt.Errorf("config timeout %v invalid", time.Duration(p.Timeout))
	}
	if p.Source != "" {
		if _, err := protocol.ParseSource(p.Source); err != nil {
			return fmt.Errorf("config source invalid: %w", err)
		}
	}
	if p.Volume != nil && (*p.Volume < 0 || *p.Volume > 100) {
		return fmt.Errorf("config volume %d outside 0..100", *p.Volume)
	}
	return nil
}

// Endpoint maps the configuration onto a serial endpoint.
func (c Config) Endpoint() serialport.Endpoint {
	ep := serialport.DefaultEndpoint(c.Primare.Port)
	ep.Baud = c.Primare.Baud
	ep.Timeout = time.Duration(c.Primare.Timeout)
	return ep
}
