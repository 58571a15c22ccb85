package serialport

import (
	"time"

	"github.com/tarm/serial"
)

// Primare amplifiers speak 4800 baud, 8 data bits, no parity, 1 stop bit.
// The 2s window is what the I22 needs to acknowledge a command; shorter
// windows lose confirmations.
const (
	DefaultBaud    = 4800
	DefaultTimeout = 2 * time.Second
)

// Endpoint describes one serial device. It is immutable after construction
// and owned by the Port opened from it for the port's whole lifetime.
type Endpoint struct {
	Path    string
	Baud    int
	Parity  serial.Parity
	Timeout time.Duration
}

// DefaultEndpoint returns an Endpoint for path with the amplifier's fixed
// link settings.
func DefaultEndpoint(path string) Endpoint {
	return Endpoint{
		Path:    path,
		Baud:    DefaultBaud,
		Parity:  serial.ParityNone,
		Timeout: DefaultTimeout,
	}
}

func (e Endpoint) withDefaults() Endpoint {
	if e.Baud == 0 {
		e.Baud = DefaultBaud
	}
	if e.Parity == 0 {
		e.Parity = serial.ParityNone
	}
	if e.Timeout == 0 {
		e.Timeout = DefaultTimeout
	}
	return e
}
