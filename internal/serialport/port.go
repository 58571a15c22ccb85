package serialport

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tarm/serial"
)

var (
	// ErrDeviceUnavailable reports that the device path could not be opened
	// (missing, permissions, already in use). Fatal to mixer initialization.
	ErrDeviceUnavailable = errors.New("serialport: device unavailable")

	// ErrTimeout reports that no complete frame arrived within the
	// endpoint's window. The wire state is indeterminate afterwards; the
	// next exchange starts fresh.
	ErrTimeout = errors.New("serialport: exchange timed out")

	// ErrIO reports a lower-level read/write failure. The port marks its
	// handle broken and the next exchange attempts a reopen.
	ErrIO = errors.New("serialport: i/o failure")

	ErrClosed = errors.New("serialport: port closed")
)

// pollInterval bounds a single device read so the exchange deadline is
// checked often enough to never overshoot the window by more than one poll.
// Kept at 100ms: the serial layer rounds read timeouts down to tenths of a
// second, and anything below that would block forever.
const pollInterval = 100 * time.Millisecond

// Port owns one serial device and provides the write-then-read exchange
// primitive. A mutex serializes exchanges: the amplifier is half-duplex and
// interleaved writes would corrupt frames on the wire.
type Port struct {
	endpoint Endpoint
	complete func([]byte) bool

	mu     sync.Mutex
	dev    io.ReadWriteCloser
	broken bool
	closed bool

	// openDevice is swapped out by tests to avoid real hardware.
	openDevice func(Endpoint) (io.ReadWriteCloser, error)
}

// Open opens and configures the device described by ep. The complete
// predicate decides when the accumulated reply bytes form a full frame; the
// port itself carries no protocol knowledge beyond it.
func Open(ep Endpoint, complete func([]byte) bool) (*Port, error) {
	p := &Port{
		endpoint:   ep.withDefaults(),
		complete:   complete,
		openDevice: openSerial,
	}
	dev, err := p.openDevice(p.endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrDeviceUnavailable, p.endpoint.Path, err)
	}
	p.dev = dev
	log.Info().Str("path", p.endpoint.Path).Int("baud", p.endpoint.Baud).
		Dur("timeout", p.endpoint.Timeout).Msg("serialport: opened")
	return p, nil
}

func openSerial(ep Endpoint) (io.ReadWriteCloser, error) {
	return serial.OpenPort(&serial.Config{
		Name:        ep.Path,
		Baud:        ep.Baud,
		Parity:      ep.Parity,
		ReadTimeout: pollInterval,
	})
}

// Exchange writes request as one atomic unit and reads until the complete
// predicate accepts the accumulated bytes or the endpoint window elapses.
// Only one exchange is ever in flight on a port.
func (p *Port) Exchange(request []byte) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrClosed
	}
	if p.broken || p.dev == nil {
		if err := p.reopen(); err != nil {
			return nil, err
		}
	}

	log.Debug().Str("tx", hex.EncodeToString(request)).Msg("serialport: write")
	if _, err := p.dev.Write(request); err != nil {
		p.broken = true
		return nil, fmt.Errorf("%w: write: %v", ErrIO, err)
	}

	deadline := time.Now().Add(p.endpoint.Timeout)
	buf := make([]byte, 0, 64)
	chunk := make([]byte, 1)
	for {
		if time.Now().After(deadline) {
			log.Debug().Str("rx", hex.EncodeToString(buf)).Msg("serialport: timeout")
			return nil, fmt.Errorf("%w: after %v", ErrTimeout, p.endpoint.Timeout)
		}
		n, err := p.dev.Read(chunk)
		if err != nil && err != io.EOF {
			p.broken = true
			return nil, fmt.Errorf("%w: read: %v", ErrIO, err)
		}
		if n == 0 {
			continue
		}
		buf = append(buf, chunk[:n]...)
		if p.complete(buf) {
			log.Debug().Str("rx", hex.EncodeToString(buf)).Msg("serialport: read")
			return buf, nil
		}
	}
}

// reopen replaces a handle invalidated by an I/O failure. Called with the
// mutex held.
func (p *Port) reopen() error {
	if p.dev != nil {
		_ = p.dev.Close()
		p.dev = nil
	}
	dev, err := p.openDevice(p.endpoint)
	if err != nil {
		return fmt.Errorf("%w: reopen %s: %v", ErrIO, p.endpoint.Path, err)
	}
	p.dev = dev
	p.broken = false
	log.Info().Str("path", p.endpoint.Path).Msg("serialport: reopened")
	return nil
}

// Close releases the device. Safe to call more than once.
func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	if p.dev == nil {
		return nil
	}
	err := p.dev.Close()
	p.dev = nil
	if err != nil {
		return fmt.Errorf("%w: close: %v", ErrIO, err)
	}
	return nil
}
