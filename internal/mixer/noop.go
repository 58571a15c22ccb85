package mixer

import (
	"fmt"
	"sync"

	"primarectl/internal/protocol"
)

// Noop is the software fallback used when the amplifier cannot be opened.
// It validates arguments like the real mixer and remembers what it was told,
// but touches no hardware.
type Noop struct {
	mu     sync.Mutex
	volume int
	mute   bool
	source string
}

// NewNoop returns a software mixer seeded from startup, so the host sees
// the same initial state it configured.
func NewNoop(startup StartupState) *Noop {
	n := &Noop{source: "01"}
	if startup.Source != "" {
		n.source = startup.Source
	}
	if startup.Volume != nil {
		n.volume = *startup.Volume
	}
	return n
}

func (n *Noop) GetVolume() (int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.volume, nil
}

func (n *Noop) SetVolume(v int) (int, error) {
	if v < 0 || v > 100 {
		return 0, fmt.Errorf("%w: normalized volume %d outside 0..100", protocol.ErrInvalidArgument, v)
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.volume = v
	return v, nil
}

func (n *Noop) GetMute() (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.mute, nil
}

func (n *Noop) SetMute(on bool) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.mute = on
	return on, nil
}

func (n *Noop) GetSource() (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.source, nil
}

func (n *Noop) SetSource(id string) (string, error) {
	if _, err := protocol.ParseSource(id); err != nil {
		return "", err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.source = id
	return id, nil
}

func (n *Noop) Close() error { return nil }
