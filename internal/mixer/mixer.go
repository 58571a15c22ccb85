// Package mixer is the host-facing volume abstraction over the protocol
// engine: the six mixer operations, one-time startup state application, and
// a software fallback for when the amplifier cannot be reached.
package mixer

import (
	"github.com/rs/zerolog/log"
)

// Mixer is the contract the host's mixer layer calls. All six operations
// are blocking round-trips on the real implementation.
type Mixer interface {
	GetVolume() (int, error)
	SetVolume(normalized int) (int, error)
	GetMute() (bool, error)
	SetMute(on bool) (bool, error)
	GetSource() (string, error)
	SetSource(id string) (string, error)
	Close() error
}

// Engine is the amplifier-facing surface the mixer drives; implemented by
// primare.Talker.
type Engine interface {
	Mixer
	SetVerbose(on bool) error
	PowerOn() error
	Manufacturer() (string, error)
	ModelName() (string, error)
	SWVersion() (string, error)
	CurrentInputName() (string, error)
}

// StartupState is the amplifier state applied once when the mixer comes up.
// Empty source and nil volume mean "leave that state alone".
type StartupState struct {
	Source string
	Volume *int
}

// Primare drives a real amplifier through an Engine. It keeps no amplifier
// state of its own; every getter reaches the device.
type Primare struct {
	engine Engine
}

// New brings the amplifier to a known state and returns the mixer. The
// sequence mirrors what the device needs: replies on, out of standby,
// unmuted, then the optional configured source and volume.
func New(engine Engine, startup StartupState) (*Primare, error) {
	m := &Primare{engine: engine}

	if err := engine.SetVerbose(true); err != nil {
		return nil, err
	}
	if err := engine.PowerOn(); err != nil {
		return nil, err
	}
	if startup.Source != "" {
		if _, err := engine.SetSource(startup.Source); err != nil {
			return nil, err
		}
	}
	if _, err := engine.SetMute(false); err != nil {
		return nil, err
	}
	if startup.Volume != nil {
		if _, err := engine.SetVolume(*startup.Volume); err != nil {
			return nil, err
		}
	}

	m.logDeviceInfo()
	return m, nil
}

// logDeviceInfo records what we connected to. Info queries failing is not
// fatal; the control path is already proven by the startup sequence.
func (m *Primare) logDeviceInfo() {
	manufacturer, err := m.engine.Manufacturer()
	if err != nil {
		log.Warn().Err(err).Msg("mixer: device info unavailable")
		return
	}
	model, _ := m.engine.ModelName()
	version, _ := m.engine.SWVersion()
	input, _ := m.engine.CurrentInputName()
	log.Info().
		Str("manufacturer", manufacturer).
		Str("model", model).
		Str("sw_version", version).
		Str("input", input).
		Msg("mixer: connected")
}

func (m *Primare) GetVolume() (int, error)       { return m.engine.GetVolume() }
func (m *Primare) SetVolume(v int) (int, error)  { return m.engine.SetVolume(v) }
func (m *Primare) GetMute() (bool, error)        { return m.engine.GetMute() }
func (m *Primare) SetMute(on bool) (bool, error) { return m.engine.SetMute(on) }
func (m *Primare) GetSource() (string, error)    { return m.engine.GetSource() }

func (m *Primare) SetSource(id string) (string, error) {
	return m.engine.SetSource(id)
}

func (m *Primare) Close() error { return m.engine.Close() }
