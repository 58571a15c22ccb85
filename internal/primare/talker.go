package primare

import (
	"fmt"

	"primarectl/internal/protocol"
)

// Transport is the byte-level exchange primitive the engine drives. The
// production implementation is serialport.Port; tests use scripted fakes.
type Transport interface {
	Exchange(request []byte) ([]byte, error)
	Close() error
}

// Talker translates typed operations into amplifier round-trips. Each
// operation is one blocking write-then-read exchange; the amplifier's
// acknowledged value is always the one returned, never the requested value
// echoed back.
type Talker struct {
	transport Transport
	scale     Scale
}

// NewTalker wires the engine onto a transport. The scale decides how host
// levels map onto the amplifier's native volume steps; use DefaultScale
// outside of tests.
func NewTalker(transport Transport, scale Scale) *Talker {
	return &Talker{transport: transport, scale: scale}
}

// Close releases the underlying transport.
func (t *Talker) Close() error {
	return t.transport.Close()
}

// roundTrip sends cmd and decodes the reply, enforcing that the reply
// structurally corresponds to the command. Transport failures pass through
// unchanged; there is no retry at this layer.
func (t *Talker) roundTrip(cmd protocol.Command) (protocol.Reply, error) {
	raw, err := t.transport.Exchange(cmd.Encode())
	if err != nil {
		return protocol.Reply{}, err
	}
	reply, err := protocol.DecodeReply(raw)
	if err != nil {
		return protocol.Reply{}, err
	}
	if err := reply.Matches(cmd); err != nil {
		return protocol.Reply{}, err
	}
	return reply, nil
}

// GetVolume queries the amplifier and returns the level in normalized form.
func (t *Talker) GetVolume() (int, error) {
	reply, err := t.roundTrip(protocol.GetVolume())
	if err != nil {
		return 0, err
	}
	native, err := reply.Volume()
	if err != nil {
		return 0, err
	}
	return t.scale.ToNormalized(native), nil
}

// SetVolume sets a normalized 0..100 level and returns the amplifier's
// acknowledged level in normalized form. The device may clamp; the
// acknowledged value is authoritative.
func (t *Talker) SetVolume(normalized int) (int, error) {
	if normalized < 0 || normalized > 100 {
		return 0, fmt.Errorf("%w: normalized volume %d outside 0..100",
			protocol.ErrInvalidArgument, normalized)
	}
	cmd, err := protocol.SetVolume(t.scale.ToNative(normalized))
	if err != nil {
		return 0, err
	}
	reply, err := t.roundTrip(cmd)
	if err != nil {
		return 0, err
	}
	native, err := reply.Volume()
	if err != nil {
		return 0, err
	}
	return t.scale.ToNormalized(native), nil
}

// VolumeUp steps the level one native unit up and returns the acknowledged
// level in normalized form.
func (t *Talker) VolumeUp() (int, error) {
	return t.volumeStep(protocol.VolumeUp())
}

// VolumeDown steps the level one native unit down.
func (t *Talker) VolumeDown() (int, error) {
	return t.volumeStep(protocol.VolumeDown())
}

func (t *Talker) volumeStep(cmd protocol.Command) (int, error) {
	reply, err := t.roundTrip(cmd)
	if err != nil {
		return 0, err
	}
	native, err := reply.Volume()
	if err != nil {
		return 0, err
	}
	return t.scale.ToNormalized(native), nil
}

// GetMute queries the mute state.
func (t *Talker) GetMute() (bool, error) {
	reply, err := t.roundTrip(protocol.GetMute())
	if err != nil {
		return false, err
	}
	return reply.Mute()
}

// SetMute mutes or unmutes and returns the acknowledged state. Mute is
// orthogonal to volume: the amplifier keeps the level across mute cycles
// and so does this engine.
func (t *Talker) SetMute(on bool) (bool, error) {
	reply, err := t.roundTrip(protocol.SetMute(on))
	if err != nil {
		return false, err
	}
	return reply.Mute()
}

// MuteToggle flips the mute state and returns the new state.
func (t *Talker) MuteToggle() (bool, error) {
	reply, err := t.roundTrip(protocol.MuteToggle())
	if err != nil {
		return false, err
	}
	return reply.Mute()
}

// GetSource queries the selected input as a two-digit id.
func (t *Talker) GetSource() (string, error) {
	reply, err := t.roundTrip(protocol.GetSource())
	if err != nil {
		return "", err
	}
	return reply.Source()
}

// SetSource selects the input "01".."07" and returns the acknowledged id.
// Invalid ids fail before any transport write.
func (t *Talker) SetSource(id string) (string, error) {
	cmd, err := protocol.SetSource(id)
	if err != nil {
		return "", err
	}
	reply, err := t.roundTrip(cmd)
	if err != nil {
		return "", err
	}
	return reply.Source()
}

// PowerOn brings the amplifier out of standby. A device in deep standby may
// let the first exchange time out before the link is up; the caller decides
// whether to try again.
func (t *Talker) PowerOn() error {
	_, err := t.roundTrip(protocol.PowerOn())
	return err
}

// PowerOff puts the amplifier into standby.
func (t *Talker) PowerOff() error {
	_, err := t.roundTrip(protocol.PowerOff())
	return err
}

// PowerToggle flips the power state and reports whether the amplifier ended
// up on.
func (t *Talker) PowerToggle() (bool, error) {
	reply, err := t.roundTrip(protocol.PowerToggle())
	if err != nil {
		return false, err
	}
	return reply.Power()
}

// SetVerbose enables or disables command acknowledgements. Must be on
// before any other operation can see replies; the mixer applies it once at
// startup.
func (t *Talker) SetVerbose(on bool) error {
	_, err := t.roundTrip(protocol.SetVerbose(on))
	return err
}

// Manufacturer reads the device's manufacturer string.
func (t *Talker) Manufacturer() (string, error) {
	return t.textQuery(protocol.GetManufacturer())
}

// ModelName reads the device's model string.
func (t *Talker) ModelName() (string, error) {
	return t.textQuery(protocol.GetModelName())
}

// SWVersion reads the device's firmware version string.
func (t *Talker) SWVersion() (string, error) {
	return t.textQuery(protocol.GetSWVersion())
}

// CurrentInputName reads the display name of the selected input.
func (t *Talker) CurrentInputName() (string, error) {
	return t.textQuery(protocol.GetInputName())
}

func (t *Talker) textQuery(cmd protocol.Command) (string, error) {
	reply, err := t.roundTrip(cmd)
	if err != nil {
		return "", err
	}
	return reply.Text()
}
