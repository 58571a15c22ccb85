package protocol

import "fmt"

// Reply is one decoded amplifier response: the base variable it reports and
// the raw value bytes that follow it.
type Reply struct {
	Variable Variable
	Value    []byte
}

// DecodeReply parses a complete reply frame as captured off the wire.
func DecodeReply(raw []byte) (Reply, error) {
	body, err := decodeFrame(raw)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Variable: Variable(body[0]), Value: body[1:]}, nil
}

// Matches verifies the reply structurally corresponds to cmd. The amplifier
// answers every command with the command's base variable; anything else
// means request and reply have desynchronized.
func (r Reply) Matches(cmd Command) error {
	if r.Variable != cmd.Variable {
		return fmt.Errorf("%w: reply variable %#02x does not match command variable %#02x",
			ErrProtocolViolation, byte(r.Variable), byte(cmd.Variable))
	}
	return nil
}

// Volume decodes a native volume level, rejecting values above the
// amplifier's documented range.
func (r Reply) Volume() (int, error) {
	if len(r.Value) != 1 {
		return 0, fmt.Errorf("%w: volume reply has %d value bytes", ErrProtocolViolation, len(r.Value))
	}
	native := int(r.Value[0])
	if native > VolumeLevels {
		return 0, fmt.Errorf("%w: native volume %d above maximum %d",
			ErrProtocolViolation, native, VolumeLevels)
	}
	return native, nil
}

// Mute decodes a mute flag; the firmware reports exactly 0x00 or 0x01.
func (r Reply) Mute() (bool, error) {
	if len(r.Value) != 1 {
		return false, fmt.Errorf("%w: mute reply has %d value bytes", ErrProtocolViolation, len(r.Value))
	}
	switch r.Value[0] {
	case 0x00:
		return false, nil
	case 0x01:
		return true, nil
	default:
		return false, fmt.Errorf("%w: mute value %#02x", ErrProtocolViolation, r.Value[0])
	}
}

// Source decodes an input selection into its two-digit id form.
func (r Reply) Source() (string, error) {
	if len(r.Value) != 1 {
		return "", fmt.Errorf("%w: source reply has %d value bytes", ErrProtocolViolation, len(r.Value))
	}
	code := r.Value[0]
	if code < SourceMin || code > SourceMax {
		return "", fmt.Errorf("%w: source code %#02x outside %02d..%02d",
			ErrProtocolViolation, code, SourceMin, SourceMax)
	}
	return FormatSource(code), nil
}

// Power decodes a power state flag.
func (r Reply) Power() (bool, error) {
	if len(r.Value) != 1 {
		return false, fmt.Errorf("%w: power reply has %d value bytes", ErrProtocolViolation, len(r.Value))
	}
	switch r.Value[0] {
	case 0x00:
		return false, nil
	case 0x01:
		return true, nil
	default:
		return false, fmt.Errorf("%w: power value %#02x", ErrProtocolViolation, r.Value[0])
	}
}

// Text decodes an ASCII information reply (manufacturer, model, SW version,
// input name).
func (r Reply) Text() (string, error) {
	if len(r.Value) == 0 {
		return "", fmt.Errorf("%w: empty text reply", ErrProtocolViolation)
	}
	for _, b := range r.Value {
		if b < 0x20 || b > 0x7E {
			return "", fmt.Errorf("%w: non-printable byte %#02x in text reply", ErrProtocolViolation, b)
		}
	}
	return string(r.Value), nil
}
