package protocol

import (
	"fmt"
	"strconv"
)

// Variable identifies an amplifier state variable. Absolute writes set the
// high bit on the wire (volume set = 0x83); the reply always carries the
// base variable.
type Variable byte

const (
	VarPower        Variable = 0x01
	VarInput        Variable = 0x02
	VarVolume       Variable = 0x03
	VarMute         Variable = 0x09
	VarVerbose      Variable = 0x0D
	VarInputName    Variable = 0x14
	VarManufacturer Variable = 0x15
	VarModelName    Variable = 0x16
	VarSWVersion    Variable = 0x17
)

// absoluteBit marks a write as an absolute set rather than a relative step.
const absoluteBit byte = 0x80

// Relative step arguments on the base variable.
const (
	stepUp   byte = 0x01
	stepDown byte = 0xFF
)

// VolumeLevels is the number of native volume steps the amplifier supports.
// Primare amplifiers have 79 levels; native volume is 0..VolumeLevels.
const VolumeLevels = 79

// Source identifiers are the two-digit codes "01".."07".
const (
	SourceMin = 1
	SourceMax = 7
)

// Command is one request to the amplifier. Commands are built by the
// constructors below and never mutated; constructors validate argument
// domains so an out-of-range value fails before any I/O.
type Command struct {
	Kind     byte // CmdWrite or CmdRead
	Variable Variable
	Absolute bool // write with the absolute-set bit
	Value    []byte
}

// Encode renders the command as a complete wire frame.
func (c Command) Encode() []byte {
	wireVar := byte(c.Variable)
	if c.Absolute {
		wireVar |= absoluteBit
	}
	body := make([]byte, 0, 2+len(c.Value))
	body = append(body, c.Kind, wireVar)
	body = append(body, c.Value...)
	return encodeFrame(body)
}

func read(v Variable) Command {
	return Command{Kind: CmdRead, Variable: v, Value: []byte{0x00}}
}

func writeAbs(v Variable, value byte) Command {
	return Command{Kind: CmdWrite, Variable: v, Absolute: true, Value: []byte{value}}
}

func writeRel(v Variable, arg byte) Command {
	return Command{Kind: CmdWrite, Variable: v, Value: []byte{arg}}
}

func GetVolume() Command { return read(VarVolume) }

// SetVolume requests an absolute native volume level.
func SetVolume(native int) (Command, error) {
	if native < 0 || native > VolumeLevels {
		return Command{}, fmt.Errorf("%w: native volume %d outside 0..%d",
			ErrInvalidArgument, native, VolumeLevels)
	}
	return writeAbs(VarVolume, byte(native)), nil
}

func VolumeUp() Command   { return writeRel(VarVolume, stepUp) }
func VolumeDown() Command { return writeRel(VarVolume, stepDown) }

func GetMute() Command { return read(VarMute) }

func SetMute(on bool) Command {
	if on {
		return writeAbs(VarMute, 0x01)
	}
	return writeAbs(VarMute, 0x00)
}

func MuteToggle() Command { return writeRel(VarMute, 0x00) }

func GetSource() Command { return read(VarInput) }

// SetSource selects the input identified by a two-digit code "01".."07".
func SetSource(id string) (Command, error) {
	code, err := ParseSource(id)
	if err != nil {
		return Command{}, err
	}
	return writeAbs(VarInput, code), nil
}

func PowerOn() Command     { return writeAbs(VarPower, 0x01) }
func PowerOff() Command    { return writeAbs(VarPower, 0x00) }
func PowerToggle() Command { return writeRel(VarPower, 0x00) }

// SetVerbose enables or disables command acknowledgements. The amplifier
// sends no replies until verbose mode is on.
func SetVerbose(on bool) Command {
	if on {
		return writeAbs(VarVerbose, 0x01)
	}
	return writeAbs(VarVerbose, 0x00)
}

func GetManufacturer() Command { return read(VarManufacturer) }
func GetModelName() Command    { return read(VarModelName) }
func GetSWVersion() Command    { return read(VarSWVersion) }
func GetInputName() Command    { return read(VarInputName) }

// ParseSource validates a two-digit source id and returns its wire code.
func ParseSource(id string) (byte, error) {
	if len(id) != 2 || id[0] < '0' || id[0] > '9' || id[1] < '0' || id[1] > '9' {
		return 0, fmt.Errorf("%w: source id %q is not two digits", ErrInvalidArgument, id)
	}
	n, err := strconv.Atoi(id)
	if err != nil || n < SourceMin || n > SourceMax {
		return 0, fmt.Errorf("%w: source id %q outside %02d..%02d",
			ErrInvalidArgument, id, SourceMin, SourceMax)
	}
	return byte(n), nil
}

// FormatSource renders a wire source code as the two-digit id form.
func FormatSource(code byte) string {
	return fmt.Sprintf("%02d", code)
}
