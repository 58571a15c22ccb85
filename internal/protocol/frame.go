package protocol

import "fmt"

// Frame special bytes, fixed by the amplifier firmware.
//
// A request is <STX> <cmd> <variable> [<value>...] <DLE> <ETX> where <cmd>
// is Write or Read. A reply is <STX> <variable> [<value>...] <DLE> <ETX>.
// Any body byte equal to DLE is doubled on the wire; the terminator DLE is
// never doubled.
const (
	STX byte = 0x02
	ETX byte = 0x03
	DLE byte = 0x10

	CmdWrite byte = 0x57 // 'W'
	CmdRead  byte = 0x52 // 'R'
)

// minFrameLen is STX + one body byte + DLE + ETX.
const minFrameLen = 4

// Complete reports whether buf ends at a frame terminator. The terminator
// is an ETX preceded by an odd run of DLEs; an even run is escaped body
// data and the frame continues.
func Complete(buf []byte) bool {
	n := len(buf)
	if n < minFrameLen || buf[n-1] != ETX {
		return false
	}
	run := 0
	for i := n - 2; i >= 1 && buf[i] == DLE; i-- {
		run++
	}
	return run%2 == 1
}

// encodeFrame wraps body in STX/DLE/ETX markers, doubling any DLE bytes.
func encodeFrame(body []byte) []byte {
	out := make([]byte, 0, len(body)+minFrameLen)
	out = append(out, STX)
	for _, b := range body {
		out = append(out, b)
		if b == DLE {
			out = append(out, DLE)
		}
	}
	return append(out, DLE, ETX)
}

// decodeFrame strips the STX/DLE/ETX markers and collapses doubled DLEs,
// returning the raw frame body.
func decodeFrame(raw []byte) ([]byte, error) {
	if len(raw) < minFrameLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrShortFrame, len(raw))
	}
	if raw[0] != STX {
		return nil, fmt.Errorf("%w: missing STX", ErrBadFraming)
	}
	if !Complete(raw) {
		return nil, fmt.Errorf("%w: missing DLE ETX terminator", ErrBadFraming)
	}

	escaped := raw[1 : len(raw)-2]
	body := make([]byte, 0, len(escaped))
	for i := 0; i < len(escaped); i++ {
		b := escaped[i]
		if b == DLE {
			i++
			if i >= len(escaped) || escaped[i] != DLE {
				return nil, ErrBadEscaping
			}
		}
		body = append(body, b)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrBadFraming)
	}
	return body, nil
}
