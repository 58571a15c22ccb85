package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument reports a caller value outside the amplifier's
	// documented domain. It is raised before any bytes reach the wire.
	ErrInvalidArgument = errors.New("protocol: invalid argument")

	// ErrProtocolViolation reports a reply that carries a value the
	// firmware documentation does not allow, does not correspond to the
	// command that produced it, or does not decode as a frame at all.
	ErrProtocolViolation = errors.New("protocol: protocol violation")

	// Frame-decode failures are protocol violations: the device answered,
	// but with bytes that do not form a well-formed frame.
	ErrShortFrame  = fmt.Errorf("%w: short frame", ErrProtocolViolation)
	ErrBadFraming  = fmt.Errorf("%w: bad framing", ErrProtocolViolation)
	ErrBadEscaping = fmt.Errorf("%w: unpaired DLE in frame body", ErrProtocolViolation)
)
