package primare

import "primarectl/internal/protocol"

// Scale is the pure mapping between the host's normalized volume domain
// (0..100) and the amplifier's native domain (0..Levels). Both directions
// round to nearest, which keeps the mapping monotonic and bounds the
// round-trip drift of a native level to one native unit.
type Scale struct {
	Levels int
}

// DefaultScale maps against the amplifier's documented 79 native levels.
func DefaultScale() Scale {
	return Scale{Levels: protocol.VolumeLevels}
}

// ToNative converts a normalized 0..100 level to the native domain.
func (s Scale) ToNative(normalized int) int {
	return (normalized*s.Levels*2 + 100) / 200
}

// ToNormalized converts a native level back to the normalized 0..100 domain.
func (s Scale) ToNormalized(native int) int {
	return (native*200 + s.Levels) / (s.Levels * 2)
}
