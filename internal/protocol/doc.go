// Package protocol owns the Primare RS-232 wire contract.
//
// Ownership boundary:
// - frame encode/decode primitives (STX/DLE/ETX, DLE doubling)
// - the typed command set and argument validation
// - reply decoding and value-domain checks
//
// The package knows nothing about serial ports; it maps typed commands to
// byte frames and byte frames back to typed replies.
package protocol
