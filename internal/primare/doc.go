// Package primare is the protocol engine for Primare I22/I32 amplifiers.
//
// Ownership boundary:
// - typed operations (volume, mute, source, power, device info)
// - normalized<->native volume scaling
// - reply-to-command correspondence and error surfacing
//
// The engine holds no cached amplifier state: every getter re-queries the
// device, so the host never observes stale values after a front-panel
// change. Transport failures are surfaced unchanged and never retried here;
// retry and degradation policy belongs to the caller.
package primare
