// ABOUTME: Synthesis engine abstraction package
// ABOUTME: Defines Engine, Synth and the fixed Settings record shared by all synths
// Package synth defines the black-box synthesis engine used by the decoder.
//
// An Engine creates Synth instances from an immutable Settings record. A
// Synth is loaded with a soundfont once, then driven with channel events and
// asked to write 16-bit stereo PCM frames.
//
// Implementations:
//   - melty: pure Go engine backed by go-meltysynth
//   - synthtest: recording engine for tests
package synth
