// ABOUTME: Pure Go synthesis engine package
// ABOUTME: Wraps go-meltysynth behind the synth.Engine interface
// Package melty implements synth.Engine with go-meltysynth.
//
// meltysynth renders float32 planes; Synth.WriteS16 interleaves them into
// 16-bit PCM. Gain maps onto the synthesizer master volume and reverb/chorus
// share a single switch.
package melty
