// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format and float-to-PCM sample conversion functions
// Package audio provides the PCM types shared by the synthesizer, encoders and outputs.
//
// Synthesized audio is always 16-bit stereo interleaved little-endian PCM,
// four bytes per frame. The engine renders float32 planes which are clipped
// and interleaved with InterleaveInt16.
//
// Example:
//
//	format := audio.StereoInt16(44100)
//	frames := format.Frames(len(buf)) // len(buf) / 4
//	audio.InterleaveInt16(buf, left, right)
package audio
