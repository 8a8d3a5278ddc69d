// ABOUTME: Audio type definitions
// ABOUTME: Defines the PCM output format and float-to-int16 sample conversion
package audio

import (
	"encoding/binary"
	"math"
)

const (
	// 16-bit audio range constants
	MaxInt16 = 32767
	MinInt16 = -32768

	// FrameBytes is the size of one 16-bit stereo interleaved frame
	FrameBytes = 4
)

// Format describes a PCM stream format
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// StereoInt16 returns the 16-bit stereo format used for synthesized output
func StereoInt16(sampleRate int) Format {
	return Format{
		SampleRate: sampleRate,
		Channels:   2,
		BitDepth:   16,
	}
}

// BytesPerFrame returns the number of bytes in one interleaved frame
func (f Format) BytesPerFrame() int {
	return f.Channels * f.BitDepth / 8
}

// Frames returns how many whole frames fit in n bytes
func (f Format) Frames(n int) int {
	bpf := f.BytesPerFrame()
	if bpf == 0 {
		return 0
	}
	return n / bpf
}

// SampleFromFloat32 converts a normalized float sample to int16 with clipping
func SampleFromFloat32(sample float32) int16 {
	scaled := math.Round(float64(sample) * MaxInt16)
	if scaled > MaxInt16 {
		return MaxInt16
	}
	if scaled < MinInt16 {
		return MinInt16
	}
	return int16(scaled)
}

// InterleaveInt16 writes left/right float samples into dst as little-endian
// 16-bit stereo frames. It writes min(len(left), len(right), len(dst)/4) frames
// and returns the number of frames written.
func InterleaveInt16(dst []byte, left, right []float32) int {
	frames := len(dst) / FrameBytes
	if len(left) < frames {
		frames = len(left)
	}
	if len(right) < frames {
		frames = len(right)
	}

	for i := 0; i < frames; i++ {
		binary.LittleEndian.PutUint16(dst[i*4:], uint16(SampleFromFloat32(left[i])))
		binary.LittleEndian.PutUint16(dst[i*4+2:], uint16(SampleFromFloat32(right[i])))
	}

	return frames
}
