// ABOUTME: Synthesis engine interfaces and settings
// ABOUTME: Common interface for all synthesizer backends
package synth

import (
	"errors"
	"io"
)

var (
	// ErrLoad reports that the engine rejected a soundfont
	ErrLoad = errors.New("could not load soundfont")

	// ErrWrite reports that the engine failed to produce samples
	ErrWrite = errors.New("synth write failed")

	// ErrUnsupported reports a setting the engine cannot honor
	ErrUnsupported = errors.New("unsupported synth setting")
)

// Interpolation selects the sample interpolation method
type Interpolation int

const (
	InterpolationNone Interpolation = iota
	InterpolationLinear
	InterpolationCubic
	InterpolationSinc
)

func (i Interpolation) String() string {
	switch i {
	case InterpolationNone:
		return "none"
	case InterpolationLinear:
		return "linear"
	case InterpolationCubic:
		return "4th-order"
	case InterpolationSinc:
		return "7th-order"
	default:
		return "unknown"
	}
}

// Timing sources for sequenced playback
const (
	TimingSample = "sample"
	TimingSystem = "system"
)

// Settings is the configuration shared by every synth of one context
type Settings struct {
	SampleRate    int
	Gain          float32
	Polyphony     int
	TimingSource  string
	ReverbActive  bool
	ChorusActive  bool
	Interpolation Interpolation
	BlockSize     int
	LockMemory    bool
}

// DefaultSettings returns the fixed decoder configuration at the given rate
func DefaultSettings(sampleRate int) Settings {
	return Settings{
		SampleRate:    sampleRate,
		Gain:          0.6,
		Polyphony:     256,
		TimingSource:  TimingSample,
		ReverbActive:  false,
		ChorusActive:  false,
		Interpolation: InterpolationLinear,
		BlockSize:     64,
		LockMemory:    false,
	}
}

// Engine creates synthesizers
type Engine interface {
	// Name identifies the backend in logs
	Name() string

	// NewSynth creates a synth with no soundfont loaded
	NewSynth(settings Settings) (Synth, error)
}

// Synth is a polyphonic synthesizer bound to one Settings and one soundfont
type Synth interface {
	// LoadSoundfont parses a soundfont from r
	LoadSoundfont(r io.ReadSeeker) error

	NoteOn(channel, key, velocity int)
	NoteOff(channel, key int)
	// KeyPressure receives the full status byte, not only the channel
	KeyPressure(status, key, value int)
	ControlChange(channel, controller, value int)
	ProgramChange(channel, program int)
	ChannelPressure(channel, value int)
	// PitchBend takes a 14-bit value, 0x2000 is centered
	PitchBend(channel, value int)

	// SystemReset silences all voices and restores power-on state
	SystemReset()

	// ProgramReset restores default programs and controllers on all channels
	ProgramReset()

	// WriteS16 renders frames stereo frames into dst as interleaved
	// little-endian int16. dst must hold at least frames*4 bytes.
	WriteS16(dst []byte, frames int) error

	// Close releases the synth
	Close() error
}
