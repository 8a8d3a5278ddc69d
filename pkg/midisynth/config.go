// ABOUTME: Synthesis context configuration
// ABOUTME: Defines Config, its defaults, and the error kinds surfaced by the decoder
package midisynth

import (
	"errors"

	"github.com/Sendspin/sendspin-midi/pkg/synth"
	"github.com/Sendspin/sendspin-midi/pkg/vio"
)

const (
	// DefaultSoundfontName is the logical resource name of the soundfont
	DefaultSoundfontName = "easyrpg.soundfont"

	// DefaultSampleRate matches the playback pipeline's MIDI rate
	DefaultSampleRate = 44100
)

var (
	// ErrInitialization reports that settings or soundfont setup failed.
	// It is latched until the process restarts.
	ErrInitialization = errors.New("synthesis context initialization failed")

	// ErrNotInitialized reports a decoder created before a successful Initialize
	ErrNotInitialized = errors.New("synthesis context not initialized")

	// ErrPrivateSynth reports that a private synth could not be created; the
	// affected decoder is silent
	ErrPrivateSynth = errors.New("private synth creation failed")

	// ErrInstancesAlive reports teardown while decoders are still live
	ErrInstancesAlive = errors.New("decoders still alive")

	// ErrContextClosed reports use of a context after Close
	ErrContextClosed = errors.New("synthesis context closed")

	// ErrFillFailed is returned by Decoder readers when FillBuffer fails
	ErrFillFailed = errors.New("buffer fill failed")
)

// Config holds synthesis context configuration
type Config struct {
	// Engine creates synths (required)
	Engine synth.Engine

	// Provider opens the soundfont resource (required)
	Provider vio.Provider

	// SoundfontName is the logical name passed to Provider (default: easyrpg.soundfont)
	SoundfontName string

	// SampleRate is the output rate in Hz (default: 44100)
	SampleRate int

	// Gain overrides the synth gain. Zero means unset and selects the
	// default 0.6; a silent synth cannot be configured.
	Gain float32

	// Polyphony overrides the voice cap. Zero means unset and selects the
	// default 256.
	Polyphony int

	// OnError receives non-fatal diagnostics such as inert decoders
	OnError func(error)
}

// DefaultConfig returns a config with every optional field filled in
func DefaultConfig() Config {
	defaults := synth.DefaultSettings(DefaultSampleRate)
	return Config{
		SoundfontName: DefaultSoundfontName,
		SampleRate:    DefaultSampleRate,
		Gain:          defaults.Gain,
		Polyphony:     defaults.Polyphony,
	}
}

// withDefaults fills zero fields from DefaultConfig
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SoundfontName == "" {
		c.SoundfontName = d.SoundfontName
	}
	if c.SampleRate == 0 {
		c.SampleRate = d.SampleRate
	}
	if c.Gain == 0 {
		c.Gain = d.Gain
	}
	if c.Polyphony == 0 {
		c.Polyphony = d.Polyphony
	}
	return c
}

// settings builds the immutable synth settings for this config
func (c Config) settings() synth.Settings {
	s := synth.DefaultSettings(c.SampleRate)
	s.Gain = c.Gain
	s.Polyphony = c.Polyphony
	return s
}
