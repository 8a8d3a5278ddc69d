// ABOUTME: go-meltysynth synthesis engine
// ABOUTME: Adapts meltysynth.Synthesizer to the synth.Synth interface
package melty

import (
	"fmt"
	"io"
	"log"

	"github.com/Sendspin/sendspin-midi/pkg/audio"
	"github.com/Sendspin/sendspin-midi/pkg/synth"
	"github.com/ezmidi/go-meltysynth/meltysynth"
)

// MIDI command bytes understood by meltysynth
const (
	cmdKeyPressure     = 0xA0
	cmdControlChange   = 0xB0
	cmdProgramChange   = 0xC0
	cmdChannelPressure = 0xD0
	cmdPitchBend       = 0xE0
)

// Engine creates meltysynth-backed synths
type Engine struct{}

// New creates a meltysynth engine
func New() *Engine {
	return &Engine{}
}

// Name identifies the backend
func (e *Engine) Name() string { return "meltysynth" }

// NewSynth validates settings and returns an unloaded synth
func (e *Engine) NewSynth(settings synth.Settings) (synth.Synth, error) {
	if settings.Interpolation != synth.InterpolationLinear {
		return nil, fmt.Errorf("meltysynth interpolation %s: %w", settings.Interpolation, synth.ErrUnsupported)
	}
	if settings.SampleRate <= 0 {
		return nil, fmt.Errorf("sample rate %d: %w", settings.SampleRate, synth.ErrUnsupported)
	}

	return &Synth{settings: settings}, nil
}

// synthesizer is the part of meltysynth.Synthesizer the adapter drives
type synthesizer interface {
	NoteOn(channel, key, velocity int32)
	NoteOff(channel, key int32)
	ProcessMidiMessage(channel, command, data1, data2 int32)
	Render(left, right []float32)
	Reset()
}

// Synth wraps one meltysynth synthesizer
type Synth struct {
	settings    synth.Settings
	synthesizer synthesizer
	left        []float32
	right       []float32
}

// LoadSoundfont parses the soundfont and creates the synthesizer
func (s *Synth) LoadSoundfont(r io.ReadSeeker) error {
	sf, err := meltysynth.NewSoundFont(r)
	if err != nil {
		return fmt.Errorf("%w: %v", synth.ErrLoad, err)
	}

	msSettings := meltysynth.NewSynthesizerSettings(int32(s.settings.SampleRate))
	if s.settings.BlockSize > 0 {
		msSettings.BlockSize = int32(s.settings.BlockSize)
	}
	msSettings.MaximumPolyphony = int32(s.settings.Polyphony)
	msSettings.EnableReverbAndChorus = s.settings.ReverbActive || s.settings.ChorusActive

	ms, err := meltysynth.NewSynthesizer(sf, msSettings)
	if err != nil {
		return fmt.Errorf("%w: %v", synth.ErrLoad, err)
	}
	ms.MasterVolume = s.settings.Gain

	s.synthesizer = ms
	return nil
}

func (s *Synth) NoteOn(channel, key, velocity int) {
	if s.synthesizer == nil {
		return
	}
	s.synthesizer.NoteOn(int32(channel), int32(key), int32(velocity))
}

func (s *Synth) NoteOff(channel, key int) {
	if s.synthesizer == nil {
		return
	}
	s.synthesizer.NoteOff(int32(channel), int32(key))
}

func (s *Synth) KeyPressure(status, key, value int) {
	s.process(status&0x0F, cmdKeyPressure, key, value)
}

func (s *Synth) ControlChange(channel, controller, value int) {
	s.process(channel, cmdControlChange, controller, value)
}

func (s *Synth) ProgramChange(channel, program int) {
	s.process(channel, cmdProgramChange, program, 0)
}

func (s *Synth) ChannelPressure(channel, value int) {
	s.process(channel, cmdChannelPressure, value, 0)
}

func (s *Synth) PitchBend(channel, value int) {
	s.process(channel, cmdPitchBend, value&0x7F, (value>>7)&0x7F)
}

func (s *Synth) SystemReset() {
	if s.synthesizer == nil {
		return
	}
	s.synthesizer.Reset()
}

// ProgramReset restores default programs and controllers. meltysynth only
// offers a full reset, which also releases sounding voices.
func (s *Synth) ProgramReset() {
	s.SystemReset()
}

// WriteS16 renders frames into dst, recovering engine panics as ErrWrite
func (s *Synth) WriteS16(dst []byte, frames int) (err error) {
	if s.synthesizer == nil {
		return fmt.Errorf("no soundfont loaded: %w", synth.ErrWrite)
	}
	if frames < 0 || len(dst) < frames*audio.FrameBytes {
		return fmt.Errorf("buffer holds %d bytes, need %d: %w", len(dst), frames*audio.FrameBytes, synth.ErrWrite)
	}
	if frames == 0 {
		return nil
	}

	if cap(s.left) < frames {
		s.left = make([]float32, frames)
		s.right = make([]float32, frames)
	}
	left, right := s.left[:frames], s.right[:frames]

	defer func() {
		if r := recover(); r != nil {
			log.Printf("meltysynth: panic in Render: %v", r)
			err = fmt.Errorf("panic in render: %v: %w", r, synth.ErrWrite)
		}
	}()
	s.synthesizer.Render(left, right)

	audio.InterleaveInt16(dst, left, right)
	return nil
}

// Close drops the synthesizer; meltysynth holds no native resources
func (s *Synth) Close() error {
	s.synthesizer = nil
	s.left, s.right = nil, nil
	return nil
}

func (s *Synth) process(channel, command, data1, data2 int) {
	if s.synthesizer == nil {
		return
	}
	s.synthesizer.ProcessMidiMessage(int32(channel), int32(command), int32(data1), int32(data2))
}
